// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/thediveo/lxkns/log"
	_ "github.com/thediveo/lxkns/log/logrus" // lxkns logging via logrus
)

// setupLogging configures leveled logging to stderr without timestamps. The
// live display would get garbled by informational messages, so these are then
// suppressed unless debugging.
func setupLogging(debug bool, live bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	switch {
	case debug:
		log.SetLevel(log.DebugLevel)
		log.Debugf("debug logging enabled")
	case live:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}
