// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"os"
)

func main() {
	osExit(run())
}

// run the root command and return the process exit status. Cobra already
// prints any error, so we must not print it a second time here, see also:
// https://github.com/spf13/cobra/issues/304
func run() int {
	if err := newRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}

// For CLI unit tests...
var osExit = os.Exit
