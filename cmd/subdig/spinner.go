// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Yet another (braille) spinner.

package main

import (
	"time"
)

var spinnerPhases = func() []string {
	phases := []string{}
	for _, r := range "⠉⠘⠰⠤⠆⠃" {
		phases = append(phases, string(r)+" ")
	}
	return phases
}()

// spinner is yet another blindingly simple spinner that derives its current
// phase from the time elapsed since it was created, so there's nothing to
// start or stop.
type spinner struct {
	start    time.Time
	interval time.Duration
}

// newSpinner returns a new spinner advancing one phase per interval.
func newSpinner(interval time.Duration) *spinner {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &spinner{
		start:    time.Now(),
		interval: interval,
	}
}

// Spinner returns the spinner string for the current phase.
func (s *spinner) Spinner() string {
	return s.phase(time.Now())
}

func (s *spinner) phase(now time.Time) string {
	step := int(now.Sub(s.start) / s.interval)
	return spinnerPhases[step%len(spinnerPhases)]
}
