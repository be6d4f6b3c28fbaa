// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/siemens/subdig/enum"

	"github.com/schollz/progressbar/v3"
)

// progressBar renders the enumeration progress as a progress bar with
// position, total, and ETA.
type progressBar struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

var _ enum.ProgressSink = (*progressBar)(nil)

// newProgressBar returns a new progress bar for the specified total number of
// candidates, rendering to w.
func newProgressBar(w io.Writer, total int) *progressBar {
	return &progressBar{
		w: w,
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("enumerating"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "#",
				SaucerPadding: "-",
				BarStart:      "[",
				BarEnd:        "]",
			})),
	}
}

// Add n processed candidates.
func (p *progressBar) Add(n int) { _ = p.bar.Add(n) }

// Finish the progress bar.
func (p *progressBar) Finish() {
	_ = p.bar.Finish()
	fmt.Fprintln(p.w)
}

// silentProgress swallows all progress updates.
type silentProgress struct{}

func (silentProgress) Add(int) {}
func (silentProgress) Finish() {}
