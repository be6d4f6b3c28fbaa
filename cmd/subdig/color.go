// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	enumeratingStyle = termenv.Style{}.Foreground(termenv.ANSIYellow)
	doneStyle        = termenv.Style{}.Foreground(termenv.ANSIGreen)
	addressStyle     = termenv.Style{}.Foreground(termenv.ANSICyan)
)

var (
	verifiedStyle = termenv.Style{}.Foreground(termenv.ANSIGreen)
	invalidStyle  = termenv.Style{}.Foreground(termenv.ANSIRed)
)

var domainNameStyle = termenv.Style{}.Bold()
