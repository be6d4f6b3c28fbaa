// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Quality indicates the "quality" of a network address, that is, whether it
// has been verified as reachable.
type Quality int

// The validation qualities of a network address. Unverified is the zero value
// and thus omitted from JSON reports.
const (
	Unverified Quality = iota // address not verified (not requested).
	Invalid                   // address could not be successfully verified.
	Verified                  // address successfully verified.
)

// String returns the clear-text representation of a Quality value.
func (q Quality) String() string {
	switch q {
	case Unverified:
		return "unverified"
	case Verified:
		return "verified"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("Quality(%d)", q)
}

// MarshalText returns the clear-text representation of q.
func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText sets q from its clear-text representation.
func (q *Quality) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "unverified":
		*q = Unverified
	case "verified":
		*q = Verified
	case "invalid":
		*q = Invalid
	default:
		return fmt.Errorf("invalid address quality %q", string(text))
	}
	return nil
}
