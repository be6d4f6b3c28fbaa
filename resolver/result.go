// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import "fmt"

// Outcome classifies the outcome of a single name resolution.
type Outcome int

// The possible outcomes of resolving a name.
const (
	Resolved   Outcome = iota // at least one address.
	NotFound                  // query succeeded, but without any addresses.
	Timeout                   // no response within the query timeout.
	QueryError                // malformed name, transport or protocol error.
)

// String returns the clear-text representation of an Outcome value.
func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case NotFound:
		return "not found"
	case Timeout:
		return "timeout"
	case QueryError:
		return "query error"
	}
	return fmt.Sprintf("Outcome(%d)", o)
}

// Result of resolving a name.
type Result struct {
	Outcome Outcome
	Addrs   []string // non-empty only for Resolved
	Err     error    // details for Timeout and QueryError
}
