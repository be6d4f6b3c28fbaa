// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package enum

import (
	"sync"

	"github.com/siemens/subdig/types"
)

// SharedReport is the shared report of an enumeration in progress: the root domain
// together with the subdomains found so far. SharedReport is safe for concurrent
// use; all updates are serialized and O(1), so they never span a DNS query.
type SharedReport struct {
	mu    sync.Mutex
	root  types.RootDomain
	found int
}

// NewReport returns a new and properly initialized SharedReport for the specified
// root domain and its own addresses.
func NewReport(name string, addrs []string) *SharedReport {
	return &SharedReport{
		root: *types.NewRootDomain(name, addrs),
	}
}

// Add a newly discovered subdomain to the report.
func (r *SharedReport) Add(sub types.Subdomain) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.root.Subdomains = append(r.root.Subdomains, sub)
	r.found++
}

// Found returns the number of subdomains found so far.
func (r *SharedReport) Found() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.found
}

// Get returns a copy of the root domain information collected so far.
func (r *SharedReport) Get() types.RootDomain {
	r.mu.Lock()
	defer r.mu.Unlock()
	root := r.root
	root.Addresses = append([]types.Address{}, r.root.Addresses...)
	root.Subdomains = append([]types.Subdomain{}, r.root.Subdomains...)
	return root
}
