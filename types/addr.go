// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

// Address is a single resolved IP (v4/v6) address in its canonical textual
// form. The optional Quality is only ever set when the address underwent
// verification after resolution.
type Address struct {
	IP      string  `json:"ip"`
	Quality Quality `json:"quality,omitempty"`
}

// Subdomain is a resolved FQDN below a RootDomain, together with its resolved
// addresses in the order the resolver returned them.
type Subdomain struct {
	Name      string    `json:"name"`      // FQDN without trailing dot
	Addresses []Address `json:"addresses"` // never empty for reported subdomains
}

// RootDomain is the report of a single enumeration run: the target domain's
// own addresses together with all subdomains discovered.
type RootDomain struct {
	Name       string      `json:"name"`
	Addresses  []Address   `json:"addresses"`
	Subdomains []Subdomain `json:"subdomains"`
}

// NewRootDomain returns a new RootDomain with the specified name and
// addresses, and without any subdomains yet.
func NewRootDomain(name string, addrs []string) *RootDomain {
	return &RootDomain{
		Name:       name,
		Addresses:  Addresses(addrs),
		Subdomains: []Subdomain{},
	}
}

// NewSubdomain returns a new Subdomain for the given name and addresses.
func NewSubdomain(name string, addrs []string) Subdomain {
	return Subdomain{
		Name:      name,
		Addresses: Addresses(addrs),
	}
}

// Addresses turns a list of textual IP addresses into a list of unverified
// Address values. It never returns nil.
func Addresses(addrs []string) []Address {
	as := make([]Address, 0, len(addrs))
	for _, addr := range addrs {
		as = append(as, Address{IP: addr})
	}
	return as
}

// Names returns the names of all subdomains, in report order.
func (r *RootDomain) Names() []string {
	names := make([]string, 0, len(r.Subdomains))
	for _, sub := range r.Subdomains {
		names = append(names, sub.Name)
	}
	return names
}
