// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package verifier

import (
	"context"

	"github.com/siemens/subdig/ping"
	"github.com/siemens/subdig/types"

	"github.com/gammazero/workerpool"
	"github.com/thediveo/lxkns/log"
)

// Verifier verifies the addresses of an enumeration report, pinging each
// distinct address only once even if it is shared by multiple (sub)domains.
type Verifier struct {
	size   int
	prober *ping.Prober
}

// New returns a new Verifier with a maximum number of parallel verification
// workers, probing addresses as configured by the specified [ping.Prober]
// options.
func New(size int, options ...ping.ProberOption) *Verifier {
	if size < 1 {
		size = 1
	}
	return &Verifier{
		size:   size,
		prober: ping.New(options...),
	}
}

// Verify all addresses of the root domain and its subdomains, updating their
// qualities in place to either Verified or Invalid. The report must not be
// shared with anyone else while verifying.
//
// In case the specified context gets cancelled, Verify returns the context's
// error and leaves the report untouched.
func (v *Verifier) Verify(ctx context.Context, root *types.RootDomain) error {
	addrs := distinctAddresses(root)
	verdicts := make(chan ping.Verdict, len(addrs))
	workers := workerpool.New(v.size)
	for _, addr := range addrs {
		addr := addr
		workers.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			verdicts <- v.prober.Probe(ctx, addr)
		})
	}
	workers.StopWait()
	close(verdicts)
	if err := ctx.Err(); err != nil {
		return err
	}

	qualities := make(map[string]types.Quality, len(addrs))
	for verdict := range verdicts {
		if verdict.Err != nil {
			log.Debugf("address %s invalid: %s", verdict.Addr, verdict.Err.Error())
		}
		qualities[verdict.Addr] = verdict.Quality
	}
	apply(root, qualities)
	return nil
}

// distinctAddresses returns the distinct addresses of the root domain and its
// subdomains, in order of their first appearance.
func distinctAddresses(root *types.RootDomain) []string {
	seen := map[string]struct{}{}
	addrs := []string{}
	add := func(as []types.Address) {
		for _, a := range as {
			if _, ok := seen[a.IP]; ok {
				continue
			}
			seen[a.IP] = struct{}{}
			addrs = append(addrs, a.IP)
		}
	}
	add(root.Addresses)
	for _, sub := range root.Subdomains {
		add(sub.Addresses)
	}
	return addrs
}

// apply the address qualities to all addresses of the root domain and its
// subdomains.
func apply(root *types.RootDomain, qualities map[string]types.Quality) {
	set := func(as []types.Address) {
		for idx := range as {
			if q, ok := qualities[as[idx].IP]; ok {
				as[idx].Quality = q
			}
		}
	}
	set(root.Addresses)
	for _, sub := range root.Subdomains {
		set(sub.Addresses)
	}
}
