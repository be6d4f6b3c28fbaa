// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/siemens/subdig/types"

	"github.com/go-ping/ping"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// Verdict on the reachability of an IP address.
type Verdict struct {
	Addr    string
	Quality types.Quality // either Verified or Invalid
	Err     error         // optional reason for Invalid
}

// Prober probes IP addresses for reachability. A single Prober can be used
// by multiple goroutines at the same time.
type Prober struct {
	count        int           // pings per address
	interval     time.Duration // between consecutive pings
	threshold    uint          // minimum percentage of replies
	unprivileged bool          // UDP "pings" instead of ICMP
	netns        relations.Relation
}

// ProberOption can be passed to New when creating new [Prober] objects.
type ProberOption func(*Prober)

// New returns a new [Prober] that by default sends 3 pings at intervals of 1s,
// requiring at least half of them to be answered.
func New(options ...ProberOption) *Prober {
	p := &Prober{
		count:     3,
		interval:  time.Second,
		threshold: 50,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// InNetworkNamespace probes from inside the network namespace referenced by
// the specified filesystem path. An empty reference keeps the current network
// namespace.
func InNetworkNamespace(netnsref string) ProberOption {
	return func(p *Prober) {
		if netnsref == "" {
			return
		}
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// WithCount sets the number of pings per address.
func WithCount(count uint) ProberOption {
	return func(p *Prober) {
		if count == 0 {
			count = 1
		}
		p.count = int(count)
	}
}

// WithInterval sets the interval between consecutive pings.
func WithInterval(interval time.Duration) ProberOption {
	return func(p *Prober) {
		p.interval = interval
	}
}

// AsUnprivileged sends unprivileged UDP-based pings instead of ICMP.
func AsUnprivileged() ProberOption {
	return func(p *Prober) {
		p.unprivileged = true
	}
}

// WithThresholdPercentage sets the percentage (0..100) of ping replies an
// address needs to get verified. At least one reply is always required.
func WithThresholdPercentage(threshold uint) ProberOption {
	if threshold > 100 {
		panic(fmt.Errorf("Prober: threshold must be a percentage between 0 <= threshold <= 100, got: %d",
			threshold))
	}
	return func(p *Prober) {
		p.threshold = threshold
	}
}

// Probe the specified IP address, blocking until its verdict is in. Probing
// stops early when the context gets cancelled, and the address is then
// considered to be invalid, with the context's error as the reason.
func (p *Prober) Probe(ctx context.Context, addr string) Verdict {
	var err error
	if p.netns == nil {
		err = p.ping(ctx, addr)
	} else {
		var res interface{}
		res, err = ops.Execute(func() interface{} { return p.ping(ctx, addr) }, p.netns)
		if err != nil {
			err = fmt.Errorf("cannot switch into network namespace: %w", err)
		} else if res != nil {
			err = res.(error)
		}
	}
	if err != nil {
		return Verdict{Addr: addr, Quality: types.Invalid, Err: err}
	}
	return Verdict{Addr: addr, Quality: types.Verified}
}

// ping the address, returning nil only if enough replies came back.
func (p *Prober) ping(ctx context.Context, addr string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pinger, err := ping.NewPinger(addr)
	if err != nil {
		return err
	}
	pinger.SetPrivileged(!p.unprivileged)
	pinger.Count = p.count
	pinger.Interval = p.interval
	// the last reply gets some slack, but not forever.
	pinger.Timeout = p.interval * time.Duration(p.count+2)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-done:
		}
	}()
	if err := pinger.Run(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if recv := pinger.Statistics().PacketsRecv; !p.passes(recv) {
		return fmt.Errorf("%d out of %d pings answered: %w", recv, p.count, ErrUnreachable)
	}
	return nil
}

// passes returns true if the number of received replies meets the threshold.
func (p *Prober) passes(recv int) bool {
	return recv > 0 && recv*100 >= p.count*int(p.threshold)
}

// ErrUnreachable signals too few ping replies.
var ErrUnreachable = errors.New("unreachable")
