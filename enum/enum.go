// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package enum

import (
	"context"
	"fmt"
	"strings"

	"github.com/siemens/subdig/resolver"
	"github.com/siemens/subdig/types"

	"github.com/gammazero/workerpool"
	"github.com/thediveo/lxkns/log"
)

// Enumerator enumerates the subdomains of a target domain from a list of
// candidate labels, using a fixed-size pool of DNS workers. Each worker owns
// its own resolver connection for its whole lifetime.
type Enumerator struct {
	size    int
	dialer  resolver.Dialer
	sink    ProgressSink
	onFound func(types.Subdomain)
}

// EnumeratorOption can be passed to New when creating new [Enumerator]
// objects.
type EnumeratorOption func(*Enumerator)

// Summary of a finished enumeration run.
type Summary struct {
	Root      types.RootDomain // final report
	Found     int              // number of subdomains found
	Processed int              // number of candidates processed
}

// New returns a new [Enumerator] with a worker pool of the specified size,
// which gets clamped to at least one worker. The workers as well as the root
// domain resolution get their resolver connections from the specified dialer.
func New(size int, dialer resolver.Dialer, options ...EnumeratorOption) *Enumerator {
	if size < 1 {
		size = 1
	}
	e := &Enumerator{
		size:   size,
		dialer: dialer,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// WithProgress reports the progress of processing candidates to the specified
// sink.
func WithProgress(sink ProgressSink) EnumeratorOption {
	return func(e *Enumerator) {
		e.sink = sink
	}
}

// WithDiscoveryHook calls fn for each discovered subdomain, after it has been
// added to the report. fn gets called concurrently from multiple workers.
func WithDiscoveryHook(fn func(types.Subdomain)) EnumeratorOption {
	return func(e *Enumerator) {
		e.onFound = fn
	}
}

// Hostname returns the FQDN (without trailing dot) of the specified candidate
// label below the target domain.
func Hostname(candidate, target string) string {
	return candidate + "." + strings.TrimSuffix(target, ".")
}

// Run enumerates the subdomains of target from the candidate labels and
// returns only after all workers have finished. First, the addresses of the
// target itself are resolved; failing to resolve them is not an error, but
// results in an empty address list. Next, the workers get started, and finally
// the candidates are fed to the workers.
//
// Failing to set up the resolver connections is an error. Individual
// resolution failures are never errors, but simply not reported.
//
// When the context gets cancelled, no further candidates are fed to the
// workers, the workers skip their remaining candidates, and Run returns the
// partial report together with the context's error.
func (e *Enumerator) Run(ctx context.Context, target string, candidates []string) (Summary, error) {
	target = strings.TrimSuffix(target, ".")
	rootaddrs, err := e.resolveRoot(ctx, target)
	if err != nil {
		return Summary{}, err
	}
	// Dial all worker connections upfront, so that we can bail out before any
	// work was done.
	clnts := make([]resolver.Resolver, 0, e.size)
	for i := 0; i < e.size; i++ {
		clnt, err := e.dialer.Dial(ctx)
		if err != nil {
			for _, clnt := range clnts {
				_ = clnt.Close()
			}
			return Summary{}, fmt.Errorf("cannot set up worker resolvers: %w", err)
		}
		clnts = append(clnts, clnt)
	}

	report := NewReport(target, rootaddrs)
	progress := NewTracker(len(candidates), e.sink)
	queue := make(chan string, len(candidates))
	log.Debugf("enumerating %d candidates using %d workers", progress.Total(), e.size)

	// Start the workers, handing each of them its own resolver, before getting
	// the ball rolling by feeding the queue.
	workers := workerpool.New(e.size)
	for _, clnt := range clnts {
		clnt := clnt
		workers.Submit(func() { e.work(ctx, clnt, queue, report, progress) })
	}
	produce(ctx, target, candidates, queue)
	workers.StopWait()
	progress.Finish()

	summary := Summary{
		Root:      report.Get(),
		Found:     report.Found(),
		Processed: progress.Processed(),
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// resolveRoot resolves the addresses of the target domain itself, using its
// own resolver connection.
func (e *Enumerator) resolveRoot(ctx context.Context, target string) ([]string, error) {
	clnt, err := e.dialer.Dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot set up root domain resolver: %w", err)
	}
	defer clnt.Close()
	res := clnt.Resolve(ctx, target)
	if res.Outcome != resolver.Resolved {
		log.Warnf("no addresses for root domain %s (%s)", target, describe(res))
		return nil, nil
	}
	log.Infof("root domain %s: %s", target, strings.Join(res.Addrs, ", "))
	return res.Addrs, nil
}

// produce feeds the FQDNs of the candidates into the queue and finally closes
// the queue. Feeding stops early when the context gets cancelled.
func produce(ctx context.Context, target string, candidates []string, queue chan<- string) {
	defer close(queue)
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			return
		}
		select {
		case queue <- Hostname(candidate, target):
		case <-ctx.Done():
			return
		}
	}
}

// work resolves the FQDNs from the queue until the queue has been closed and
// drained. Only successful resolutions end up in the report. The worker owns
// the passed resolver and closes it on its way out.
func (e *Enumerator) work(
	ctx context.Context,
	clnt resolver.Resolver,
	queue <-chan string,
	report *SharedReport,
	progress *Tracker,
) {
	defer clnt.Close()
	for name := range queue {
		if ctx.Err() != nil {
			continue // drain without resolving.
		}
		res := clnt.Resolve(ctx, name)
		switch res.Outcome {
		case resolver.Resolved:
			sub := types.NewSubdomain(name, res.Addrs)
			report.Add(sub)
			log.Infof("found %s: %s", name, strings.Join(res.Addrs, ", "))
			if e.onFound != nil {
				e.onFound(sub)
			}
		case resolver.QueryError:
			log.Warnf("cannot resolve %s: %s", name, describe(res))
		default:
			log.Debugf("no addresses for %s (%s)", name, describe(res))
		}
		progress.Advance()
	}
}

// describe returns a short description of a (failed) resolution result.
func describe(res resolver.Result) string {
	if res.Err != nil {
		return fmt.Sprintf("%s: %s", res.Outcome, res.Err.Error())
	}
	return res.Outcome.String()
}
