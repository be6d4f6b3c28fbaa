// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/siemens/subdig/enum"
	"github.com/siemens/subdig/types"

	"github.com/gosuri/uilive"
)

// liveDisplay renders the enumeration progress together with the subdomains
// discovered so far to a terminal, updating the display in place.
type liveDisplay struct {
	Indentation int
	target      string
	total       int
	term        *uilive.Writer
	spinner     *spinner

	mu        sync.Mutex
	processed int
	found     []types.Subdomain
	finished  bool

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

var _ enum.ProgressSink = (*liveDisplay)(nil)

// newLiveDisplay returns a new live display rendering to the specified
// io.Writer, and starts its background rendering.
func newLiveDisplay(w io.Writer, target string, total int, spinInterval time.Duration) *liveDisplay {
	term := uilive.New()
	term.Out = w
	d := &liveDisplay{
		Indentation: 3,
		target:      target,
		total:       total,
		term:        term,
		spinner:     newSpinner(spinInterval),
		found:       []types.Subdomain{},
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	go d.run()
	return d
}

// Add n processed candidates.
func (d *liveDisplay) Add(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.processed += n
}

// Found adds a newly discovered subdomain to the display.
func (d *liveDisplay) Found(sub types.Subdomain) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.found = append(d.found, sub)
}

// Finish the display, rendering a final update and stopping any background
// activity. Finish returns only after the final update has been rendered.
func (d *liveDisplay) Finish() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.finished = true
		d.mu.Unlock()
		close(d.done)
	})
	<-d.stopped
}

// run periodically renders the display until finished.
func (d *liveDisplay) run() {
	// Dunno what uilive's background updating mode using Start() is good for?
	// It may trigger anytime with the rendering into the buffer not yet
	// complete, thus making the terminal output very flickery. So we avoid
	// Start() and instead trigger an explicit flush to the terminal after
	// having completed the rendering.
	defer func() {
		d.flush()
		close(d.stopped)
	}()
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.flush()
		case <-d.done:
			return
		}
	}
}

func (d *liveDisplay) flush() {
	d.Render(d.term)
	_ = d.term.Flush()
}

// Render the current progress and discoveries.
func (d *liveDisplay) Render(w io.Writer) {
	d.mu.Lock()
	processed, finished := d.processed, d.finished
	found := make([]types.Subdomain, len(d.found))
	copy(found, d.found)
	d.mu.Unlock()

	status := fmt.Sprintf("%s %d/%d candidates, %d found",
		domainNameStyle.Styled(d.target), processed, d.total, len(found))
	if finished {
		fmt.Fprintln(w, doneStyle.Styled("✔ ")+"enumerated "+status)
	} else {
		fmt.Fprintln(w, enumeratingStyle.Styled(d.spinner.Spinner())+"enumerating "+status)
	}
	if len(found) == 0 {
		return
	}
	// For neat display, determine the length of the longest FQDN in the data to
	// display, so that the addresses column doesn't zig-zag around.
	maxlen := 0
	for _, sub := range found {
		if l := len(sub.Name); l > maxlen {
			maxlen = l
		}
	}
	sortSubdomains(found)
	for _, sub := range found {
		d.renderSubdomain(w, maxlen, sub)
	}
}

// renderSubdomain renders a single subdomain with its addresses.
func (d *liveDisplay) renderSubdomain(w io.Writer, labelwidth int, sub types.Subdomain) {
	fmt.Fprintf(w, "%-*s%-*s", d.Indentation, "", labelwidth, sub.Name)
	addrs := make([]string, 0, len(sub.Addresses))
	for _, addr := range sortedAddresses(sub.Addresses) {
		addrs = append(addrs, addressStyle.Styled(addr.IP))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(addrs, " "))
}

// sortedAddresses returns a sorted copy of the specified addresses.
// - IPv4 first, IPv6 ... (embarrassed slience) ... second.
// - sorts by address value.
func sortedAddresses(addrs []types.Address) []types.Address {
	sorted := make([]types.Address, len(addrs))
	copy(sorted, addrs)
	sort.SliceStable(sorted, func(a, b int) bool {
		ipA := net.ParseIP(sorted[a].IP)
		ipB := net.ParseIP(sorted[b].IP)
		v4A, v4B := ipA.To4() != nil, ipB.To4() != nil
		if v4A != v4B {
			return v4A
		}
		return bytes.Compare(ipA, ipB) < 0
	})
	return sorted
}

// sortSubdomains sorts subdomains in place by their labels from right to
// left, so that subdomains of the same parent group together.
func sortSubdomains(subs []types.Subdomain) {
	sort.SliceStable(subs, func(a, b int) bool {
		return reversedLabels(subs[a].Name) < reversedLabels(subs[b].Name)
	})
}

// reversedLabels returns the labels of an FQDN in reverse order, joined by
// dots; for instance, "www.example.com" becomes "com.example.www".
func reversedLabels(fqdn string) string {
	labels := strings.Split(strings.TrimSuffix(fqdn, "."), ".")
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return strings.Join(labels, ".")
}
