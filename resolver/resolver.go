// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/log"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// DefaultTimeout is the fixed per-query timeout used unless overridden using
// [WithTimeout].
const DefaultTimeout = 1 * time.Second

// Resolver resolves names into addresses, classifying each resolution
// attempt. Resolvers are owned by a single goroutine at a time and are not safe
// for concurrent use.
type Resolver interface {
	Resolve(ctx context.Context, name string) Result
	Close() error
}

// Dialer creates new Resolvers, each with their own exclusive connection to
// the DNS resolver.
type Dialer interface {
	Dial(ctx context.Context) (Resolver, error)
}

// DnsDialer dials DNS client connections to a particular DNS resolver address,
// optionally from inside a different network namespace.
type DnsDialer struct {
	addr    string
	net     string             // "udp" or "tcp"
	timeout time.Duration      // fixed per-query timeout
	qtypes  []uint16           // record types to query for, in this order.
	netns   relations.Relation // network namespace to dial from, or nil.
}

var _ Dialer = (*DnsDialer)(nil)

// DnsDialerOption can be passed to New when creating new [DnsDialer] objects.
type DnsDialerOption func(*DnsDialer)

// New returns a new [DnsDialer] for the DNS resolver at the specified address
// (“ip:port”). By default, the dialer uses UDP, queries only A records and
// uses a per-query timeout of [DefaultTimeout].
//
// To dial connections in a network namespace different to that of the OS-level
// thread of the caller specify the [InNetworkNamespace] option and pass it a
// filesystem path that must reference a network namespace (such as
// "/proc/666/ns/net").
func New(addr string, options ...DnsDialerOption) *DnsDialer {
	d := &DnsDialer{
		addr:    addr,
		net:     "udp",
		timeout: DefaultTimeout,
		qtypes:  []uint16{dns.TypeA},
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// WithTimeout sets the fixed timeout of each individual DNS query.
func WithTimeout(timeout time.Duration) DnsDialerOption {
	return func(d *DnsDialer) {
		d.timeout = timeout
	}
}

// OverTCP talks to the DNS resolver using TCP instead of UDP.
func OverTCP() DnsDialerOption {
	return func(d *DnsDialer) {
		d.net = "tcp"
	}
}

// WithIPv6 additionally queries for AAAA records after the A records.
func WithIPv6() DnsDialerOption {
	return func(d *DnsDialer) {
		d.qtypes = []uint16{dns.TypeA, dns.TypeAAAA}
	}
}

// InNetworkNamespace optionally dials the DNS client connections inside the
// network namespace referenced by the specified filesystem path. An empty
// reference keeps the current network namespace.
func InNetworkNamespace(netnsref string) DnsDialerOption {
	return func(d *DnsDialer) {
		if netnsref == "" {
			return
		}
		d.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// Addr returns the address of the DNS resolver.
func (d *DnsDialer) Addr() string { return d.addr }

// Dial returns a new [Client] owning a newly established connection to the
// DNS resolver. The passed context is used only for dialing.
func (d *DnsDialer) Dial(ctx context.Context) (Resolver, error) {
	dnsclnt := &dns.Client{
		Net:     d.net,
		Timeout: d.timeout,
	}
	var conn *dns.Conn
	dial := func() interface{} {
		var err error
		conn, err = dnsclnt.DialContext(ctx, d.addr)
		if err != nil {
			return err
		}
		return nil
	}
	// Dial the connection in the requested network namespace, if necessary.
	var err error
	var dialerr interface{}
	if d.netns != nil {
		dialerr, err = ops.Execute(dial, d.netns)
	} else {
		dialerr = dial()
	}
	if err != nil {
		return nil, fmt.Errorf("cannot switch into network namespace: %w", err)
	}
	if dialerr != nil {
		return nil, fmt.Errorf("cannot connect to DNS resolver %s: %w", d.addr, dialerr.(error))
	}
	return &Client{
		dnsclnt: dnsclnt,
		conn:    conn,
		qtypes:  d.qtypes,
	}, nil
}

// Client resolves names over its single, exclusively owned DNS client
// connection.
type Client struct {
	dnsclnt *dns.Client
	conn    *dns.Conn
	qtypes  []uint16
}

var _ Resolver = (*Client)(nil)

// Resolve the specified name into its addresses, querying each configured
// record type exactly once; there are no retries. The name must be a
// syntactically valid domain name, with or without a trailing dot.
//
// The ordered addresses are returned only when the outcome is [Resolved].
func (c *Client) Resolve(ctx context.Context, name string) Result {
	if !isHostname(name) {
		return Result{
			Outcome: QueryError,
			Err:     fmt.Errorf("malformed domain name %q", name),
		}
	}
	fqdn := dns.Fqdn(name)
	var addrs []string
	for _, qtype := range c.qtypes {
		// don't bother to query if the context has already been cancelled.
		if err := ctx.Err(); err != nil {
			if len(addrs) > 0 {
				break
			}
			return failed(err)
		}
		msg := new(dns.Msg)
		msg.SetQuestion(fqdn, qtype)
		r, _, err := c.dnsclnt.ExchangeWithConn(msg, c.conn)
		if err == nil && r.Rcode != dns.RcodeSuccess {
			if r.Rcode == dns.RcodeNameError && len(addrs) == 0 {
				// There's no point in asking for further record types when
				// the name doesn't exist at all.
				return Result{Outcome: NotFound}
			}
			err = fmt.Errorf("query %s for %q failed with %s",
				dns.TypeToString[qtype], fqdn, dns.RcodeToString[r.Rcode])
		}
		if err != nil {
			// Addresses from earlier record types still count.
			if len(addrs) > 0 {
				log.Debugf("keeping addresses of %s despite failed %s query: %s",
					name, dns.TypeToString[qtype], err.Error())
				break
			}
			return failed(err)
		}
		for _, rr := range r.Answer {
			switch addrRR := rr.(type) {
			case *dns.A:
				addrs = append(addrs, addrRR.A.String())
			case *dns.AAAA:
				addrs = append(addrs, addrRR.AAAA.String())
			}
		}
	}
	if len(addrs) == 0 {
		return Result{Outcome: NotFound}
	}
	return Result{Outcome: Resolved, Addrs: addrs}
}

// Close the DNS client connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// isHostname returns true if name is a syntactically valid, non-root domain
// name.
func isHostname(name string) bool {
	if name == "" || name == "." || strings.HasPrefix(name, ".") || strings.Contains(name, "..") {
		return false
	}
	_, ok := dns.IsDomainName(name)
	return ok
}

// failed classifies a failed query into either a timeout or a query error.
func failed(err error) Result {
	var neterr net.Error
	if errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &neterr) && neterr.Timeout()) {
		return Result{Outcome: Timeout, Err: err}
	}
	return Result{Outcome: QueryError, Err: err}
}
