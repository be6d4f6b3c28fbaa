// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package test

import (
	"net"
	"strings"
	"sync"

	"github.com/miekg/dns"

	gi "github.com/onsi/ginkgo/v2"
	g "github.com/onsi/gomega"
	s "github.com/thediveo/success"
)

// DNSServer is an in-process authoritative-style DNS server listening on the
// loopback interface, answering A and AAAA queries from a fixed zone map.
// Names not in the zone get NXDOMAIN answers.
type DNSServer struct {
	Addr    string // UDP “ip:port” address
	TCPAddr string // TCP “ip:port” address

	mu      sync.Mutex
	zone    map[string][]string // FQDN -> textual IP addresses
	silent  map[query]struct{} // queries never getting answered
	rcodes  map[query]int      // queries answered with specific rcodes
	queries map[string]int      // FQDN -> number of queries received

	udp *dns.Server
	tcp *dns.Server
}

// NewDNSServer starts a new DNS server serving the specified zone, mapping
// names (with or without trailing dots) to IPv4 and IPv6 addresses. The server
// gets automatically shut down when the current Ginkgo node finishes.
func NewDNSServer(zone map[string][]string) *DNSServer {
	gi.GinkgoHelper()

	srv := &DNSServer{
		zone:    map[string][]string{},
		silent:  map[query]struct{}{},
		rcodes:  map[query]int{},
		queries: map[string]int{},
	}
	for name, addrs := range zone {
		srv.zone[canonical(name)] = addrs
	}

	pc := s.Successful(net.ListenPacket("udp", "127.0.0.1:0"))
	l := s.Successful(net.Listen("tcp", "127.0.0.1:0"))
	srv.Addr = pc.LocalAddr().String()
	srv.TCPAddr = l.Addr().String()

	udpStarted := make(chan struct{})
	tcpStarted := make(chan struct{})
	srv.udp = &dns.Server{
		PacketConn:        pc,
		Handler:           dns.HandlerFunc(srv.serve),
		NotifyStartedFunc: func() { close(udpStarted) },
	}
	srv.tcp = &dns.Server{
		Listener:          l,
		Handler:           dns.HandlerFunc(srv.serve),
		NotifyStartedFunc: func() { close(tcpStarted) },
	}
	go func() { _ = srv.udp.ActivateAndServe() }()
	go func() { _ = srv.tcp.ActivateAndServe() }()
	g.Eventually(udpStarted).Should(g.BeClosed())
	g.Eventually(tcpStarted).Should(g.BeClosed())

	gi.DeferCleanup(srv.Close)
	return srv
}

// query identifies the queries for a name of a particular record type; a zero
// qtype stands for any record type.
type query struct {
	name  string
	qtype uint16
}

// Silence the specified names, so that queries for them never get answered.
func (srv *DNSServer) Silence(names ...string) {
	srv.SilenceType(0, names...)
}

// SilenceType silences only the queries of the specified record type for the
// specified names.
func (srv *DNSServer) SilenceType(qtype uint16, names ...string) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	for _, name := range names {
		srv.silent[query{canonical(name), qtype}] = struct{}{}
	}
}

// Fail queries for the specified names with the given DNS response code.
func (srv *DNSServer) Fail(rcode int, names ...string) {
	srv.FailType(0, rcode, names...)
}

// FailType fails only the queries of the specified record type for the
// specified names with the given DNS response code.
func (srv *DNSServer) FailType(qtype uint16, rcode int, names ...string) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	for _, name := range names {
		srv.rcodes[query{canonical(name), qtype}] = rcode
	}
}

// Queries returns the number of queries received so far for the specified
// name.
func (srv *DNSServer) Queries(name string) int {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.queries[canonical(name)]
}

// Close shuts down the DNS server. Close is idempotent.
func (srv *DNSServer) Close() {
	_ = srv.udp.Shutdown()
	_ = srv.tcp.Shutdown()
}

func (srv *DNSServer) serve(w dns.ResponseWriter, r *dns.Msg) {
	if len(r.Question) != 1 {
		m := new(dns.Msg)
		_ = w.WriteMsg(m.SetRcode(r, dns.RcodeFormatError))
		return
	}
	q := r.Question[0]
	name := canonical(q.Name)

	srv.mu.Lock()
	srv.queries[name]++
	_, silent := srv.silent[query{name, 0}]
	if _, ok := srv.silent[query{name, q.Qtype}]; ok {
		silent = true
	}
	rcode, failing := srv.rcodes[query{name, 0}]
	if rc, ok := srv.rcodes[query{name, q.Qtype}]; ok {
		rcode, failing = rc, true
	}
	addrs, known := srv.zone[name]
	srv.mu.Unlock()

	if silent {
		return // ...and let the client time out.
	}
	m := new(dns.Msg)
	m.SetReply(r)
	m.Authoritative = true
	switch {
	case failing:
		m.Rcode = rcode
	case !known:
		m.Rcode = dns.RcodeNameError
	default:
		hdr := dns.RR_Header{Name: q.Name, Class: dns.ClassINET, Ttl: 60}
		for _, addr := range addrs {
			ip := net.ParseIP(addr)
			if ip == nil {
				continue
			}
			if ip4 := ip.To4(); ip4 != nil {
				if q.Qtype == dns.TypeA {
					hdr := hdr
					hdr.Rrtype = dns.TypeA
					m.Answer = append(m.Answer, &dns.A{Hdr: hdr, A: ip4})
				}
				continue
			}
			if q.Qtype == dns.TypeAAAA {
				hdr := hdr
				hdr.Rrtype = dns.TypeAAAA
				m.Answer = append(m.Answer, &dns.AAAA{Hdr: hdr, AAAA: ip})
			}
		}
	}
	_ = w.WriteMsg(m)
}

func canonical(name string) string {
	return dns.Fqdn(strings.ToLower(name))
}
