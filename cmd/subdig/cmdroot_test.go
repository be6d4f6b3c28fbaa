// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/siemens/subdig/report"
	"github.com/siemens/subdig/test"
	"github.com/siemens/subdig/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

var zone = map[string][]string{
	"example.com":      {"192.0.2.1"},
	"www.example.com":  {"192.0.2.10", "2001:db8::10"},
	"mail.example.com": {"192.0.2.25"},
}

// workspace writes a word list into a new temporary directory and returns the
// paths of the word list and of the (future) report file.
func workspace(candidates ...string) (wordlistPath string, reportPath string) {
	GinkgoHelper()
	dir := GinkgoT().TempDir()
	wordlistPath = filepath.Join(dir, "dns.txt")
	reportPath = filepath.Join(dir, "port-scanner.json")
	Expect(os.WriteFile(wordlistPath, []byte(strings.Join(candidates, "\n")+"\n"), 0o644)).To(Succeed())
	return
}

// subdig runs the subdig root command with the specified CLI args, returning
// its stdout output and error.
func subdig(args ...string) (string, error) {
	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(GinkgoWriter)
	err := cmd.Execute()
	return stdout.String(), err
}

var _ = Describe("subdig command", func() {

	DescribeTable("rejects invalid flags",
		func(errmsg string, args ...string) {
			Expect(subdig(args...)).Error().To(MatchError(ContainSubstring(errmsg)))
		},
		Entry("missing target", "required flag", "-c", "2"),
		Entry("empty target", "required flag", "--target", ""),
		Entry("invalid target", "--target", "--target", "foo..bar"),
		Entry("too few workers", "--concurrency", "-t", "example.com", "-c", "0"),
		Entry("too many workers", "--concurrency", "-t", "example.com", "-c", "256"),
		Entry("resolver without port", "--dns-resolver", "-t", "example.com", "-d", "8.8.8.8"),
		Entry("resolver name", "invalid IP address", "-t", "example.com", "-d", "dns.google:53"),
		Entry("resolver port", "invalid port", "-t", "example.com", "-d", "8.8.8.8:0"),
		Entry("tiny timeout", "--timeout", "-t", "example.com", "--timeout", "1ms"),
		Entry("netns and container", "mutually exclusive", "-t", "example.com",
			"--netns", "/proc/self/ns/net", "--container", "foo"),
		Entry("positional args", "unknown command", "-t", "example.com", "foo"),
	)

	It("accepts IPv6 resolver addresses", func() {
		Expect(checkResolverAddr("[2001:4860:4860::8888]:53")).To(Succeed())
	})

	It("enumerates and writes the report", NodeTimeout(20*time.Second), func(_ context.Context) {
		srv := test.NewDNSServer(zone)
		words, out := workspace("www", "mail", "ghost")
		stdout := Successful(subdig(
			"--target", "example.com",
			"--dns-resolver", srv.Addr,
			"--concurrency", "3",
			"--subdomains-file", words,
			"--output-file", out))
		Expect(stdout).To(ContainSubstring("found 2 subdomains"))

		root := Successful(report.Unmarshal(Successful(os.ReadFile(out))))
		Expect(root.Name).To(Equal("example.com"))
		Expect(root.Addresses).To(ConsistOf(types.Address{IP: "192.0.2.1"}))
		Expect(root.Subdomains).To(ConsistOf(
			types.NewSubdomain("www.example.com", []string{"192.0.2.10"}),
			types.NewSubdomain("mail.example.com", []string{"192.0.2.25"}),
		))
	})

	It("enumerates IPv6 addresses over TCP with a live display", NodeTimeout(20*time.Second), func(_ context.Context) {
		srv := test.NewDNSServer(zone)
		words, out := workspace("www")
		Expect(subdig(
			"-t", "example.com",
			"-d", srv.TCPAddr,
			"-s", words,
			"-o", out,
			"--tcp", "--ipv6", "--live", "--spinner", "20ms")).Error().NotTo(HaveOccurred())
		root := Successful(report.Unmarshal(Successful(os.ReadFile(out))))
		Expect(root.Subdomains).To(ConsistOf(
			types.NewSubdomain("www.example.com", []string{"192.0.2.10", "2001:db8::10"})))
	})

	It("writes an empty report for an empty word list", NodeTimeout(20*time.Second), func(_ context.Context) {
		srv := test.NewDNSServer(zone)
		words, out := workspace()
		Expect(subdig("-t", "example.com", "-d", srv.Addr, "-s", words, "-o", out)).Error().NotTo(HaveOccurred())
		Expect(string(Successful(os.ReadFile(out)))).To(MatchJSON(
			`{"name":"example.com","addresses":[{"ip":"192.0.2.1"}],"subdomains":[]}`))
	})

	It("doesn't write a report without a word list", NodeTimeout(20*time.Second), func(_ context.Context) {
		srv := test.NewDNSServer(zone)
		_, out := workspace()
		Expect(subdig("-t", "example.com", "-d", srv.Addr, "-s", out+".nada", "-o", out)).Error().To(
			MatchError(ContainSubstring("cannot open word list")))
		Expect(out).NotTo(BeAnExistingFile())
	})

	It("stops the live display when failing to set up", NodeTimeout(20*time.Second), func(_ context.Context) {
		srv := test.NewDNSServer(zone)
		words, out := workspace("www")
		goodgos := Goroutines()
		Expect(subdig("-t", "example.com", "-d", srv.Addr, "-s", words, "-o", out,
			"--live", "--netns", "/nada/nothing/niente")).Error().To(
			MatchError(ContainSubstring("enumeration aborted")))
		Expect(out).NotTo(BeAnExistingFile())
		Eventually(Goroutines).Within(2 * time.Second).ProbeEvery(100 * time.Millisecond).
			ShouldNot(HaveLeaked(goodgos,
				IgnoringTopFunction("os/signal.signal_recv"),
				IgnoringTopFunction("os/signal.loop")))
	})

	It("fails for a non-existing network namespace", NodeTimeout(20*time.Second), func(_ context.Context) {
		srv := test.NewDNSServer(zone)
		words, out := workspace("www")
		Expect(subdig("-t", "example.com", "-d", srv.Addr, "-s", words, "-o", out,
			"--netns", "/nada/nothing/niente")).Error().To(HaveOccurred())
		Expect(out).NotTo(BeAnExistingFile())
	})

})

var _ = Describe("subdig binary", Ordered, func() {

	var subdigPath string

	BeforeAll(NodeTimeout(120*time.Second), func(_ context.Context) {
		subdigPath = Successful(gexec.Build("github.com/siemens/subdig/cmd/subdig"))
		DeferCleanup(gexec.CleanupBuildArtifacts)
	})

	It("enumerates", NodeTimeout(30*time.Second), func(_ context.Context) {
		srv := test.NewDNSServer(zone)
		words, out := workspace("www", "mail", "ghost")
		sess := Successful(gexec.Start(exec.Command(subdigPath,
			"-t", "example.com", "-d", srv.Addr, "-c", "2", "-s", words, "-o", out),
			GinkgoWriter, GinkgoWriter))
		Eventually(sess).Within(20 * time.Second).Should(gexec.Exit(0))
		Expect(sess.Out).To(gbytes.Say("found 2 subdomains"))
		root := Successful(report.Unmarshal(Successful(os.ReadFile(out))))
		Expect(root.Names()).To(ConsistOf("www.example.com", "mail.example.com"))
	})

	It("exits with non-zero status on setup failures", NodeTimeout(30*time.Second), func(_ context.Context) {
		_, out := workspace()
		sess := Successful(gexec.Start(exec.Command(subdigPath,
			"-t", "example.com", "-d", "127.0.0.1:53", "-s", out+".nada", "-o", out),
			GinkgoWriter, GinkgoWriter))
		Eventually(sess).Within(20 * time.Second).Should(gexec.Exit(1))
		Expect(sess.Err).To(gbytes.Say("cannot open word list"))
		Expect(out).NotTo(BeAnExistingFile())
	})

})
