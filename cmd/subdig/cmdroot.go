// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/siemens/subdig/resolver"

	"github.com/miekg/dns"
	"github.com/spf13/cobra"
)

var (
	target          *string
	dnsResolver     *string
	concurrency     *uint
	subdomainsFile  *string
	outputFile      *string
	queryTimeout    *time.Duration
	overTCP         *bool
	ipv6            *bool
	netnsPath       *string
	containerName   *string
	verify          *bool
	unprivileged    *bool
	live            *bool
	spinnerInterval *time.Duration
	debug           *bool
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:     "subdig --target domain [flags]",
		Short:   "subdig enumerates the live subdomains of a domain from a word list",
		Version: "0.9",
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Cobra checks for required flags only after running the
			// persistent pre-run hooks.
			if *target == "" {
				return fmt.Errorf("required flag(s) \"target\" not set")
			}
			if *concurrency < 1 || *concurrency > 255 {
				return fmt.Errorf("--concurrency out of range [1..255]")
			}
			if err := checkResolverAddr(*dnsResolver); err != nil {
				return err
			}
			if name := strings.TrimSuffix(*target, "."); name == "" || strings.Contains(name, "..") {
				return fmt.Errorf("--target must be a domain name")
			} else if _, ok := dns.IsDomainName(name); !ok {
				return fmt.Errorf("--target must be a domain name")
			}
			if *queryTimeout < 10*time.Millisecond {
				return fmt.Errorf("--timeout must be at least 10ms")
			}
			if *spinnerInterval < 10*time.Millisecond {
				return fmt.Errorf("--spinner must be at least 10ms")
			}
			if *netnsPath != "" && *containerName != "" {
				return fmt.Errorf("--netns and --container are mutually exclusive")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(*debug, *live)
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return EnumerateAndReport(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	rootCmd.SilenceUsage = true
	// Sets up the flags.
	flags := rootCmd.PersistentFlags()
	target = flags.StringP(
		"target", "t", "", "target domain (required)")
	dnsResolver = flags.StringP(
		"dns-resolver", "d", "8.8.8.8:53", "DNS resolver address ip:port")
	concurrency = flags.UintP(
		"concurrency", "c", 1, "number of parallel DNS workers")
	subdomainsFile = flags.StringP(
		"subdomains-file", "s", "./dns.txt", "word list with subdomain candidates")
	outputFile = flags.StringP(
		"output-file", "o", "./port-scanner.json", "JSON report output file")
	queryTimeout = flags.Duration(
		"timeout", resolver.DefaultTimeout, "DNS query timeout")
	overTCP = flags.Bool(
		"tcp", false, "query the DNS resolver over TCP instead of UDP")
	ipv6 = flags.Bool(
		"ipv6", false, "additionally query for IPv6 addresses")
	netnsPath = flags.String(
		"netns", "", "enumerate from inside the network namespace at this path")
	containerName = flags.String(
		"container", "", "enumerate from inside the network namespace of this Docker container")
	verify = flags.Bool(
		"verify", false, "verify discovered addresses by pinging them")
	unprivileged = flags.Bool(
		"unprivileged", false, "verify using unprivileged UDP pings instead of ICMP")
	live = flags.Bool(
		"live", false, "show discovered subdomains live instead of a progress bar")
	spinnerInterval = flags.Duration(
		"spinner", 100*time.Millisecond, "spinner interval of the live display")
	debug = flags.Bool(
		"debug", false, "enable debugging output")
	_ = rootCmd.MarkPersistentFlagRequired("target")
	return
}

// checkResolverAddr checks that addr is an “ip:port” address.
func checkResolverAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("--dns-resolver must be ip:port: %w", err)
	}
	if net.ParseIP(host) == nil {
		return fmt.Errorf("--dns-resolver must be ip:port, invalid IP address %q", host)
	}
	if p, err := strconv.ParseUint(port, 10, 16); err != nil || p == 0 {
		return fmt.Errorf("--dns-resolver must be ip:port, invalid port %q", port)
	}
	return nil
}
