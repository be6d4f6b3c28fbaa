// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/siemens/subdig/enum"
	"github.com/siemens/subdig/mobynet"
	"github.com/siemens/subdig/ping"
	"github.com/siemens/subdig/report"
	"github.com/siemens/subdig/resolver"
	"github.com/siemens/subdig/types"
	"github.com/siemens/subdig/verifier"
	"github.com/siemens/subdig/wordlist"

	"github.com/thediveo/lxkns/log"
)

// EnumerateAndReport reads the subdomain candidates from the word list, then
// enumerates the live subdomains of the target domain using the configured
// DNS resolver and finally writes the JSON report. The report is only written
// when the enumeration (and optional verification) completed successfully.
func EnumerateAndReport(ctx context.Context, stdout io.Writer, stderr io.Writer) error {
	log.Infof("target: %s", *target)
	log.Infof("concurrency: %d", *concurrency)
	log.Infof("subdomains file: %s", *subdomainsFile)
	log.Infof("output file: %s", *outputFile)

	candidates, err := wordlist.Read(*subdomainsFile)
	if err != nil {
		return err
	}
	netnsref, err := networkNamespace(ctx)
	if err != nil {
		return err
	}

	// Now lets put the required processing elements and their plumbing in
	// place.
	//
	//   - DNS dialer handing out a resolver connection to each worker.
	//   - progress display, either a progress bar or a live view.
	//   - Enumerator feeding the candidates to its workers.
	dialopts := []resolver.DnsDialerOption{
		resolver.WithTimeout(*queryTimeout),
		resolver.InNetworkNamespace(netnsref),
	}
	if *overTCP {
		dialopts = append(dialopts, resolver.OverTCP())
	}
	if *ipv6 {
		dialopts = append(dialopts, resolver.WithIPv6())
	}
	dialer := resolver.New(*dnsResolver, dialopts...)
	log.Infof("DNS resolver: %s", dialer.Addr())

	enumopts := []enum.EnumeratorOption{}
	var display *liveDisplay
	switch {
	case *live:
		display = newLiveDisplay(stderr, *target, len(candidates), *spinnerInterval)
		enumopts = append(enumopts, enum.WithProgress(display), enum.WithDiscoveryHook(display.Found))
	case len(candidates) > 0:
		enumopts = append(enumopts, enum.WithProgress(newProgressBar(stderr, len(candidates))))
	default:
		enumopts = append(enumopts, enum.WithProgress(silentProgress{}))
	}
	summary, err := enum.New(int(*concurrency), dialer, enumopts...).
		Run(ctx, *target, candidates)
	if err != nil {
		if display != nil {
			display.Finish()
		}
		return fmt.Errorf("enumeration aborted: %w", err)
	}
	log.Infof("found %d subdomains", summary.Found)

	root := summary.Root
	if *verify {
		if err := verifyAddresses(ctx, &root, netnsref); err != nil {
			return fmt.Errorf("verification aborted: %w", err)
		}
		verified, invalid := countQualities(&root)
		fmt.Fprintf(stdout, "%s verified, %s invalid addresses\n",
			verifiedStyle.Styled(fmt.Sprint(verified)), invalidStyle.Styled(fmt.Sprint(invalid)))
	}

	if err := report.WriteFile(*outputFile, &root); err != nil {
		return err
	}
	log.Infof("wrote report to %s", *outputFile)
	fmt.Fprintf(stdout, "found %d subdomains of %s out of %d candidates, report written to %s\n",
		summary.Found, domainNameStyle.Styled(root.Name), summary.Processed, *outputFile)
	return nil
}

// networkNamespace returns the reference to the network namespace to enumerate
// from, or "" if enumerating from the current network namespace.
func networkNamespace(ctx context.Context) (string, error) {
	if *containerName == "" {
		return *netnsPath, nil
	}
	cln, err := mobynet.NewClient("")
	if err != nil {
		return "", err
	}
	defer cln.Close()
	netnsref, err := mobynet.NetworkNamespace(ctx, cln, *containerName)
	if err != nil {
		return "", err
	}
	log.Infof("enumerating from container %s, network namespace %s", *containerName, netnsref)
	return netnsref, nil
}

// verifyAddresses pings all addresses in the report, from inside the specified
// network namespace, if any.
func verifyAddresses(ctx context.Context, root *types.RootDomain, netnsref string) error {
	pingopts := []ping.ProberOption{ping.InNetworkNamespace(netnsref)}
	if *unprivileged {
		pingopts = append(pingopts, ping.AsUnprivileged())
	}
	log.Infof("verifying addresses")
	return verifier.New(int(*concurrency), pingopts...).Verify(ctx, root)
}

// countQualities returns the number of distinct verified and invalid addresses
// in the report.
func countQualities(root *types.RootDomain) (verified int, invalid int) {
	qualities := map[string]types.Quality{}
	for _, addr := range root.Addresses {
		qualities[addr.IP] = addr.Quality
	}
	for _, sub := range root.Subdomains {
		for _, addr := range sub.Addresses {
			qualities[addr.IP] = addr.Quality
		}
	}
	for _, q := range qualities {
		switch q {
		case types.Verified:
			verified++
		case types.Invalid:
			invalid++
		}
	}
	return
}
