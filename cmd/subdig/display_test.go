// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"time"

	"github.com/siemens/subdig/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

var _ = Describe("live display", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).Within(2 * time.Second).ProbeEvery(100 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("sorts IPv4 before IPv6 addresses", func() {
		Expect(sortedAddresses(types.Addresses([]string{
			"2001:db8::1", "192.0.2.20", "::1", "192.0.2.3",
		}))).To(HaveExactElements(
			types.Address{IP: "192.0.2.3"},
			types.Address{IP: "192.0.2.20"},
			types.Address{IP: "::1"},
			types.Address{IP: "2001:db8::1"},
		))
	})

	It("reverses labels", func() {
		Expect(reversedLabels("www.example.com")).To(Equal("com.example.www"))
		Expect(reversedLabels("www.example.com.")).To(Equal("com.example.www"))
		Expect(reversedLabels("com")).To(Equal("com"))
	})

	It("groups subdomains by their parent domains", func() {
		subs := []types.Subdomain{
			types.NewSubdomain("www.foo.example.com", nil),
			types.NewSubdomain("mail.example.com", nil),
			types.NewSubdomain("api.foo.example.com", nil),
		}
		sortSubdomains(subs)
		Expect(subs).To(HaveEach(HaveField("Addresses", BeEmpty())))
		Expect([]string{subs[0].Name, subs[1].Name, subs[2].Name}).To(HaveExactElements(
			"api.foo.example.com", "www.foo.example.com", "mail.example.com"))
	})

	It("renders progress and discoveries", func() {
		var out bytes.Buffer
		d := newLiveDisplay(&out, "example.com", 3, 10*time.Millisecond)
		d.Add(1)
		d.Found(types.NewSubdomain("www.example.com", []string{"2001:db8::10", "192.0.2.10"}))
		d.Add(2)
		d.Finish()
		d.Finish()

		var b bytes.Buffer
		d.Render(&b)
		Expect(b.String()).To(And(
			ContainSubstring("enumerated"),
			ContainSubstring("3/3 candidates, 1 found"),
			MatchRegexp(`www\.example\.com\s+\S*192\.0\.2\.10\S* \S*2001:db8::10`),
		))
	})

	It("renders a progress bar", func() {
		var out bytes.Buffer
		p := newProgressBar(&out, 2)
		p.Add(1)
		p.Add(1)
		p.Finish()
		Expect(out.String()).To(ContainSubstring("enumerating"))
	})

})

var _ = Describe("spinner", func() {

	It("spins with time", func() {
		s := newSpinner(100 * time.Millisecond)
		Expect(s.phase(s.start)).To(Equal(spinnerPhases[0]))
		Expect(s.phase(s.start.Add(150 * time.Millisecond))).To(Equal(spinnerPhases[1]))
		Expect(s.phase(s.start.Add(time.Duration(len(spinnerPhases)) * 100 * time.Millisecond))).
			To(Equal(spinnerPhases[0]))
		Expect(newSpinner(0).interval).To(BeNumerically(">", 0))
	})

})

var _ = Describe("verification summary", func() {

	It("counts distinct address qualities", func() {
		root := types.NewRootDomain("example.com", []string{"192.0.2.1"})
		root.Addresses[0].Quality = types.Verified
		sub := types.NewSubdomain("www.example.com", []string{"192.0.2.1", "192.0.2.66"})
		sub.Addresses[0].Quality = types.Verified
		sub.Addresses[1].Quality = types.Invalid
		root.Subdomains = append(root.Subdomains, sub)
		verified, invalid := countQualities(root)
		Expect(verified).To(Equal(1))
		Expect(invalid).To(Equal(1))
	})

})
