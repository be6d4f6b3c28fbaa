// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package wordlist

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("word lists", func() {

	It("parses trimmed candidates in order", func() {
		Expect(Parse(strings.NewReader("www\n  mail \r\n\n# comment\nwww\n\tapi"))).To(
			HaveExactElements("www", "mail", "www", "api"))
	})

	It("returns an empty list for empty input", func() {
		candidates := Successful(Parse(strings.NewReader("")))
		Expect(candidates).NotTo(BeNil())
		Expect(candidates).To(BeEmpty())
	})

	It("reads from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "dns.txt")
		Expect(os.WriteFile(path, []byte("www\nmail\n"), 0o644)).To(Succeed())
		Expect(Read(path)).To(HaveExactElements("www", "mail"))
	})

	It("reports missing files", func() {
		Expect(Read(filepath.Join(GinkgoT().TempDir(), "nada.txt"))).Error().To(
			MatchError(ContainSubstring("cannot open word list")))
	})

})
