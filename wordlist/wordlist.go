// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package wordlist reads candidate subdomain labels from newline-delimited word
lists. Entries are trimmed; blank lines and lines starting with “#” are
skipped. Duplicates are kept and the original order preserved.
*/
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read the candidates from the word list file at the specified path.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open word list: %w", err)
	}
	defer f.Close()
	candidates, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read word list %s: %w", path, err)
	}
	return candidates, nil
}

// Parse the candidates from the specified reader.
func Parse(r io.Reader) ([]string, error) {
	candidates := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		candidates = append(candidates, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return candidates, nil
}
