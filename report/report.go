// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package report serializes finished enumeration reports into JSON and writes
them to files. Files are written in one go through a temporary file in the
same directory that then gets renamed, so that readers never see partially
written reports and failed writes leave no output file behind.
*/
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/siemens/subdig/types"
)

// Marshal returns the compact JSON representation of a root domain report.
func Marshal(root *types.RootDomain) ([]byte, error) {
	// Make sure to never emit "null" lists, even for zero-value reports.
	r := *root
	if r.Addresses == nil {
		r.Addresses = []types.Address{}
	}
	if r.Subdomains == nil {
		r.Subdomains = []types.Subdomain{}
	}
	return json.Marshal(&r)
}

// Unmarshal a JSON report.
func Unmarshal(data []byte) (*types.RootDomain, error) {
	var root types.RootDomain
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid report: %w", err)
	}
	return &root, nil
}

// Write the JSON representation of the report to w.
func Write(w io.Writer, root *types.RootDomain) error {
	j, err := Marshal(root)
	if err != nil {
		return fmt.Errorf("cannot serialize report: %w", err)
	}
	_, err = w.Write(j)
	return err
}

// WriteFile writes the JSON report to the named file, replacing any existing
// file only after the complete report has been written successfully.
func WriteFile(name string, root *types.RootDomain) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	// ...and clean up in case anything goes wrong from here on.
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if err = Write(tmp, root); err != nil {
		return fmt.Errorf("cannot write output file: %w", err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("cannot write output file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("cannot write output file: %w", err)
	}
	if err = os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("cannot write output file: %w", err)
	}
	return nil
}
