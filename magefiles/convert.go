//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// samplePairs are the batch conversions Convert runs over the fixtures.
var samplePairs = []struct {
	dir, from, to string
}{
	{"testdata/pdf", "pdf", "excel"},
	{"testdata/pdf", "pdf", "word"},
	{"testdata/word", "word", "excel"},
	{"testdata/excel", "excel", "word"},
	{"testdata/word", "word", "pdf"},
}

// Convert builds the CLI and runs every sample batch conversion over the
// fixtures. Failed files are reported by the CLI and do not stop the run.
func Convert() error {
	mg.Deps(Build, Fixtures)

	for _, p := range samplePairs {
		fmt.Printf("[convert] %s: %s -> %s\n", p.dir, p.from, p.to)
		if err := sh.RunV("bin/docconv", "convert", p.dir, "--from", p.from, "--to", p.to, "--batch"); err != nil {
			fmt.Printf("[convert] %v\n", err)
		}
	}
	return nil
}
