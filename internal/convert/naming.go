// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"path/filepath"
	"strings"

	"github.com/pdiddy/docconv/pkg/types"
)

// OutputSuffix marks every file the converter writes.
const OutputSuffix = "_convertido"

// DeriveOutputPath returns where the conversion of source to format to is
// written: the source's directory, its base name without extension, the
// output suffix, and the extension of to. Two sources that differ only by
// extension map to the same path; the later conversion overwrites the
// earlier one.
func DeriveOutputPath(source string, to types.Format) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(source), stem+OutputSuffix+to.Extension())
}
