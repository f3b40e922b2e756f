// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pdiddy/docconv/internal/capability"
	"github.com/pdiddy/docconv/internal/tables"
	"github.com/pdiddy/docconv/pkg/types"
)

// ErrorKind classifies a failed conversion.
type ErrorKind string

const (
	// KindCapabilityMissing: a binding the routine needs is not installed.
	KindCapabilityMissing ErrorKind = "capability-missing"
	// KindNoDataFound: extraction ran but found no tables.
	KindNoDataFound ErrorKind = "no-data-found"
	// KindConversionFailure: the transformation itself failed.
	KindConversionFailure ErrorKind = "conversion-failure"
	// KindUnsupportedPair: no routine exists for the format pair.
	KindUnsupportedPair ErrorKind = "unsupported-pair"
)

var (
	ErrNoDataFound     = errors.New("no tables found")
	ErrUnsupportedPair = errors.New("conversion not supported")
)

// ConversionError is returned by ConvertOne for every failed job. Output
// is the derived path, which holds no file once the error is returned.
type ConversionError struct {
	Kind   ErrorKind
	Job    types.ConversionJob
	Output string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %s from %s to %s: %v",
		filepath.Base(e.Job.Source), e.Job.From.Label(), e.Job.To.Label(), e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// KindOf returns the kind of err. Errors that are not a *ConversionError
// are classified by the sentinels they wrap.
func KindOf(err error) ErrorKind {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return classify(err)
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, capability.ErrMissing):
		return KindCapabilityMissing
	case errors.Is(err, ErrNoDataFound), errors.Is(err, tables.ErrNoTables):
		return KindNoDataFound
	case errors.Is(err, ErrUnsupportedPair):
		return KindUnsupportedPair
	}
	return KindConversionFailure
}
