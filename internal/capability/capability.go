// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package capability tracks which optional external facilities (table
// extractors, the document model, the workbook engine, the office suite)
// are present in this process. Availability is probed once, when the
// Registry is built, and never re-detected.
package capability

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// Name identifies a capability.
type Name string

const (
	Tabula           Name = "tabula"
	PDFLayout        Name = "pdf-layout"
	DocumentModel    Name = "document-model"
	Spreadsheet      Name = "spreadsheet"
	OfficeAutomation Name = "office-automation"
)

// ErrMissing is matched by every error returned from Registry.Require.
var ErrMissing = errors.New("capability not installed")

// MissingError names the capability a routine needed but did not find.
type MissingError struct {
	Name Name
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, ErrMissing)
}

func (e *MissingError) Unwrap() error { return ErrMissing }

// Probe is implemented by every binding. Available may be expensive (it can
// look up binaries or talk to a container runtime); the Registry calls it
// exactly once.
type Probe interface {
	Capability() Name
	Available() bool
}

// Describer is optionally implemented by probes that can explain what they
// resolved to (a binary path, an image name).
type Describer interface {
	Describe() string
}

// Status is the resolved state of one capability.
type Status struct {
	Name      Name   `json:"name" yaml:"name"`
	Available bool   `json:"available" yaml:"available"`
	Detail    string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Registry is the immutable availability table built at startup.
type Registry struct {
	status map[Name]Status
}

// NewRegistry probes each binding once. When two probes report the same
// name, the capability is available if either is.
func NewRegistry(logger *slog.Logger, probes ...Probe) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{status: make(map[Name]Status, len(probes))}
	for _, p := range probes {
		if p == nil {
			continue
		}
		st := Status{Name: p.Capability(), Available: p.Available()}
		if d, ok := p.(Describer); ok {
			st.Detail = d.Describe()
		}
		if prev, ok := r.status[st.Name]; ok && prev.Available {
			continue
		}
		r.status[st.Name] = st
		logger.Debug("capability.resolved", "name", st.Name, "available", st.Available, "detail", st.Detail)
	}
	return r
}

// Available reports whether the named capability was present at startup.
// Unknown names are unavailable.
func (r *Registry) Available(name Name) bool {
	return r.status[name].Available
}

// Require returns nil when the capability is available and a *MissingError
// otherwise.
func (r *Registry) Require(name Name) error {
	if r.Available(name) {
		return nil
	}
	return &MissingError{Name: name}
}

// Statuses returns every registered capability sorted by name.
func (r *Registry) Statuses() []Status {
	out := make([]Status, 0, len(r.status))
	for _, st := range r.status {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
