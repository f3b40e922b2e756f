// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package office drives a headless LibreOffice to export Word documents and
// workbooks to PDF. The suite runs either as a local process or inside a
// container image; each export happens inside a Session that owns the
// process, its private profile and its scratch directories, and is always
// released.
package office

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/docconv/internal/capability"
	"github.com/pdiddy/docconv/internal/container"
	"github.com/pdiddy/docconv/pkg/types"
)

// DefaultTimeout bounds one export when the configuration sets none.
const DefaultTimeout = 2 * time.Minute

// Mode is how the driver reaches the office suite.
type Mode string

const (
	ModeNone      Mode = "none"
	ModeLocal     Mode = "local"
	ModeContainer Mode = "container"
)

var localBinaries = []string{"soffice", "libreoffice"}

// Driver is the office-automation capability. Its mode is resolved once by
// NewDriver.
type Driver struct {
	cfg     types.OfficeConfig
	exec    container.Executor
	runtime container.Runtime
	mode    Mode
	binary  string
	logger  *slog.Logger
}

// NewDriver resolves how to run the office suite: a local binary first
// (cfg.Binary, else soffice or libreoffice on PATH), then cfg.Image through
// docker or podman. A nil exec uses container.OSExecutor.
func NewDriver(ctx context.Context, cfg types.OfficeConfig, exec container.Executor, logger *slog.Logger) *Driver {
	if exec == nil {
		exec = container.OSExecutor{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	d := &Driver{cfg: cfg, exec: exec, mode: ModeNone, logger: logger}
	if !cfg.Enabled {
		return d
	}

	candidates := localBinaries
	if cfg.Binary != "" {
		candidates = []string{cfg.Binary}
	}
	for _, bin := range candidates {
		if path, err := exec.LookPath(bin); err == nil {
			d.mode, d.binary = ModeLocal, path
			logger.Debug("office.local", "binary", path)
			return d
		}
	}

	if cfg.Image == "" {
		return d
	}
	rt, err := container.DetectRuntimeWith(ctx, exec)
	if err != nil {
		logger.Debug("office.no_runtime", "error", err)
		return d
	}
	if err := rt.ImageExists(ctx, cfg.Image); err != nil {
		logger.Debug("office.no_image", "image", cfg.Image, "error", err)
		return d
	}
	d.mode, d.runtime = ModeContainer, rt
	logger.Debug("office.container", "runtime", rt.Name(), "image", cfg.Image)
	return d
}

func (d *Driver) Capability() capability.Name { return capability.OfficeAutomation }
func (d *Driver) Available() bool             { return d.mode != ModeNone }

// Mode returns how the driver reaches the office suite.
func (d *Driver) Mode() Mode { return d.mode }

func (d *Driver) Describe() string {
	switch d.mode {
	case ModeLocal:
		return d.binary
	case ModeContainer:
		return fmt.Sprintf("%s image %s", d.runtime.Name(), d.cfg.Image)
	}
	return "LibreOffice not found"
}

// ExportPDF converts src, a document of format from, to a PDF at dst. The
// whole export runs inside one Session that is released before ExportPDF
// returns, on success and on failure.
func (d *Driver) ExportPDF(ctx context.Context, src, dst string, from types.Format) error {
	return d.WithSession(ctx, func(s *Session) error {
		return s.Export(src, dst, from)
	})
}

// WithSession acquires a Session, runs fn with it, and releases it on every
// exit path, including a panic in fn.
func (d *Driver) WithSession(ctx context.Context, fn func(*Session) error) error {
	s, err := d.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.Release()
	return fn(s)
}

// filterFor returns the LibreOffice PDF export filter for documents of
// format f.
func filterFor(f types.Format) (string, error) {
	switch f {
	case types.FormatWord:
		return "pdf:writer_pdf_Export", nil
	case types.FormatSpreadsheet:
		return "pdf:calc_pdf_Export", nil
	}
	return "", fmt.Errorf("no PDF export filter for %s documents", f.Label())
}
