// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/docconv/internal/capability"
	"github.com/pdiddy/docconv/internal/container"
	"github.com/pdiddy/docconv/pkg/types"
)

// workDir is where the session directory is mounted in container mode.
const workDir = "/work"

// removeTimeout bounds the container removal issued by Release.
const removeTimeout = 30 * time.Second

// Session is one scoped use of the office suite. It owns a scratch
// directory holding the suite's private profile, the staged input and the
// export output, plus a context that bounds and kills the process. In
// container mode it also owns a container named after the scratch
// directory. A Session is never shared between files.
type Session struct {
	driver  *Driver
	dir     string
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
	err     error
	started bool
}

// Acquire starts a session. It fails with a *capability.MissingError when
// the driver found no office suite.
func (d *Driver) Acquire(ctx context.Context) (*Session, error) {
	if !d.Available() {
		return nil, &capability.MissingError{Name: capability.OfficeAutomation}
	}
	dir, err := os.MkdirTemp(d.cfg.TempDir, "docconv-office-*")
	if err != nil {
		return nil, fmt.Errorf("creating office session directory: %w", err)
	}
	for _, sub := range []string{"profile", "in", "out"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			_ = os.RemoveAll(dir)
			return nil, fmt.Errorf("creating office session directory: %w", err)
		}
	}
	sctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	d.logger.Debug("office.session_acquired", "dir", dir, "mode", d.mode)
	return &Session{driver: d, dir: dir, ctx: sctx, cancel: cancel}, nil
}

// Dir returns the session's scratch directory.
func (s *Session) Dir() string { return s.dir }

// Release stops any process still running for the session, force-removes
// its container if one was started, and removes its scratch directory. It
// is safe to call more than once; later calls return the first call's
// result. A failed container removal is logged, not returned.
func (s *Session) Release() error {
	s.once.Do(func() {
		s.cancel()
		if s.started && s.driver.mode == ModeContainer {
			s.removeContainer()
		}
		if err := os.RemoveAll(s.dir); err != nil {
			s.err = fmt.Errorf("removing office session directory: %w", err)
		}
		s.driver.logger.Debug("office.session_released", "dir", s.dir, "error", s.err)
	})
	return s.err
}

// containerName is the name of the session's container.
func (s *Session) containerName() string {
	return filepath.Base(s.dir)
}

func (s *Session) removeContainer() {
	ctx, cancel := context.WithTimeout(context.Background(), removeTimeout)
	defer cancel()
	name := s.containerName()
	if err := s.driver.runtime.Remove(ctx, name); err != nil {
		s.driver.logger.Debug("office.container_remove_failed", "container", name, "error", err)
	}
}

// Export converts src to a PDF at dst. src is copied into the session
// first, so the suite never opens the caller's file for writing.
func (s *Session) Export(src, dst string, from types.Format) error {
	filter, err := filterFor(from)
	if err != nil {
		return err
	}
	if err := s.ctx.Err(); err != nil {
		return fmt.Errorf("office session closed: %w", err)
	}

	base := filepath.Base(src)
	staged := filepath.Join(s.dir, "in", base)
	if err := copyFile(src, staged); err != nil {
		return fmt.Errorf("staging %s: %w", src, err)
	}

	var out bytes.Buffer
	if err := s.run(filter, base, &out); err != nil {
		if errors.Is(s.ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("exporting %s: timed out after %s", src, s.driver.cfg.Timeout)
		}
		return fmt.Errorf("exporting %s: %w", src, err)
	}

	produced := filepath.Join(s.dir, "out", strings.TrimSuffix(base, filepath.Ext(base))+".pdf")
	if _, err := os.Stat(produced); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			msg = "no output"
		}
		return fmt.Errorf("exporting %s: office suite produced no PDF (%s)", src, msg)
	}
	if err := moveFile(produced, dst); err != nil {
		return fmt.Errorf("moving PDF to %s: %w", dst, err)
	}
	return nil
}

func (s *Session) run(filter, base string, stdout io.Writer) error {
	d := s.driver
	s.started = true
	switch d.mode {
	case ModeLocal:
		args := sofficeArgs(s.dir, filter, filepath.Join(s.dir, "in", base))
		return d.exec.RunPiped(s.ctx, d.binary, args, nil, stdout)
	case ModeContainer:
		spec := container.RunSpec{
			Image:  d.cfg.Image,
			Name:   s.containerName(),
			Mounts: []container.Mount{{Host: s.dir, Container: workDir}},
			Args:   append([]string{"soffice"}, sofficeArgs(workDir, filter, workDir+"/in/"+base)...),
		}
		return d.runtime.Run(s.ctx, spec, nil, stdout)
	}
	return &capability.MissingError{Name: capability.OfficeAutomation}
}

// sofficeArgs builds a headless conversion command rooted at dir, which
// holds the profile and out subdirectories.
func sofficeArgs(dir, filter, input string) []string {
	return []string{
		"-env:UserInstallation=" + fileURL(filepath.Join(dir, "profile")),
		"--headless",
		"--invisible",
		"--norestore",
		"--nolockcheck",
		"--convert-to", filter,
		"--outdir", filepath.Join(dir, "out"),
		input,
	}
}

func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

// moveFile renames src to dst, falling back to copy and remove when they
// are on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}
