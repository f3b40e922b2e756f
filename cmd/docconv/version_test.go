package main

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setBuildVars(t *testing.T, v, c, d string) {
	t.Helper()
	pv, pc, pd := version, commit, date
	version, commit, date = v, c, d
	t.Cleanup(func() { version, commit, date = pv, pc, pd })
}

func TestReadBuildPrefersLdflags(t *testing.T) {
	setBuildVars(t, "v1.4.0", "9f1c2ab", "2026-10-01T08:00:00Z")
	info := &debug.BuildInfo{
		GoVersion: "go1.25.6",
		Main:      debug.Module{Path: "github.com/pdiddy/docconv", Version: "(devel)"},
		Deps: []*debug.Module{
			{Path: "rsc.io/pdf", Version: "v0.1.1"},
			{Path: "github.com/xuri/excelize/v2", Version: "v2.10.0"},
			{Path: "github.com/spf13/cobra", Version: "v1.10.2"},
			{Path: "github.com/pdfcpu/pdfcpu", Version: "v0.11.1", Replace: &debug.Module{Path: "../pdfcpu", Version: "v0.11.2"}},
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "ffffffffffff"},
			{Key: "vcs.time", Value: "2020-01-01T00:00:00Z"},
		},
	}

	b := readBuild(info)
	assert.Equal(t, "v1.4.0", b.Version)
	assert.Equal(t, "9f1c2ab", b.Commit)
	assert.Equal(t, "2026-10-01T08:00:00Z", b.Date)
	assert.Equal(t, "go1.25.6", b.GoVersion)
	assert.Equal(t, []library{
		{Path: "github.com/xuri/excelize/v2", Version: "v2.10.0"},
		{Path: "github.com/pdfcpu/pdfcpu", Version: "v0.11.2"},
		{Path: "rsc.io/pdf", Version: "v0.1.1"},
	}, b.Libraries)
}

func TestReadBuildFallsBackToEmbeddedStamp(t *testing.T) {
	setBuildVars(t, "dev", "", "")
	info := &debug.BuildInfo{
		GoVersion: "go1.25.6",
		Main:      debug.Module{Path: "github.com/pdiddy/docconv", Version: "v1.3.2"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-09-30T12:00:00Z"},
		},
	}

	b := readBuild(info)
	assert.Equal(t, "v1.3.2", b.Version)
	assert.Equal(t, "abc123", b.Commit)
	assert.Equal(t, "2026-09-30T12:00:00Z", b.Date)
	assert.Empty(t, b.Libraries)
}

func TestReadBuildWithoutInfo(t *testing.T) {
	setBuildVars(t, "dev", "", "")
	assert.Equal(t, buildDetails{Version: "dev"}, readBuild(nil))
}

func TestWriteVersion(t *testing.T) {
	var buf bytes.Buffer
	writeVersion(&buf, buildDetails{
		Version:   "v1.4.0",
		Commit:    "9f1c2ab",
		GoVersion: "go1.25.6",
		Libraries: []library{{Path: "rsc.io/pdf", Version: "v0.1.1"}},
	})
	assert.Equal(t, "docconv v1.4.0\n"+
		"  commit: 9f1c2ab\n"+
		"  built:  unknown\n"+
		"  go:     go1.25.6\n"+
		"  libraries:\n"+
		"    rsc.io/pdf                     v0.1.1\n", buf.String())
}
