// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build unix

package container

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestRunPipedKillsProcessGroup(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not on PATH")
	}
	marker := filepath.Join(t.TempDir(), "survivor")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	script := "(sleep 1; touch " + marker + ") & wait"
	if err := (OSExecutor{}).RunPiped(ctx, "sh", []string{"-c", script}, nil, io.Discard); err == nil {
		t.Fatal("expected error from cancelled command, got nil")
	}
	if elapsed := time.Since(start); elapsed > 900*time.Millisecond {
		t.Errorf("RunPiped returned after %s, want prompt return on cancel", elapsed)
	}

	time.Sleep(1500 * time.Millisecond)
	if _, err := os.Stat(marker); err == nil {
		t.Error("background child of the cancelled command kept running")
	}
}
