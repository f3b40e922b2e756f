// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runPipedFunc  func(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(_ context.Context, name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(_ context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdin, stdout)
	}
	return nil
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "docker available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true},
				runnableCmds:  map[string]bool{"docker info": true},
			},
			wantName: "docker",
		},
		{
			name: "podman fallback when docker missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name: "neither available",
			exec: &mockExecutor{
				availableBins: map[string]bool{},
				runnableCmds:  map[string]bool{},
			},
			wantErr: true,
		},
		{
			name: "docker on PATH but info fails, podman works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := DetectRuntimeWith(context.Background(), tt.exec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "no container runtime available") {
					t.Errorf("error should mention no runtime available, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rt.Name() != tt.wantName {
				t.Errorf("got runtime %q, want %q", rt.Name(), tt.wantName)
			}
		})
	}
}

func TestImageExists(t *testing.T) {
	tests := []struct {
		name    string
		mkRT    func(*mockExecutor) Runtime
		cmds    map[string]bool
		wantErr bool
	}{
		{
			name: "docker image exists",
			mkRT: func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			cmds: map[string]bool{"docker image inspect libreoffice:latest": true},
		},
		{
			name:    "docker image not found",
			mkRT:    func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			cmds:    map[string]bool{},
			wantErr: true,
		},
		{
			name: "podman image exists",
			mkRT: func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			cmds: map[string]bool{"podman image exists libreoffice:latest": true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := tt.mkRT(&mockExecutor{runnableCmds: tt.cmds})
			err := rt.ImageExists(context.Background(), "libreoffice:latest")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "libreoffice:latest") {
					t.Errorf("error should mention image name, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRunBuildsMountsAndArgs(t *testing.T) {
	var gotName string
	var gotArgs []string
	exec := &mockExecutor{
		runPipedFunc: func(name string, args []string, stdin io.Reader, stdout io.Writer) error {
			gotName, gotArgs = name, args
			_, _ = stdout.Write([]byte("done"))
			return nil
		},
	}
	rt := newPodmanRuntime(exec)

	var out bytes.Buffer
	spec := RunSpec{
		Image:  "libreoffice:latest",
		Mounts: []Mount{{Host: "/tmp/session", Container: "/work"}},
		Args:   []string{"soffice", "--headless"},
	}
	if err := rt.Run(context.Background(), spec, nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotName != "podman" {
		t.Errorf("binary = %q, want podman", gotName)
	}
	want := "run --rm -i --network none -v /tmp/session:/work libreoffice:latest soffice --headless"
	if got := strings.Join(gotArgs, " "); got != want {
		t.Errorf("args = %q\nwant   %q", got, want)
	}
	if out.String() != "done" {
		t.Errorf("stdout = %q, want %q", out.String(), "done")
	}
}

func TestRunWrapsFailure(t *testing.T) {
	exec := &mockExecutor{
		runPipedFunc: func(string, []string, io.Reader, io.Writer) error {
			return errors.New("container exited with code 1")
		},
	}
	rt := newDockerRuntime(exec)
	err := rt.Run(context.Background(), RunSpec{Image: "libreoffice:latest"}, nil, io.Discard)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "running docker container libreoffice:latest") {
		t.Errorf("error should name runtime and image, got: %v", err)
	}
}

func TestRuntimeName(t *testing.T) {
	exec := &mockExecutor{}
	if n := newDockerRuntime(exec).Name(); n != "docker" {
		t.Errorf("docker runtime name = %q, want %q", n, "docker")
	}
	if n := newPodmanRuntime(exec).Name(); n != "podman" {
		t.Errorf("podman runtime name = %q, want %q", n, "podman")
	}
}

func TestRunNamesContainer(t *testing.T) {
	var gotArgs []string
	exec := &mockExecutor{
		runPipedFunc: func(_ string, args []string, _ io.Reader, _ io.Writer) error {
			gotArgs = args
			return nil
		},
	}
	spec := RunSpec{Image: "libreoffice:latest", Name: "docconv-office-42", Args: []string{"soffice"}}
	if err := newDockerRuntime(exec).Run(context.Background(), spec, nil, io.Discard); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "run --rm -i --network none --name docconv-office-42 libreoffice:latest soffice"
	if got := strings.Join(gotArgs, " "); got != want {
		t.Errorf("args = %q\nwant   %q", got, want)
	}
}

func TestRemove(t *testing.T) {
	exec := &mockExecutor{runnableCmds: map[string]bool{"podman rm -f docconv-office-42": true}}
	if err := newPodmanRuntime(exec).Remove(context.Background(), "docconv-office-42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := newDockerRuntime(exec).Remove(context.Background(), "docconv-office-42")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "removing docker container docconv-office-42") {
		t.Errorf("error should name runtime and container, got: %v", err)
	}
}
