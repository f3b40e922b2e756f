// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !unix

package container

import "os/exec"

// killGroupOnCancel keeps the default cancellation, which kills the command
// process only.
func killGroupOnCancel(*exec.Cmd) {}
