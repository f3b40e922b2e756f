// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build unix

package container

import (
	"errors"
	"os/exec"
	"syscall"
)

// killGroupOnCancel puts cmd in a new process group and makes cancellation
// SIGKILL the group, so helpers the command forked die with it.
func killGroupOnCancel(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return nil
		}
		return err
	}
}
