//go:build !windows

package dispatch

import (
	"os/exec"
	"runtime"
	"syscall"
)

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}

func platformOpener() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

func openPath(path string) error {
	return start(platformOpener(), []string{path})
}

func openURL(url string) error {
	return start(platformOpener(), []string{url})
}

func (o *OSEffector) spawnElevated(program string, args []string) error {
	elevate := o.ElevateCommand
	if elevate == "" {
		elevate = "pkexec"
	}
	return start(elevate, append([]string{program}, args...))
}
