//go:build windows

package dispatch

import (
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
)

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
}

func openPath(path string) error {
	return start("explorer.exe", []string{path})
}

func openURL(url string) error {
	return shellExecute("open", url, "")
}

func (o *OSEffector) spawnElevated(program string, args []string) error {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = syscall.EscapeArg(arg)
	}
	return shellExecute("runas", program, strings.Join(quoted, " "))
}

func shellExecute(verb, file, params string) error {
	verbPtr, err := windows.UTF16PtrFromString(verb)
	if err != nil {
		return &buttons.LaunchError{Program: file, Err: err}
	}
	filePtr, err := windows.UTF16PtrFromString(file)
	if err != nil {
		return &buttons.LaunchError{Program: file, Err: err}
	}
	var paramsPtr *uint16
	if params != "" {
		if paramsPtr, err = windows.UTF16PtrFromString(params); err != nil {
			return &buttons.LaunchError{Program: file, Err: err}
		}
	}

	if err := windows.ShellExecute(0, verbPtr, filePtr, paramsPtr, nil, windows.SW_SHOWNORMAL); err != nil {
		return &buttons.LaunchError{Program: file, Err: err}
	}
	return nil
}
