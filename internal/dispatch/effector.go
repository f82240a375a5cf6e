package dispatch

import (
	"os/exec"

	"github.com/atotto/clipboard"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
	"github.com/chess10kp/buttonlauncher/internal/config"
)

// OSEffector performs effects on the host. Spawned processes are detached
// and never waited on by the caller.
type OSEffector struct {
	FileBrowser    string
	URLOpener      string
	ElevateCommand string

	writeClipboard func(text string) error
}

func NewOSEffector(cfg config.DispatchConfig) *OSEffector {
	return &OSEffector{
		FileBrowser:    cfg.FileBrowser,
		URLOpener:      cfg.URLOpener,
		ElevateCommand: cfg.ElevateCommand,
		writeClipboard: clipboard.WriteAll,
	}
}

func (o *OSEffector) Spawn(program string, args []string, elevated bool) error {
	if elevated {
		return o.spawnElevated(program, args)
	}
	return start(program, args)
}

func (o *OSEffector) OpenPath(path string) error {
	if o.FileBrowser != "" {
		return start(o.FileBrowser, []string{path})
	}
	return openPath(path)
}

func (o *OSEffector) OpenURL(url string) error {
	if o.URLOpener != "" {
		return start(o.URLOpener, []string{url})
	}
	return openURL(url)
}

func (o *OSEffector) CopyText(text string) error {
	write := o.writeClipboard
	if write == nil {
		write = clipboard.WriteAll
	}
	if err := write(text); err != nil {
		return &buttons.LaunchError{Program: "clipboard", Err: err}
	}
	return nil
}

func start(program string, args []string) error {
	cmd := exec.Command(program, args...)
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return &buttons.LaunchError{Program: program, Err: err}
	}
	// Reap in the background so the child does not linger as a zombie.
	go cmd.Wait()
	return nil
}
