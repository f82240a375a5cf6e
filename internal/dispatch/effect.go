package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
	"github.com/chess10kp/buttonlauncher/internal/config"
)

type EffectKind int

const (
	EffectSpawn EffectKind = iota
	EffectOpenPath
	EffectOpenURL
	EffectCopyText
)

func (k EffectKind) String() string {
	switch k {
	case EffectOpenPath:
		return "open_path"
	case EffectOpenURL:
		return "open_url"
	case EffectCopyText:
		return "copy_text"
	default:
		return "spawn"
	}
}

// Effect describes one OS operation. Planning produces an Effect without
// touching the OS; an Effector performs it.
type Effect struct {
	Kind     EffectKind
	Program  string
	Args     []string
	Elevated bool
	Path     string
	URL      string
	Text     string

	// Fallback runs only when the effect itself fails to start.
	Fallback *Effect
}

func (e *Effect) ToJSON() ([]byte, error) {
	data := map[string]interface{}{
		"type": e.Kind.String(),
	}
	switch e.Kind {
	case EffectSpawn:
		data["program"] = e.Program
		data["args"] = e.Args
		data["elevated"] = e.Elevated
	case EffectOpenPath:
		data["path"] = e.Path
	case EffectOpenURL:
		data["url"] = e.URL
	case EffectCopyText:
		data["text"] = e.Text
	}
	if e.Fallback != nil {
		fallback, err := e.Fallback.ToJSON()
		if err != nil {
			return nil, err
		}
		data["fallback"] = json.RawMessage(fallback)
	}
	return json.Marshal(data)
}

// Env holds the settings planning depends on.
type Env struct {
	Browser           string
	ScriptInterpreter string
	ScriptArgs        []string

	// Stat defaults to os.Stat.
	Stat func(name string) (os.FileInfo, error)
}

func EnvFromConfig(cfg config.DispatchConfig) Env {
	return Env{
		Browser:           cfg.Browser,
		ScriptInterpreter: cfg.ScriptInterpreter,
		ScriptArgs:        append([]string(nil), cfg.ScriptArgs...),
	}
}

func (env Env) stat(name string) (os.FileInfo, error) {
	if env.Stat != nil {
		return env.Stat(name)
	}
	return os.Stat(name)
}

func (env Env) exists(name string) bool {
	_, err := env.stat(name)
	return err == nil
}

func (env Env) isFile(name string) bool {
	info, err := env.stat(name)
	return err == nil && !info.IsDir()
}

func missing(what string) error {
	return &buttons.ValidationError{Errors: []string{fmt.Sprintf("no %s specified", what)}}
}

// Plan validates the entry's target and describes the effect to perform.
// It never starts anything.
func Plan(entry buttons.Entry, env Env) (Effect, error) {
	target := entry.Target

	switch entry.Kind() {
	case buttons.OpenContainingFolder:
		if strings.TrimSpace(target) == "" {
			return Effect{}, missing("path")
		}
		if !env.exists(target) {
			return Effect{}, &buttons.TargetNotFoundError{Target: target}
		}
		return Effect{Kind: EffectOpenPath, Path: target}, nil

	case buttons.RunExecutableOrScript:
		if strings.TrimSpace(target) == "" {
			return Effect{}, missing("file")
		}
		if IsExplicitPath(target) && !env.isFile(target) {
			return Effect{}, &buttons.TargetNotFoundError{Target: target}
		}
		return Effect{Kind: EffectSpawn, Program: target, Elevated: entry.RunAsAdmin}, nil

	case buttons.RunScriptInterpreter:
		if strings.TrimSpace(target) == "" {
			return Effect{}, missing("script")
		}
		if !env.isFile(target) {
			return Effect{}, &buttons.TargetNotFoundError{Target: target}
		}
		if env.ScriptInterpreter == "" {
			return Effect{}, errors.New("no script interpreter configured")
		}
		args := append(append([]string(nil), env.ScriptArgs...), target)
		return Effect{Kind: EffectSpawn, Program: env.ScriptInterpreter, Args: args, Elevated: entry.RunAsAdmin}, nil

	case buttons.CopyTextToClipboard:
		if target == "" {
			return Effect{}, missing("text for the clipboard")
		}
		return Effect{Kind: EffectCopyText, Text: target}, nil

	case buttons.OpenURLInBrowser:
		if strings.TrimSpace(target) == "" {
			return Effect{}, missing("url")
		}
		if env.Browser == "" {
			return Effect{Kind: EffectOpenURL, URL: target}, nil
		}
		return Effect{
			Kind:     EffectSpawn,
			Program:  env.Browser,
			Args:     []string{target},
			Fallback: &Effect{Kind: EffectOpenURL, URL: target},
		}, nil
	}

	return Effect{}, fmt.Errorf("unhandled action kind %v", entry.Kind())
}

// IsExplicitPath reports whether target names a file by path rather than a
// bare command. Bare commands are left to the OS search path.
func IsExplicitPath(target string) bool {
	return filepath.IsAbs(target) || strings.ContainsAny(target, `/\`)
}

// Effector performs effects against the OS.
type Effector interface {
	Spawn(program string, args []string, elevated bool) error
	OpenPath(path string) error
	OpenURL(url string) error
	CopyText(text string) error
}

// Perform runs eff, trying its fallback if it fails to start.
func Perform(eff Effect, fx Effector) error {
	err := performOne(eff, fx)
	if err == nil || eff.Fallback == nil {
		return err
	}
	if fbErr := Perform(*eff.Fallback, fx); fbErr != nil {
		return fmt.Errorf("%v; fallback failed: %w", err, fbErr)
	}
	return nil
}

func performOne(eff Effect, fx Effector) error {
	switch eff.Kind {
	case EffectSpawn:
		return fx.Spawn(eff.Program, eff.Args, eff.Elevated)
	case EffectOpenPath:
		return fx.OpenPath(eff.Path)
	case EffectOpenURL:
		return fx.OpenURL(eff.URL)
	case EffectCopyText:
		return fx.CopyText(eff.Text)
	}
	return fmt.Errorf("unknown effect %v", eff.Kind)
}
