package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
	"github.com/chess10kp/buttonlauncher/internal/config"
	"github.com/chess10kp/buttonlauncher/internal/dispatch"
	"github.com/chess10kp/buttonlauncher/internal/history"
	"github.com/chess10kp/buttonlauncher/internal/logging"
	"github.com/chess10kp/buttonlauncher/internal/prompt"
)

// loadSettings reads and validates the settings file and applies --buttons.
func loadSettings() (*config.Config, error) {
	cfg, err := config.LoadAndValidateConfig(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings %s: %w", settingsPath, err)
	}
	if buttonsPath != "" {
		cfg.ButtonsPath = config.ExpandPath(buttonsPath)
	}
	return cfg, nil
}

// loadButtons reads the buttons file named by the settings.
func loadButtons(cfg *config.Config) (*buttons.Configuration, error) {
	b, err := buttons.Load(cfg.ButtonsPath)
	if err != nil {
		return nil, err
	}
	if err := buttons.Validate(b, cfg.Strict); err != nil {
		return nil, err
	}
	return b, nil
}

// openHistory returns nil when history is disabled in the settings.
func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.HistoryPath(), cfg.History.MaxEntries)
}

// newDispatcher wires the OS effector, the configured prompt and, when
// enabled, the history store.
func newDispatcher(cfg *config.Config, logger *logging.Logger, store *history.Store) (*dispatch.Dispatcher, prompt.Prompt, error) {
	p, err := prompt.New(cfg.Prompt.Backend)
	if err != nil {
		return nil, nil, err
	}

	var opts []dispatch.Option
	if store != nil {
		opts = append(opts, dispatch.WithRecorder(store))
	}
	d := dispatch.New(dispatch.EnvFromConfig(cfg.Dispatch), dispatch.NewOSEffector(cfg.Dispatch), p, logger, opts...)
	return d, p, nil
}

// openLogger opens the log file from the settings, falling back to stderr.
func openLogger(cfg *config.Config) *logging.Logger {
	logger, err := logging.Open(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot open log %s: %v\n", cfg.LogPath, err)
		return logging.New(os.Stderr)
	}
	return logger
}

// writeStructured prints v as indented JSON or YAML.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported output format '%s' (use text, json or yaml)", format)
}

func info(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}
