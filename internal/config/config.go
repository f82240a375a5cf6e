package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

const DefaultConfigPath = "~/.config/buttonlauncher/config.toml"

type Config struct {
	ButtonsPath string         `toml:"buttons_path"`
	LogPath     string         `toml:"log_path"`
	SocketPath  string         `toml:"socket_path"`
	DataDir     string         `toml:"data_dir"`
	PidFile     string         `toml:"pid_file"`
	Strict      bool           `toml:"strict"`
	Watch       WatchConfig    `toml:"watch"`
	Dispatch    DispatchConfig `toml:"dispatch"`
	Prompt      PromptConfig   `toml:"prompt"`
	Search      SearchConfig   `toml:"search"`
	History     HistoryConfig  `toml:"history"`
}

type WatchConfig struct {
	Enabled    bool `toml:"enabled"`
	DebounceMs int  `toml:"debounce_ms"`
}

type DispatchConfig struct {
	Browser           string   `toml:"browser"`
	ScriptInterpreter string   `toml:"script_interpreter"`
	ScriptArgs        []string `toml:"script_args"`
	ElevateCommand    string   `toml:"elevate_command"` // unix only; windows uses the runas verb
	FileBrowser       string   `toml:"file_browser"`    // empty = platform opener
	URLOpener         string   `toml:"url_opener"`      // empty = platform opener
}

type PromptConfig struct {
	Backend string `toml:"backend"` // terminal, gtk, native, auto-yes
}

type SearchConfig struct {
	MaxResults int `toml:"max_results"`
	CacheSize  int `toml:"cache_size"`
}

type HistoryConfig struct {
	Enabled    bool `toml:"enabled"`
	MaxEntries int  `toml:"max_entries"`
}

var validPromptBackends = map[string]bool{
	"terminal": true,
	"gtk":      true,
	"native":   true,
	"auto-yes": true,
}

var DefaultConfig = Config{
	ButtonsPath: "~/.config/buttonlauncher/buttons.json",
	LogPath:     "~/.cache/buttonlauncher/logs/button-launcher.log",
	SocketPath:  "/tmp/buttonlauncher.sock",
	DataDir:     "~/.local/share/buttonlauncher",
	PidFile:     "",
	Strict:      false,
	Watch: WatchConfig{
		Enabled:    true,
		DebounceMs: 300,
	},
	Dispatch: DispatchConfig{
		Browser:           defaultBrowser(),
		ScriptInterpreter: defaultScriptInterpreter(),
		ScriptArgs:        []string{"-ExecutionPolicy", "Bypass", "-File"},
		ElevateCommand:    "pkexec",
		FileBrowser:       "",
		URLOpener:         "",
	},
	Prompt: PromptConfig{
		Backend: "terminal",
	},
	Search: SearchConfig{
		MaxResults: 10,
		CacheSize:  100,
	},
	History: HistoryConfig{
		Enabled:    true,
		MaxEntries: 1000,
	},
}

func defaultBrowser() string {
	if runtime.GOOS == "windows" {
		return "firefox.exe"
	}
	return "firefox"
}

func defaultScriptInterpreter() string {
	if runtime.GOOS == "windows" {
		return "powershell.exe"
	}
	return "pwsh"
}

// Default returns a copy of DefaultConfig that does not share slices with it.
func Default() *Config {
	cfg := DefaultConfig
	cfg.Dispatch.ScriptArgs = append([]string(nil), DefaultConfig.Dispatch.ScriptArgs...)
	cfg.expandPaths()
	return &cfg
}

// LoadConfig reads the settings file. A missing file yields the defaults;
// values absent from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	expandedPath := expandPath(path)

	if _, err := os.Stat(expandedPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	defaultArgs := cfg.Dispatch.ScriptArgs
	cfg.Dispatch.ScriptArgs = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Dispatch.ScriptArgs == nil {
		cfg.Dispatch.ScriptArgs = defaultArgs
	}
	cfg.expandPaths()

	return cfg, nil
}

func LoadAndValidateConfig(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) expandPaths() {
	c.ButtonsPath = expandPath(c.ButtonsPath)
	c.LogPath = expandPath(c.LogPath)
	c.SocketPath = expandPath(c.SocketPath)
	c.DataDir = expandPath(c.DataDir)
	c.PidFile = expandPath(c.PidFile)
}

// HistoryPath is the activation history database inside DataDir.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// PidPath is the single-instance pid file. An empty pid_file puts it in
// $XDG_RUNTIME_DIR, or in DataDir when that is unset.
func (c *Config) PidPath() string {
	if c.PidFile != "" {
		return c.PidFile
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "buttonlauncher.pid")
	}
	return filepath.Join(c.DataDir, "buttonlauncher.pid")
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		usr, err := user.Current()
		if err == nil {
			return filepath.Join(usr.HomeDir, path[1:])
		}
	}
	return path
}

// ExpandPath resolves a leading ~ to the current user's home directory.
func ExpandPath(path string) string {
	return expandPath(path)
}

func SaveConfig(cfg *Config, path string) error {
	expandedPath := expandPath(path)

	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(expandedPath, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateDispatch(); err != nil {
		return err
	}
	if err := c.validatePrompt(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.ButtonsPath == "" {
		return fmt.Errorf("buttons_path must not be empty")
	}
	if c.LogPath == "" {
		return fmt.Errorf("log_path must not be empty")
	}
	return nil
}

func (c *Config) validateWatch() error {
	w := c.Watch
	if w.DebounceMs < 10 || w.DebounceMs > 10000 {
		return fmt.Errorf("invalid debounce_ms: %d (must be 10-10000ms)", w.DebounceMs)
	}
	return nil
}

func (c *Config) validateDispatch() error {
	d := c.Dispatch
	if d.Browser == "" {
		return fmt.Errorf("dispatch browser must not be empty")
	}
	if d.ScriptInterpreter == "" {
		return fmt.Errorf("dispatch script_interpreter must not be empty")
	}
	return nil
}

func (c *Config) validatePrompt() error {
	if !validPromptBackends[c.Prompt.Backend] {
		return fmt.Errorf("invalid prompt backend: %s (must be one of: terminal, gtk, native, auto-yes)", c.Prompt.Backend)
	}
	return nil
}

func (c *Config) validateSearch() error {
	s := c.Search
	if s.MaxResults < 1 || s.MaxResults > 1000 {
		return fmt.Errorf("invalid max_results: %d (must be 1-1000)", s.MaxResults)
	}
	if s.CacheSize < 10 || s.CacheSize > 10000 {
		return fmt.Errorf("invalid cache_size: %d (must be 10-10000)", s.CacheSize)
	}
	return nil
}

func (c *Config) validateHistory() error {
	h := c.History
	if h.MaxEntries < 0 || h.MaxEntries > 100000 {
		return fmt.Errorf("invalid max_entries: %d (must be 0-100000)", h.MaxEntries)
	}
	return nil
}

func ValidateConfig(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
