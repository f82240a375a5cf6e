package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Watch.DebounceMs != 300 {
		t.Errorf("Expected debounce 300ms, got %d", cfg.Watch.DebounceMs)
	}
	if strings.HasPrefix(cfg.ButtonsPath, "~") {
		t.Errorf("Expected expanded buttons path, got %s", cfg.ButtonsPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
buttons_path = "/srv/launcher/buttons.json"

[watch]
debounce_ms = 500

[dispatch]
browser = "librewolf"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAndValidateConfig(path)
	if err != nil {
		t.Fatalf("LoadAndValidateConfig: %v", err)
	}
	if cfg.ButtonsPath != "/srv/launcher/buttons.json" {
		t.Errorf("Expected custom buttons path, got %s", cfg.ButtonsPath)
	}
	if cfg.Watch.DebounceMs != 500 {
		t.Errorf("Expected debounce 500, got %d", cfg.Watch.DebounceMs)
	}
	if cfg.Dispatch.Browser != "librewolf" {
		t.Errorf("Expected browser librewolf, got %s", cfg.Dispatch.Browser)
	}
	if cfg.Dispatch.ScriptInterpreter != DefaultConfig.Dispatch.ScriptInterpreter {
		t.Errorf("Expected default interpreter, got %s", cfg.Dispatch.ScriptInterpreter)
	}
	if cfg.Search.MaxResults != 10 {
		t.Errorf("Expected default max_results, got %d", cfg.Search.MaxResults)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("buttons_path = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for invalid TOML")
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "debounce too small", mutate: func(c *Config) { c.Watch.DebounceMs = 1 }, wantErr: "debounce_ms"},
		{name: "empty browser", mutate: func(c *Config) { c.Dispatch.Browser = "" }, wantErr: "browser"},
		{name: "bad backend", mutate: func(c *Config) { c.Prompt.Backend = "telepathy" }, wantErr: "prompt backend"},
		{name: "max results", mutate: func(c *Config) { c.Search.MaxResults = 0 }, wantErr: "max_results"},
		{name: "cache size", mutate: func(c *Config) { c.Search.CacheSize = 5 }, wantErr: "cache_size"},
		{name: "history", mutate: func(c *Config) { c.History.MaxEntries = -1 }, wantErr: "max_entries"},
		{name: "buttons path", mutate: func(c *Config) { c.ButtonsPath = "" }, wantErr: "buttons_path"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Prompt.Backend = "auto-yes"
	cfg.Dispatch.ScriptArgs = []string{"-NoProfile", "-File"}

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Prompt.Backend != "auto-yes" {
		t.Errorf("Expected backend auto-yes, got %s", loaded.Prompt.Backend)
	}
	if len(loaded.Dispatch.ScriptArgs) != 2 || loaded.Dispatch.ScriptArgs[0] != "-NoProfile" {
		t.Errorf("Unexpected script args: %v", loaded.Dispatch.ScriptArgs)
	}
}

func TestDefaultDoesNotShareSlices(t *testing.T) {
	a := Default()
	a.Dispatch.ScriptArgs[0] = "changed"
	if DefaultConfig.Dispatch.ScriptArgs[0] == "changed" {
		t.Error("Expected Default to copy script args")
	}
}

func TestPidPath(t *testing.T) {
	runtimeDir := t.TempDir()
	testCases := []struct {
		name       string
		pidFile    string
		runtimeDir string
		expected   string
	}{
		{"explicit", "/run/user/1000/custom.pid", runtimeDir, "/run/user/1000/custom.pid"},
		{"runtime dir", "", runtimeDir, filepath.Join(runtimeDir, "buttonlauncher.pid")},
		{"data dir", "", "", filepath.Join("/data/bl", "buttonlauncher.pid")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("XDG_RUNTIME_DIR", tc.runtimeDir)
			cfg := Default()
			cfg.DataDir = "/data/bl"
			cfg.PidFile = tc.pidFile
			if got := cfg.PidPath(); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}

	if Default().PidFile != "" {
		t.Errorf("Expected no fixed default pid file, got %s", Default().PidFile)
	}
}
