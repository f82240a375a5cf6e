package buttons

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func sampleConfig() *Configuration {
	return &Configuration{
		Meta: Meta{Version: "2.1", GridColumns: 3},
		Buttons: []Entry{
			{ID: "b", Label: "Scripts", ActionType: "run_ps1", Target: "/opt/scripts/backup.ps1", Confirm: "yes_no_dialog", RunAsAdmin: true, Enabled: true},
			{ID: "a", Label: "Docs <&>", ActionType: "OPEN_URL_FIREFOX", Target: "https://example.com/?a=1&b=2", Confirm: "none", Enabled: false},
			{ID: "c", Label: "Mystery", ActionType: "something_else", Target: "/tmp", Confirm: "None", Enabled: true},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "buttons.json")
	cfg := sampleConfig()

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !reflect.DeepEqual(loaded.Meta, cfg.Meta) {
		t.Errorf("Expected meta %+v, got %+v", cfg.Meta, loaded.Meta)
	}
	if !reflect.DeepEqual(loaded.Buttons, cfg.Buttons) {
		t.Errorf("Expected buttons %+v, got %+v", cfg.Buttons, loaded.Buttons)
	}
}

func TestSaveCanonicalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buttons.json")
	if err := Save(path, sampleConfig()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	if !strings.HasPrefix(text, "{\n  \"meta\": {\n    \"version\": \"2.1\",\n    \"grid_columns\": 3\n  },") {
		t.Errorf("Unexpected header:\n%s", text)
	}
	if !strings.Contains(text, `"Docs <&>"`) {
		t.Errorf("Expected HTML characters to stay unescaped:\n%s", text)
	}
	if !strings.HasSuffix(text, "}\n") {
		t.Error("Expected trailing newline")
	}

	order := []string{`"id"`, `"label"`, `"action_type"`, `"target"`, `"confirm"`, `"run_as_admin"`, `"enabled"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		if idx <= last {
			t.Errorf("Expected key %s after previous keys", key)
		}
		last = idx
	}
}

func TestSaveEmptyButtonsWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buttons.json")
	cfg := &Configuration{Meta: Meta{Version: "1.0", GridColumns: 4}}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"buttons": []`) {
		t.Errorf("Expected empty array, got:\n%s", data)
	}
}

func TestSaveRejectsInvalidColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buttons.json")
	if err := Save(path, sampleConfig()); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(path)

	cfg := sampleConfig()
	cfg.Meta.GridColumns = 0
	err := Save(path, cfg)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}

	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("Expected file to be unchanged after rejected save")
	}
}

func TestSaveFailureKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buttons.json")
	if err := Save(path, sampleConfig()); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(path)

	// A directory in place of the parent makes the write impossible.
	blocked := filepath.Join(path, "child.json")
	err := Save(blocked, sampleConfig())
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Expected IOError, got %v", err)
	}

	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("Expected original file to be untouched")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected no leftover temp files, found %d entries", len(entries))
	}
}
