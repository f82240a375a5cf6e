package editor

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
)

const sample = `{
  "meta": {"version": "2.0", "grid_columns": 3},
  "buttons": [
    {"id": "a", "label": "Temp", "action_type": "open_explorer", "target": "/tmp"},
    {"id": "b", "label": "Notes", "action_type": "run_exe_bat", "target": "notepad", "confirm": "yes_no_dialog"},
    {"id": "c", "label": "Hello", "action_type": "copy_clipboard", "target": "hi"}
  ]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "buttons.json")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func ids(entries []buttons.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOpenLoadsMetaText(t *testing.T) {
	s, err := Open(writeSample(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.VersionText() != "2.0" || s.GridColumnsText() != "3" {
		t.Errorf("Expected 2.0/3, got %s/%s", s.VersionText(), s.GridColumnsText())
	}
	if got := ids(s.Buttons()); !equalIDs(got, "a", "b", "c") {
		t.Errorf("Unexpected ids %v", got)
	}
	if s.Dirty() {
		t.Error("Expected fresh session to be clean")
	}
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "buttons.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(s.Buttons()) != 0 {
		t.Errorf("Expected no buttons, got %d", len(s.Buttons()))
	}

	s.Add()
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected file to be created: %v", err)
	}
}

func TestSessionWorksOnCopy(t *testing.T) {
	cfg := buttons.Default()
	cfg.Buttons = append(cfg.Buttons, buttons.Entry{ID: "x", Label: "X", Confirm: "none", Enabled: true})

	s := New(filepath.Join(t.TempDir(), "b.json"), cfg)
	if err := s.Update("x", func(e *buttons.Entry) { e.Label = "changed" }); err != nil {
		t.Fatal(err)
	}

	if cfg.Buttons[0].Label != "X" {
		t.Errorf("Expected caller's configuration untouched, got label %q", cfg.Buttons[0].Label)
	}
	if !s.Dirty() {
		t.Error("Expected session to be dirty after update")
	}
}

func TestAddUsesDefaults(t *testing.T) {
	s := New("unused.json", buttons.Default())
	entry := s.Add()

	if !regexp.MustCompile(`^[0-9a-f]{32}$`).MatchString(entry.ID) {
		t.Errorf("Expected 32 hex digit id, got %q", entry.ID)
	}
	if entry.Label != "New Button" || entry.ActionType != "open_explorer" || entry.Confirm != "none" || !entry.Enabled {
		t.Errorf("Unexpected defaults %+v", entry)
	}
	if other := s.Add(); other.ID == entry.ID {
		t.Error("Expected distinct ids")
	}
}

func TestUpdateKeepsID(t *testing.T) {
	s, _ := Open(writeSample(t))
	err := s.Update("a", func(e *buttons.Entry) {
		e.ID = "hijack"
		e.Target = "/var"
	})
	if err != nil {
		t.Fatal(err)
	}
	entry, err := s.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Target != "/var" {
		t.Errorf("Expected target /var, got %s", entry.Target)
	}
}

func TestRemoveAndUnknownID(t *testing.T) {
	s, _ := Open(writeSample(t))
	if err := s.Remove("b"); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.Buttons()); !equalIDs(got, "a", "c") {
		t.Errorf("Unexpected ids %v", got)
	}

	var unknown *buttons.UnknownButtonError
	if err := s.Remove("b"); !errors.As(err, &unknown) {
		t.Errorf("Expected UnknownButtonError, got %v", err)
	}
}

func TestMove(t *testing.T) {
	testCases := []struct {
		id    string
		index int
		want  []string
	}{
		{"c", 0, []string{"c", "a", "b"}},
		{"a", 2, []string{"b", "c", "a"}},
		{"a", 99, []string{"b", "c", "a"}},
		{"c", -5, []string{"c", "a", "b"}},
		{"b", 1, []string{"a", "b", "c"}},
	}

	for _, tc := range testCases {
		s, _ := Open(writeSample(t))
		if err := s.Move(tc.id, tc.index); err != nil {
			t.Fatalf("Move(%s, %d): %v", tc.id, tc.index, err)
		}
		if got := ids(s.Buttons()); !equalIDs(got, tc.want...) {
			t.Errorf("Move(%s, %d): expected %v, got %v", tc.id, tc.index, tc.want, got)
		}
	}
}

func TestCommitRejectsBadGridColumns(t *testing.T) {
	for _, text := range []string{"0", "abc", "-2", ""} {
		path := writeSample(t)
		before, _ := os.ReadFile(path)

		s, _ := Open(path)
		s.Add()
		s.SetGridColumns(text)

		err := s.Commit()
		var validation *buttons.ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("%q: expected ValidationError, got %v", text, err)
		}

		after, _ := os.ReadFile(path)
		if string(before) != string(after) {
			t.Errorf("%q: expected file unchanged", text)
		}
	}
}

func TestCommitRejectsBlankLabel(t *testing.T) {
	path := writeSample(t)
	s, _ := Open(path)
	s.Update("a", func(e *buttons.Entry) { e.Label = "   " })

	if err := s.Commit(); err == nil {
		t.Error("Expected blank label to be rejected")
	}
}

func TestCommitKeepsBlankLabeledEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buttons.json")
	data := `{"meta":{"version":"1.0","grid_columns":4},"buttons":[
		{"id":"wip","label":"","action_type":"run_exe_bat","target":"notepad"},
		{"id":"a","label":"Open Temp","action_type":"open_explorer","target":"/tmp"}
	]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := ids(s.Buttons()); !equalIDs(got, "wip", "a") {
		t.Fatalf("Expected blank-labeled entry in session, got %v", got)
	}
	if s.Dirty() {
		t.Error("Expected fresh session to be clean")
	}

	s.SetVersion("1.1")
	err = s.Commit()
	var ve *buttons.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError for the blank label, got %v", err)
	}
	after, _ := os.ReadFile(path)
	if string(after) != data {
		t.Error("Expected file untouched after rejected commit")
	}

	s.Update("wip", func(e *buttons.Entry) { e.Label = "Notepad" })
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	cfg, err := buttons.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := ids(cfg.Buttons); !equalIDs(got, "wip", "a") {
		t.Errorf("Expected both entries on disk, got %v", got)
	}
	if cfg.Meta.Version != "1.1" {
		t.Errorf("Expected version 1.1, got %q", cfg.Meta.Version)
	}

	s2, _ := Open(path)
	s2.Update("wip", func(e *buttons.Entry) { e.Label = "" })
	s2.Remove("wip")
	if err := s2.Commit(); err != nil {
		t.Fatalf("Commit after explicit remove: %v", err)
	}
	cfg, _ = buttons.Load(path)
	if got := ids(cfg.Buttons); !equalIDs(got, "a") {
		t.Errorf("Expected only the explicitly kept entry, got %v", got)
	}
}

func TestCommitWritesAndReloads(t *testing.T) {
	path := writeSample(t)
	s, _ := Open(path)

	added := s.Add()
	s.Update(added.ID, func(e *buttons.Entry) {
		e.Label = "Docs"
		e.ActionType = buttons.TagOpenURLFirefox
		e.Target = "https://example.com"
	})
	s.SetMeta(" 2.1 ", " 5 ")

	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if s.Dirty() {
		t.Error("Expected clean session after commit")
	}

	cfg, err := buttons.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Meta.Version != "2.1" || cfg.Meta.GridColumns != 5 {
		t.Errorf("Expected meta 2.1/5, got %+v", cfg.Meta)
	}
	if got, _, ok := cfg.Find(added.ID); !ok || got.Label != "Docs" {
		t.Errorf("Expected added button in file, got %+v", got)
	}
}

func TestReloadDiscardsEdits(t *testing.T) {
	s, _ := Open(writeSample(t))
	s.Remove("a")
	s.SetGridColumns("abc")

	if err := s.Reload(); err != nil {
		t.Fatal(err)
	}
	if len(s.Buttons()) != 3 || s.GridColumnsText() != "3" {
		t.Errorf("Expected edits discarded, got %d buttons, grid %s", len(s.Buttons()), s.GridColumnsText())
	}
}
