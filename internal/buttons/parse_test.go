package buttons

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const scenarioConfig = `{"meta":{"version":"2.0","grid_columns":2},"buttons":[{"id":"a","label":"Open Temp","action_type":"open_explorer","target":"/tmp","confirm":"none","enabled":true}]}`

func TestParseScenario(t *testing.T) {
	cfg, err := Parse([]byte(scenarioConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Meta.Version != "2.0" {
		t.Errorf("Expected version '2.0', got '%s'", cfg.Meta.Version)
	}
	if cfg.Meta.GridColumns != 2 {
		t.Errorf("Expected 2 grid columns, got %d", cfg.Meta.GridColumns)
	}
	if cfg.Len() != 1 {
		t.Fatalf("Expected 1 button, got %d", cfg.Len())
	}

	b := cfg.Buttons[0]
	if b.Label != "Open Temp" || !b.Enabled {
		t.Errorf("Unexpected entry: %+v", b)
	}
	if b.Kind() != OpenContainingFolder {
		t.Errorf("Expected OpenContainingFolder, got %v", b.Kind())
	}
	if b.RequiresConfirmation() {
		t.Error("Expected no confirmation for confirm=none")
	}
}

func TestParseTolerantSyntax(t *testing.T) {
	data := `{
		// launcher buttons
		"META": {"Version": "3", "GRID_COLUMNS": 5,},
		/* block comment */
		"Buttons": [
			{"ID": "x", "Label": "Copy", "Action_Type": "COPY_CLIPBOARD", "Target": "hi", "Confirm": "YES_NO_DIALOG",},
		],
	}`

	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Meta.Version != "3" || cfg.Meta.GridColumns != 5 {
		t.Errorf("Unexpected meta: %+v", cfg.Meta)
	}
	if cfg.Len() != 1 {
		t.Fatalf("Expected 1 button, got %d", cfg.Len())
	}
	b := cfg.Buttons[0]
	if b.Kind() != CopyTextToClipboard {
		t.Errorf("Expected CopyTextToClipboard, got %v", b.Kind())
	}
	if !b.RequiresConfirmation() {
		t.Error("Expected confirmation to be required")
	}
	if !b.Enabled {
		t.Error("Expected omitted enabled to default to true")
	}

	withBOM, err := Parse(append([]byte("\xEF\xBB\xBF"), data...))
	if err != nil {
		t.Fatalf("Parse with byte order mark: %v", err)
	}
	if withBOM.Len() != 1 || withBOM.Meta.GridColumns != 5 {
		t.Errorf("Expected same result with byte order mark, got %+v", withBOM)
	}
}

func TestParseDefaults(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		version string
		columns int
	}{
		{name: "missing meta", data: `{"buttons":[]}`, version: "1.0", columns: 4},
		{name: "empty meta", data: `{"meta":{}}`, version: "1.0", columns: 4},
		{name: "zero columns", data: `{"meta":{"version":"2","grid_columns":0}}`, version: "2", columns: 4},
		{name: "negative columns", data: `{"meta":{"grid_columns":-3}}`, version: "1.0", columns: 4},
		{name: "one column", data: `{"meta":{"grid_columns":1}}`, version: "1.0", columns: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tc.data))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if cfg.Meta.Version != tc.version {
				t.Errorf("Expected version '%s', got '%s'", tc.version, cfg.Meta.Version)
			}
			if cfg.Meta.GridColumns != tc.columns {
				t.Errorf("Expected %d columns, got %d", tc.columns, cfg.Meta.GridColumns)
			}
		})
	}
}

func TestParseEmptyButtons(t *testing.T) {
	for _, data := range []string{`{}`, `{"buttons":null}`, `{"buttons":[]}`} {
		cfg, err := Parse([]byte(data))
		if err != nil {
			t.Fatalf("Parse(%s): %v", data, err)
		}
		if !cfg.IsEmpty() {
			t.Errorf("Expected no buttons for %s, got %d", data, cfg.Len())
		}
	}
}

func TestParseDropsBlankLabels(t *testing.T) {
	data := `{"buttons":[
		{"id":"1","label":"One"},
		{"id":"2","label":""},
		{"id":"3","label":"   \t"},
		null,
		{"id":"4","label":"Four"}
	]}`

	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Len() != 2 {
		t.Fatalf("Expected 2 buttons, got %d", cfg.Len())
	}
	if cfg.Buttons[0].ID != "1" || cfg.Buttons[1].ID != "4" {
		t.Errorf("Expected ids 1 and 4 in order, got %s and %s", cfg.Buttons[0].ID, cfg.Buttons[1].ID)
	}
	if cfg.Dropped != 3 {
		t.Errorf("Expected 3 dropped entries, got %d", cfg.Dropped)
	}

	all, err := ParseAll([]byte(data))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if all.Len() != 4 {
		t.Fatalf("Expected 4 buttons from ParseAll, got %d", all.Len())
	}
	if all.Buttons[1].ID != "2" || all.Buttons[2].ID != "3" {
		t.Errorf("Expected blank-labeled entries kept in order, got %v", all.Buttons)
	}
	if all.Dropped != 1 {
		t.Errorf("Expected only the null entry dropped, got %d", all.Dropped)
	}
}

func TestParseMalformed(t *testing.T) {
	testCases := []string{
		``,
		`null`,
		`[]`,
		`{"meta":`,
		`{"meta":{"grid_columns":"abc"}}`,
		`{"buttons":{"id":"a"}}`,
		`not json`,
	}

	for _, data := range testCases {
		_, err := Parse([]byte(data))
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Expected ParseError for %q, got %v", data, err)
		}
	}
}

func TestParseUnknownActionDefaultsToFolder(t *testing.T) {
	cfg, err := Parse([]byte(`{"buttons":[{"id":"a","label":"A","action_type":"open_explorr"},{"id":"b","label":"B"}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, b := range cfg.Buttons {
		if b.Kind() != OpenContainingFolder {
			t.Errorf("Expected OpenContainingFolder for '%s', got %v", b.ActionType, b.Kind())
		}
	}
	if cfg.Buttons[0].ActionType != "open_explorr" {
		t.Errorf("Expected raw tag to be kept, got '%s'", cfg.Buttons[0].ActionType)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}

func TestLoadParseErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buttons.json")
	if err := os.WriteFile(path, []byte(`{"buttons":[`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected ParseError, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("Expected error to mention %s, got %v", path, err)
	}
}

func TestValidateStrict(t *testing.T) {
	cfg := &Configuration{
		Meta: Meta{Version: "1", GridColumns: 4},
		Buttons: []Entry{
			{ID: "a", Label: "A", ActionType: "open_explorer", Confirm: "none"},
			{ID: "a", Label: "B", ActionType: "launch_rocket", Confirm: "maybe"},
		},
	}

	if err := Validate(cfg, false); err != nil {
		t.Errorf("Expected permissive validation to pass, got %v", err)
	}

	err := Validate(cfg, true)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"duplicate id", "unknown action_type 'launch_rocket'", "unknown confirm mode 'maybe'"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in %q", want, msg)
		}
	}
}

func TestValidateStrictReportsDroppedEntries(t *testing.T) {
	cfg, err := Parse([]byte(`{"meta":{"grid_columns":2},"buttons":[{"id":"a","label":"  "},{"id":"b","label":"B"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(cfg, false); err != nil {
		t.Errorf("Expected permissive validation to pass, got %v", err)
	}
	err = Validate(cfg, true)
	if err == nil || !strings.Contains(err.Error(), "1 button(s) without a label") {
		t.Errorf("Expected dropped entry to be reported, got %v", err)
	}
}
