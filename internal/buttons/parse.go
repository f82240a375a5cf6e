package buttons

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// The raw document uses pointers so absent fields can be told apart from zero
// values. encoding/json matches field names case-insensitively.
type rawDocument struct {
	Meta    *rawMeta    `json:"meta"`
	Buttons []*rawEntry `json:"buttons"`
}

type rawMeta struct {
	Version     *string `json:"version"`
	GridColumns *int    `json:"grid_columns"`
}

type rawEntry struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	ActionType string  `json:"action_type"`
	Target     string  `json:"target"`
	Confirm    *string `json:"confirm"`
	RunAsAdmin bool    `json:"run_as_admin"`
	Enabled    *bool   `json:"enabled"`
}

var utf8BOM = []byte("\xEF\xBB\xBF")

// Load reads and parses the configuration at path.
func Load(path string) (*Configuration, error) {
	return load(path, Parse)
}

// LoadAll reads the configuration at path without dropping entries whose
// label is blank. Editors use it so a save writes back every entry.
func LoadAll(path string) (*Configuration, error) {
	return load(path, ParseAll)
}

func load(path string, parse func([]byte) (*Configuration, error)) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, &IOError{Op: "reading", Path: path, Err: err}
	}

	cfg, err := parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse turns raw configuration text into a Configuration. Comments, trailing
// commas and a leading byte order mark are accepted. A malformed document
// fails as a whole. Entries with a blank label are dropped.
func Parse(data []byte) (*Configuration, error) {
	return parse(data, false)
}

// ParseAll is Parse without dropping blank-labeled entries.
func ParseAll(data []byte) (*Configuration, error) {
	return parse(data, true)
}

func parse(data []byte, keepBlank bool) (*Configuration, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var doc *rawDocument
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if doc == nil {
		return nil, &ParseError{Err: fmt.Errorf("document is empty")}
	}

	cfg := Default()
	if doc.Meta != nil {
		if doc.Meta.Version != nil {
			cfg.Meta.Version = *doc.Meta.Version
		}
		if doc.Meta.GridColumns != nil && *doc.Meta.GridColumns > 0 {
			cfg.Meta.GridColumns = *doc.Meta.GridColumns
		}
	}

	for _, raw := range doc.Buttons {
		if raw == nil || (!keepBlank && strings.TrimSpace(raw.Label) == "") {
			cfg.Dropped++
			continue
		}
		cfg.Buttons = append(cfg.Buttons, raw.entry())
	}

	return cfg, nil
}

func (r *rawEntry) entry() Entry {
	e := Entry{
		ID:         r.ID,
		Label:      r.Label,
		ActionType: r.ActionType,
		Target:     r.Target,
		Confirm:    ConfirmNone,
		RunAsAdmin: r.RunAsAdmin,
		Enabled:    true,
	}
	if r.Confirm != nil {
		e.Confirm = *r.Confirm
	}
	if r.Enabled != nil {
		e.Enabled = *r.Enabled
	}
	return e
}

// Validate checks a loaded configuration. In permissive mode only structural
// problems are reported. Strict mode also rejects unknown action tags, unknown
// confirmation modes, duplicate ids and entries dropped for a blank label.
func Validate(cfg *Configuration, strict bool) error {
	var errs []string

	if cfg.Meta.GridColumns < 1 {
		errs = append(errs, fmt.Sprintf("invalid grid_columns: %d (must be > 0)", cfg.Meta.GridColumns))
	}

	if strict {
		if cfg.Dropped > 0 {
			errs = append(errs, fmt.Sprintf("%d button(s) without a label", cfg.Dropped))
		}
		seen := make(map[string]bool)
		for i, b := range cfg.Buttons {
			prefix := fmt.Sprintf("button[%d]", i)
			if b.ID != "" {
				prefix = fmt.Sprintf("button '%s'", b.ID)
			}

			if b.ID == "" {
				errs = append(errs, fmt.Sprintf("%s: 'id' is required", prefix))
			} else if seen[b.ID] {
				errs = append(errs, fmt.Sprintf("%s: duplicate id", prefix))
			} else {
				seen[b.ID] = true
			}

			if !IsKnownTag(b.ActionType) {
				errs = append(errs, fmt.Sprintf("%s: unknown action_type '%s'", prefix, b.ActionType))
			}
			if !strings.EqualFold(b.Confirm, ConfirmNone) && !strings.EqualFold(b.Confirm, ConfirmYesNo) {
				errs = append(errs, fmt.Sprintf("%s: unknown confirm mode '%s'", prefix, b.Confirm))
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
