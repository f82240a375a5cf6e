package buttons

import (
	"strings"

	"github.com/rivo/uniseg"
)

// MaxLabelLength is the number of characters a label is cut to when rendered.
const MaxLabelLength = 16

const (
	DefaultVersion     = "1.0"
	DefaultGridColumns = 4

	ConfirmNone      = "none"
	ConfirmYesNo     = "yes_no_dialog"
	DefaultNewLabel  = "New Button"
	DefaultNewAction = TagOpenExplorer
)

// Action tags as written in the configuration file.
const (
	TagOpenExplorer   = "open_explorer"
	TagRunExeBat      = "run_exe_bat"
	TagRunPs1         = "run_ps1"
	TagCopyClipboard  = "copy_clipboard"
	TagOpenURLFirefox = "open_url_firefox"
)

// ActionKind is the closed set of things a button can do.
type ActionKind int

const (
	OpenContainingFolder ActionKind = iota
	RunExecutableOrScript
	RunScriptInterpreter
	CopyTextToClipboard
	OpenURLInBrowser
)

var kindTags = map[string]ActionKind{
	TagOpenExplorer:   OpenContainingFolder,
	TagRunExeBat:      RunExecutableOrScript,
	TagRunPs1:         RunScriptInterpreter,
	TagCopyClipboard:  CopyTextToClipboard,
	TagOpenURLFirefox: OpenURLInBrowser,
}

// Tag returns the canonical configuration tag for the kind.
func (k ActionKind) Tag() string {
	switch k {
	case RunExecutableOrScript:
		return TagRunExeBat
	case RunScriptInterpreter:
		return TagRunPs1
	case CopyTextToClipboard:
		return TagCopyClipboard
	case OpenURLInBrowser:
		return TagOpenURLFirefox
	default:
		return TagOpenExplorer
	}
}

func (k ActionKind) String() string {
	switch k {
	case RunExecutableOrScript:
		return "run executable"
	case RunScriptInterpreter:
		return "run script"
	case CopyTextToClipboard:
		return "copy to clipboard"
	case OpenURLInBrowser:
		return "open url"
	default:
		return "open folder"
	}
}

// ResolveKind maps a textual tag to an ActionKind. Matching ignores case.
// Unknown tags resolve to OpenContainingFolder; this never fails.
func ResolveKind(tag string) ActionKind {
	if kind, ok := kindTags[strings.ToLower(tag)]; ok {
		return kind
	}
	return OpenContainingFolder
}

// IsKnownTag reports whether tag names one of the action kinds.
func IsKnownTag(tag string) bool {
	_, ok := kindTags[strings.ToLower(tag)]
	return ok
}

// Entry is one launchable button. ActionType and Confirm keep the text found
// in the file so a load/save round trip does not rewrite them.
type Entry struct {
	ID         string `json:"id" yaml:"id"`
	Label      string `json:"label" yaml:"label"`
	ActionType string `json:"action_type" yaml:"action_type"`
	Target     string `json:"target" yaml:"target"`
	Confirm    string `json:"confirm" yaml:"confirm"`
	RunAsAdmin bool   `json:"run_as_admin" yaml:"run_as_admin"`
	Enabled    bool   `json:"enabled" yaml:"enabled"`
}

// NewEntry returns an entry with the defaults the editor uses for new buttons.
func NewEntry(id string) Entry {
	return Entry{
		ID:         id,
		Label:      DefaultNewLabel,
		ActionType: DefaultNewAction,
		Confirm:    ConfirmNone,
		Enabled:    true,
	}
}

func (e Entry) Kind() ActionKind {
	return ResolveKind(e.ActionType)
}

func (e Entry) RequiresConfirmation() bool {
	return strings.EqualFold(e.Confirm, ConfirmYesNo)
}

// DisplayLabel returns the label cut to MaxLabelLength user-perceived
// characters.
func (e Entry) DisplayLabel() string {
	return truncateLabel(e.Label, MaxLabelLength)
}

func truncateLabel(label string, max int) string {
	g := uniseg.NewGraphemes(label)
	count, end := 0, 0
	for g.Next() {
		if count == max {
			return label[:end]
		}
		_, end = g.Positions()
		count++
	}
	return label
}

type Meta struct {
	Version     string `json:"version" yaml:"version"`
	GridColumns int    `json:"grid_columns" yaml:"grid_columns"`
}

// Configuration is the whole launcher document.
type Configuration struct {
	Meta    Meta    `json:"meta" yaml:"meta"`
	Buttons []Entry `json:"buttons" yaml:"buttons"`

	// Dropped counts entries discarded on load because their label was blank.
	Dropped int `json:"-" yaml:"-"`
}

// Default returns an empty configuration with default metadata.
func Default() *Configuration {
	return &Configuration{
		Meta: Meta{
			Version:     DefaultVersion,
			GridColumns: DefaultGridColumns,
		},
		Buttons: []Entry{},
	}
}

// Clone returns a deep copy.
func (c *Configuration) Clone() *Configuration {
	clone := &Configuration{
		Meta:    c.Meta,
		Buttons: make([]Entry, len(c.Buttons)),
		Dropped: c.Dropped,
	}
	copy(clone.Buttons, c.Buttons)
	return clone
}

func (c *Configuration) Len() int {
	return len(c.Buttons)
}

func (c *Configuration) IsEmpty() bool {
	return len(c.Buttons) == 0
}

// Find returns the first entry with the given id.
func (c *Configuration) Find(id string) (Entry, int, bool) {
	for i, b := range c.Buttons {
		if b.ID == id {
			return b, i, true
		}
	}
	return Entry{}, -1, false
}
