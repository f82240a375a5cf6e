// Package editor holds an editable copy of a button configuration. Edits
// stay in memory until Commit validates them and writes the file.
package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
)

type Session struct {
	path     string
	original *buttons.Configuration
	working  *buttons.Configuration

	versionText string
	gridText    string

	newID func() string
}

// Open loads path into a new session. A missing file starts an empty
// configuration that is created on the first Commit. Entries with a blank
// label are kept and must be fixed or removed before Commit succeeds.
func Open(path string) (*Session, error) {
	cfg, err := buttons.LoadAll(path)
	if err != nil {
		var nf *buttons.NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		cfg = buttons.Default()
	}
	return New(path, cfg), nil
}

// New starts a session on a deep copy of cfg.
func New(path string, cfg *buttons.Configuration) *Session {
	s := &Session{
		path:  path,
		newID: NewID,
	}
	s.reset(cfg)
	return s
}

// NewID returns a random identifier in the 32 hex digit form used for ids.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *Session) reset(cfg *buttons.Configuration) {
	s.original = cfg.Clone()
	s.working = cfg.Clone()
	s.versionText = cfg.Meta.Version
	s.gridText = strconv.Itoa(cfg.Meta.GridColumns)
}

func (s *Session) Path() string {
	return s.path
}

// Buttons returns a copy of the working list.
func (s *Session) Buttons() []buttons.Entry {
	out := make([]buttons.Entry, len(s.working.Buttons))
	copy(out, s.working.Buttons)
	return out
}

func (s *Session) VersionText() string { return s.versionText }

func (s *Session) GridColumnsText() string { return s.gridText }

func (s *Session) Get(id string) (buttons.Entry, error) {
	entry, _, ok := s.working.Find(id)
	if !ok {
		return buttons.Entry{}, &buttons.UnknownButtonError{ID: id}
	}
	return entry, nil
}

// Add appends a button with default values and returns it.
func (s *Session) Add() buttons.Entry {
	entry := buttons.NewEntry(s.newID())
	s.working.Buttons = append(s.working.Buttons, entry)
	return entry
}

// Update applies fn to the first entry with the given id. The id itself
// cannot be changed through fn.
func (s *Session) Update(id string, fn func(*buttons.Entry)) error {
	_, idx, ok := s.working.Find(id)
	if !ok {
		return &buttons.UnknownButtonError{ID: id}
	}
	entry := s.working.Buttons[idx]
	fn(&entry)
	entry.ID = id
	s.working.Buttons[idx] = entry
	return nil
}

func (s *Session) Remove(id string) error {
	_, idx, ok := s.working.Find(id)
	if !ok {
		return &buttons.UnknownButtonError{ID: id}
	}
	s.working.Buttons = append(s.working.Buttons[:idx], s.working.Buttons[idx+1:]...)
	return nil
}

// Move places the entry at index, clamped to the list bounds.
func (s *Session) Move(id string, index int) error {
	_, idx, ok := s.working.Find(id)
	if !ok {
		return &buttons.UnknownButtonError{ID: id}
	}
	if index < 0 {
		index = 0
	}
	if last := len(s.working.Buttons) - 1; index > last {
		index = last
	}

	entry := s.working.Buttons[idx]
	list := append(s.working.Buttons[:idx:idx], s.working.Buttons[idx+1:]...)
	list = append(list[:index], append([]buttons.Entry{entry}, list[index:]...)...)
	s.working.Buttons = list
	return nil
}

// SetMeta stores the metadata fields as typed. They are only checked by
// Validate and Commit.
func (s *Session) SetMeta(version, gridColumns string) {
	s.versionText = version
	s.gridText = gridColumns
}

func (s *Session) SetVersion(version string) { s.versionText = version }

func (s *Session) SetGridColumns(text string) { s.gridText = text }

// Dirty reports whether the session differs from what was loaded.
func (s *Session) Dirty() bool {
	if strings.TrimSpace(s.versionText) != s.original.Meta.Version ||
		strings.TrimSpace(s.gridText) != strconv.Itoa(s.original.Meta.GridColumns) {
		return true
	}
	if len(s.working.Buttons) != len(s.original.Buttons) {
		return true
	}
	for i := range s.working.Buttons {
		if s.working.Buttons[i] != s.original.Buttons[i] {
			return true
		}
	}
	return false
}

// Validate builds the configuration the session would save.
func (s *Session) Validate() (*buttons.Configuration, error) {
	var errs []string

	columns, err := strconv.Atoi(strings.TrimSpace(s.gridText))
	if err != nil || columns < 1 {
		errs = append(errs, fmt.Sprintf("grid columns must be a whole number greater than 0, got '%s'", s.gridText))
	}

	for i, b := range s.working.Buttons {
		if strings.TrimSpace(b.Label) == "" {
			errs = append(errs, fmt.Sprintf("button %d ('%s'): label must not be empty", i+1, b.ID))
		}
	}

	if len(errs) > 0 {
		return nil, &buttons.ValidationError{Errors: errs}
	}

	cfg := s.working.Clone()
	cfg.Meta.GridColumns = columns
	cfg.Meta.Version = strings.TrimSpace(s.versionText)
	if cfg.Meta.Version == "" {
		cfg.Meta.Version = buttons.DefaultVersion
	}
	cfg.Dropped = 0
	return cfg, nil
}

// Commit validates and saves the session. Nothing is written when
// validation fails.
func (s *Session) Commit() error {
	cfg, err := s.Validate()
	if err != nil {
		return err
	}
	if err := buttons.Save(s.path, cfg); err != nil {
		return err
	}
	s.reset(cfg)
	return nil
}

// Reload discards all edits and reads the file again.
func (s *Session) Reload() error {
	cfg, err := buttons.LoadAll(s.path)
	if err != nil {
		return err
	}
	s.reset(cfg)
	return nil
}
