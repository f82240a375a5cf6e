package buttons

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

// Marshal renders the configuration in its canonical indented form.
func Marshal(cfg *Configuration) ([]byte, error) {
	out := *cfg
	if out.Buttons == nil {
		out.Buttons = []Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path, creating missing directories. The file is written
// to a temporary sibling and renamed into place, so a failed save leaves the
// previous file intact.
func Save(path string, cfg *Configuration) error {
	if err := Validate(cfg, false); err != nil {
		return err
	}

	data, err := Marshal(cfg)
	if err != nil {
		return &IOError{Op: "encoding", Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &IOError{Op: "creating directory", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return &IOError{Op: "creating temp file in", Path: dir, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &IOError{Op: "writing", Path: tmpName, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &IOError{Op: "syncing", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "closing", Path: tmpName, Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return &IOError{Op: "chmod", Path: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &IOError{Op: "replacing", Path: path, Err: err}
	}

	return nil
}
