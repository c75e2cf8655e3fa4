package cart

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Load reads a cart saved by Save. A missing or unreadable file yields an
// empty cart, the way a browser falls back when local storage is corrupt.
func Load(path string) State {
	raw, err := os.ReadFile(path)
	if err != nil {
		return State{Items: []Line{}}
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{Items: []Line{}}
	}
	return Reduce(State{}, Init{State: s})
}

// Save writes the cart atomically.
func Save(path string, s State) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
