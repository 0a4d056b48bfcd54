// Package scripts locates stored scripts by name inside the data
// directory.
package scripts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrNotFound is returned when no stored script has the given name.
var ErrNotFound = errors.New("script not found")

// Lookup resolves a script name to its absolute path inside dir. The
// name may be given with or without its extension; a bare name
// matches the first stored script whose stem equals it.
func Lookup(dir, name string) (string, error) {
	direct := filepath.Join(dir, name)
	if info, err := os.Stat(direct); err == nil && !info.IsDir() {
		return filepath.Abs(direct)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading scripts directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stem := e.Name()[:len(e.Name())-len(filepath.Ext(e.Name()))]
		if stem == name {
			return filepath.Abs(filepath.Join(dir, e.Name()))
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// List enumerates the stored script names, sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading scripts directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
