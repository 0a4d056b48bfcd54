package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Preference keys. Values are stored as strings so a hand-edited or
// corrupted file can never make a read fail; reads clamp instead.
const (
	PrefFontSize   = "fontsize"
	PrefColor      = "color"
	PrefControlKey = "controlkey"
)

const (
	DefaultFontSize   = 10
	MaxFontSize       = 30
	DefaultColor      = 1
	DefaultControlKey = 0
)

// Prefs is a string-valued preference store backed by a YAML file.
type Prefs struct {
	path   string
	values map[string]string
}

// LoadPrefs reads the preference file at path. A missing or
// unparseable file yields an empty store: preferences degrade to
// defaults, they never fail.
func LoadPrefs(path string) *Prefs {
	p := &Prefs{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read preferences", "path", path, "error", err)
		}
		return p
	}
	if err := yaml.Unmarshal(data, &p.values); err != nil {
		slog.Warn("Malformed preference file, using defaults", "path", path, "error", err)
		p.values = map[string]string{}
	}
	return p
}

// ReadIntPref parses the stored value for key as an integer,
// substituting def when the key is absent or malformed, and clamps
// the result to [0, max]. The result is always a valid index into the
// lookup table the key corresponds to.
func (p *Prefs) ReadIntPref(key string, def, max int) int {
	raw, ok := p.values[key]
	if !ok {
		raw = strconv.Itoa(def)
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		val = def
	}
	if val < 0 {
		val = 0
	}
	if val > max {
		val = max
	}
	return val
}

// FontSize returns the clamped font size preference.
func (p *Prefs) FontSize() int {
	return p.ReadIntPref(PrefFontSize, DefaultFontSize, MaxFontSize)
}

// Set stores a raw string value. Save must be called to persist it.
func (p *Prefs) Set(key, value string) {
	p.values[key] = value
}

// Get returns the raw stored value, if any.
func (p *Prefs) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Save writes the store back to its file atomically.
func (p *Prefs) Save() error {
	data, err := yaml.Marshal(p.values)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("replacing preferences: %w", err)
	}
	return nil
}
