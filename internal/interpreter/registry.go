// Package interpreter manages the set of known script interpreters
// and the child process a terminal session runs one in.
package interpreter

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no interpreter matches a name or a
// script extension. Callers surface it to the user as a notice, not a
// crash.
var ErrNotFound = errors.New("interpreter not found")

// Interpreter describes how to launch one scripting runtime.
type Interpreter struct {
	Name       string
	Binary     string
	Args       []string
	Extensions []string
	Env        []string
}

// CommandArgs returns the argv tail for launching the interpreter,
// appending the script path when one is given. An empty script path
// starts an interactive REPL.
func (i Interpreter) CommandArgs(scriptPath string) []string {
	args := append([]string{}, i.Args...)
	if scriptPath != "" {
		args = append(args, scriptPath)
	}
	return args
}

// Registry holds the known interpreters.
type Registry struct {
	interpreters []Interpreter
}

// DefaultRegistry returns the built-in interpreter set.
func DefaultRegistry() *Registry {
	return &Registry{interpreters: []Interpreter{
		{
			Name:       "sh",
			Binary:     "sh",
			Extensions: []string{".sh"},
		},
		{
			Name:       "python",
			Binary:     "python3",
			Args:       []string{"-u"},
			Extensions: []string{".py"},
			Env:        []string{"PYTHONUNBUFFERED=1"},
		},
		{
			Name:       "lua",
			Binary:     "lua",
			Extensions: []string{".lua"},
		},
		{
			Name:       "perl",
			Binary:     "perl",
			Extensions: []string{".pl"},
		},
	}}
}

// Register adds or replaces an interpreter by name.
func (r *Registry) Register(i Interpreter) {
	for idx, existing := range r.interpreters {
		if existing.Name == i.Name {
			r.interpreters[idx] = i
			return
		}
	}
	r.interpreters = append(r.interpreters, i)
}

// ByName looks an interpreter up by its registered name.
func (r *Registry) ByName(name string) (Interpreter, error) {
	for _, i := range r.interpreters {
		if i.Name == name {
			return i, nil
		}
	}
	return Interpreter{}, ErrNotFound
}

// ForScript picks the interpreter claiming the script's extension.
func (r *Registry) ForScript(scriptPath string) (Interpreter, error) {
	ext := strings.ToLower(filepath.Ext(scriptPath))
	if ext == "" {
		return Interpreter{}, ErrNotFound
	}
	for _, i := range r.interpreters {
		for _, e := range i.Extensions {
			if e == ext {
				return i, nil
			}
		}
	}
	return Interpreter{}, ErrNotFound
}

// Names lists the registered interpreter names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.interpreters))
	for _, i := range r.interpreters {
		names = append(names, i.Name)
	}
	return names
}
