package term

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bqam/scriptterm/internal/config"
	apperr "github.com/bqam/scriptterm/internal/errors"
	"github.com/bqam/scriptterm/internal/interpreter"
	"github.com/bqam/scriptterm/internal/scripts"
)

// Recorder persists the session transcript. The zero recorder (nil)
// disables recording.
type Recorder interface {
	CreateSession(ctx context.Context, id, interpreterName, scriptPath string) error
	Append(ctx context.Context, id string, chunk []byte) error
	Finish(ctx context.Context, id string) error
}

// Options configures a Session.
type Options struct {
	// Interpreter is the registered interpreter name. May be empty
	// when Script is given; the interpreter is then picked by the
	// script's extension.
	Interpreter string
	// Script is the stored script name to run; empty starts an
	// interactive session.
	Script     string
	ScriptsDir string
	Cwd        string

	Rows, Cols int

	// SchemeCount bounds the stored color-scheme index. Zero means
	// the default scheme table size of the UI layer (3).
	SchemeCount int

	Prefs    *config.Prefs
	Registry *interpreter.Registry
	Recorder Recorder
	Facade   interpreter.Facade
}

// Session is the explicit lifecycle object behind one terminal run of
// an interpreter: Init starts it, Resume re-applies preferences,
// Teardown kills it unconditionally.
//
// All methods are driven by a single event loop; Session is not safe
// for concurrent use.
type Session struct {
	opts Options

	id          string
	interp      interpreter.Interpreter
	scriptPath  string
	proc        *interpreter.Process
	tr          *Translator
	tracker     *ModeTracker
	fontSize    int
	schemeIndex int
	controlIdx  int
	recording   bool
	released    bool
}

// NewSession creates an uninitialized session.
func NewSession(opts Options) *Session {
	if opts.Prefs == nil {
		opts.Prefs = config.LoadPrefs("")
	}
	if opts.Registry == nil {
		opts.Registry = interpreter.DefaultRegistry()
	}
	if opts.Facade == nil {
		opts.Facade = &interpreter.EnvFacade{}
	}
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	if opts.Cols <= 0 {
		opts.Cols = 80
	}
	if opts.SchemeCount <= 0 {
		opts.SchemeCount = 3
	}
	return &Session{opts: opts}
}

// Init resolves the script and interpreter, reads preferences, and
// starts the interpreter process. Errors are user errors: the session
// stays in a state where Teardown is safe, and nothing crashes.
func (s *Session) Init(ctx context.Context) error {
	s.id = uuid.NewString()
	s.tracker = &ModeTracker{}
	s.applyPrefs()

	if s.opts.Script != "" {
		path, err := scripts.Lookup(s.opts.ScriptsDir, s.opts.Script)
		if err != nil {
			return apperr.CreateUserError("Script not found.", apperr.UserErrorOptions{
				Level:    apperr.ErrorLevelError,
				Category: apperr.ErrorCategoryScriptNotFound,
				Details:  map[string]any{"script": s.opts.Script},
				Cause:    err,
			})
		}
		s.scriptPath = path
	}

	var err error
	switch {
	case s.opts.Interpreter != "":
		s.interp, err = s.opts.Registry.ByName(s.opts.Interpreter)
	case s.scriptPath != "":
		s.interp, err = s.opts.Registry.ForScript(s.scriptPath)
	default:
		return apperr.CreateUserError("No interpreter specified.", apperr.UserErrorOptions{
			Level:    apperr.ErrorLevelError,
			Category: apperr.ErrorCategoryConfiguration,
		})
	}
	if err != nil {
		return apperr.CreateUserError("Interpreter not found.", apperr.UserErrorOptions{
			Level:      apperr.ErrorLevelError,
			Category:   apperr.ErrorCategoryInterpreterNotFound,
			Details:    map[string]any{"interpreter": s.opts.Interpreter, "script": s.scriptPath},
			Resolution: []string{"Run `scriptterm interpreters` to list the available interpreters."},
			Cause:      err,
		})
	}

	s.proc, err = interpreter.Start(s.interp, s.scriptPath, s.opts.Cwd, s.opts.Rows, s.opts.Cols, s.opts.Facade)
	if err != nil {
		return apperr.CreateUserError("Failed to start interpreter.", apperr.UserErrorOptions{
			Level:    apperr.ErrorLevelError,
			Category: apperr.ErrorCategoryInterpreter,
			Details:  map[string]any{"interpreter": s.interp.Name},
			Cause:    err,
		})
	}

	s.tr = NewTranslator(ControlKeySchemes[s.controlIdx], s.tracker.ApplicationMode, processSink{s.proc})

	if s.opts.Recorder != nil {
		if err := s.opts.Recorder.CreateSession(ctx, s.id, s.interp.Name, s.scriptPath); err != nil {
			// Recording is an extra; the session works without it.
			slog.Warn("Failed to create transcript record", "session", s.id, "error", err)
		} else {
			s.recording = true
		}
	}

	slog.Info("Interpreter session started",
		"session", s.id, "interpreter", s.interp.Name, "script", s.scriptPath)
	return nil
}

// Resume re-reads the preferences and applies them to the live
// session, mirroring what the original did whenever the settings
// screen handed control back.
func (s *Session) Resume() {
	s.applyPrefs()
}

// Teardown kills the interpreter and releases the facade. It is
// idempotent, runs to completion from any state including a
// partially failed Init, and never reports an error.
func (s *Session) Teardown(ctx context.Context) {
	if s.proc != nil {
		s.proc.Kill()
	}
	if s.recording {
		s.recording = false
		if err := s.opts.Recorder.Finish(ctx, s.id); err != nil {
			slog.Warn("Failed to finish transcript record", "session", s.id, "error", err)
		}
	}
	if !s.released && s.opts.Facade != nil {
		s.released = true
		s.opts.Facade.Release()
	}
	slog.Info("Interpreter session torn down", "session", s.id)
}

// Reset tears the session down and starts a fresh one with the same
// options (the "reset terminal" menu action).
func (s *Session) Reset(ctx context.Context) error {
	s.Teardown(ctx)
	s.proc = nil
	s.tr = nil
	s.released = false
	return s.Init(ctx)
}

func (s *Session) applyPrefs() {
	p := s.opts.Prefs
	s.fontSize = p.FontSize()
	s.schemeIndex = p.ReadIntPref(config.PrefColor, config.DefaultColor, s.opts.SchemeCount-1)
	s.controlIdx = p.ReadIntPref(config.PrefControlKey, config.DefaultControlKey, len(ControlKeySchemes)-1)
	if s.tr != nil {
		s.tr.SetControlKey(ControlKeySchemes[s.controlIdx])
	}
}

// HandleKeyDown routes a key-press through the translator. Before
// Init completes there is nothing to translate into, so only system
// keys pass through.
func (s *Session) HandleKeyDown(code KeyCode, system bool) bool {
	if s.tr == nil {
		return false
	}
	return s.tr.HandleKeyDown(code, system)
}

// HandleKeyUp routes a key-release through the translator.
func (s *Session) HandleKeyUp(code KeyCode, system bool) bool {
	if s.tr == nil {
		return false
	}
	return s.tr.HandleKeyUp(code, system)
}

// Observe feeds a chunk of interpreter output to the keypad-mode
// tracker and the transcript.
func (s *Session) Observe(ctx context.Context, chunk []byte) {
	s.tracker.Observe(chunk)
	if s.recording {
		if err := s.opts.Recorder.Append(ctx, s.id, chunk); err != nil {
			slog.Warn("Failed to append transcript", "session", s.id, "error", err)
		}
	}
}

// ID returns the session identifier (also the transcript key).
func (s *Session) ID() string { return s.id }

// Process returns the running interpreter process, nil before Init.
func (s *Session) Process() *interpreter.Process { return s.proc }

// InterpreterName returns the resolved interpreter's name.
func (s *Session) InterpreterName() string { return s.interp.Name }

// ScriptPath returns the resolved script path, empty for interactive
// sessions.
func (s *Session) ScriptPath() string { return s.scriptPath }

// FontSize returns the clamped font-size preference.
func (s *Session) FontSize() int { return s.fontSize }

// SchemeIndex returns the clamped color-scheme preference.
func (s *Session) SchemeIndex() int { return s.schemeIndex }

// Prefs returns the preference store backing the session, for hosts
// that let the user edit settings and Resume afterwards.
func (s *Session) Prefs() *config.Prefs { return s.opts.Prefs }

// ControlKey returns the configured control key code.
func (s *Session) ControlKey() KeyCode { return ControlKeySchemes[s.controlIdx] }

// ControlKeyName returns the user-facing name of the control key.
func (s *Session) ControlKeyName() string { return ControlKeyNames[s.controlIdx] }

// KeypadApplicationMode reports the tracked keypad mode.
func (s *Session) KeypadApplicationMode() bool { return s.tracker.ApplicationMode() }

// processSink adapts the interpreter process to the translator's
// Sink. Each sequence goes down in a single Write.
type processSink struct {
	w io.Writer
}

func (s processSink) Print(b byte) {
	_, _ = s.w.Write([]byte{b})
}

func (s processSink) Sequence(seq []byte) {
	_, _ = s.w.Write(seq)
}
