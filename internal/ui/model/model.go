// Package model implements the top-level scriptterm TUI: a header,
// the embedded interpreter terminal, and a status line with the
// session actions.
package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"

	"github.com/bqam/scriptterm/internal/config"
	"github.com/bqam/scriptterm/internal/db"
	apperr "github.com/bqam/scriptterm/internal/errors"
	"github.com/bqam/scriptterm/internal/term"
	"github.com/bqam/scriptterm/internal/ui/styles"
	"github.com/bqam/scriptterm/internal/ui/terminal"
)

const chromeRows = 2 // header + status line

type keyMap struct {
	Quit        key.Binding
	Reset       key.Binding
	Export      key.Binding
	SpecialKeys key.Binding
	Scheme      key.Binding
	CtrlKey     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		Reset: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "reset"),
		),
		Export: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("f3", "export transcript"),
		),
		SpecialKeys: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "special keys"),
		),
		Scheme: key.NewBinding(
			key.WithKeys("f4"),
			key.WithHelp("f4", "color scheme"),
		),
		CtrlKey: key.NewBinding(
			key.WithKeys("f5"),
			key.WithHelp("f5", "control key"),
		),
	}
}

type statusMsg string

type exportDoneMsg struct {
	path string
	err  error
}

// UI is the root bubbletea model.
type UI struct {
	sess   *term.Session
	termc  *terminal.Component
	store  *db.Store
	styles styles.Styles
	keyMap keyMap
	help   help.Model

	width    int
	height   int
	status   string
	showKeys bool

	initCmd tea.Cmd
}

// New builds the root model around an initialized session. store may
// be nil when transcript persistence is unavailable.
func New(sess *term.Session, store *db.Store) *UI {
	m := &UI{
		sess:   sess,
		store:  store,
		styles: styles.New(styles.ForIndex(sess.SchemeIndex())),
		keyMap: defaultKeyMap(),
		help:   help.New(),
	}
	m.termc, m.initCmd = terminal.New(sess, 24, 80)
	return m
}

// Init implements tea.Model. It kicks off the interpreter read loop.
func (m *UI) Init() tea.Cmd {
	return m.initCmd
}

// Update implements tea.Model.
func (m *UI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.termc.Resize(msg.Width, max(1, msg.Height-chromeRows))
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = apperr.FormatErrorForDisplay(msg.err)
		} else {
			m.status = "Transcript exported to " + msg.path
		}
		return m, nil

	case terminal.ClosedMsg:
		m.status = "Interpreter exited."
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if handled, cmd := m.termc.Update(msg); handled {
		return m, cmd
	}
	return m, nil
}

func (m *UI) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.showKeys {
		// Any key dismisses the special-keys overlay.
		m.showKeys = false
		return m, nil
	}

	// Keys bound to host actions are system keys: the translator must
	// never consume them.
	system := key.Matches(msg, m.keyMap.Quit) ||
		key.Matches(msg, m.keyMap.Reset) ||
		key.Matches(msg, m.keyMap.Export) ||
		key.Matches(msg, m.keyMap.SpecialKeys) ||
		key.Matches(msg, m.keyMap.Scheme) ||
		key.Matches(msg, m.keyMap.CtrlKey)

	if m.termc.HandleKey(msg, system) {
		if m.termc.ControlPending() {
			m.status = m.sess.ControlKeyName() + " held: next key sends a control code"
		} else {
			m.status = ""
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keyMap.Reset):
		return m, m.resetCmd()
	case key.Matches(msg, m.keyMap.Export):
		return m, m.exportCmd()
	case key.Matches(msg, m.keyMap.SpecialKeys):
		m.showKeys = true
		return m, nil
	case key.Matches(msg, m.keyMap.Scheme):
		return m, m.cycleSchemeCmd()
	case key.Matches(msg, m.keyMap.CtrlKey):
		return m, m.cycleControlKeyCmd()
	}
	return m, nil
}

// cycleSchemeCmd advances the color-scheme preference, persists it,
// and re-applies it to the live session, standing in for the
// original's settings screen round trip.
func (m *UI) cycleSchemeCmd() tea.Cmd {
	p := m.sess.Prefs()
	next := (m.sess.SchemeIndex() + 1) % len(styles.Schemes)
	p.Set(config.PrefColor, strconv.Itoa(next))
	if err := p.Save(); err != nil {
		return func() tea.Msg { return statusMsg(apperr.FormatErrorForDisplay(err)) }
	}
	m.sess.Resume()
	m.styles = styles.New(styles.ForIndex(m.sess.SchemeIndex()))
	name := m.styles.Scheme.Name
	return func() tea.Msg { return statusMsg("Color scheme: " + name) }
}

// cycleControlKeyCmd advances the control-key preference the same
// way.
func (m *UI) cycleControlKeyCmd() tea.Cmd {
	p := m.sess.Prefs()
	next := (p.ReadIntPref(config.PrefControlKey, config.DefaultControlKey, len(term.ControlKeySchemes)-1) + 1) %
		len(term.ControlKeySchemes)
	p.Set(config.PrefControlKey, strconv.Itoa(next))
	if err := p.Save(); err != nil {
		return func() tea.Msg { return statusMsg(apperr.FormatErrorForDisplay(err)) }
	}
	m.sess.Resume()
	name := m.sess.ControlKeyName()
	return func() tea.Msg { return statusMsg("Control key: " + name) }
}

// resetCmd tears the session down and starts a fresh interpreter, the
// way the original reset recreated the whole screen.
func (m *UI) resetCmd() tea.Cmd {
	ctx := context.Background()
	m.termc.Close()
	if err := m.sess.Reset(ctx); err != nil {
		return func() tea.Msg { return statusMsg(apperr.FormatErrorForDisplay(err)) }
	}

	var cmd tea.Cmd
	m.termc, cmd = terminal.New(m.sess, max(1, m.height-chromeRows), max(1, m.width))
	return tea.Batch(cmd, func() tea.Msg { return statusMsg("Terminal reset.") })
}

// exportCmd writes the recorded transcript, stripped of escape
// sequences, next to the current working directory.
func (m *UI) exportCmd() tea.Cmd {
	sessID := m.sess.ID()
	store := m.store
	return func() tea.Msg {
		if store == nil {
			return exportDoneMsg{err: apperr.CreateUserError("Transcript recording is unavailable.", apperr.UserErrorOptions{
				Level:    apperr.ErrorLevelWarning,
				Category: apperr.ErrorCategoryDatabase,
			})}
		}
		content, err := store.Transcript(context.Background(), sessID)
		if err != nil {
			return exportDoneMsg{err: apperr.EnsureUserError(err, "Could not load the transcript.", apperr.UserErrorOptions{
				Level:    apperr.ErrorLevelWarning,
				Category: apperr.ErrorCategoryDatabase,
			})}
		}
		path := filepath.Join(".", fmt.Sprintf("transcript-%s.txt", sessID))
		if err := os.WriteFile(path, []byte(ansi.Strip(string(content))), 0o644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

// View implements tea.Model.
func (m *UI) View() tea.View {
	var view tea.View
	view.BackgroundColor = m.styles.Scheme.Background
	if m.width <= 0 || m.height <= 0 {
		return view
	}

	canvas := uv.NewScreenBuffer(m.width, m.height)
	area := canvas.Bounds()

	m.drawHeader(canvas, uv.Rect(area.Min.X, area.Min.Y, area.Dx(), 1))
	m.termc.Draw(canvas, uv.Rect(area.Min.X, area.Min.Y+1, area.Dx(), max(1, area.Dy()-chromeRows)))
	m.drawStatus(canvas, uv.Rect(area.Min.X, area.Max.Y-1, area.Dx(), 1))
	if m.showKeys {
		m.drawSpecialKeys(canvas, area)
	}

	view.Content = canvas.Render()
	return view
}

func (m *UI) drawHeader(scr uv.Screen, area uv.Rectangle) {
	title := "scriptterm · " + m.sess.InterpreterName()
	if p := m.sess.ScriptPath(); p != "" {
		title += " · " + filepath.Base(p)
	}
	uv.NewStyledString(m.styles.Header.Width(area.Dx()).Render(title)).Draw(scr, area)
}

func (m *UI) drawStatus(scr uv.Screen, area uv.Rectangle) {
	left := m.status
	if left == "" {
		left = m.help.ShortHelpView(m.ShortHelp())
	}
	uv.NewStyledString(m.styles.Status.Width(area.Dx()).Render(left)).Draw(scr, area)
}

// drawSpecialKeys renders the control-chord reference, the analog of
// the original "Press <control> and Key" dialog.
func (m *UI) drawSpecialKeys(scr uv.Screen, area uv.Rectangle) {
	ck := m.sess.ControlKeyName()
	lines := []string{
		"Press " + ck + " and Key",
		"",
		ck + " Space ==> Control-@ (NUL)",
		ck + " A..Z  ==> Control-A..Z",
		ck + " 1     ==> Control-[ (ESC)",
		ck + " 5     ==> Control-_",
		ck + " .     ==> Control-\\",
		ck + " 0     ==> Control-]",
		ck + " 6     ==> Control-^",
	}
	box := m.styles.Base.Padding(1, 2).Render(strings.Join(lines, "\n"))

	w := lipglossWidth(box)
	h := len(lines) + 2
	x := area.Min.X + max(0, (area.Dx()-w)/2)
	y := area.Min.Y + max(0, (area.Dy()-h)/2)
	uv.NewStyledString(box).Draw(scr, uv.Rect(x, y, w, h))
}

func lipglossWidth(s string) int {
	w := 0
	for _, line := range strings.Split(s, "\n") {
		if lw := ansi.StringWidth(line); lw > w {
			w = lw
		}
	}
	return w
}

// ShortHelp implements help.KeyMap.
func (m *UI) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keyMap.SpecialKeys, m.keyMap.Reset, m.keyMap.Export,
		m.keyMap.Scheme, m.keyMap.CtrlKey, m.keyMap.Quit,
	}
}

// FullHelp implements help.KeyMap.
func (m *UI) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}
