// Package terminal provides the embedded interpreter terminal for the
// scriptterm TUI. It bridges the PTY-backed interpreter process into
// the bubbletea event loop and renders its output through a
// charmbracelet/x/vt emulator inside an ultraviolet screen region.
package terminal

import (
	"context"
	"io"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/vt"

	"github.com/bqam/scriptterm/internal/term"
)

// OutputMsg carries a chunk of interpreter output into the bubbletea
// event loop so we can feed it to the VT emulator on the main
// goroutine.
type OutputMsg []byte

// ClosedMsg signals that the interpreter's output stream ended (the
// process exited).
type ClosedMsg struct{}

// Component is the embedded terminal UI component. It owns the
// session's process I/O and a virtual terminal emulator and can draw
// itself into an ultraviolet screen region.
type Component struct {
	sess   *term.Session
	vt     *vt.SafeEmulator
	width  int
	height int

	// ctrlLatched is set after the configured control key is pressed:
	// a terminal host never sees key releases, so the control key
	// latches until the next translated key completes the chord.
	ctrlLatched bool
}

// New wraps an initialized session in a terminal component and kicks
// off the reader bridging interpreter output into the event loop.
func New(sess *term.Session, rows, cols int) (*Component, tea.Cmd) {
	c := &Component{
		sess:   sess,
		vt:     vt.NewSafeEmulator(cols, rows),
		width:  cols,
		height: rows,
	}

	// Drain the VT emulator's response pipe (device attributes,
	// cursor reports) into the PTY. If nobody reads the pipe, any
	// emulator response blocks the main Bubble Tea goroutine.
	go c.drainVTInput()

	return c, c.readLoop()
}

// drainVTInput continuously reads emulator responses and forwards
// them to the interpreter. Runs for the lifetime of the component and
// exits when the emulator is closed.
func (c *Component) drainVTInput() {
	buf := make([]byte, 4096)
	for {
		n, err := c.vt.Read(buf)
		if n > 0 {
			c.sess.Process().Write(buf[:n]) //nolint:errcheck
		}
		if err != nil {
			return
		}
	}
}

// readLoop returns a tea.Cmd that reads the next chunk from the
// interpreter and sends it as an OutputMsg. It re-schedules itself
// after each read.
func (c *Component) readLoop() tea.Cmd {
	proc := c.sess.Process()
	return func() tea.Msg {
		buf := make([]byte, 4096)
		n, err := proc.Read(buf)
		if err != nil {
			if err == io.EOF {
				return ClosedMsg{}
			}
			return ClosedMsg{}
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		return OutputMsg(data)
	}
}

// Update processes messages relevant to the terminal component.
// Returns true if the message was handled, plus any follow-up command.
func (c *Component) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case OutputMsg:
		// The session sees every chunk first: it tracks keypad mode
		// and records the transcript; then the emulator renders it.
		c.sess.Observe(context.Background(), []byte(msg))
		c.vt.Write([]byte(msg)) //nolint:errcheck
		return true, c.readLoop()

	case ClosedMsg:
		// Interpreter exited.
		return true, nil

	case tea.PasteMsg:
		// Pasted text bypasses translation and goes straight to the
		// interpreter in one write.
		c.sess.Process().Write([]byte(msg.Content)) //nolint:errcheck
		return true, nil
	}

	return false, nil
}

// HandleKey routes a key press through the session's translator.
// system marks keys the host reserves for itself (its own bindings);
// the translator never consumes those. The return value reports
// whether the key was consumed here.
func (c *Component) HandleKey(msg tea.KeyPressMsg, system bool) bool {
	code, shifted := mapKey(tea.Key(msg))

	// The configured control key cannot be held in a terminal (there
	// are no release events), so the first press latches it and the
	// next key completes the chord.
	if !system && !c.ctrlLatched && code == c.sess.ControlKey() {
		if c.sess.HandleKeyDown(code, false) {
			c.ctrlLatched = true
			return true
		}
	}

	// A second press of the control key while a chord is pending
	// cancels it.
	if c.ctrlLatched && code == c.sess.ControlKey() {
		c.sess.HandleKeyUp(code, system)
		c.ctrlLatched = false
		return true
	}

	// A real Ctrl modifier acts as a one-key press of the configured
	// control key around the chord.
	synthCtrl := !system && !c.ctrlLatched &&
		tea.Key(msg).Mod&tea.ModCtrl != 0 && code != c.sess.ControlKey()
	if synthCtrl {
		c.sess.HandleKeyDown(c.sess.ControlKey(), false)
	}
	if shifted {
		c.sess.HandleKeyDown(term.KeyShiftLeft, false)
	}

	handled := c.sess.HandleKeyDown(code, system)
	c.sess.HandleKeyUp(code, system)

	if shifted {
		c.sess.HandleKeyUp(term.KeyShiftLeft, false)
	}
	if synthCtrl {
		c.sess.HandleKeyUp(c.sess.ControlKey(), false)
	}
	if c.ctrlLatched && code != c.sess.ControlKey() {
		c.sess.HandleKeyUp(c.sess.ControlKey(), false)
		c.ctrlLatched = false
	}
	return handled
}

// ControlPending reports whether a latched control chord is waiting
// for its second key (shown in the status line).
func (c *Component) ControlPending() bool {
	return c.ctrlLatched
}

// Resize changes both the VT emulator and the PTY window size.
func (c *Component) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.vt.Resize(width, height)
	c.sess.Process().Resize(height, width)
}

// Draw renders the virtual terminal into the given screen area.
func (c *Component) Draw(scr uv.Screen, area uv.Rectangle) {
	c.vt.Draw(scr, area)
}

// Close tears down the VT emulator. The session itself (and the
// process) is torn down by its owner.
func (c *Component) Close() {
	if c.vt != nil {
		c.vt.Close() //nolint:errcheck
	}
}
