package interpreter

import (
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// Facade supplies the environment the interpreter sees and is
// released exactly once when the session ends.
type Facade interface {
	Environ() []string
	Release()
}

// EnvFacade is the standard facade: the parent environment plus any
// extra variables.
type EnvFacade struct {
	Extra []string
}

func (f *EnvFacade) Environ() []string {
	return append(os.Environ(), f.Extra...)
}

func (f *EnvFacade) Release() {}

// Process wraps the interpreter child process running behind a PTY.
// Callers read its output via the io.Reader interface and write input
// via Write.
type Process struct {
	ptyFile *os.File
	cmd     *exec.Cmd
	mu      sync.Mutex
	killed  bool
}

// Start launches the interpreter inside a PTY with the given initial
// size. scriptPath may be empty for an interactive session.
func Start(interp Interpreter, scriptPath, cwd string, rows, cols int, facade Facade) (*Process, error) {
	c := exec.Command(interp.Binary, interp.CommandArgs(scriptPath)...)
	c.Env = facade.Environ()
	c.Env = append(c.Env, "TERM=xterm-256color")
	c.Env = append(c.Env, interp.Env...)
	if cwd != "" {
		c.Dir = cwd
	}

	f, err := pty.StartWithSize(c, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, err
	}

	return &Process{
		ptyFile: f,
		cmd:     c,
	}, nil
}

// Read reads interpreter output from the PTY.
func (p *Process) Read(b []byte) (int, error) {
	return p.ptyFile.Read(b)
}

// Write sends input bytes to the interpreter's stdin. A multi-byte
// escape sequence handed to a single Write reaches the PTY in one
// syscall, so it cannot interleave with another writer.
func (p *Process) Write(b []byte) (int, error) {
	return p.ptyFile.Write(b)
}

// Resize informs the PTY of a new window size.
func (p *Process) Resize(rows, cols int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.killed {
		return
	}
	_ = pty.Setsize(p.ptyFile, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

// Kill terminates the interpreter and closes the PTY. It is
// idempotent and never returns an error: teardown is unconditional
// and best-effort.
func (p *Process) Kill() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.killed {
		return
	}
	p.killed = true

	// Kill the process first, then close the PTY.
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.ptyFile.Close()
	_ = p.cmd.Wait()
}

// Killed reports whether the process has been torn down.
func (p *Process) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

var _ io.ReadWriter = (*Process)(nil)
