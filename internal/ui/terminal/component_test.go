package terminal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"

	"github.com/bqam/scriptterm/internal/config"
	"github.com/bqam/scriptterm/internal/term"
)

// newTestComponent starts a real shell session with "@" as the
// configured control key.
func newTestComponent(t *testing.T) *Component {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.yml")
	require.NoError(t, os.WriteFile(path, []byte("controlkey: \"1\"\n"), 0o644))

	sess := term.NewSession(term.Options{Interpreter: "sh", Prefs: config.LoadPrefs(path)})
	require.NoError(t, sess.Init(context.Background()))
	t.Cleanup(func() { sess.Teardown(context.Background()) })

	c, _ := New(sess, 4, 20)
	t.Cleanup(c.Close)
	return c
}

func TestControlKeyPressLatches(t *testing.T) {
	t.Parallel()

	c := newTestComponent(t)
	at := tea.KeyPressMsg{Code: '@', Text: "@"}

	require.True(t, c.HandleKey(at, false))
	require.True(t, c.ControlPending())
}

func TestControlKeyRepeatCancelsChord(t *testing.T) {
	t.Parallel()

	c := newTestComponent(t)
	at := tea.KeyPressMsg{Code: '@', Text: "@"}

	require.True(t, c.HandleKey(at, false))
	require.True(t, c.ControlPending())

	// A second press drops the pending chord instead of leaving a
	// stale latch behind a cleared translator.
	require.True(t, c.HandleKey(at, false))
	require.False(t, c.ControlPending())

	// The next press starts a fresh chord.
	require.True(t, c.HandleKey(at, false))
	require.True(t, c.ControlPending())
}

func TestChordCompletionReleasesLatch(t *testing.T) {
	t.Parallel()

	c := newTestComponent(t)
	at := tea.KeyPressMsg{Code: '@', Text: "@"}

	require.True(t, c.HandleKey(at, false))
	require.True(t, c.ControlPending())

	require.True(t, c.HandleKey(tea.KeyPressMsg{Code: 'c', Text: "c"}, false))
	require.False(t, c.ControlPending())
}
