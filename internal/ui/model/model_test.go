package model

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"

	"github.com/bqam/scriptterm/internal/config"
	"github.com/bqam/scriptterm/internal/term"
	"github.com/bqam/scriptterm/internal/ui/styles"
)

func newTestUI(t *testing.T) (*UI, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.yml")

	sess := term.NewSession(term.Options{
		Interpreter: "sh",
		Prefs:       config.LoadPrefs(path),
		SchemeCount: len(styles.Schemes),
	})
	require.NoError(t, sess.Init(context.Background()))
	t.Cleanup(func() { sess.Teardown(context.Background()) })

	m := New(sess, nil)
	t.Cleanup(m.termc.Close)
	return m, path
}

func TestSchemeKeyCyclesAndPersists(t *testing.T) {
	t.Parallel()

	m, path := newTestUI(t)
	require.Equal(t, config.DefaultColor, m.sess.SchemeIndex())

	// The settings binding cycles the scheme, re-applies it through
	// the session, and persists it for the next run.
	m.Update(tea.KeyPressMsg{Code: tea.KeyF4})
	require.Equal(t, (config.DefaultColor+1)%len(styles.Schemes), m.sess.SchemeIndex())
	require.Equal(t, styles.ForIndex(m.sess.SchemeIndex()).Name, m.styles.Scheme.Name)

	saved := config.LoadPrefs(path)
	require.Equal(t, m.sess.SchemeIndex(),
		saved.ReadIntPref(config.PrefColor, config.DefaultColor, len(styles.Schemes)-1))

	// Cycling wraps around.
	m.Update(tea.KeyPressMsg{Code: tea.KeyF4})
	m.Update(tea.KeyPressMsg{Code: tea.KeyF4})
	require.Equal(t, config.DefaultColor, m.sess.SchemeIndex())
}

func TestControlKeyBindingCyclesAndPersists(t *testing.T) {
	t.Parallel()

	m, path := newTestUI(t)
	require.Equal(t, term.ControlKeySchemes[config.DefaultControlKey], m.sess.ControlKey())

	m.Update(tea.KeyPressMsg{Code: tea.KeyF5})
	require.Equal(t, term.KeyAt, m.sess.ControlKey())
	require.Equal(t, "@", m.sess.ControlKeyName())

	saved := config.LoadPrefs(path)
	require.Equal(t, 1,
		saved.ReadIntPref(config.PrefControlKey, config.DefaultControlKey, len(term.ControlKeySchemes)-1))
}
