package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bqam/scriptterm/internal/db"
	sessterm "github.com/bqam/scriptterm/internal/term"
)

func TestSessionOptionsWithoutStore(t *testing.T) {
	t.Parallel()

	env := &appEnv{dataDir: t.TempDir()}
	opts := sessionOptions(env, "sh", "", "")
	require.Nil(t, opts.Recorder, "a nil store must leave the recorder interface nil")

	env.store = db.NewStore(nil)
	opts = sessionOptions(env, "sh", "", "")
	require.NotNil(t, opts.Recorder)
}

func TestSessionSurvivesNilRecorderStore(t *testing.T) {
	t.Parallel()

	// Even if a typed-nil store reaches the session, starting and
	// tearing down must degrade to an unrecorded session, not crash.
	var store *db.Store
	sess := sessterm.NewSession(sessterm.Options{
		Interpreter: "sh",
		Recorder:    store,
	})

	ctx := context.Background()
	require.NoError(t, sess.Init(ctx))
	sess.Teardown(ctx)
}
