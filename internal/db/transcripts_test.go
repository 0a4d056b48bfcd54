package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := Connect(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewStore(conn)
}

func TestTranscriptLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateSession(ctx, "s1", "python", "/tmp/hello.py"))
	require.NoError(t, store.Append(ctx, "s1", []byte(">>> ")))
	require.NoError(t, store.Append(ctx, "s1", []byte("hi\x1b[0m\r\n")))
	require.NoError(t, store.Append(ctx, "s1", nil))
	require.NoError(t, store.Finish(ctx, "s1"))

	content, err := store.Transcript(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, []byte(">>> hi\x1b[0m\r\n"), content)

	sessions, err := store.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "python", sessions[0].Interpreter)
	require.NotNil(t, sessions[0].EndedAt)
}

func TestAppendUnknownSession(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	err := store.Append(context.Background(), "nope", []byte("x"))
	require.ErrorIs(t, err, ErrNoTranscript)
}

func TestTranscriptUnknownSession(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	_, err := store.Transcript(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNoTranscript)
}

func TestFinishIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.CreateSession(ctx, "s1", "sh", ""))
	require.NoError(t, store.Finish(ctx, "s1"))
	require.NoError(t, store.Finish(ctx, "s1"))
}

func TestNilStoreIsInert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var store *Store
	require.ErrorIs(t, store.CreateSession(ctx, "s1", "sh", ""), ErrUnavailable)
	require.ErrorIs(t, store.Append(ctx, "s1", []byte("x")), ErrUnavailable)
	require.ErrorIs(t, store.Finish(ctx, "s1"), ErrUnavailable)
	_, err := store.Transcript(ctx, "s1")
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = store.Sessions(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
}
