package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoTranscript is returned when no transcript exists for a session.
var ErrNoTranscript = errors.New("no transcript for session")

// ErrUnavailable is returned by a nil Store. Sessions treat a store
// that cannot record as a reason to skip recording, never to fail.
var ErrUnavailable = errors.New("transcript store unavailable")

// SessionRow is one recorded terminal session.
type SessionRow struct {
	ID          string
	Interpreter string
	ScriptPath  string
	StartedAt   time.Time
	EndedAt     *time.Time
}

// Store records session transcripts.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateSession records the start of a session and its empty
// transcript row.
func (s *Store) CreateSession(ctx context.Context, id, interpreter, scriptPath string) error {
	if s == nil {
		return ErrUnavailable
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting session transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO sessions (id, interpreter, script_path, started_at) VALUES (?, ?, ?, ?)",
		id, interpreter, scriptPath, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO transcripts (session_id, content) VALUES (?, x'')", id,
	); err != nil {
		return fmt.Errorf("inserting transcript: %w", err)
	}
	return tx.Commit()
}

// Append adds interpreter output to the session's transcript.
func (s *Store) Append(ctx context.Context, id string, chunk []byte) error {
	if s == nil {
		return ErrUnavailable
	}
	if len(chunk) == 0 {
		return nil
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE transcripts SET content = content || ? WHERE session_id = ?",
		chunk, id,
	)
	if err != nil {
		return fmt.Errorf("appending transcript: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNoTranscript, id)
	}
	return nil
}

// Finish marks the session as ended. Finishing an already-finished
// session keeps the original end time.
func (s *Store) Finish(ctx context.Context, id string) error {
	if s == nil {
		return ErrUnavailable
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL",
		time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("finishing session: %w", err)
	}
	return nil
}

// Transcript returns the raw transcript bytes for a session.
func (s *Store) Transcript(ctx context.Context, id string) ([]byte, error) {
	if s == nil {
		return nil, ErrUnavailable
	}
	var content []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT content FROM transcripts WHERE session_id = ?", id,
	).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoTranscript, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading transcript: %w", err)
	}
	return content, nil
}

// Sessions lists recorded sessions, newest first.
func (s *Store) Sessions(ctx context.Context) ([]SessionRow, error) {
	if s == nil {
		return nil, ErrUnavailable
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, interpreter, COALESCE(script_path, ''), started_at, ended_at FROM sessions ORDER BY started_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var (
			r       SessionRow
			started int64
			ended   sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Interpreter, &r.ScriptPath, &started, &ended); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		r.StartedAt = time.Unix(started, 0)
		if ended.Valid {
			t := time.Unix(ended.Int64, 0)
			r.EndedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
