package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// SessionRecord is the persisted state of one session.
type SessionRecord struct {
	SessionID string    `db:"session_id"`
	Phase     string    `db:"phase"`
	Context   string    `db:"context"` // serialized StudentContext
	UpdatedAt time.Time `db:"updated_at"`
}

// ActionRecord is one entry in a session's append-only action history.
type ActionRecord struct {
	ID        int64     `db:"id"`
	SessionID string    `db:"session_id"`
	Action    string    `db:"action"`
	Metadata  string    `db:"metadata"`
	CreatedAt time.Time `db:"created_at"`
}

// SessionRepo persists session state and the per-session action history.
type SessionRepo interface {
	// SaveState upserts the current phase and serialized context for a session.
	SaveState(ctx context.Context, sessionID, phase, contextJSON string) error

	// LoadState returns the stored record, or nil if the session is unknown.
	LoadState(ctx context.Context, sessionID string) (*SessionRecord, error)

	// AppendAction appends one entry to the session's action history.
	AppendAction(ctx context.Context, sessionID, action, metadataJSON string) error

	// History returns the session's action history in append order.
	History(ctx context.Context, sessionID string) ([]ActionRecord, error)
}

type sessionRepo struct {
	db *sqlx.DB
}

func (r *sessionRepo) SaveState(ctx context.Context, sessionID, phase, contextJSON string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, phase, context, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session_id) DO UPDATE SET
			phase      = excluded.phase,
			context    = excluded.context,
			updated_at = CURRENT_TIMESTAMP`,
		sessionID, phase, contextJSON)
	return err
}

func (r *sessionRepo) LoadState(ctx context.Context, sessionID string) (*SessionRecord, error) {
	var rec SessionRecord
	err := r.db.GetContext(ctx, &rec,
		`SELECT session_id, phase, context, updated_at FROM sessions WHERE session_id = ?`,
		sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sessionRepo) AppendAction(ctx context.Context, sessionID, action, metadataJSON string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session_actions (session_id, action, metadata) VALUES (?, ?, ?)`,
		sessionID, action, metadataJSON)
	return err
}

func (r *sessionRepo) History(ctx context.Context, sessionID string) ([]ActionRecord, error) {
	var recs []ActionRecord
	err := r.db.SelectContext(ctx, &recs,
		`SELECT id, session_id, action, metadata, created_at
		 FROM session_actions WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, err
	}
	return recs, nil
}
