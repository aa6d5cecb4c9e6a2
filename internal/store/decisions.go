package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/MJE43/cardsim/internal/decision"
)

const insertDecision = `INSERT INTO decisions (session_id, seq, op, source, target, choice, idx, number, ord, perm)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InsertDecision records a single decision.
func (s *Store) InsertDecision(ctx context.Context, sessionID string, d decision.Decision) error {
	return s.InsertDecisions(ctx, sessionID, []decision.Decision{d})
}

// InsertDecisions records decisions in one transaction. A busy database is
// retried with exponential backoff; any other failure is returned at once.
func (s *Store) InsertDecisions(ctx context.Context, sessionID string, ds []decision.Decision) error {
	if len(ds) == 0 {
		return nil
	}
	backoff := retry.WithMaxRetries(5, retry.NewExponential(10*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.insertDecisions(ctx, sessionID, ds)
		if isBusy(err) {
			s.log.Debug("database busy, retrying", zap.String("session", sessionID), zap.Int("batch", len(ds)))
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *Store) insertDecisions(ctx context.Context, sessionID string, ds []decision.Decision) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertDecision)
	if err != nil {
		return fmt.Errorf("store: prepare: %w", err)
	}
	defer stmt.Close()

	for _, d := range ds {
		ord, err := nullJSON(d.Order)
		if err != nil {
			return fmt.Errorf("store: marshal order: %w", err)
		}
		perm, err := nullJSON(d.Perm)
		if err != nil {
			return fmt.Errorf("store: marshal perm: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, sessionID, d.Seq, string(d.Op), d.Source, d.Target, d.Choice, d.Index, d.Number, ord, perm); err != nil {
			return fmt.Errorf("store: insert decision #%d: %w", d.Seq, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// nullJSON encodes a non-empty slice as JSON text and an empty one as NULL.
func nullJSON[T any](v []T) (sql.NullString, error) {
	if len(v) == 0 {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func isBusy(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
		return true
	}
	return false
}

// Transcript loads the decisions of a session in sequence order.
func (s *Store) Transcript(ctx context.Context, sessionID string) (decision.Transcript, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, op, source, target, choice, idx, number, ord, perm
		 FROM decisions WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("store: transcript: %w", err)
	}
	defer rows.Close()

	t := decision.Transcript{}
	for rows.Next() {
		var (
			d         decision.Decision
			op        string
			ord, perm sql.NullString
		)
		if err := rows.Scan(&d.Seq, &op, &d.Source, &d.Target, &d.Choice, &d.Index, &d.Number, &ord, &perm); err != nil {
			return nil, fmt.Errorf("store: scan decision: %w", err)
		}
		d.Op = decision.Op(op)
		if ord.Valid {
			if err := json.Unmarshal([]byte(ord.String), &d.Order); err != nil {
				return nil, fmt.Errorf("store: decision #%d order: %w", d.Seq, err)
			}
		}
		if perm.Valid {
			if err := json.Unmarshal([]byte(perm.String), &d.Perm); err != nil {
				return nil, fmt.Errorf("store: decision #%d perm: %w", d.Seq, err)
			}
		}
		t = append(t, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: transcript: %w", err)
	}
	return t, nil
}

// SaveTranscript stores a finished transcript as a new session and returns
// the session id.
func (s *Store) SaveTranscript(ctx context.Context, sess *Session, t decision.Transcript) (string, error) {
	id, err := s.CreateSession(ctx, sess)
	if err != nil {
		return "", err
	}
	if err := s.InsertDecisions(ctx, id, t); err != nil {
		return "", multierr.Append(err, s.EndSession(ctx, id, StateFailed, 0))
	}
	if err := s.EndSession(ctx, id, StateFinished, len(t)); err != nil {
		return "", err
	}
	return id, nil
}
