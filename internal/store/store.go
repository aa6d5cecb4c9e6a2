// Package store persists simulation sessions and their decision transcripts
// in SQLite, so any recorded game can be listed, inspected and replayed.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/MJE43/cardsim/internal/store/migrations"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("store: not found")

// Session states.
const (
	StateRunning  = "running"
	StateFinished = "finished"
	StateFailed   = "failed"
)

// Session is one recorded simulation.
type Session struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Provider       string     `json:"provider"`
	ServerSeedHash string     `json:"serverSeedHash,omitempty"`
	ClientSeed     string     `json:"clientSeed,omitempty"`
	Nonce          uint64     `json:"nonce"`
	CreatedAt      time.Time  `json:"createdAt"`
	EndedAt        *time.Time `json:"endedAt,omitempty"`
	FinalState     string     `json:"finalState"`
	TotalDecisions int        `json:"totalDecisions"`
}

// Store is the SQLite transcript store.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// New opens the database at dbPath. Call Migrate before use.
func New(dbPath string, log *zap.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping db: %w", err)
	}
	return NewFromDB(db, log), nil
}

// NewFromDB wraps an existing handle.
func NewFromDB(db *sql.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log.Named("store")}
}

// Migrate applies the embedded migrations. It is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	provider, err := goose.NewProvider(database.DialectSQLite3, s.db, migrations.FS)
	if err != nil {
		return fmt.Errorf("store: goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	for _, r := range results {
		s.log.Info("migration applied",
			zap.Int64("version", r.Source.Version),
			zap.Duration("took", r.Duration))
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("store: ping: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession inserts sess in the running state and returns its id.
// An empty id is filled with a new uuid.
func (s *Store) CreateSession(ctx context.Context, sess *Session) (string, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	sess.FinalState = StateRunning

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, name, provider, server_seed_hash, client_seed, nonce, created_at, final_state)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Name, sess.Provider, sess.ServerSeedHash, sess.ClientSeed, int64(sess.Nonce),
		sess.CreatedAt, sess.FinalState,
	)
	if err != nil {
		return "", fmt.Errorf("store: create session: %w", err)
	}
	return sess.ID, nil
}

// EndSession marks a session as ended.
func (s *Store) EndSession(ctx context.Context, id, finalState string, totalDecisions int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ?, final_state = ?, total_decisions = ? WHERE id = ?`,
		time.Now().UTC(), finalState, totalDecisions, id,
	)
	if err != nil {
		return fmt.Errorf("store: end session: %w", err)
	}
	return expectOne(res, id)
}

const sessionColumns = `id, name, provider, server_seed_hash, client_seed, nonce,
	created_at, ended_at, final_state, total_decisions`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	sess := &Session{}
	var (
		nonce   int64
		endedAt sql.NullTime
	)
	err := row.Scan(
		&sess.ID, &sess.Name, &sess.Provider, &sess.ServerSeedHash, &sess.ClientSeed, &nonce,
		&sess.CreatedAt, &endedAt, &sess.FinalState, &sess.TotalDecisions,
	)
	if err != nil {
		return nil, err
	}
	sess.Nonce = uint64(nonce)
	if endedAt.Valid {
		t := endedAt.Time
		sess.EndedAt = &t
	}
	return sess, nil
}

// GetSession fetches a session by id.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	sess, err := scanSession(s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: session %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get session: %w", err)
	}
	return sess, nil
}

// ListSessions returns sessions newest first, and the total count.
func (s *Store) ListSessions(ctx context.Context, limit, offset int) ([]Session, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count sessions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("store: scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: list sessions: %w", err)
	}
	return sessions, total, nil
}

// DeleteSession removes a session and its decisions.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete session: %w", err)
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("store: session %q: %w", id, ErrNotFound)
	}
	return nil
}
