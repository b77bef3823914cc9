// File path: internal/store/store.go

// Package store persists submissions, run state snapshots, and recovery
// records in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// Store wraps a pooled sqlx.DB connection to the assessment database.
type Store struct {
	db *sqlx.DB
}

// Config tunes the SQLite connection pool.
type Config struct {
	Path            string
	BusyTimeout     time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func defaultConfig() Config {
	return Config{
		BusyTimeout:     5 * time.Second,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	}
}

// Open constructs a Store backed by the SQLite database at the provided
// path. The schema is migrated on first use.
func Open(path string) (*Store, error) {
	cfg := defaultConfig()
	cfg.Path = strings.TrimSpace(path)
	return OpenWithConfig(cfg)
}

// OpenWithConfig constructs a Store using the provided configuration.
func OpenWithConfig(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path required")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve sqlite path: %w", err)
	}
	busy := int(cfg.BusyTimeout / time.Millisecond)
	if busy <= 0 {
		busy = 5000
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", abs, busy)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.BusyTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			company TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_states (
			submission_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			phase TEXT NOT NULL,
			tokens INTEGER NOT NULL DEFAULT 0,
			cost REAL NOT NULL DEFAULT 0,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS recovery_records (
			submission_id TEXT NOT NULL,
			category TEXT NOT NULL,
			status TEXT NOT NULL,
			attempts INTEGER NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (submission_id, category)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}

// SubmissionRecord is one stored questionnaire submission.
type SubmissionRecord struct {
	ID        string    `db:"id"`
	Company   string    `db:"company"`
	Payload   string    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

// StateRecord mirrors the pipeline's latest snapshot for a submission.
type StateRecord struct {
	SubmissionID string    `db:"submission_id"`
	Status       string    `db:"status"`
	Phase        string    `db:"phase"`
	Tokens       int64     `db:"tokens"`
	Cost         float64   `db:"cost"`
	ElapsedMs    int64     `db:"elapsed_ms"`
	Error        string    `db:"error"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// RecoveryRecord captures how one category deep dive concluded.
type RecoveryRecord struct {
	SubmissionID string `db:"submission_id"`
	Category     string `db:"category"`
	Status       string `db:"status"`
	Attempts     int    `db:"attempts"`
	Detail       string `db:"detail"`
}

// SaveSubmission upserts the raw questionnaire payload.
func (s *Store) SaveSubmission(ctx context.Context, rec SubmissionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	const stmt = `INSERT INTO submissions (id, company, payload, created_at)
		VALUES (:id, :company, :payload, :created_at)
		ON CONFLICT(id) DO UPDATE SET company = excluded.company, payload = excluded.payload`
	if _, err := s.db.NamedExecContext(ctx, stmt, rec); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

// GetSubmission loads one stored submission.
func (s *Store) GetSubmission(ctx context.Context, id string) (SubmissionRecord, error) {
	var rec SubmissionRecord
	err := s.db.GetContext(ctx, &rec, `SELECT id, company, payload, created_at FROM submissions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return SubmissionRecord{}, ErrNotFound
	}
	if err != nil {
		return SubmissionRecord{}, fmt.Errorf("load submission: %w", err)
	}
	return rec, nil
}

// SaveState upserts the latest run snapshot.
func (s *Store) SaveState(ctx context.Context, rec StateRecord) error {
	const stmt = `INSERT INTO run_states (submission_id, status, phase, tokens, cost, elapsed_ms, error, updated_at)
		VALUES (:submission_id, :status, :phase, :tokens, :cost, :elapsed_ms, :error, :updated_at)
		ON CONFLICT(submission_id) DO UPDATE SET
			status = excluded.status, phase = excluded.phase, tokens = excluded.tokens,
			cost = excluded.cost, elapsed_ms = excluded.elapsed_ms,
			error = excluded.error, updated_at = excluded.updated_at`
	if _, err := s.db.NamedExecContext(ctx, stmt, rec); err != nil {
		return fmt.Errorf("save run state: %w", err)
	}
	return nil
}

// GetState loads the latest snapshot for a submission.
func (s *Store) GetState(ctx context.Context, id string) (StateRecord, error) {
	var rec StateRecord
	err := s.db.GetContext(ctx, &rec,
		`SELECT submission_id, status, phase, tokens, cost, elapsed_ms, error, updated_at FROM run_states WHERE submission_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return StateRecord{}, ErrNotFound
	}
	if err != nil {
		return StateRecord{}, fmt.Errorf("load run state: %w", err)
	}
	return rec, nil
}

// SaveRecoveries replaces the recovery records for a submission.
func (s *Store) SaveRecoveries(ctx context.Context, recs []RecoveryRecord) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin recovery save: %w", err)
	}
	defer tx.Rollback()
	const stmt = `INSERT INTO recovery_records (submission_id, category, status, attempts, detail)
		VALUES (:submission_id, :category, :status, :attempts, :detail)
		ON CONFLICT(submission_id, category) DO UPDATE SET
			status = excluded.status, attempts = excluded.attempts, detail = excluded.detail`
	for _, rec := range recs {
		if _, err := tx.NamedExecContext(ctx, stmt, rec); err != nil {
			return fmt.Errorf("save recovery record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit recovery save: %w", err)
	}
	return nil
}

// RecoveriesFor lists recovery records for a submission, category order.
func (s *Store) RecoveriesFor(ctx context.Context, id string) ([]RecoveryRecord, error) {
	var recs []RecoveryRecord
	err := s.db.SelectContext(ctx, &recs,
		`SELECT submission_id, category, status, attempts, detail FROM recovery_records WHERE submission_id = ? ORDER BY category`, id)
	if err != nil {
		return nil, fmt.Errorf("list recovery records: %w", err)
	}
	return recs, nil
}
