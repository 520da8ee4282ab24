package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/logging"
	_ "modernc.org/sqlite"
)

//go:embed migrations/001_initial_schema.sql
var migrationV1 string

// SQLiteStore persists checkpoints in a single SQLite database. The
// session payload is stored as JSON; phase and completion are mirrored
// into columns for listing and inspection.
type SQLiteStore struct {
	dbPath string
	db     *sql.DB
	logger *logging.Logger
}

// NewSQLiteStore opens (and migrates) the database at dbPath.
func NewSQLiteStore(dbPath string, logger *logging.Logger) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", ".tutor", "sessions.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, core.ErrPersistence(core.CodeSaveFailed,
			"creating database directory").WithCause(err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, core.ErrPersistence(core.CodeSaveFailed, "opening database").WithCause(err)
	}

	s := &SQLiteStore{
		dbPath: dbPath,
		db:     db,
		logger: logger.WithComponent("store.sqlite"),
	}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

var _ core.StateStore = (*SQLiteStore)(nil)

func (s *SQLiteStore) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		version = 0
	}
	if version < 1 {
		if _, err := s.db.Exec(migrationV1); err != nil {
			return core.ErrPersistence(core.CodeSaveFailed, "applying schema migration").WithCause(err)
		}
	}
	return nil
}

// Get loads a session checkpoint and verifies its checksum.
func (s *SQLiteStore) Get(ctx context.Context, id core.SessionID) (*core.Session, error) {
	var data, checksum string
	err := s.db.QueryRowContext(ctx,
		"SELECT data, checksum FROM sessions WHERE id = ?", string(id)).
		Scan(&data, &checksum)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound("session", string(id))
	}
	if err != nil {
		return nil, core.ErrPersistence(core.CodeLoadFailed,
			fmt.Sprintf("reading checkpoint for %s", id)).WithCause(err)
	}

	var session core.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, core.ErrPersistence(core.CodeStateCorrupt,
			fmt.Sprintf("checkpoint for %s is not valid JSON", id)).WithCause(err)
	}
	if sum, err := sessionChecksum(&session); err != nil {
		return nil, err
	} else if sum != checksum {
		return nil, core.ErrPersistence(core.CodeStateCorrupt,
			fmt.Sprintf("checkpoint for %s failed checksum verification", id))
	}
	return &session, nil
}

// Put persists a checkpoint. Version checking happens inside the
// UPDATE/INSERT statements, so concurrent writers race safely.
func (s *SQLiteStore) Put(ctx context.Context, session *core.Session) error {
	if session == nil || session.ID == "" {
		return core.ErrValidation("MISSING_ID", "session has no id")
	}

	priorVersion := session.Version
	session.Version++
	session.UpdatedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		session.Version = priorVersion
		return core.ErrPersistence(core.CodeSaveFailed,
			fmt.Sprintf("marshaling checkpoint for %s", session.ID)).WithCause(err)
	}
	sum, err := sessionChecksum(session)
	if err != nil {
		session.Version = priorVersion
		return err
	}

	if priorVersion == 0 {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO sessions (id, version, phase, complete, data, checksum, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			string(session.ID), session.Version, string(session.Phase),
			boolToInt(session.Complete), string(data), sum,
			session.CreatedAt, session.UpdatedAt,
		)
		if err != nil {
			session.Version = priorVersion
			return core.ErrConflict(fmt.Sprintf(
				"checkpoint for %s already exists or insert failed", session.ID)).WithCause(err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET version = ?, phase = ?, complete = ?, data = ?, checksum = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		session.Version, string(session.Phase), boolToInt(session.Complete),
		string(data), sum, session.UpdatedAt,
		string(session.ID), priorVersion,
	)
	if err != nil {
		session.Version = priorVersion
		return core.ErrPersistence(core.CodeSaveFailed,
			fmt.Sprintf("writing checkpoint for %s", session.ID)).WithCause(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		session.Version = priorVersion
		return core.ErrPersistence(core.CodeSaveFailed, "checking write result").WithCause(err)
	}
	if affected == 0 {
		session.Version = priorVersion
		return core.ErrConflict(fmt.Sprintf(
			"checkpoint for %s moved past version %d", session.ID, priorVersion))
	}

	s.logger.Debug("checkpoint written", "session_id", session.ID, "version", session.Version)
	return nil
}

// Delete removes a checkpoint. Missing ids are a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, id core.SessionID) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE id = ?", string(id)); err != nil {
		return core.ErrPersistence(core.CodeDeleteFailed,
			fmt.Sprintf("deleting checkpoint for %s", id)).WithCause(err)
	}
	return nil
}

// List returns the ids of all stored sessions, most recent first.
func (s *SQLiteStore) List(ctx context.Context) ([]core.SessionID, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM sessions ORDER BY updated_at DESC")
	if err != nil {
		return nil, core.ErrPersistence(core.CodeListFailed, "listing sessions").WithCause(err)
	}
	defer rows.Close()

	var ids []core.SessionID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, core.ErrPersistence(core.CodeListFailed, "scanning session id").WithCause(err)
		}
		ids = append(ids, core.SessionID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, core.ErrPersistence(core.CodeListFailed, "iterating sessions").WithCause(err)
	}
	return ids, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
