package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/logging"
)

// JSONStore keeps one checkpoint file per session under a directory.
type JSONStore struct {
	dir    string
	logger *logging.Logger
	mu     sync.Mutex
}

// envelope wraps a checkpoint with integrity metadata. The checksum
// covers the serialized session, so a torn or hand-edited file fails
// loudly instead of resuming from garbage.
type envelope struct {
	Version   int           `json:"version"`
	Checksum  string        `json:"checksum"`
	UpdatedAt time.Time     `json:"updated_at"`
	Session   *core.Session `json:"session"`
}

// NewJSONStore creates a JSON-file store rooted at dir.
func NewJSONStore(dir string, logger *logging.Logger) (*JSONStore, error) {
	if dir == "" {
		dir = filepath.Join(".", ".tutor", "sessions")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, core.ErrPersistence(core.CodeSaveFailed,
			fmt.Sprintf("creating checkpoint directory %s", dir)).WithCause(err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &JSONStore{dir: dir, logger: logger.WithComponent("store.json")}, nil
}

var _ core.StateStore = (*JSONStore)(nil)

func (s *JSONStore) path(id core.SessionID) string {
	return filepath.Join(s.dir, string(id)+".json")
}

// Get loads a session checkpoint and verifies its checksum.
func (s *JSONStore) Get(_ context.Context, id core.SessionID) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id)
}

func (s *JSONStore) load(id core.SessionID) (*core.Session, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrNotFound("session", string(id))
		}
		return nil, core.ErrPersistence(core.CodeLoadFailed,
			fmt.Sprintf("reading checkpoint for %s", id)).WithCause(err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, core.ErrPersistence(core.CodeStateCorrupt,
			fmt.Sprintf("checkpoint for %s is not valid JSON", id)).WithCause(err)
	}
	if env.Session == nil {
		return nil, core.ErrPersistence(core.CodeStateCorrupt,
			fmt.Sprintf("checkpoint for %s has no session payload", id))
	}

	if sum, err := sessionChecksum(env.Session); err != nil {
		return nil, err
	} else if sum != env.Checksum {
		return nil, core.ErrPersistence(core.CodeStateCorrupt,
			fmt.Sprintf("checkpoint for %s failed checksum verification", id))
	}
	return env.Session, nil
}

// Put persists a checkpoint atomically. The session's version must
// match the stored one (zero for a new session); on success the version
// is bumped and UpdatedAt refreshed.
func (s *JSONStore) Put(_ context.Context, session *core.Session) error {
	if session == nil || session.ID == "" {
		return core.ErrValidation("MISSING_ID", "session has no id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(session.ID)
	switch {
	case err == nil:
		if session.Version != current.Version {
			return core.ErrConflict(fmt.Sprintf(
				"checkpoint for %s is at version %d, write carries %d",
				session.ID, current.Version, session.Version))
		}
	case core.IsCategory(err, core.ErrCatNotFound):
		if session.Version != 0 {
			return core.ErrConflict(fmt.Sprintf(
				"checkpoint for %s does not exist, write carries version %d",
				session.ID, session.Version))
		}
	default:
		return err
	}

	session.Version++
	session.UpdatedAt = time.Now()

	sum, err := sessionChecksum(session)
	if err != nil {
		session.Version--
		return err
	}
	env := envelope{
		Version:   session.Version,
		Checksum:  sum,
		UpdatedAt: session.UpdatedAt,
		Session:   session,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		session.Version--
		return core.ErrPersistence(core.CodeSaveFailed,
			fmt.Sprintf("marshaling checkpoint for %s", session.ID)).WithCause(err)
	}
	if err := atomicWriteFile(s.path(session.ID), data, 0o644); err != nil {
		session.Version--
		return core.ErrPersistence(core.CodeSaveFailed,
			fmt.Sprintf("writing checkpoint for %s", session.ID)).WithCause(err)
	}

	s.logger.Debug("checkpoint written", "session_id", session.ID, "version", session.Version)
	return nil
}

// Delete removes a checkpoint. Missing ids are a no-op.
func (s *JSONStore) Delete(_ context.Context, id core.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return core.ErrPersistence(core.CodeDeleteFailed,
			fmt.Sprintf("deleting checkpoint for %s", id)).WithCause(err)
	}
	return nil
}

// List returns the ids of all stored sessions.
func (s *JSONStore) List(_ context.Context) ([]core.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, core.ErrPersistence(core.CodeListFailed,
			"listing checkpoint directory").WithCause(err)
	}
	var ids []core.SessionID
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, core.SessionID(strings.TrimSuffix(name, ".json")))
	}
	return ids, nil
}

// Close is a no-op for the file backend.
func (s *JSONStore) Close() error {
	return nil
}

// sessionChecksum hashes the canonical serialization of a session.
func sessionChecksum(session *core.Session) (string, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return "", core.ErrPersistence(core.CodeSaveFailed,
			"marshaling session for checksum").WithCause(err)
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
