// Package localstore persists client-side state to a SQLite database
// under ~/.jecrm: the session (bearer token + serialized agent identity)
// so a restart does not force a re-login, and a conversation-list
// snapshot so the dashboard paints before the first REST load completes.
package localstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

// The session occupies exactly two keys.
const (
	keyToken = "token"
	keyAgent = "agent"
)

// SQLiteStore is the durable local store.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens the database at the given path.
func Open(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL keeps the dashboard responsive while snapshots are written
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS conversation_snapshot (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			position INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshot table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) setKey(key, value string) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) getKey(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, nil
}

// SaveSession mirrors the authenticated session. Implements
// store.SessionSaver.
func (s *SQLiteStore) SaveSession(token string, agent *types.Agent) error {
	data, err := json.Marshal(agent)
	if err != nil {
		return fmt.Errorf("failed to marshal agent: %w", err)
	}
	if err := s.setKey(keyToken, token); err != nil {
		return err
	}
	return s.setKey(keyAgent, string(data))
}

// LoadSession restores the persisted session. A missing or torn session
// (one key without the other) loads as absent: token and agent are
// all-or-nothing.
func (s *SQLiteStore) LoadSession() (string, *types.Agent, error) {
	token, err := s.getKey(keyToken)
	if err != nil {
		return "", nil, err
	}
	agentJSON, err := s.getKey(keyAgent)
	if err != nil {
		return "", nil, err
	}
	if token == "" || agentJSON == "" {
		return "", nil, nil
	}

	var agent types.Agent
	if err := json.Unmarshal([]byte(agentJSON), &agent); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal agent: %w", err)
	}
	return token, &agent, nil
}

// ClearSession removes both session keys. Implements store.SessionSaver.
func (s *SQLiteStore) ClearSession() error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key IN (?, ?)`, keyToken, keyAgent)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// SaveConversations replaces the conversation-list snapshot.
func (s *SQLiteStore) SaveConversations(list []types.Conversation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM conversation_snapshot`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	for i, conv := range list {
		data, err := json.Marshal(conv)
		if err != nil {
			return fmt.Errorf("failed to marshal conversation %s: %w", conv.ID, err)
		}
		_, err = tx.Exec(`
			INSERT OR REPLACE INTO conversation_snapshot (id, data, position)
			VALUES (?, ?, ?)
		`, conv.ID, string(data), i)
		if err != nil {
			return fmt.Errorf("failed to store conversation %s: %w", conv.ID, err)
		}
	}

	return tx.Commit()
}

// LoadConversations returns the snapshot in its original order. Entries
// that no longer parse are skipped rather than failing the whole load.
func (s *SQLiteStore) LoadConversations() ([]types.Conversation, error) {
	rows, err := s.db.Query(`SELECT data FROM conversation_snapshot ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	defer rows.Close()

	var list []types.Conversation
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		var conv types.Conversation
		if err := json.Unmarshal([]byte(data), &conv); err != nil {
			continue
		}
		list = append(list, conv)
	}
	return list, rows.Err()
}
