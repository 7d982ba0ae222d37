// Package localstore persists client state in a local SQLite file.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/compare"
)

const schema = `CREATE TABLE IF NOT EXISTS state (
	key     TEXT PRIMARY KEY,
	payload BLOB NOT NULL
)`

// selectionPayload is the JSON stored for a selection.
type selectionPayload struct {
	State struct {
		Items []string `json:"items"`
	} `json:"state"`
	Version int `json:"version"`
}

// SelectionStorage stores the compare selection in the `state` table of a SQLite file.
type SelectionStorage struct {
	db   *sql.DB
	exec core.DBExecutor
}

var _ compare.Storage = (*SelectionStorage)(nil) // interface compliance check

// Open opens (creating it if needed) the SQLite file at path. ":memory:" keeps everything in memory.
func Open(path string) (*SelectionStorage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, errors.Wrap(err, "creating state directory")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite")
	}
	db.SetMaxOpenConns(1) // each :memory: connection is its own database
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating state table")
	}
	return &SelectionStorage{db: db, exec: db}, nil
}

// DefaultPath is the state file of the current user.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locating config dir")
	}
	return filepath.Join(dir, "findgreatschool", "state.db"), nil
}

// Load returns the ids saved under key. A missing or unreadable payload loads as an empty selection.
func (s *SelectionStorage) Load(key string) ([]string, error) {
	var payload []byte
	err := s.exec.QueryRowContext(context.Background(), `SELECT payload FROM state WHERE key = ?`, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "selecting state")
	}

	var p selectionPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.State.Items == nil {
		return []string{}, nil
	}
	return p.State.Items, nil
}

func (s *SelectionStorage) Save(key string, ids []string) error {
	var p selectionPayload
	p.State.Items = ids
	if p.State.Items == nil {
		p.State.Items = []string{}
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encoding state")
	}
	_, err = s.exec.ExecContext(context.Background(),
		`INSERT INTO state (key, payload) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`,
		key, payload)
	return errors.Wrap(err, "saving state")
}

func (s *SelectionStorage) Close() error {
	return s.db.Close()
}
