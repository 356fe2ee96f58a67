package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"whtpst/core"
)

const schema = `CREATE TABLE IF NOT EXISTS pastes (
	id TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);`

type PasteStore struct {
	db *sql.DB
}

// NewPasteStore opens (creating if needed) the database at dataSourceName and
// ensures the pastes table exists.
func NewPasteStore(dataSourceName string) (*PasteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection: serialises access and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create pastes table: %w", err)
	}
	return &PasteStore{db}, nil
}

func (s *PasteStore) Insert(ctx context.Context, paste core.NewPaste) error {
	log := logrus.WithFields(logrus.Fields{
		"paste_id":       paste.ID,
		"content_length": len(paste.Content),
	})
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pastes (id, content, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET content = excluded.content, created_at = excluded.created_at`,
		paste.ID.String(), paste.Content.String(), time.Now().UTC())
	if err != nil {
		log.WithField("error", err).Error("Failed to store paste")
		return &core.WriteFailureError{Err: err}
	}
	log.Debug("Paste stored")
	return nil
}

func (s *PasteStore) FindOne(ctx context.Context, id core.PasteID) (core.PasteContent, error) {
	log := logrus.WithField("paste_id", id)
	var content string
	err := s.db.QueryRowContext(ctx, "SELECT content FROM pastes WHERE id = ?", id.String()).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("Paste not found")
			return "", &core.NotFoundError{ID: id}
		}
		log.WithField("error", err).Error("Failed to retrieve paste")
		return "", &core.ReadFailureError{Err: err}
	}
	return core.PasteContent(content), nil
}

func (s *PasteStore) Close() error {
	return s.db.Close()
}
