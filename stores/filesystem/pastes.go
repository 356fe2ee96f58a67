package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"whtpst/core"
)

type PasteStore struct {
	mu       sync.Mutex
	basePath string // Directory where pastes are stored.
}

// NewPasteStore stores every paste in its own file below basePath. File names
// are the hex encoded SHA-256 of the id: ids like ".." stay inside basePath and
// long multi-byte ids stay under the file name length limit.
func NewPasteStore(basePath string) (*PasteStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create base directory %q: %w", basePath, err)
	}
	return &PasteStore{basePath: basePath}, nil
}

func (s *PasteStore) path(id core.PasteID) string {
	sum := sha256.Sum256([]byte(id))
	return filepath.Join(s.basePath, hex.EncodeToString(sum[:]))
}

func (s *PasteStore) Insert(ctx context.Context, paste core.NewPaste) error {
	filePath := s.path(paste.ID)
	log := logrus.WithFields(logrus.Fields{
		"paste_id":  paste.ID,
		"file_path": filePath,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.basePath, ".paste-*")
	if err != nil {
		log.WithField("error", err).Error("Failed to create paste")
		return &core.WriteFailureError{Err: err}
	}
	_, err = tmp.WriteString(paste.Content.String())
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), filePath)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		log.WithField("error", err).Error("Failed to create paste")
		return &core.WriteFailureError{Err: err}
	}

	log.Debug("Paste created")
	return nil
}

func (s *PasteStore) FindOne(ctx context.Context, id core.PasteID) (core.PasteContent, error) {
	filePath := s.path(id)
	log := logrus.WithField("paste_id", id)

	s.mu.Lock()
	data, err := os.ReadFile(filePath)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("Paste not found")
			return "", &core.NotFoundError{ID: id}
		}
		log.WithField("error", err).Error("Failed to retrieve paste")
		return "", &core.ReadFailureError{Err: err}
	}
	return core.PasteContent(data), nil
}
