package memory

import (
	"context"
	"sync"

	"whtpst/core"
)

// PasteStore keeps pastes in a map guarded by a single mutex. Data does not
// survive a restart.
type PasteStore struct {
	mu     sync.Mutex
	pastes map[core.PasteID]core.PasteContent
}

func NewPasteStore() *PasteStore {
	return &PasteStore{pastes: make(map[core.PasteID]core.PasteContent)}
}

func (s *PasteStore) Insert(ctx context.Context, paste core.NewPaste) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pastes[paste.ID] = paste.Content
	return nil
}

func (s *PasteStore) FindOne(ctx context.Context, id core.PasteID) (core.PasteContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if content, ok := s.pastes[id]; ok {
		return content, nil
	}
	return "", &core.NotFoundError{ID: id}
}
