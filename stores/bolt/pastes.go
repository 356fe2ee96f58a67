package bolt

import (
	"context"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"whtpst/core"
)

var bucketName = []byte("pastes")

// PasteStore keeps pastes in a single bucket of a Bolt database file.
type PasteStore struct {
	db *bolt.DB
}

// Ids longer than bolt.MaxKeySize bytes are stored under their hash.
func boltKey(id core.PasteID) []byte {
	return []byte(id.Key(bolt.MaxKeySize))
}

func NewPasteStore(path string) (*PasteStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open bolt database %q: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketName); err != nil {
			return fmt.Errorf("could not ensure bucket %q exists: %w", bucketName, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PasteStore{db: db}, nil
}

func (s *PasteStore) Insert(ctx context.Context, paste core.NewPaste) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(boltKey(paste.ID), []byte(paste.Content))
	})
	if err != nil {
		return &core.WriteFailureError{Err: fmt.Errorf("could not put %.40q: %w", paste.ID, err)}
	}
	return nil
}

func (s *PasteStore) FindOne(ctx context.Context, id core.PasteID) (content core.PasteContent, err error) {
	found := false
	err = s.db.View(func(tx *bolt.Tx) error {
		// Values are only valid inside the transaction; the conversion copies.
		if value := tx.Bucket(bucketName).Get(boltKey(id)); value != nil {
			content, found = core.PasteContent(value), true
		}
		return nil
	})
	if err != nil {
		return "", &core.ReadFailureError{Err: err}
	}
	if !found {
		return "", &core.NotFoundError{ID: id}
	}
	return content, nil
}

func (s *PasteStore) Close() error {
	return s.db.Close()
}
