package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"whtpst/core"
)

const keyPrefix = "paste:"

type PasteStore struct {
	rdb *redis.Client
}

// NewPasteStore connects to the redis server at addr and checks it answers.
func NewPasteStore(ctx context.Context, addr, password string, db int) (*PasteStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &PasteStore{rdb: rdb}, nil
}

// Keys never expire.
func (s *PasteStore) Insert(ctx context.Context, paste core.NewPaste) error {
	if err := s.rdb.Set(ctx, keyPrefix+paste.ID.String(), paste.Content.String(), 0).Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"paste_id": paste.ID,
			"error":    err,
		}).Error("Failed to save paste to redis")
		return &core.WriteFailureError{Err: err}
	}
	return nil
}

func (s *PasteStore) FindOne(ctx context.Context, id core.PasteID) (core.PasteContent, error) {
	result, err := s.rdb.Get(ctx, keyPrefix+id.String()).Result()
	if errors.Is(err, redis.Nil) {
		return "", &core.NotFoundError{ID: id}
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"paste_id": id,
			"error":    err,
		}).Error("Failed to retrieve paste from redis")
		return "", &core.ReadFailureError{Err: err}
	}
	return core.PasteContent(result), nil
}

func (s *PasteStore) Close() error {
	return s.rdb.Close()
}
