package core

import (
	"context"
)

type (
	// NewPaste is a validated paste on its way into a repository.
	NewPaste struct {
		ID      PasteID
		Content PasteContent
	}

	// PasteRepository stores paste contents keyed by identifier. Implementations
	// must be safe for concurrent use.
	PasteRepository interface {
		// Insert stores the content under its id, replacing whatever was there.
		// Backend failures are reported as *WriteFailureError.
		Insert(ctx context.Context, paste NewPaste) error

		// FindOne returns the content stored under id, or *NotFoundError.
		FindOne(ctx context.Context, id PasteID) (PasteContent, error)
	}
)
