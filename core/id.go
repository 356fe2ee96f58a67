package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"
)

// MaxIDGraphemes is the longest identifier accepted, counted in grapheme clusters.
const MaxIDGraphemes = 256

const forbiddenIDChars = `/()"<>\{}`

// PasteID is a validated paste identifier. The zero value is not valid.
type PasteID string

// ParsePasteID validates raw and returns it unchanged as a PasteID. Surrounding
// whitespace is only considered for the emptiness check.
func ParsePasteID(raw string) (PasteID, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &ValidationError{Kind: ErrEmptyIdentifier, msg: "not a valid paste id - empty string"}
	}
	if uniseg.GraphemeClusterCount(raw) > MaxIDGraphemes {
		return "", &ValidationError{Kind: ErrTooLong, msg: raw + " is not a valid paste id - too long"}
	}
	if strings.ContainsAny(raw, forbiddenIDChars) {
		return "", &ValidationError{Kind: ErrForbiddenCharacter, msg: raw + " is not a valid paste id - invalid char"}
	}
	return PasteID(raw), nil
}

// RandomPasteID returns a version 4 UUID in its 36 character textual form.
func RandomPasteID() PasteID {
	return PasteID(uuid.NewString())
}

func (id PasteID) String() string { return string(id) }

// hashedKeyPrefix contains '/', which no valid id does, so hashed keys never
// collide with raw ones.
const hashedKeyPrefix = "sha256/"

// Key returns id as a storage key of at most maxBytes bytes. Ids that are too
// long in bytes are replaced by hashedKeyPrefix and their hex SHA-256. maxBytes
// must leave room for the hashed form (71 bytes).
func (id PasteID) Key(maxBytes int) string {
	if len(id) <= maxBytes {
		return string(id)
	}
	sum := sha256.Sum256([]byte(id))
	return hashedKeyPrefix + hex.EncodeToString(sum[:])
}
