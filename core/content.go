package core

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// PasteContent is a validated paste body.
type PasteContent string

// ContentRules holds the configurable part of content validation.
type ContentRules struct {
	// MaxGraphemes caps the body length in grapheme clusters. Zero means no cap.
	MaxGraphemes int
}

// ParsePasteContent accepts any string that is not blank.
func ParsePasteContent(raw string) (PasteContent, error) {
	return ContentRules{}.Parse(raw)
}

// ParsePasteContentBytes decodes raw as UTF-8 and then behaves like ParsePasteContent.
func ParsePasteContentBytes(raw []byte) (PasteContent, error) {
	return ContentRules{}.ParseBytes(raw)
}

func (r ContentRules) Parse(raw string) (PasteContent, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &ValidationError{Kind: ErrEmptyContent, msg: "not valid paste content - empty string"}
	}
	if r.MaxGraphemes > 0 && uniseg.GraphemeClusterCount(raw) > r.MaxGraphemes {
		return "", &ValidationError{Kind: ErrTooLong, msg: "not valid paste content - too long"}
	}
	return PasteContent(raw), nil
}

func (r ContentRules) ParseBytes(raw []byte) (PasteContent, error) {
	if !utf8.Valid(raw) {
		return "", &ValidationError{
			Kind: ErrInvalidEncoding,
			msg:  "not valid paste content - invalid utf-8 sequence at byte " + strconv.Itoa(firstInvalidByte(raw)),
		}
	}
	return r.Parse(string(raw))
}

func (c PasteContent) String() string { return string(c) }

func firstInvalidByte(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
