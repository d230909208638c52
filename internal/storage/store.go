package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Document names one of the whitelisted persisted documents.
type Document string

// Whitelisted documents
const (
	DocumentSettings Document = "settings"
	DocumentBookings Document = "bookings"
)

// Documents lists every persisted document.
var Documents = []Document{DocumentSettings, DocumentBookings}

var (
	// ErrUnknownDocument is returned for names outside the whitelist.
	ErrUnknownDocument = errors.New("unknown document")
	// ErrCorruptDocument is returned when stored or submitted bytes are not valid JSON.
	ErrCorruptDocument = errors.New("document is not valid JSON")
)

// Store persists whole documents. Load returns (nil, nil) for a document
// that has never been written.
type Store interface {
	Load(ctx context.Context, doc Document) ([]byte, error)
	Save(ctx context.Context, doc Document, data []byte) error
}

// ParseDocument maps a name onto the whitelist. Anything that is not exactly
// a known document name is rejected.
func ParseDocument(name string) (Document, error) {
	for _, d := range Documents {
		if string(d) == name {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDocument, name)
}

// EmptyValue is what a reader sees for a document that does not exist yet.
func (d Document) EmptyValue() []byte {
	if d == DocumentBookings {
		return []byte("[]")
	}
	return []byte("null")
}

func checkDocument(doc Document) error {
	_, err := ParseDocument(string(doc))
	return err
}

// prettyJSON validates data and re-indents it for storage.
func prettyJSON(data []byte) ([]byte, error) {
	if !json.Valid(data) {
		return nil, ErrCorruptDocument
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "    "); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
