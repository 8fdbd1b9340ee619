package id

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"

	"github.com/pkg/errors"
)

const idLength = 16

// ID identifies a network connection
type ID struct {
	bytes []byte
}

// GenerateID generates a new ID
func GenerateID() (*ID, error) {
	idBytes := make([]byte, idLength)
	_, err := rand.Read(idBytes)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return NewID(idBytes)
}

// NewID creates an ID from the given bytes
func NewID(idBytes []byte) (*ID, error) {
	if len(idBytes) != idLength {
		return nil, errors.Errorf("invalid ID length: %d, expected: %d", len(idBytes), idLength)
	}
	return &ID{bytes: idBytes}, nil
}

// IsEqual returns whether other is the same ID.
func (id *ID) IsEqual(other *ID) bool {
	if id == nil || other == nil {
		return id == other
	}
	return bytes.Equal(id.bytes, other.bytes)
}

func (id *ID) String() string {
	return hex.EncodeToString(id.bytes)
}
