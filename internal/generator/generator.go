// Package generator produces the identifiers handed out to dashboard clients:
// session IDs and OAuth state values.
package generator

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Generator is an interface that defines a method to generate a new value of type T.
type Generator[T any] interface {
	Next() (T, error)
}

// UUIDV4Generator produces UUIDv4 strings. Session IDs use it.
type UUIDV4Generator struct{}

func (g *UUIDV4Generator) Next() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

var _ Generator[string] = &UUIDV4Generator{}

// TokenGenerator produces hex-encoded random tokens of Size bytes.
// It is used for the OAuth state parameter.
type TokenGenerator struct {
	Size int
}

const defaultTokenSize = 16

func (g *TokenGenerator) Next() (string, error) {
	size := g.Size
	if size <= 0 {
		size = defaultTokenSize
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

var _ Generator[string] = &TokenGenerator{}

// Static always returns the same value. Tests use it for predictable IDs.
type Static string

func (s Static) Next() (string, error) {
	return string(s), nil
}

var _ Generator[string] = Static("")
