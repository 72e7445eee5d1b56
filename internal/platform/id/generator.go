// Package id produces opaque identifiers for externally visible resources
// like tournaments.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

type Generator interface {
	NewID() (string, error)
}

// RandomGenerator emits 32-char hex IDs from crypto/rand.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	var buf [16]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf[:]), nil
}
