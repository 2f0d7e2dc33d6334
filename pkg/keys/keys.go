// Package keys generates session keys.
package keys

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// UUID generates keys from two random (version 4) UUIDs, hex encoded without
// dashes. Each UUID carries 122 bits from crypto/rand.
type UUID struct{}

// NewKey returns a 64 character hex key.
func (UUID) NewKey() (string, error) {
	a, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	b, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(a[:]) + hex.EncodeToString(b[:]), nil
}

// Func adapts a plain function to ports.KeyGenerator.
type Func func() (string, error)

// NewKey calls f.
func (f Func) NewKey() (string, error) {
	return f()
}

// Static always returns the same key. Intended for tests and fixtures.
func Static(key string) Func {
	return func() (string, error) { return key, nil }
}
