// Package codec implements the session payload cipher.
package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// KeySize is the required key length (AES-256).
const KeySize = 32

// ErrDecrypt is returned when no configured key opens the ciphertext.
var ErrDecrypt = errors.New("decryption failed with all available keys")

// Config holds the keys for encryption and decryption.
type Config struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

// AESGCM implements ports.Codec with AES-256-GCM. The nonce is prepended to the
// sealed payload.
type AESGCM struct {
	active   cipher.AEAD
	fallback []cipher.AEAD
}

// New builds the codec, validating every key.
func New(config Config) (*AESGCM, error) {
	active, err := newAEAD(config.ActiveKey)
	if err != nil {
		return nil, fmt.Errorf("active key: %w", err)
	}
	c := &AESGCM{active: active}
	for i, key := range config.FallbackKeys {
		aead, err := newAEAD(key)
		if err != nil {
			return nil, fmt.Errorf("fallback key %d: %w", i, err)
		}
		c.fallback = append(c.fallback, aead)
	}
	return c, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes (AES-256), got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext with the active key.
func (c *AESGCM) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.active.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.active.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens ciphertext with the active key, then each fallback key in order.
func (c *AESGCM) Decrypt(ciphertext []byte) ([]byte, error) {
	if plain, err := open(c.active, ciphertext); err == nil {
		return plain, nil
	}
	for _, aead := range c.fallback {
		if plain, err := open(aead, ciphertext); err == nil {
			return plain, nil
		}
	}
	return nil, ErrDecrypt
}

func open(aead cipher.AEAD, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce := ciphertext[:aead.NonceSize()]
	return aead.Open(nil, nonce, ciphertext[aead.NonceSize():], nil)
}
