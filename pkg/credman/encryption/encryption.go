// Package encryption seals cookie records at rest with AES-256-GCM.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// KeySize is the length of the keys accepted by New.
const KeySize = 32

const gcmPrefix = "gcm1"

var (
	ErrInvalidKey      = errors.New("cookie key must be 32 bytes")
	ErrTooShort        = errors.New("ciphertext too short")
	ErrUnknownEnvelope = errors.New("ciphertext has an unknown envelope")
)

var randReader io.Reader = rand.Reader

// Sealer encrypts and authenticates byte blobs with a fixed key.
// Output layout: "gcm1" | nonce | ciphertext+tag.
type Sealer struct {
	aead cipher.AEAD
}

// New returns a Sealer using key.
func New(key []byte) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKey, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext under a fresh random nonce.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	out := make([]byte, 0, len(gcmPrefix)+len(nonce)+len(plaintext)+s.aead.Overhead())
	out = append(out, gcmPrefix...)
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, plaintext, nil), nil
}

// Open authenticates and decrypts a blob produced by Seal.
func (s *Sealer) Open(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < len(gcmPrefix) || string(ciphertext[:len(gcmPrefix)]) != gcmPrefix {
		return nil, ErrUnknownEnvelope
	}
	rest := ciphertext[len(gcmPrefix):]
	nonceSize := s.aead.NonceSize()
	if len(rest) < nonceSize+s.aead.Overhead() {
		return nil, ErrTooShort
	}
	return s.aead.Open(nil, rest[:nonceSize], rest[nonceSize:], nil)
}
