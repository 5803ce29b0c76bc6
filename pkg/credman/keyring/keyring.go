// Package keyring stores the cookie encryption key in the operating system
// keyring, with a key file fallback for systems without one.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Store is implemented by every key backend.
type Store interface {
	GetKey() ([]byte, error)
	SetKey() ([]byte, error)
	DeleteKey() error
}

// Keyring keeps a hex encoded key under Service/User in the OS keyring.
type Keyring struct {
	Service string
	User    string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

// ErrNotFound is returned by the OS keyring when no key is stored.
var ErrNotFound = keyring.ErrNotFound

func NewKeyring() *Keyring {
	return &Keyring{
		Service: "musicdl",
		User:    "cookies",
	}
}

// SetKey generates and stores a new 32-byte key.
func (k *Keyring) SetKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := randRead(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	if err := keyringSet(k.Service, k.User, hex.EncodeToString(key)); err != nil {
		return nil, err
	}
	return key, nil
}

// GetKey returns the stored key.
func (k *Keyring) GetKey() ([]byte, error) {
	stored, err := keyringGet(k.Service, k.User)
	if err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(stored)
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	return key, nil
}

func (k *Keyring) DeleteKey() error {
	return keyringDelete(k.Service, k.User)
}
