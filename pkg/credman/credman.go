// Package credman resolves the key used to encrypt stored cookies.
//
// The key is taken, in order, from an explicit hex value (usually the
// MUSICDL_COOKIE_KEY environment variable), the OS keyring, and a key file
// next to the configuration. A key is generated on first use.
package credman

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/musicdl/musicdl/pkg/credman/encryption"
	"github.com/musicdl/musicdl/pkg/credman/keyring"
	"github.com/musicdl/musicdl/pkg/logger"
)

// Options selects the key sources. Nil stores are skipped.
type Options struct {
	HexKey   string
	Keyring  keyring.Store
	Fallback keyring.Store
	Logger   logger.Logger
}

// ErrNoKeySource is returned when every source is disabled or failed.
var ErrNoKeySource = errors.New("no usable cookie key source")

// LoadKey returns the cookie key, creating one in the first writable store
// when none exists yet.
func LoadKey(opts Options) ([]byte, error) {
	l := opts.Logger
	if l == nil {
		l = logger.NewNopLogger()
	}
	if opts.HexKey != "" {
		key, err := hex.DecodeString(opts.HexKey)
		if err != nil {
			return nil, fmt.Errorf("decode cookie key: %w", err)
		}
		l.Debug("using cookie key from environment")
		return key, nil
	}
	if opts.Keyring != nil {
		key, err := getOrCreate(opts.Keyring, func(err error) bool {
			return errors.Is(err, keyring.ErrNotFound)
		})
		if err == nil {
			l.Debug("using cookie key from OS keyring")
			return key, nil
		}
		l.Warning("OS keyring unavailable, falling back to key file: %v", err)
	}
	if opts.Fallback != nil {
		key, err := getOrCreate(opts.Fallback, os.IsNotExist)
		if err != nil {
			return nil, fmt.Errorf("cookie key file: %w", err)
		}
		l.Debug("using cookie key from key file")
		return key, nil
	}
	return nil, ErrNoKeySource
}

func getOrCreate(s keyring.Store, missing func(error) bool) ([]byte, error) {
	key, err := s.GetKey()
	if err == nil {
		return key, nil
	}
	if !missing(err) {
		return nil, err
	}
	return s.SetKey()
}

// NewSealer loads the key and returns a Sealer for it.
func NewSealer(opts Options) (*encryption.Sealer, error) {
	key, err := LoadKey(opts)
	if err != nil {
		return nil, err
	}
	return encryption.New(key)
}
