package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	keyFileName = "cookie.key"
	keyFileMode = 0600
)

// FileKeyStore keeps the key hex encoded in <dir>/cookie.key, readable only
// by the owner.
type FileKeyStore struct {
	dir string
}

var (
	fileRandRead = rand.Read
	fileReadFile = os.ReadFile
	fileRemove   = os.Remove
	fileRename   = os.Rename
	fileMkdirAll = os.MkdirAll
	fileTempFile = os.CreateTemp
)

func NewFileKeyStore(dir string) *FileKeyStore {
	return &FileKeyStore{dir: dir}
}

// Path returns the key file location.
func (f *FileKeyStore) Path() string {
	return filepath.Join(f.dir, keyFileName)
}

// SetKey generates a key and writes it through a temp file and rename.
func (f *FileKeyStore) SetKey() ([]byte, error) {
	if err := fileMkdirAll(f.dir, 0700); err != nil {
		return nil, fmt.Errorf("create key dir: %w", err)
	}
	key := make([]byte, 32)
	if _, err := fileRandRead(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	tmp, err := fileTempFile(f.dir, ".cookie.key.tmp.*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	fail := func(op string, err error) ([]byte, error) {
		tmp.Close()
		fileRemove(tmpPath)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Chmod(keyFileMode); err != nil {
		return fail("set permissions", err)
	}
	if _, err := tmp.WriteString(hex.EncodeToString(key)); err != nil {
		return fail("write key", err)
	}
	if err := tmp.Close(); err != nil {
		fileRemove(tmpPath)
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	if err := fileRename(tmpPath, f.Path()); err != nil {
		fileRemove(tmpPath)
		return nil, fmt.Errorf("rename key file: %w", err)
	}
	return key, nil
}

// GetKey reads the key file. A missing file satisfies os.IsNotExist.
func (f *FileKeyStore) GetKey() ([]byte, error) {
	data, err := fileReadFile(f.Path())
	if err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid key length: expected 32, got %d", len(key))
	}
	return key, nil
}

func (f *FileKeyStore) DeleteKey() error {
	return fileRemove(f.Path())
}

var (
	_ Store = (*Keyring)(nil)
	_ Store = (*FileKeyStore)(nil)
)
