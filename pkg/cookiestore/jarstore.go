package cookiestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/musicdl/musicdl/pkg/logger"
	"github.com/spf13/afero"
)

// JarStore keeps one serialized Jar per identifier. It treats the records as
// opaque blobs and knows nothing about the domains they belong to.
type JarStore struct {
	fs     afero.Fs
	dir    string
	sealer Sealer
	log    logger.Logger
}

// NewJarStore returns a store rooted at dir. Records are sealed with s when
// it is not nil.
func NewJarStore(fs afero.Fs, dir string, s Sealer, l logger.Logger) *JarStore {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &JarStore{fs: fs, dir: dir, sealer: s, log: l}
}

// Path returns the file holding the record of id.
func (s *JarStore) Path(id string) string {
	return filepath.Join(s.dir, id)
}

// Read loads the record of id. ok is false when no record exists. A record
// that cannot be decoded yields a *CorruptRecordError.
func (s *JarStore) Read(id string) (jar *Jar, ok bool, err error) {
	path := s.Path(id)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cookie record: %w", err)
	}
	jar, err = DecodeJar(data, s.sealer)
	if err != nil {
		s.log.Error("cookie record %s cannot be decoded: %v", id, err)
		return nil, false, &CorruptRecordError{Identifier: id, Path: path, Err: err}
	}
	s.log.Debug("loaded cookie record %s with %d cookies", id, jar.Len())
	return jar, true, nil
}

// Write atomically replaces the record of id with jar.
func (s *JarStore) Write(id string, jar *Jar) error {
	data, err := EncodeJar(jar, s.sealer)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.fs, s.Path(id), data); err != nil {
		return err
	}
	s.log.Debug("saved cookie record %s with %d cookies", id, jar.Len())
	return nil
}

// Delete removes the record of id if it exists.
func (s *JarStore) Delete(id string) error {
	if err := removeFile(s.fs, s.Path(id)); err != nil {
		return err
	}
	s.log.Debug("deleted cookie record %s", id)
	return nil
}
