package cookiestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	dirMode  os.FileMode = 0700
	fileMode os.FileMode = 0600
)

// seams for crash and failure simulation in tests
var (
	fsRename = func(fs afero.Fs, oldpath, newpath string) error {
		return fs.Rename(oldpath, newpath)
	}
	fsTempFile = afero.TempFile
)

// writeFileAtomic replaces path with data. The content is written to a temp
// file in the same directory which is synced and renamed over path, so a
// reader sees either the old document or the new one.
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	tmp, err := fsTempFile(fs, dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		fs.Remove(tmpPath)
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := fs.Chmod(tmpPath, fileMode); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("set permissions on %s: %w", tmpPath, err)
	}
	if err := fsRename(fs, tmpPath, path); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// removeFile deletes path, treating a missing file as success.
func removeFile(fs afero.Fs, path string) error {
	err := fs.Remove(path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("remove %s: %w", path, err)
}
