package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Conflict decides what happens when a target file already exists.
type Conflict int

const (
	// ConflictError stops the run.
	ConflictError Conflict = iota
	// ConflictIgnore skips the target and carries on.
	ConflictIgnore
	// ConflictOverride replaces the file.
	ConflictOverride
)

func (c Conflict) String() string {
	switch c {
	case ConflictIgnore:
		return "ignore"
	case ConflictOverride:
		return "override"
	default:
		return "error"
	}
}

// ParseConflict parses error, ignore or override, in any case.
func ParseConflict(s string) (Conflict, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return ConflictError, nil
	case "ignore":
		return ConflictIgnore, nil
	case "override":
		return ConflictOverride, nil
	}
	return ConflictError, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Destination is a download directory. Every name passed to it is
// sanitised.
type Destination struct {
	fs       afero.Fs
	root     string
	conflict Conflict
}

func NewDestination(fs afero.Fs, root string, conflict Conflict) (*Destination, error) {
	if root == "" {
		return nil, ErrNoDestination
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Destination{fs: fs, root: root, conflict: conflict}, nil
}

func (d *Destination) Root() string { return d.root }

func (d *Destination) Conflict() Conflict { return d.conflict }

// Into returns the sub directory dir of d. An empty dir returns d.
func (d *Destination) Into(dir string) *Destination {
	if dir == "" {
		return d
	}
	return &Destination{fs: d.fs, root: filepath.Join(d.root, Sanitize(dir)), conflict: d.conflict}
}

// Path returns where name is stored.
func (d *Destination) Path(name string) string {
	return filepath.Join(d.root, Sanitize(name))
}

// Create opens a pending file for name. An existing file yields an error
// wrapping ErrFileExists or ErrIgnored, depending on the conflict policy.
func (d *Destination) Create(name string) (*PendingFile, error) {
	path := d.Path(name)
	if _, err := d.fs.Stat(path); err == nil {
		switch d.conflict {
		case ConflictError:
			return nil, fmt.Errorf("%w: %s", ErrFileExists, path)
		case ConflictIgnore:
			return nil, fmt.Errorf("%w: %s", ErrIgnored, path)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	if err := d.fs.MkdirAll(d.root, 0755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", d.root, err)
	}
	tmp, err := afero.TempFile(d.fs, d.root, "."+filepath.Base(path)+".part.*")
	if err != nil {
		return nil, fmt.Errorf("create temp file for %s: %w", path, err)
	}
	return &PendingFile{File: tmp, fs: d.fs, path: path}, nil
}

// PendingFile is written in place of its final path and only appears there
// on Commit.
type PendingFile struct {
	afero.File
	fs   afero.Fs
	path string
	done bool
}

// Path returns the final path of f.
func (f *PendingFile) Path() string { return f.path }

// Commit moves the written content to the final path.
func (f *PendingFile) Commit() error {
	if f.done {
		return nil
	}
	f.done = true
	tmp := f.File.Name()
	if err := f.File.Sync(); err != nil {
		f.File.Close()
		f.fs.Remove(tmp)
		return fmt.Errorf("sync %s: %w", f.path, err)
	}
	if err := f.File.Close(); err != nil {
		f.fs.Remove(tmp)
		return fmt.Errorf("close %s: %w", f.path, err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		f.fs.Remove(tmp)
		return fmt.Errorf("rename %s: %w", f.path, err)
	}
	return nil
}

// Abort drops the pending content. It is a no-op after Commit.
func (f *PendingFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.File.Close()
	f.fs.Remove(f.File.Name())
}
