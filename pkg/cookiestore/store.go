package cookiestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/musicdl/musicdl/pkg/logger"
	"github.com/spf13/afero"
)

// ReadmeFileName is written into a new cookies directory.
const ReadmeFileName = "README.md"

const readme = `# Cookies

This directory is managed by musicdl. It holds domains.json, which maps every
domain to the name of the file with its cookies, and one file per domain.

Do not edit these files by hand: a damaged cookie file is reported as corrupt
and the command using it stops. Use "musicdl cookies" to change cookies.

To move or back up your sessions copy this whole directory.
`

var timeNow = time.Now

// Options configures a Store. The zero value uses the OS filesystem, no
// logging and unencrypted records.
type Options struct {
	Fs     afero.Fs
	Logger logger.Logger
	Sealer Sealer
}

// Store is the cookies directory: the domain index and the cookie records it
// points to. Construct one per process and share it.
type Store struct {
	dir   string
	fs    afero.Fs
	log   logger.Logger
	index *DomainIndex
	jars  *JarStore
}

// New opens the cookies directory dir, creating it when needed.
func New(dir string, opts *Options) (*Store, error) {
	if opts == nil {
		opts = &Options{}
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	l := opts.Logger
	if l == nil {
		l = logger.NewNopLogger()
	}
	if err := fs.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("create cookies directory %s: %w", dir, err)
	}
	readmePath := filepath.Join(dir, ReadmeFileName)
	if _, err := fs.Stat(readmePath); os.IsNotExist(err) {
		if err := afero.WriteFile(fs, readmePath, []byte(readme), 0644); err != nil {
			l.Warning("cannot write %s: %v", readmePath, err)
		}
	}
	return &Store{
		dir:   dir,
		fs:    fs,
		log:   l,
		index: NewDomainIndex(fs, dir, l),
		jars:  NewJarStore(fs, dir, opts.Sealer, l),
	}, nil
}

// Dir returns the cookies directory.
func (s *Store) Dir() string { return s.dir }

// Index returns the domain index of s.
func (s *Store) Index() *DomainIndex { return s.index }

// Jars returns the record store of s.
func (s *Store) Jars() *JarStore { return s.jars }

// Session is a domain's session state checked out of a Store. It must be
// finished with Release, which persists it, or Discard.
type Session struct {
	store  *Store
	domain string
	id     string
	exact  bool

	mu   sync.Mutex
	jar  *Jar
	done bool
}

// Acquire loads the session state of domain. Without an entry for domain the
// wildcard state is used, and without either an empty one. A corrupt record
// fails the call and nothing is written.
func (s *Store) Acquire(domain string) (*Session, error) {
	domains, err := s.index.Load()
	if err != nil {
		return nil, err
	}
	id, ok, exact := resolve(domains, domain)
	jar := NewJar()
	if ok {
		loaded, found, err := s.jars.Read(id)
		if err != nil {
			return nil, withDomain(err, domainOf(domain, exact))
		}
		if found {
			jar = loaded
		}
	}
	switch {
	case exact:
		s.log.Debug("session for %q uses its own cookies", domain)
	case ok:
		s.log.Debug("session for %q uses the wildcard cookies", domain)
	default:
		s.log.Debug("session for %q starts without cookies", domain)
	}
	return &Session{store: s, domain: domain, id: id, exact: exact, jar: jar}, nil
}

func domainOf(domain string, exact bool) string {
	if exact {
		return domain
	}
	return Wildcard
}

func withDomain(err error, domain string) error {
	var cre *CorruptRecordError
	if errors.As(err, &cre) && cre.Domain == "" {
		cre.Domain = domain
	}
	return err
}

// Domain returns the domain the session was acquired for.
func (ss *Session) Domain() string { return ss.domain }

// Snapshot returns a copy of the current state.
func (ss *Session) Snapshot() *Jar {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.jar.Clone()
}

// Update runs fn on the live state.
func (ss *Session) Update(fn func(*Jar)) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	fn(ss.jar)
}

// Replace swaps the state for jar.
func (ss *Session) Replace(jar *Jar) {
	if jar == nil {
		jar = NewJar()
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.jar = jar
}

// Release writes the state back, registering the domain in the index first
// if it had no entry of its own. Once it succeeded, calling Release again is
// a no-op; after a failure the next call tries the write again.
func (ss *Session) Release() error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.done {
		return nil
	}
	if !ss.exact {
		id, err := ss.store.index.Register(ss.domain)
		if err != nil {
			return err
		}
		ss.id, ss.exact = id, true
	}
	ss.jar.Updated = timeNow()
	if err := ss.store.jars.Write(ss.id, ss.jar); err != nil {
		return err
	}
	ss.done = true
	ss.store.log.Info("saved %d cookies of %q", ss.jar.Len(), ss.domain)
	return nil
}

// Discard ends the session without persisting it.
func (ss *Session) Discard() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.done = true
}

// WithSession runs body on the session state of domain and persists what it
// returns. When body fails nothing is written.
func (s *Store) WithSession(domain string, body func(*Jar) (*Jar, error)) error {
	ss, err := s.Acquire(domain)
	if err != nil {
		return err
	}
	jar, err := body(ss.Snapshot())
	if err != nil {
		ss.Discard()
		return err
	}
	ss.Replace(jar)
	return ss.Release()
}

// Set stores value under key in the cookies of domain.
func (s *Store) Set(domain, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.WithSession(domain, func(j *Jar) (*Jar, error) {
		j.Set(domain, key, value)
		return j, nil
	})
}

// Get returns the value of key for domain without persisting anything.
func (s *Store) Get(domain, key string) (string, bool, error) {
	cookies, err := s.Cookies(domain)
	if err != nil {
		return "", false, err
	}
	for _, c := range cookies {
		if c.Name == key {
			return c.Value, true, nil
		}
	}
	return "", false, nil
}

// Cookies returns the cookies that apply to domain.
func (s *Store) Cookies(domain string) ([]Cookie, error) {
	ss, err := s.Acquire(domain)
	if err != nil {
		return nil, err
	}
	defer ss.Discard()
	return ss.Snapshot().Cookies, nil
}

// Domains lists the indexed domains in sorted order.
func (s *Store) Domains() ([]string, error) {
	domains, err := s.index.Load()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(domains))
	for d := range domains {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

// DeleteKey removes key from the cookies of domain. Only a domain with its
// own entry is changed; the wildcard state is never edited through another
// domain.
func (s *Store) DeleteKey(domain, key string) (bool, error) {
	domains, err := s.index.Load()
	if err != nil {
		return false, err
	}
	if _, ok := domains[domain]; !ok {
		return false, nil
	}
	var removed bool
	err = s.WithSession(domain, func(j *Jar) (*Jar, error) {
		removed = j.Delete(key)
		return j, nil
	})
	return removed, err
}

// DeleteDomain removes the index entry of domain and then its record. Either
// half may already be missing.
func (s *Store) DeleteDomain(domain string) error {
	id, ok, err := s.index.Remove(domain)
	if err != nil {
		return err
	}
	if err := s.deleteRecords(domain, id, ok); err != nil {
		return err
	}
	s.log.Info("deleted cookies of %q", domain)
	return nil
}

// DeleteAll removes every domain and its record.
func (s *Store) DeleteAll() error {
	domains, err := s.Domains()
	if err != nil {
		return err
	}
	removed, err := s.index.RemoveAll(domains...)
	if err != nil {
		return err
	}
	for domain, id := range removed {
		if err := s.deleteRecords(domain, id, true); err != nil {
			return err
		}
	}
	s.log.Info("deleted cookies of %d domains", len(removed))
	return nil
}

func (s *Store) deleteRecords(domain, id string, indexed bool) error {
	derived := Derive(domain)
	if indexed && id != derived {
		if err := s.jars.Delete(id); err != nil {
			return err
		}
	}
	return s.jars.Delete(derived)
}

// Import merges cookies into the state of domain, drops expired ones and
// returns the number of cookies the domain holds afterwards.
func (s *Store) Import(domain string, cookies []Cookie) (int, error) {
	var n int
	err := s.WithSession(domain, func(j *Jar) (*Jar, error) {
		now := timeNow()
		j.Merge(now, cookies...)
		j.Prune(now)
		n = j.Len()
		return j, nil
	})
	return n, err
}
