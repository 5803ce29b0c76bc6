package cookiestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/musicdl/musicdl/pkg/logger"
	"github.com/spf13/afero"
)

// IndexFileName is the name of the domain index document.
const IndexFileName = "domains.json"

// Wildcard is the index key whose cookies apply to every domain without an
// entry of its own.
const Wildcard = ""

// DomainIndex maps domains to the identifiers of their cookie records. It is
// persisted as a single JSON object which is rewritten on every mutation.
type DomainIndex struct {
	fs   afero.Fs
	path string
	log  logger.Logger
	mu   sync.Mutex
}

// NewDomainIndex returns the index stored in dir.
func NewDomainIndex(fs afero.Fs, dir string, l logger.Logger) *DomainIndex {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &DomainIndex{
		fs:   fs,
		path: filepath.Join(dir, IndexFileName),
		log:  l,
	}
}

// Path returns the location of the index document.
func (x *DomainIndex) Path() string {
	return x.path
}

// Load reads the index. A missing document is an empty index.
func (x *DomainIndex) Load() (map[string]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.load()
}

func (x *DomainIndex) load() (map[string]string, error) {
	data, err := afero.ReadFile(x.fs, x.path)
	if err != nil {
		if os.IsNotExist(err) {
			x.log.Debug("index %s does not exist yet", x.path)
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}
	domains := make(map[string]string)
	if err := json.Unmarshal(data, &domains); err != nil {
		x.log.Error("index %s cannot be decoded: %v", x.path, err)
		return nil, &CorruptRecordError{Path: x.path, Err: err}
	}
	if domains == nil {
		// a literal null document
		domains = make(map[string]string)
	}
	for domain, id := range domains {
		if !validIdentifier(id) {
			err := fmt.Errorf("domain %q has invalid identifier %q", domain, id)
			x.log.Error("index %s: %v", x.path, err)
			return nil, &CorruptRecordError{Path: x.path, Err: err}
		}
	}
	return domains, nil
}

// validIdentifier reports whether id names a plain file of the cookies
// directory that is not one of the directory's own documents.
func validIdentifier(id string) bool {
	switch id {
	case "", ".", "..", IndexFileName, ReadmeFileName:
		return false
	}
	return filepath.Base(id) == id && !strings.ContainsAny(id, `/\`)
}

// Save replaces the persisted index with domains.
func (x *DomainIndex) Save(domains map[string]string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.save(domains)
}

func (x *DomainIndex) save(domains map[string]string) error {
	if domains == nil {
		domains = map[string]string{}
	}
	// encoding/json sorts map keys
	data, err := json.MarshalIndent(domains, "", "    ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := writeFileAtomic(x.fs, x.path, append(data, '\n')); err != nil {
		return err
	}
	x.log.Debug("index saved with %d domains", len(domains))
	return nil
}

// Resolve returns the identifier holding cookies for domain, falling back to
// the wildcard entry. ok is false when neither exists.
func (x *DomainIndex) Resolve(domain string) (id string, ok bool, err error) {
	domains, err := x.Load()
	if err != nil {
		return "", false, err
	}
	id, ok, _ = resolve(domains, domain)
	return id, ok, nil
}

// resolve reports the matched identifier and whether the match was exact.
func resolve(domains map[string]string, domain string) (id string, ok, exact bool) {
	if id, ok = domains[domain]; ok {
		return id, true, true
	}
	id, ok = domains[Wildcard]
	return id, ok, false
}

// Register returns the identifier of domain, adding and persisting a new
// entry when domain is not indexed yet.
func (x *DomainIndex) Register(domain string) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	domains, err := x.load()
	if err != nil {
		return "", err
	}
	if id, ok := domains[domain]; ok {
		return id, nil
	}
	id := Derive(domain)
	domains[domain] = id
	if err := x.save(domains); err != nil {
		return "", err
	}
	x.log.Info("registered domain %q as %s", domain, id)
	return id, nil
}

// Remove deletes the entry of domain and returns the identifier it had.
// Removing an absent domain is not an error.
func (x *DomainIndex) Remove(domain string) (id string, ok bool, err error) {
	removed, err := x.RemoveAll(domain)
	if err != nil {
		return "", false, err
	}
	id, ok = removed[domain]
	return id, ok, nil
}

// RemoveAll deletes the entries of every listed domain in a single rewrite
// and returns the removed entries.
func (x *DomainIndex) RemoveAll(domains ...string) (map[string]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	current, err := x.load()
	if err != nil {
		return nil, err
	}
	removed := make(map[string]string)
	for _, d := range domains {
		if id, ok := current[d]; ok {
			removed[d] = id
			delete(current, d)
		}
	}
	if len(removed) == 0 {
		return removed, nil
	}
	if err := x.save(current); err != nil {
		return nil, err
	}
	x.log.Info("removed %d domains from index", len(removed))
	return removed, nil
}
