package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Target is a single file to download.
type Target struct {
	URL *url.URL
	// Name is the file name, sanitised before use.
	Name string
	// Dir is an optional sub directory of the destination.
	Dir    string
	Header http.Header
}

// Extension turns the urls of one site into download targets.
type Extension interface {
	Name() string
	Match(u *url.URL) bool
	// Activate configures the extension from the run options. It is called
	// once, and only for extensions that matched a url.
	Activate(opts *Options) error
	// Targets expands u. The client carries the session cookies of u.
	Targets(ctx context.Context, client *http.Client, u *url.URL) ([]Target, error)
}

// Registry holds extensions in match priority order.
type Registry struct {
	exts []Extension
}

// NewRegistry returns a registry trying exts in order.
func NewRegistry(exts ...Extension) *Registry {
	return &Registry{exts: exts}
}

// DefaultRegistry returns the built-in extensions.
func DefaultRegistry() *Registry {
	return NewRegistry(NewDirect())
}

// Register appends ext with the lowest priority.
func (r *Registry) Register(ext Extension) {
	r.exts = append(r.exts, ext)
}

// Names lists the registered extensions.
func (r *Registry) Names() []string {
	names := make([]string, len(r.exts))
	for i, e := range r.exts {
		names[i] = e.Name()
	}
	return names
}

// Match returns the first extension accepting u.
func (r *Registry) Match(u *url.URL) (Extension, error) {
	for _, e := range r.exts {
		if e.Match(u) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoExtension, u.Redacted())
}

// Activate activates exts and fails when an option was left unconsumed.
func (r *Registry) Activate(exts []Extension, opts *Options) error {
	for _, e := range exts {
		if err := e.Activate(opts); err != nil {
			return fmt.Errorf("activate %s: %w", e.Name(), err)
		}
	}
	if unused := opts.Unused(); len(unused) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownOption, strings.Join(unused, ", "))
	}
	return nil
}

// ParseURL parses a fetch argument. Only absolute http and https urls are
// accepted.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || !isHTTPScheme(u.Scheme) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return u, nil
}
