package browser

import (
	"errors"
	"time"
)

// Format identifies the layout of a cookie store.
type Format int

const (
	FormatUnknown Format = iota
	// FormatFirefox is the moz_cookies SQLite schema.
	FormatFirefox
	// FormatChrome is the Chromium cookies SQLite schema. Only unencrypted
	// values are usable.
	FormatChrome
	// FormatNetscape is the tab separated cookies.txt format.
	FormatNetscape
)

func (f Format) String() string {
	switch f {
	case FormatFirefox:
		return "firefox"
	case FormatChrome:
		return "chrome"
	case FormatNetscape:
		return "netscape"
	default:
		return "unknown"
	}
}

// Source describes where imported cookies came from.
type Source struct {
	Path    string
	Format  Format
	Browser string
	// Skipped counts entries that matched the domain but could not be used:
	// malformed lines or encrypted values.
	Skipped int
}

var (
	ErrUnsupported = errors.New("unsupported cookie store")
	ErrNotFound    = errors.New("no supported browser cookie store found")
	ErrNoDomain    = errors.New("a domain is required to import cookies")
)

var timeNow = time.Now
