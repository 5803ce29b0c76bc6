package browser

import (
	"fmt"
	"strings"

	"github.com/musicdl/musicdl/pkg/cookiestore"
)

type reader func(path, domain string) ([]cookiestore.Cookie, int, error)

// Import reads the unexpired cookies of domain from the cookie store at path.
// SQLite stores are read from a temporary copy.
func Import(path, domain string) ([]cookiestore.Cookie, *Source, error) {
	domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), ".")
	if domain == "" {
		return nil, nil, ErrNoDomain
	}
	format, err := DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}
	src := &Source{Path: path, Format: format}

	var cookies []cookiestore.Cookie
	switch format {
	case FormatFirefox:
		src.Browser = "Firefox"
		cookies, src.Skipped, err = readCopy(path, domain, readFirefox)
	case FormatChrome:
		src.Browser = "Chrome"
		cookies, src.Skipped, err = readCopy(path, domain, readChrome)
	case FormatNetscape:
		src.Browser = "Netscape"
		cookies, src.Skipped, err = readNetscape(path, domain)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	if err != nil {
		return nil, nil, err
	}
	return cookies, src, nil
}

func readCopy(path, domain string, read reader) ([]cookiestore.Cookie, int, error) {
	copied, cleanup, err := safeCopy(path)
	if err != nil {
		return nil, 0, err
	}
	defer cleanup()
	return read(copied, domain)
}
