package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/musicdl/musicdl/internal/fetch"
)

// ParseCookieFlags converts --cookie flag values into cookies.
// Input: ["session=abc", "user=xyz"]
//
// Returns nil if flags is empty.
// Returns an error if any cookie is malformed (missing '=' or name).
func ParseCookieFlags(flags []string) ([]*http.Cookie, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	cookies := make([]*http.Cookie, 0, len(flags))
	for _, flag := range flags {
		name, value, ok := strings.Cut(strings.TrimSpace(flag), "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q (expected 'name=value')", fetch.ErrInvalidCookie, flag)
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: strings.TrimSpace(value)})
	}
	return cookies, nil
}
