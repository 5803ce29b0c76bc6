package browser

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/musicdl/musicdl/pkg/cookiestore"
	_ "modernc.org/sqlite"
)

// Seconds between 1601-01-01 and 1970-01-01; Chromium counts microseconds
// from the former.
const chromeEpochOffset int64 = 11_644_473_600

func chromeTime(usec int64) time.Time {
	if usec == 0 {
		return time.Time{}
	}
	return time.Unix(usec/1_000_000-chromeEpochOffset, 0)
}

func openImmutable(path string) (*sql.DB, error) {
	return sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", path))
}

// hostArgs returns the three host patterns matching domain: the bare host,
// the dotted host and every subdomain.
func hostArgs(domain string) []any {
	return []any{domain, "." + domain, "%." + domain}
}

func readFirefox(path, domain string) ([]cookiestore.Cookie, int, error) {
	db, err := openImmutable(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open Firefox cookie database: %w", err)
	}
	defer db.Close()

	args := append(hostArgs(domain), timeNow().Unix())
	rows, err := db.Query(`
        SELECT name, value, host, path, expiry, isSecure, isHttpOnly
        FROM moz_cookies
        WHERE (host = ? OR host = ? OR host LIKE ?)
          AND expiry > ?
        ORDER BY path DESC, name ASC
    `, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query Firefox cookies: %w", err)
	}
	defer rows.Close()

	var out []cookiestore.Cookie
	for rows.Next() {
		var (
			c              cookiestore.Cookie
			expiry         int64
			secure, htOnly int
		)
		if err := rows.Scan(&c.Name, &c.Value, &c.Domain, &c.Path, &expiry, &secure, &htOnly); err != nil {
			return nil, 0, fmt.Errorf("scan Firefox cookie: %w", err)
		}
		c.Domain = strings.TrimPrefix(c.Domain, ".")
		c.Expires = time.Unix(expiry, 0)
		c.Secure = secure != 0
		c.HttpOnly = htOnly != 0
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("read Firefox cookies: %w", err)
	}
	return out, 0, nil
}

func readChrome(path, domain string) ([]cookiestore.Cookie, int, error) {
	db, err := openImmutable(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open Chrome cookie database: %w", err)
	}
	defer db.Close()

	now := (timeNow().Unix() + chromeEpochOffset) * 1_000_000
	args := append(hostArgs(domain), now)
	// expires_utc of 0 marks a session cookie.
	rows, err := db.Query(`
        SELECT name, value, host_key, path, expires_utc, is_secure, is_httponly
        FROM cookies
        WHERE (host_key = ? OR host_key = ? OR host_key LIKE ?)
          AND (expires_utc = 0 OR expires_utc > ?)
        ORDER BY path DESC, name ASC
    `, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query Chrome cookies: %w", err)
	}
	defer rows.Close()

	var (
		out     []cookiestore.Cookie
		skipped int
	)
	for rows.Next() {
		var (
			c              cookiestore.Cookie
			expires        int64
			secure, htOnly int
		)
		if err := rows.Scan(&c.Name, &c.Value, &c.Domain, &c.Path, &expires, &secure, &htOnly); err != nil {
			return nil, 0, fmt.Errorf("scan Chrome cookie: %w", err)
		}
		if c.Value == "" {
			skipped++
			continue
		}
		c.Domain = strings.TrimPrefix(c.Domain, ".")
		c.Expires = chromeTime(expires)
		c.Secure = secure != 0
		c.HttpOnly = htOnly != 0
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("read Chrome cookies: %w", err)
	}
	return out, skipped, nil
}
