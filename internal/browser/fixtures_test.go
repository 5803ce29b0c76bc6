package browser

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

type row struct {
	Name     string
	Value    string
	Host     string
	Path     string
	Expiry   int64
	Secure   int
	HttpOnly int
}

func future() int64 { return time.Now().Add(24 * time.Hour).Unix() }

func past() int64 { return time.Now().Add(-24 * time.Hour).Unix() }

func toChrome(unix int64) int64 { return (unix + chromeEpochOffset) * 1_000_000 }

func createDB(t *testing.T, path, schema, insert string, rows []row, conv func(int64) int64) string {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	for _, r := range rows {
		expiry := r.Expiry
		if conv != nil {
			expiry = conv(expiry)
		}
		if _, err := db.Exec(insert, r.Name, r.Value, r.Host, r.Path, expiry, r.Secure, r.HttpOnly); err != nil {
			t.Fatalf("insert row: %v", err)
		}
	}
	return path
}

func createFirefoxDB(t *testing.T, dir string, rows []row) string {
	t.Helper()
	return createDB(t, filepath.Join(dir, "cookies.sqlite"), `CREATE TABLE moz_cookies (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        value TEXT NOT NULL,
        host TEXT NOT NULL,
        path TEXT NOT NULL DEFAULT '/',
        expiry INTEGER NOT NULL DEFAULT 0,
        isSecure INTEGER NOT NULL DEFAULT 0,
        isHttpOnly INTEGER NOT NULL DEFAULT 0
    )`, `INSERT INTO moz_cookies (name, value, host, path, expiry, isSecure, isHttpOnly) VALUES (?, ?, ?, ?, ?, ?, ?)`, rows, nil)
}

func createChromeDB(t *testing.T, dir string, rows []row) string {
	t.Helper()
	return createDB(t, filepath.Join(dir, "Cookies"), `CREATE TABLE cookies (
        creation_utc INTEGER NOT NULL DEFAULT 0,
        host_key TEXT NOT NULL,
        name TEXT NOT NULL,
        value TEXT NOT NULL,
        encrypted_value BLOB,
        path TEXT NOT NULL,
        expires_utc INTEGER NOT NULL,
        is_secure INTEGER NOT NULL,
        is_httponly INTEGER NOT NULL
    )`, `INSERT INTO cookies (name, value, host_key, path, expires_utc, is_secure, is_httponly) VALUES (?, ?, ?, ?, ?, ?, ?)`, rows, func(u int64) int64 {
		if u == 0 {
			return 0
		}
		return toChrome(u)
	})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
