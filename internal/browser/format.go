package browser

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

var sqliteMagic = []byte("SQLite format 3\x00")

var netscapeHeaders = []string{"# Netscape HTTP Cookie File", "# HTTP Cookie File"}

// DetectFormat reports the cookie store format of the file at path.
func DetectFormat(path string) (Format, error) {
	if err := checkFile(path); err != nil {
		return FormatUnknown, err
	}
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("open cookie file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return FormatUnknown, fmt.Errorf("read cookie file: %w", err)
	}
	head = head[:n]

	if bytes.HasPrefix(head, sqliteMagic) {
		return detectSQLiteFormat(path)
	}

	first := string(head)
	if idx := strings.IndexByte(first, '\n'); idx >= 0 {
		first = first[:idx]
	}
	first = strings.TrimSpace(first)
	for _, h := range netscapeHeaders {
		if first == h {
			return FormatNetscape, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cookie file not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a cookie file or 'auto'", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("cookie file %s is empty", path)
	}
	return nil
}

func detectSQLiteFormat(path string) (Format, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return FormatUnknown, fmt.Errorf("open cookie database: %w", err)
	}
	defer db.Close()

	tables := []struct {
		name   string
		format Format
	}{
		{"moz_cookies", FormatFirefox},
		{"cookies", FormatChrome},
	}
	for _, t := range tables {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, t.name).Scan(&name)
		if err == nil {
			return t.format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupported, path)
}
