package browser

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/musicdl/musicdl/pkg/cookiestore"
)

const httpOnlyPrefix = "#HttpOnly_"

// readNetscape parses a cookies.txt file. Malformed lines are counted and
// skipped; an expiry of 0 is a session cookie.
func readNetscape(path, domain string) ([]cookiestore.Cookie, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open Netscape cookie file: %w", err)
	}
	defer f.Close()

	now := timeNow()
	var (
		out     []cookiestore.Cookie
		skipped int
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		httpOnly := strings.HasPrefix(line, httpOnlyPrefix)
		if httpOnly {
			line = line[len(httpOnlyPrefix):]
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			skipped++
			continue
		}
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			skipped++
			continue
		}
		if !matchesDomain(fields[0], domain) {
			continue
		}
		c := cookiestore.Cookie{
			Domain:   strings.TrimPrefix(fields[0], "."),
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Name:     fields[5],
			Value:    fields[6],
			HttpOnly: httpOnly,
		}
		if expiry > 0 {
			c.Expires = time.Unix(expiry, 0)
			if c.Expired(now) {
				continue
			}
		}
		out = append(out, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read Netscape cookie file: %w", err)
	}
	return out, skipped, nil
}

// matchesDomain reports whether a cookie host applies to domain: the same
// host, its dotted form or a subdomain of it.
func matchesDomain(host, domain string) bool {
	dotted := "." + domain
	return host == domain || host == dotted || strings.HasSuffix(host, dotted)
}
