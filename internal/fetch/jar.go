package fetch

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/musicdl/musicdl/pkg/cookiestore"
	"golang.org/x/net/publicsuffix"
)

// SessionDomain returns the domain whose session serves host: its
// registrable domain, or host itself for IPs and single-label names.
func SessionDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if net.ParseIP(host) != nil {
		return host
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}

// SessionJar is an http.CookieJar backed by an acquired cookie session.
// Cookies set by servers are folded into the session state, so they are
// persisted when the session is released.
type SessionJar struct {
	session *cookiestore.Session
	jar     *cookiejar.Jar
}

// NewSessionJar seeds a cookie jar with the state of ss.
func NewSessionJar(ss *cookiestore.Session) (*SessionJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	now := timeNow()
	for _, c := range ss.Snapshot().Cookies {
		if c.Expired(now) {
			continue
		}
		if c.Domain == "" {
			c.Domain = ss.Domain()
		}
		if c.Domain == "" {
			continue
		}
		u := &url.URL{Scheme: "https", Host: c.Domain, Path: "/"}
		jar.SetCookies(u, []*http.Cookie{c.HTTP()})
	}
	return &SessionJar{session: ss, jar: jar}, nil
}

func (j *SessionJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

func (j *SessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)
	now := timeNow()
	host := u.Hostname()
	j.session.Update(func(jar *cookiestore.Jar) {
		for _, c := range cookies {
			jar.Merge(now, cookiestore.FromHTTP(host, c))
		}
	})
}
