package cookiestore

import (
	"net/http"
	"strings"
	"time"
)

// Cookie is the portable form of a single cookie kept in a Jar.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expires  time.Time
	Secure   bool
	HttpOnly bool
}

// Expired reports whether c carries an explicit expiry before now.
func (c Cookie) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && c.Expires.Before(now)
}

// HTTP converts c into a net/http cookie.
func (c Cookie) HTTP() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}

// FromHTTP converts a cookie received from a server. Cookies without a
// Domain attribute are host-only and take the request host.
func FromHTTP(host string, hc *http.Cookie) Cookie {
	c := Cookie{
		Name:     hc.Name,
		Value:    hc.Value,
		Domain:   strings.TrimPrefix(hc.Domain, "."),
		Path:     hc.Path,
		Expires:  hc.Expires,
		Secure:   hc.Secure,
		HttpOnly: hc.HttpOnly,
	}
	if c.Domain == "" {
		c.Domain = host
	}
	if c.Path == "" {
		c.Path = "/"
	}
	switch {
	case hc.MaxAge < 0:
		c.Expires = time.Unix(1, 0)
	case hc.MaxAge > 0:
		c.Expires = time.Now().Add(time.Duration(hc.MaxAge) * time.Second)
	}
	return c
}

// Jar is the session state persisted for one domain.
type Jar struct {
	Cookies []Cookie
	Updated time.Time
}

// NewJar returns an empty session state.
func NewJar() *Jar {
	return &Jar{}
}

// Clone returns a deep copy of j. A nil Jar clones to an empty one.
func (j *Jar) Clone() *Jar {
	if j == nil {
		return NewJar()
	}
	c := &Jar{Updated: j.Updated}
	if len(j.Cookies) > 0 {
		c.Cookies = append([]Cookie(nil), j.Cookies...)
	}
	return c
}

// Len returns the number of cookies held.
func (j *Jar) Len() int {
	if j == nil {
		return 0
	}
	return len(j.Cookies)
}

// Get returns the first cookie named name.
func (j *Jar) Get(name string) (Cookie, bool) {
	if j == nil {
		return Cookie{}, false
	}
	for _, c := range j.Cookies {
		if c.Name == name {
			return c, true
		}
	}
	return Cookie{}, false
}

// Set assigns value to the cookie named name, keeping its other attributes.
// A new cookie is scoped to domain and the root path.
func (j *Jar) Set(domain, name, value string) {
	for i := range j.Cookies {
		if j.Cookies[i].Name == name {
			j.Cookies[i].Value = value
			return
		}
	}
	j.Cookies = append(j.Cookies, Cookie{
		Name:   name,
		Value:  value,
		Domain: domain,
		Path:   "/",
	})
}

// Delete removes every cookie named name and reports whether any existed.
func (j *Jar) Delete(name string) bool {
	kept := j.Cookies[:0]
	for _, c := range j.Cookies {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	removed := len(kept) != len(j.Cookies)
	j.Cookies = kept
	return removed
}

// Merge folds cookies into j. A cookie replaces the one with the same name,
// domain and path; an expired cookie removes it instead.
func (j *Jar) Merge(now time.Time, cookies ...Cookie) {
	for _, in := range cookies {
		idx := -1
		for i, c := range j.Cookies {
			if c.Name == in.Name && c.Domain == in.Domain && c.Path == in.Path {
				idx = i
				break
			}
		}
		switch {
		case in.Expired(now) && idx >= 0:
			j.Cookies = append(j.Cookies[:idx], j.Cookies[idx+1:]...)
		case in.Expired(now):
		case idx >= 0:
			j.Cookies[idx] = in
		default:
			j.Cookies = append(j.Cookies, in)
		}
	}
}

// Prune drops cookies that expired before now.
func (j *Jar) Prune(now time.Time) {
	kept := j.Cookies[:0]
	for _, c := range j.Cookies {
		if !c.Expired(now) {
			kept = append(kept, c)
		}
	}
	j.Cookies = kept
}
