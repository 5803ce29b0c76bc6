package fetch

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultMaxRedirects matches the net/http default.
const DefaultMaxRedirects = 10

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "musicdl"

// ClientOptions configures the HTTP clients of a fetch run.
type ClientOptions struct {
	// Proxy is an http, https or socks5 URL. Empty means the proxy
	// environment variables are honoured.
	Proxy     string
	UserAgent string
	Timeout   time.Duration
	// Cookies are sent with every request but never persisted.
	Cookies []*http.Cookie
}

var supportedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"socks5": true,
}

// ParseProxyURL validates a proxy URL.
func ParseProxyURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, ErrEmptyProxyURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidProxyURL
	}
	if !supportedSchemes[u.Scheme] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
	return u, nil
}

// NewTransport builds the transport shared by every session of a run.
func NewTransport(proxyURL string) (http.RoundTripper, error) {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL == "" {
		base.Proxy = http.ProxyFromEnvironment
		return base, nil
	}
	u, err := ParseProxyURL(proxyURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "socks5" {
		base.Proxy = http.ProxyURL(u)
		return base, nil
	}
	var auth *proxy.Auth
	if u.User != nil {
		pass, _ := u.User.Password()
		auth = &proxy.Auth{User: u.User.Username(), Password: pass}
	}
	dialer, err := proxy.SOCKS5("tcp", u.Host, auth, proxy.Direct)
	if err != nil {
		return nil, err
	}
	base.Proxy = nil
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		base.DialContext = cd.DialContext
	} else {
		base.DialContext = nil
		base.Dial = dialer.Dial
	}
	return base, nil
}

// NewClient returns a client sending requests through rt with jar as its
// cookie jar. The one-off cookies of opts go only to hosts of domain.
func NewClient(rt http.RoundTripper, jar http.CookieJar, domain string, opts ClientOptions) *http.Client {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &http.Client{
		Transport:     &headerTransport{base: rt, userAgent: ua, domain: domain, cookies: opts.Cookies},
		Jar:           jar,
		Timeout:       opts.Timeout,
		CheckRedirect: RedirectPolicy(DefaultMaxRedirects),
	}
}

// headerTransport fills in the user agent and the one-off cookies.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
	domain    string
	cookies   []*http.Cookie
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if len(t.cookies) > 0 && SessionDomain(req.URL.Hostname()) == t.domain {
		for _, c := range t.cookies {
			req.AddCookie(c)
		}
	}
	return t.base.RoundTrip(req)
}

// RedirectPolicy caps redirect hops, refuses to leave http(s) and drops
// custom headers when the host changes.
func RedirectPolicy(maxRedirects int) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("%w: exceeded %d hops (last URL: %s)",
				ErrTooManyRedirects, maxRedirects, via[len(via)-1].URL.Redacted())
		}
		if len(via) == 0 {
			return nil
		}
		prev := via[len(via)-1]
		if isHTTPScheme(prev.URL.Scheme) && !isHTTPScheme(req.URL.Scheme) {
			return fmt.Errorf("%w: %s -> %s",
				ErrCrossProtocolRedirect, prev.URL.Scheme, req.URL.Scheme)
		}
		if prev.URL.Host != req.URL.Host {
			stripUnsafeHeaders(req)
		}
		return nil
	}
}

func isHTTPScheme(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

var safeHeaders = map[string]bool{
	"User-Agent":      true,
	"Accept":          true,
	"Accept-Language": true,
	"Accept-Encoding": true,
	"Range":           true,
}

func stripUnsafeHeaders(req *http.Request) {
	for key := range req.Header {
		if !safeHeaders[http.CanonicalHeaderKey(key)] {
			req.Header.Del(key)
		}
	}
}
