package fetch

import (
	"context"
	"net/http"
	"net/url"
	"path"
)

// Direct saves the body of any http or https url as a file. It accepts the
// options filename=<name> and user-agent=<ua>.
type Direct struct {
	filename  string
	userAgent string
}

func NewDirect() *Direct { return &Direct{} }

func (d *Direct) Name() string { return "direct" }

func (d *Direct) Match(u *url.URL) bool {
	return isHTTPScheme(u.Scheme) && u.Host != ""
}

func (d *Direct) Activate(opts *Options) error {
	d.filename, _ = opts.Value("filename")
	d.userAgent, _ = opts.Value("user-agent")
	return nil
}

func (d *Direct) Targets(_ context.Context, _ *http.Client, u *url.URL) ([]Target, error) {
	t := Target{URL: u, Name: d.filename}
	if t.Name == "" {
		t.Name = path.Base(u.Path)
	}
	if t.Name == "" || t.Name == "/" || t.Name == "." {
		t.Name = u.Hostname()
	}
	if d.userAgent != "" {
		t.Header = http.Header{"User-Agent": []string{d.userAgent}}
	}
	return []Target{t}, nil
}
