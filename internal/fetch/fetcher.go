package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/musicdl/musicdl/pkg/cookiestore"
	"github.com/musicdl/musicdl/pkg/logger"
	"github.com/vbauerster/mpb/v8"
	"golang.org/x/sync/errgroup"
)

const (
	MinLimit     = 1
	MaxLimit     = 8
	DefaultLimit = 4
)

var timeNow = time.Now

// Config configures a Fetcher.
type Config struct {
	Store       *cookiestore.Store
	Registry    *Registry
	Destination *Destination
	Client      ClientOptions
	// Options are handed to the extensions matching the urls.
	Options *Options
	// Limit is the number of concurrent downloads, 1 to 8.
	Limit int
	// Progress receives the progress bars; nil hides them.
	Progress io.Writer
	Logger   logger.Logger
}

// Report summarises a run.
type Report struct {
	Downloaded int
	Skipped    int
	Files      []string
}

// Fetcher downloads targets with the stored cookie sessions of their
// domains. Each domain is acquired once per run and released after all
// downloads finished.
type Fetcher struct {
	store *cookiestore.Store
	reg   *Registry
	dst   *Destination
	copts ClientOptions
	opts  *Options
	limit int
	out   io.Writer
	log   logger.Logger
	rt    http.RoundTripper
}

func New(cfg Config) (*Fetcher, error) {
	if cfg.Store == nil {
		return nil, errors.New("fetch: cookie store is required")
	}
	if cfg.Destination == nil {
		return nil, ErrNoDestination
	}
	if cfg.Limit == 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Limit < MinLimit || cfg.Limit > MaxLimit {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, cfg.Limit)
	}
	if cfg.Registry == nil {
		cfg.Registry = DefaultRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNopLogger()
	}
	rt, err := NewTransport(cfg.Client.Proxy)
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		store: cfg.Store,
		reg:   cfg.Registry,
		dst:   cfg.Destination,
		copts: cfg.Client,
		opts:  cfg.Options,
		limit: cfg.Limit,
		out:   cfg.Progress,
		log:   cfg.Logger,
		rt:    rt,
	}, nil
}

// session is the acquired cookie state of one domain and the client using it.
type session struct {
	domain string
	ss     *cookiestore.Session
	client *http.Client
}

type job struct {
	target Target
	sess   *session
}

// FetchAll downloads every url. All urls are matched, their sessions
// acquired and their targets expanded before anything is downloaded, so an
// unsupported url or a corrupt cookie record fails the run up front without
// writing anything. Once downloading started, sessions are released after
// every download finished, whether or not the run failed.
func (f *Fetcher) FetchAll(ctx context.Context, rawURLs []string) (*Report, error) {
	urls := make([]*url.URL, 0, len(rawURLs))
	exts := make([]Extension, 0, len(rawURLs))
	var active []Extension
	seen := map[Extension]bool{}
	for _, raw := range rawURLs {
		u, err := ParseURL(raw)
		if err != nil {
			return nil, err
		}
		ext, err := f.reg.Match(u)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
		exts = append(exts, ext)
		if !seen[ext] {
			seen[ext] = true
			active = append(active, ext)
		}
	}
	return f.fetch(ctx, urls, exts, active)
}

// fetch fails when any session cannot be written back, even if every
// download succeeded: the cookies the servers set would be lost otherwise.
func (f *Fetcher) fetch(ctx context.Context, urls []*url.URL, exts, active []Extension) (report *Report, err error) {
	sessions := map[string]*session{}
	started := false
	defer func() {
		errs := []error{err}
		for _, s := range sessions {
			if !started {
				s.ss.Discard()
				continue
			}
			if rerr := s.ss.Release(); rerr != nil {
				f.log.Error("save cookies of %q: %v", s.domain, rerr)
				errs = append(errs, fmt.Errorf("save cookies of %q: %w", s.domain, rerr))
			}
		}
		if len(errs) > 1 {
			err = errors.Join(errs...)
		}
	}()
	sessionFor := func(u *url.URL) (*session, error) {
		domain := SessionDomain(u.Hostname())
		if s, ok := sessions[domain]; ok {
			return s, nil
		}
		ss, err := f.store.Acquire(domain)
		if err != nil {
			return nil, err
		}
		jar, err := NewSessionJar(ss)
		if err != nil {
			ss.Discard()
			return nil, err
		}
		s := &session{domain: domain, ss: ss, client: NewClient(f.rt, jar, domain, f.copts)}
		sessions[domain] = s
		return s, nil
	}

	if err := f.reg.Activate(active, f.opts); err != nil {
		return nil, err
	}

	var jobs []job
	for i, u := range urls {
		s, err := sessionFor(u)
		if err != nil {
			return nil, err
		}
		targets, err := exts[i].Targets(ctx, s.client, u)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", u.Redacted(), err)
		}
		f.log.Info("%s expands to %d targets", u.Redacted(), len(targets))
		for _, t := range targets {
			jobs = append(jobs, job{target: t, sess: s})
		}
	}
	started = true
	return f.run(ctx, jobs)
}

func (f *Fetcher) run(ctx context.Context, jobs []job) (*Report, error) {
	p := newProgress(f.out)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.limit)

	var (
		downloaded, skipped atomic.Int32
		mu                  sync.Mutex
		files               []string
	)
	for _, j := range jobs {
		g.Go(func() error {
			path, err := f.download(gctx, p, j)
			switch {
			case errors.Is(err, ErrIgnored):
				f.log.Info("skipped %s: already exists", f.dst.Into(j.target.Dir).Path(j.target.Name))
				skipped.Add(1)
				return nil
			case err != nil:
				return err
			}
			downloaded.Add(1)
			mu.Lock()
			files = append(files, path)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	p.Wait()
	report := &Report{Downloaded: int(downloaded.Load()), Skipped: int(skipped.Load()), Files: files}
	return report, err
}

func (f *Fetcher) download(ctx context.Context, p *mpb.Progress, j job) (string, error) {
	t := j.target
	file, err := f.dst.Into(t.Dir).Create(t.Name)
	if err != nil {
		return "", err
	}
	defer file.Abort()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL.String(), nil)
	if err != nil {
		return "", err
	}
	for k, v := range t.Header {
		req.Header[k] = v
	}
	resp, err := j.sess.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s: %s", ErrBadStatus, t.URL.Redacted(), resp.Status)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}
	bar := addBar(p, filepath.Base(file.Path()), total)
	n, err := io.Copy(file, bar.ProxyReader(resp.Body))
	if err != nil {
		bar.Abort(false)
		return "", fmt.Errorf("download %s: %w", t.URL.Redacted(), err)
	}
	if err := file.Commit(); err != nil {
		bar.Abort(false)
		return "", err
	}
	finishBar(bar)
	f.log.Info("saved %s (%d bytes)", file.Path(), n)
	return file.Path(), nil
}
