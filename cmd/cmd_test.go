package cmd

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/musicdl/musicdl/cmd/common"
	"github.com/musicdl/musicdl/internal/browser"
	"github.com/musicdl/musicdl/pkg/cookiestore"
)

func TestExecute_Version(t *testing.T) {
	setupCLI(t)
	out := mustRunCLI(t, "version")
	assertContains(t, out, "musicdl 1.0-test")
}

func TestCookies_SetGet(t *testing.T) {
	setupCLI(t)
	mustRunCLI(t, "cookies", "set", "yandex.ru", "Session_id", "abc123")
	mustRunCLI(t, "cookies", "set", "yandex.ru", "yandexuid", "42")

	if out := mustRunCLI(t, "cookies", "get", "yandex.ru", "Session_id"); out != "abc123\n" {
		t.Fatalf("get value printed %q", out)
	}
	out := mustRunCLI(t, "cookies", "get", "yandex.ru")
	assertContainsAll(t, out, []string{"\tSession_id\tabc123", "\tyandexuid\t42"})

	out = mustRunCLI(t, "cookies", "get")
	assertContains(t, out, "Domain yandex.ru")
	assertContains(t, out, "\tSession_id\tabc123")
}

func TestCookies_GetEmpty(t *testing.T) {
	setupCLI(t)
	out := mustRunCLI(t, "cookies", "get")
	assertContains(t, out, "No cookies stored yet.")
}

func TestCookies_GetMissingKey(t *testing.T) {
	setupCLI(t)
	out, err := runCLI(t, "cookies", "get", "yandex.ru", "Session_id")
	if !errors.Is(err, common.ErrReported) {
		t.Fatalf("expected ErrReported, got %v", err)
	}
	assertErrorFormat(t, out, "cookies", "get")
	assertContains(t, out, "no such cookie")
}

func TestCookies_Wildcard(t *testing.T) {
	setupCLI(t)
	mustRunCLI(t, "cookies", "set", "", "Session_id", "shared")

	if out := mustRunCLI(t, "cookies", "get", "example.com", "Session_id"); out != "shared\n" {
		t.Fatalf("wildcard value printed %q", out)
	}
	out := mustRunCLI(t, "cookies", "get")
	assertContains(t, out, `Domain ""`)
	assertNotContains(t, out, "Domain example.com")
}

func TestCookies_WrongArgs(t *testing.T) {
	setupCLI(t)
	tests := [][]string{
		{"cookies", "set", "yandex.ru", "Session_id"},
		{"cookies", "get", "a", "b", "c"},
		{"cookies", "import", "yandex.ru"},
	}
	for _, args := range tests {
		out, err := runCLI(t, args...)
		if !errors.Is(err, common.ErrReported) {
			t.Errorf("%v: expected ErrReported, got %v", args, err)
		}
		assertContains(t, out, "wrong number of arguments")
	}
}

func TestCookies_DeleteKey(t *testing.T) {
	setupCLI(t)
	mustRunCLI(t, "cookies", "set", "yandex.ru", "Session_id", "abc123")
	mustRunCLI(t, "cookies", "set", "yandex.ru", "yandexuid", "42")

	out := mustRunCLI(t, "cookies", "delete", "--domain", "yandex.ru", "--key", "Session_id")
	assertContains(t, out, "Deleted Session_id from yandex.ru")
	out = mustRunCLI(t, "cookies", "get", "yandex.ru")
	assertNotContains(t, out, "Session_id")
	assertContains(t, out, "yandexuid")

	out = mustRunCLI(t, "cookies", "delete", "-d", "yandex.ru", "-k", "Session_id")
	assertContains(t, out, "yandex.ru has no cookie Session_id")
}

func TestCookies_DeleteKeyNeedsDomain(t *testing.T) {
	setupCLI(t)
	out, err := runCLI(t, "cookies", "delete", "--key", "Session_id")
	if !errors.Is(err, common.ErrReported) {
		t.Fatalf("expected ErrReported, got %v", err)
	}
	assertContains(t, out, "--key needs --domain")
}

func TestCookies_DeleteDomain(t *testing.T) {
	dir := setupCLI(t)
	mustRunCLI(t, "cookies", "set", "yandex.ru", "Session_id", "abc123")
	record := filepath.Join(dir, "cookies", cookiestore.Derive("yandex.ru"))
	if _, err := os.Stat(record); err != nil {
		t.Fatalf("record not written: %v", err)
	}

	out := mustRunCLI(t, "cookies", "delete", "--domain", "yandex.ru", "--force")
	assertContains(t, out, "Deleted the cookies of yandex.ru")
	if _, err := os.Stat(record); !os.IsNotExist(err) {
		t.Fatalf("record still present: %v", err)
	}
	out = mustRunCLI(t, "cookies", "get")
	assertContains(t, out, "No cookies stored yet.")
}

func TestCookies_DeleteAllConfirmation(t *testing.T) {
	setupCLI(t)
	mustRunCLI(t, "cookies", "set", "yandex.ru", "Session_id", "abc123")
	mustRunCLI(t, "cookies", "set", "example.com", "sid", "1")

	stdin = strings.NewReader("no\n")
	out := mustRunCLI(t, "cookies", "delete")
	assertContains(t, out, "Delete the cookies of all domains? (yes/no)")
	assertContains(t, out, "Cancelled!")
	assertContains(t, mustRunCLI(t, "cookies", "get"), "Domain yandex.ru")

	stdin = strings.NewReader("y\n")
	out = mustRunCLI(t, "cookies", "delete")
	assertContains(t, out, "Deleted all cookies!")
	assertContains(t, mustRunCLI(t, "cookies", "get"), "No cookies stored yet.")
}

func TestCookies_CorruptRecord(t *testing.T) {
	dir := setupCLI(t)
	mustRunCLI(t, "cookies", "set", "yandex.ru", "Session_id", "abc123")
	record := filepath.Join(dir, "cookies", cookiestore.Derive("yandex.ru"))
	if err := os.WriteFile(record, []byte("not a record"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := runCLI(t, "cookies", "set", "yandex.ru", "Session_id", "other")
	if !errors.Is(err, common.ErrReported) {
		t.Fatalf("expected ErrReported, got %v", err)
	}
	assertErrorFormat(t, out, "cookies", "set")
	assertContains(t, out, "yandex.ru")
	data, _ := os.ReadFile(record)
	if string(data) != "not a record" {
		t.Fatalf("corrupt record was overwritten: %q", data)
	}
}

func TestCookies_GlobalCookiesFlag(t *testing.T) {
	setupCLI(t)
	custom := filepath.Join(t.TempDir(), "jar")
	mustRunCLI(t, "--cookies", custom, "cookies", "set", "yandex.ru", "Session_id", "abc123")
	cookiesDir = ""

	if _, err := os.Stat(filepath.Join(custom, "domains.json")); err != nil {
		t.Fatalf("domains.json not in custom folder: %v", err)
	}
	out := mustRunCLI(t, "cookies", "get")
	assertContains(t, out, "No cookies stored yet.")
}

func TestCookies_EncryptedRecords(t *testing.T) {
	dir := setupCLI(t)
	t.Setenv("MUSICDL_COOKIE_KEY", strings.Repeat("ab", 32))
	mustRunCLI(t, "cookies", "set", "yandex.ru", "Session_id", "abc123")

	data, err := os.ReadFile(filepath.Join(dir, "cookies", cookiestore.Derive("yandex.ru")))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(data), "abc123") {
		t.Fatalf("cookie value stored in plain text")
	}
	if out := mustRunCLI(t, "cookies", "get", "yandex.ru", "Session_id"); out != "abc123\n" {
		t.Fatalf("get value printed %q", out)
	}
}

func TestCookies_ImportNetscape(t *testing.T) {
	setupCLI(t)
	file := filepath.Join(t.TempDir(), "cookies.txt")
	content := "# Netscape HTTP Cookie File\n" +
		".yandex.ru\tTRUE\t/\tTRUE\t0\tSession_id\tabc123\n" +
		".example.com\tTRUE\t/\tFALSE\t0\tother\tx\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out := mustRunCLI(t, "cookies", "import", "yandex.ru", file)
	assertContains(t, out, "Imported 1 cookies of yandex.ru")
	if out := mustRunCLI(t, "cookies", "get", "yandex.ru", "Session_id"); out != "abc123\n" {
		t.Fatalf("imported value printed %q", out)
	}
	out = mustRunCLI(t, "cookies", "get")
	assertNotContains(t, out, "example.com")
}

func TestCookies_ImportAuto(t *testing.T) {
	setupCLI(t)
	var gotDomain string
	old := detectCookie
	detectCookie = func(domain string) ([]cookiestore.Cookie, *browser.Source, error) {
		gotDomain = domain
		return []cookiestore.Cookie{{Name: "Session_id", Value: "fromfox", Domain: domain, Path: "/"}},
			&browser.Source{Path: "/profile/cookies.sqlite", Format: browser.FormatFirefox, Browser: "Firefox"}, nil
	}
	defer func() { detectCookie = old }()

	out := mustRunCLI(t, "cookies", "import", "yandex.ru", "auto")
	if gotDomain != "yandex.ru" {
		t.Fatalf("detect called with %q", gotDomain)
	}
	assertContains(t, out, "from Firefox (/profile/cookies.sqlite)")
	if out := mustRunCLI(t, "cookies", "get", "yandex.ru", "Session_id"); out != "fromfox\n" {
		t.Fatalf("imported value printed %q", out)
	}
}

func TestCookies_ImportNothingFound(t *testing.T) {
	setupCLI(t)
	old := detectCookie
	detectCookie = func(string) ([]cookiestore.Cookie, *browser.Source, error) {
		return nil, nil, browser.ErrNotFound
	}
	defer func() { detectCookie = old }()

	out, err := runCLI(t, "cookies", "import", "yandex.ru", "auto")
	if !errors.Is(err, common.ErrReported) {
		t.Fatalf("expected ErrReported, got %v", err)
	}
	assertErrorFormat(t, out, "cookies", "import")

	file := filepath.Join(t.TempDir(), "cookies.txt")
	_ = os.WriteFile(file, []byte("# Netscape HTTP Cookie File\n"), 0644)
	out, err = runCLI(t, "cookies", "import", "yandex.ru", file)
	if !errors.Is(err, common.ErrReported) {
		t.Fatalf("expected ErrReported, got %v", err)
	}
	assertContains(t, out, "no cookies of the domain found")
	assertContains(t, mustRunCLI(t, "cookies", "get"), "No cookies stored yet.")
}

// musicServer serves /song.mp3 to clients holding Session_id=abc123 and
// rotates the session cookie.
func musicServer(t *testing.T, extra *string) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("Session_id")
		if err != nil || c.Value != "abc123" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if extra != nil {
			if c, err := r.Cookie("extra"); err == nil {
				*extra = c.Value
			}
		}
		http.SetCookie(w, &http.Cookie{Name: "Session_id", Value: "rotated", Path: "/"})
		_, _ = w.Write([]byte("music"))
	}))
	t.Cleanup(srv.Close)
	u, _ := url.Parse(srv.URL)
	return srv, u.Hostname()
}

func TestFetch_UsesAndSavesSession(t *testing.T) {
	setupCLI(t)
	var extra string
	srv, host := musicServer(t, &extra)
	mustRunCLI(t, "cookies", "set", host, "Session_id", "abc123")
	dest := t.TempDir()

	out := mustRunCLI(t, "fetch", srv.URL+"/song.mp3", "-d", dest, "--cookie", "extra=1")
	assertContains(t, out, "Downloaded 1, skipped 0")

	data, err := os.ReadFile(filepath.Join(dest, "song.mp3"))
	if err != nil || string(data) != "music" {
		t.Fatalf("downloaded file = %q, %v", data, err)
	}
	if extra != "1" {
		t.Fatalf("one-off cookie not sent, got %q", extra)
	}
	if out := mustRunCLI(t, "cookies", "get", host, "Session_id"); out != "rotated\n" {
		t.Fatalf("rotated session not saved, got %q", out)
	}
	if _, err := runCLI(t, "cookies", "get", host, "extra"); err == nil {
		t.Fatalf("one-off cookie was persisted")
	}
}

func TestFetch_ConflictIgnore(t *testing.T) {
	setupCLI(t)
	srv, host := musicServer(t, nil)
	mustRunCLI(t, "cookies", "set", host, "Session_id", "abc123")
	dest := t.TempDir()
	if err := os.WriteFile(filepath.Join(dest, "song.mp3"), []byte("old"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out := mustRunCLI(t, "fetch", srv.URL+"/song.mp3", "-d", dest, "-c", "ignore")
	assertContains(t, out, "Downloaded 0, skipped 1")
	data, _ := os.ReadFile(filepath.Join(dest, "song.mp3"))
	if string(data) != "old" {
		t.Fatalf("existing file changed: %q", data)
	}

	out, err := runCLI(t, "fetch", srv.URL+"/song.mp3", "-d", dest)
	if !errors.Is(err, common.ErrReported) {
		t.Fatalf("expected ErrReported, got %v", err)
	}
	assertErrorFormat(t, out, "fetch", "download")
}

func TestFetch_WithoutSession(t *testing.T) {
	setupCLI(t)
	srv, _ := musicServer(t, nil)
	out, err := runCLI(t, "fetch", srv.URL+"/song.mp3", "-d", t.TempDir())
	if !errors.Is(err, common.ErrReported) {
		t.Fatalf("expected ErrReported, got %v", err)
	}
	assertErrorFormat(t, out, "fetch", "download")
}

func TestFetch_UsageErrors(t *testing.T) {
	setupCLI(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no url", []string{"fetch"}, "at least one url is required"},
		{"bad conflict", []string{"fetch", "https://example.com/a", "-c", "maybe"}, "maybe"},
		{"bad cookie", []string{"fetch", "https://example.com/a", "--cookie", "novalue"}, "novalue"},
		{"bad option", []string{"fetch", "https://example.com/a", "-o", "=x"}, `"=x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extOpts, oneOffs = nil, nil
			out, err := runCLI(t, tt.args...)
			if !errors.Is(err, common.ErrReported) {
				t.Fatalf("expected ErrReported, got %v", err)
			}
			assertContains(t, out, tt.want)
		})
	}
}

func TestFetch_InvalidLimit(t *testing.T) {
	setupCLI(t)
	out, err := runCLI(t, "fetch", "https://example.com/a", "-d", t.TempDir(), "-l", "9")
	if !errors.Is(err, common.ErrReported) {
		t.Fatalf("expected ErrReported, got %v", err)
	}
	assertErrorFormat(t, out, "fetch", "new_fetcher")
}
