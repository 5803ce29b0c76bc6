package fetch

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"testing"
)

func TestParseOptions(t *testing.T) {
	o, err := ParseOptions([]string{"HighQuality", "filename = song.mp3", "User-Agent=test/1.0"})
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if v, ok := o.Value("FILENAME"); !ok || v != "song.mp3" {
		t.Fatalf("filename = %q, %v", v, ok)
	}
	if !o.Switch("highquality") {
		t.Fatal("switch not found")
	}
	if got := o.Unused(); !reflect.DeepEqual(got, []string{"user-agent"}) {
		t.Fatalf("Unused = %v", got)
	}
	if _, err := ParseOptions([]string{"=x"}); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}

func TestNilOptions(t *testing.T) {
	var o *Options
	if _, ok := o.Value("x"); ok || o.Unused() != nil {
		t.Fatal("nil options must be empty")
	}
}

func TestRegistry_ActivateRejectsUnknownOptions(t *testing.T) {
	r := DefaultRegistry()
	d := NewDirect()
	o, _ := ParseOptions([]string{"filename=a.mp3", "HighQuality"})
	err := r.Activate([]Extension{d}, o)
	if !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}

func TestRegistry_Match(t *testing.T) {
	r := NewRegistry()
	u, _ := url.Parse("https://music.yandex.ru/album/1")
	if _, err := r.Match(u); !errors.Is(err, ErrNoExtension) {
		t.Fatalf("expected ErrNoExtension, got %v", err)
	}
	r.Register(NewDirect())
	ext, err := r.Match(u)
	if err != nil || ext.Name() != "direct" {
		t.Fatalf("Match = %v, %v", ext, err)
	}
	if names := r.Names(); !reflect.DeepEqual(names, []string{"direct"}) {
		t.Fatalf("Names = %v", names)
	}
}

func TestParseURL(t *testing.T) {
	for _, raw := range []string{"https://example.com/a.mp3", " http://example.com "} {
		if _, err := ParseURL(raw); err != nil {
			t.Errorf("ParseURL(%q): %v", raw, err)
		}
	}
	for _, raw := range []string{"", "example.com/a.mp3", "ftp://example.com/a", "https://"} {
		if _, err := ParseURL(raw); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("ParseURL(%q) = %v, want ErrInvalidURL", raw, err)
		}
	}
}

func TestDirectTargets(t *testing.T) {
	tests := []struct {
		raw  string
		opts []string
		name string
		ua   string
	}{
		{"https://example.com/files/song.mp3?x=1", nil, "song.mp3", ""},
		{"https://example.com/", nil, "example.com", ""},
		{"https://example.com", nil, "example.com", ""},
		{"https://example.com/x", []string{"filename=mine.mp3", "user-agent=ua/2"}, "mine.mp3", "ua/2"},
	}
	for _, tt := range tests {
		d := NewDirect()
		o, _ := ParseOptions(tt.opts)
		if err := d.Activate(o); err != nil {
			t.Fatalf("Activate: %v", err)
		}
		u, _ := ParseURL(tt.raw)
		targets, err := d.Targets(context.Background(), nil, u)
		if err != nil || len(targets) != 1 {
			t.Fatalf("Targets(%s) = %v, %v", tt.raw, targets, err)
		}
		if targets[0].Name != tt.name {
			t.Errorf("%s: name = %q, want %q", tt.raw, targets[0].Name, tt.name)
		}
		if got := targets[0].Header.Get("User-Agent"); got != tt.ua {
			t.Errorf("%s: user agent = %q, want %q", tt.raw, got, tt.ua)
		}
	}
}
