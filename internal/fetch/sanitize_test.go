package fetch

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"track.mp3", "track.mp3"},
		{"/coolname!/", "coolname!"},
		{`AC/DC: Back In Black?`, "AC DC Back In Black"},
		{"a\tb\nc", "a b c"},
		{"ends with dots...", "ends with dots"},
		{"con.mp3", "con_.mp3"},
		{"NUL", "NUL_"},
		{"Кино - Группа крови.mp3", "Кино - Группа крови.mp3"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitize_FallsBackToDigest(t *testing.T) {
	for _, in := range []string{"", "...", "///", " ? "} {
		sum := md5.Sum([]byte(in))
		if got := Sanitize(in); got != hex.EncodeToString(sum[:]) {
			t.Errorf("Sanitize(%q) = %q, want digest", in, got)
		}
	}
}

func TestSanitize_Truncates(t *testing.T) {
	got := Sanitize(strings.Repeat("я", 200))
	if len(got) > maxNameBytes {
		t.Fatalf("name is %d bytes", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation split a rune")
	}
}
