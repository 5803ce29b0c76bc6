package fetch

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxNameBytes = 255

var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// Sanitize makes name usable as a file or directory name on every common
// filesystem. Reserved characters become spaces, reserved device names get
// a trailing underscore, and a name with nothing usable left is replaced by
// the md5 hex digest of the original.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == utf8.RuneError, unicode.IsControl(r), strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	s := strings.Join(strings.Fields(b.String()), " ")
	s = strings.TrimRight(s, ". ")
	s = truncate(s, maxNameBytes)
	if s == "" {
		sum := md5.Sum([]byte(name))
		return hex.EncodeToString(sum[:])
	}
	stem, _, _ := strings.Cut(s, ".")
	if reservedNames[strings.ToUpper(stem)] {
		s = stem + "_" + s[len(stem):]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return strings.TrimRight(s[:n], ". ")
}
