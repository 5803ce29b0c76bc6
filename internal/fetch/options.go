package fetch

import (
	"fmt"
	"sort"
	"strings"
)

// Options are the -o values of a fetch run: switches like "HighQuality" and
// key=value pairs. Keys are case-insensitive. Extensions take the options
// they understand; anything left over is an error.
type Options struct {
	values map[string]string
	used   map[string]bool
}

// ParseOptions parses raw -o values.
func ParseOptions(raw []string) (*Options, error) {
	o := &Options{values: map[string]string{}, used: map[string]bool{}}
	for _, r := range raw {
		k, v, _ := strings.Cut(strings.TrimSpace(r), "=")
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOption, r)
		}
		o.values[k] = strings.TrimSpace(v)
	}
	return o, nil
}

// Value returns the value of key and marks it as consumed.
func (o *Options) Value(key string) (string, bool) {
	if o == nil {
		return "", false
	}
	key = strings.ToLower(key)
	v, ok := o.values[key]
	if ok {
		o.used[key] = true
	}
	return v, ok
}

// Switch reports whether the switch key was given and marks it as consumed.
func (o *Options) Switch(key string) bool {
	_, ok := o.Value(key)
	return ok
}

// Unused lists options no extension consumed, sorted.
func (o *Options) Unused() []string {
	if o == nil {
		return nil
	}
	var out []string
	for k := range o.values {
		if !o.used[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
