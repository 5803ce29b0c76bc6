package browser

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/musicdl/musicdl/pkg/cookiestore"
)

// profileSpec lists where one browser keeps its cookies. Firefox-style
// browsers are found through profiles.ini, Chromium-style ones by direct
// cookie file paths.
type profileSpec struct {
	Name         string
	CookiePaths  []string
	ProfilesInis []string
}

func (p profileSpec) candidates() []string {
	if len(p.ProfilesInis) == 0 {
		return p.CookiePaths
	}
	var out []string
	for _, ini := range p.ProfilesInis {
		if dir := defaultProfile(ini); dir != "" {
			out = append(out, filepath.Join(dir, "cookies.sqlite"))
		}
	}
	return out
}

// defaultProfile returns the default profile directory named in a
// profiles.ini. An [Install*] Default= key wins over a [Profile*] section
// marked Default=1. Unreadable files yield "".
func defaultProfile(iniPath string) string {
	f, err := os.Open(iniPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	base := filepath.Dir(iniPath)
	var (
		install, profile string
		section          string
		curPath          string
		curDefault       bool
	)
	flush := func() {
		if strings.HasPrefix(section, "Profile") && curDefault && profile == "" {
			profile = curPath
		}
	}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			flush()
			section = strings.Trim(line, "[]")
			curPath, curDefault = "", false
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		switch {
		case strings.HasPrefix(section, "Install") && k == "Default" && install == "":
			install = filepath.Join(base, filepath.FromSlash(v))
		case strings.HasPrefix(section, "Profile") && k == "Path":
			curPath = filepath.Join(base, filepath.FromSlash(v))
		case strings.HasPrefix(section, "Profile") && k == "Default" && v == "1":
			curDefault = true
		}
	}
	flush()

	if install != "" {
		return install
	}
	return profile
}

func detectWith(domain string, specs []profileSpec) ([]cookiestore.Cookie, *Source, error) {
	names := make([]string, 0, len(specs))
	for _, p := range specs {
		names = append(names, p.Name)
		for _, path := range p.candidates() {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			cookies, src, err := Import(path, domain)
			if err != nil {
				continue
			}
			src.Browser = p.Name
			return cookies, src, nil
		}
	}
	return nil, nil, fmt.Errorf("%w (tried %s)", ErrNotFound, strings.Join(names, ", "))
}

// Detect imports the cookies of domain from the first browser profile found,
// trying Firefox, Chrome and Chromium in that order.
func Detect(domain string) ([]cookiestore.Cookie, *Source, error) {
	return detectWith(domain, profileSpecs())
}
