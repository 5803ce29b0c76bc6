//go:build unix

package browser

import (
	"os"
	"path/filepath"
	"runtime"
)

func chromiumPaths(base string) []string {
	return []string{
		filepath.Join(base, "Network", "Cookies"),
		filepath.Join(base, "Cookies"),
	}
}

func profileSpecsForHome(home string) []profileSpec {
	if runtime.GOOS == "darwin" {
		support := filepath.Join(home, "Library", "Application Support")
		return []profileSpec{
			{Name: "Firefox", ProfilesInis: []string{filepath.Join(support, "Firefox", "profiles.ini")}},
			{Name: "Chrome", CookiePaths: chromiumPaths(filepath.Join(support, "Google", "Chrome", "Default"))},
			{Name: "Chromium", CookiePaths: chromiumPaths(filepath.Join(support, "Chromium", "Default"))},
		}
	}
	return []profileSpec{
		{Name: "Firefox", ProfilesInis: []string{
			filepath.Join(home, ".mozilla", "firefox", "profiles.ini"),
			filepath.Join(home, "snap", "firefox", "common", ".mozilla", "firefox", "profiles.ini"),
		}},
		{Name: "Chrome", CookiePaths: chromiumPaths(filepath.Join(home, ".config", "google-chrome", "Default"))},
		{Name: "Chromium", CookiePaths: chromiumPaths(filepath.Join(home, ".config", "chromium", "Default"))},
	}
}

func profileSpecs() []profileSpec {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return profileSpecsForHome(home)
}
