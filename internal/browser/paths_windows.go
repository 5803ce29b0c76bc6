//go:build windows

package browser

import (
	"os"
	"path/filepath"
)

func chromiumPaths(base string) []string {
	return []string{
		filepath.Join(base, "Network", "Cookies"),
		filepath.Join(base, "Cookies"),
	}
}

func profileSpecsForEnv(localAppData, appData string) []profileSpec {
	return []profileSpec{
		{Name: "Firefox", ProfilesInis: []string{filepath.Join(appData, "Mozilla", "Firefox", "profiles.ini")}},
		{Name: "Chrome", CookiePaths: chromiumPaths(filepath.Join(localAppData, "Google", "Chrome", "User Data", "Default"))},
		{Name: "Chromium", CookiePaths: chromiumPaths(filepath.Join(localAppData, "Chromium", "User Data", "Default"))},
	}
}

func profileSpecs() []profileSpec {
	return profileSpecsForEnv(os.Getenv("LOCALAPPDATA"), os.Getenv("APPDATA"))
}
