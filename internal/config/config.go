// Package config resolves where musicdl keeps its data and how it behaves,
// from the environment and an optional .env file in the config directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by musicdl.
const (
	EnvConfigDir  = "MUSICDL_CONFIG_DIR"
	EnvCookiesDir = "MUSICDL_COOKIES_DIR"
	EnvDebug      = "MUSICDL_DEBUG"
	EnvCookieKey  = "MUSICDL_COOKIE_KEY"
	EnvEncrypt    = "MUSICDL_ENCRYPT"
)

const (
	DotEnvFile     = ".env"
	CookiesDirName = "cookies"
	LogsDirName    = "logs"
	appDirName     = "musicdl"
)

var ErrNoConfigDir = errors.New("cannot determine the configuration directory")

// seams
var (
	lookupEnv     = os.LookupEnv
	userConfigDir = os.UserConfigDir
)

// Config is the resolved configuration of a run.
type Config struct {
	ConfigDir  string
	CookiesDir string
	LogDir     string
	Debug      bool
	// CookieKey is a hex AES-256 key for the cookie records.
	CookieKey string
	// Encrypt seals cookie records with the cookie key.
	Encrypt bool
}

// Dir returns the configuration directory: MUSICDL_CONFIG_DIR or the
// musicdl directory under the user config directory.
func Dir() (string, error) {
	if dir, ok := lookupEnv(EnvConfigDir); ok && strings.TrimSpace(dir) != "" {
		return filepath.Abs(dir)
	}
	base, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoConfigDir, err)
	}
	return filepath.Join(base, appDirName), nil
}

// LoadDotEnv loads dir/.env into the process environment without
// overriding variables that are already set. A missing file is fine.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, DotEnvFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load resolves the configuration. It loads the .env file of the config
// directory first, so the environment wins over the file.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if err := LoadDotEnv(dir); err != nil {
		return nil, err
	}
	c := &Config{
		ConfigDir:  dir,
		CookiesDir: filepath.Join(dir, CookiesDirName),
		LogDir:     filepath.Join(dir, LogsDirName),
	}
	if v, ok := lookupEnv(EnvCookiesDir); ok && strings.TrimSpace(v) != "" {
		c.CookiesDir = v
	}
	if c.Debug, err = envBool(EnvDebug); err != nil {
		return nil, err
	}
	if c.Encrypt, err = envBool(EnvEncrypt); err != nil {
		return nil, err
	}
	c.CookieKey, _ = lookupEnv(EnvCookieKey)
	return c, nil
}

func envBool(name string) (bool, error) {
	v, ok := lookupEnv(name)
	if !ok || strings.TrimSpace(v) == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", name, v)
	}
	return b, nil
}
