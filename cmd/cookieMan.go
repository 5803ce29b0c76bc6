package cmd

import (
	"log"
	"os"

	"github.com/musicdl/musicdl/cmd/common"
	"github.com/musicdl/musicdl/internal/config"
	"github.com/musicdl/musicdl/pkg/cookiestore"
	"github.com/musicdl/musicdl/pkg/credman"
	"github.com/musicdl/musicdl/pkg/credman/keyring"
	"github.com/musicdl/musicdl/pkg/logger"
	"github.com/urfave/cli"
)

var (
	loadConfig    = config.Load
	newKeyring    = func() keyring.Store { return keyring.NewKeyring() }
	newFileLogger = logger.NewFileLogger
)

// cookieManager is the state shared by commands working with the
// cookies folder.
type cookieManager struct {
	cfg   *config.Config
	log   logger.Logger
	store *cookiestore.Store
}

func (m *cookieManager) Close() {
	_ = m.log.Close()
}

// runtimeErr prints err in the runtime error format and returns
// common.ErrReported so the process exits with a failure.
func runtimeErr(ctx *cli.Context, cmd, action string, err error) error {
	common.PrintRuntimeErr(ctx, cmd, action, err)
	return common.ErrReported
}

func resolveConfig() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cookiesDir != "" {
		cfg.CookiesDir = cookiesDir
	}
	if debugMode {
		cfg.Debug = true
	}
	return cfg, nil
}

// newLogger logs into a new file of the log directory and repeats
// warnings and errors on stderr.
func newLogger(cfg *config.Config) logger.Logger {
	console := logger.NewWarningFilter(
		logger.NewStandardLogger(log.New(os.Stderr, "musicdl: ", 0), false),
	)
	fl, err := newFileLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		console.Warning("logging to stderr only: %v", err)
		return console
	}
	return logger.NewMultiLogger(fl, console)
}

func getCookieManager(ctx *cli.Context, cmd string) (*cookieManager, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, runtimeErr(ctx, cmd, "config", err)
	}
	l := newLogger(cfg)
	l.Debug("cookies folder: %s", cfg.CookiesDir)

	opts := &cookiestore.Options{Logger: l}
	if cfg.Encrypt || cfg.CookieKey != "" {
		sealer, err := credman.NewSealer(credman.Options{
			HexKey:   cfg.CookieKey,
			Keyring:  newKeyring(),
			Fallback: keyring.NewFileKeyStore(cfg.ConfigDir),
			Logger:   l,
		})
		if err != nil {
			_ = l.Close()
			return nil, runtimeErr(ctx, cmd, "cookie-key", err)
		}
		opts.Sealer = sealer
	}
	store, err := cookiestore.New(cfg.CookiesDir, opts)
	if err != nil {
		_ = l.Close()
		return nil, runtimeErr(ctx, cmd, "cookiestore", err)
	}
	return &cookieManager{cfg: cfg, log: l, store: store}, nil
}
