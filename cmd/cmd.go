package cmd

import (
	"fmt"
	"runtime"

	"github.com/musicdl/musicdl/cmd/common"
	"github.com/musicdl/musicdl/internal/config"
	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var (
	cookiesDir string
	debugMode  bool

	globalFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "cookies",
			Usage:       "path to the cookies folder (default: <config dir>/cookies)",
			EnvVar:      config.EnvCookiesDir,
			Destination: &cookiesDir,
		},
		cli.BoolFlag{
			Name:        "debug",
			Usage:       "write debug messages to the log file (default: false)",
			EnvVar:      config.EnvDebug,
			Destination: &debugMode,
		},
	}
)

func Execute(args []string, bArgs BuildArgs) error {
	// flag EnvVars are read while parsing, so .env has to be in place first
	if dir, err := config.Dir(); err == nil {
		_ = config.LoadDotEnv(dir)
	}
	app := cli.App{
		Name:                  "musicdl",
		HelpName:              "musicdl",
		Usage:                 "Fetch music with your saved session cookies.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "musicdl [--cookies DIR] [--debug] <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Flags:                 globalFlags,
		Commands: []cli.Command{
			{
				Name:               "cookies",
				HelpName:           "musicdl cookies",
				Aliases:            []string{"c"},
				Usage:              "manage the stored cookies",
				Description:        CookiesDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Subcommands: []cli.Command{
					{
						Name:               "set",
						Usage:              "store a cookie value for a domain",
						UsageText:          "<domain> <key> <value>",
						Description:        CookiesSetDescription,
						CustomHelpTemplate: CMD_HELP_TEMPL,
						OnUsageError:       common.UsageErrorCallback,
						Action:             cookiesSet,
					},
					{
						Name:               "get",
						Usage:              "print stored cookies",
						UsageText:          "[<domain> [<key>]]",
						Description:        CookiesGetDescription,
						CustomHelpTemplate: CMD_HELP_TEMPL,
						OnUsageError:       common.UsageErrorCallback,
						Action:             cookiesGet,
					},
					{
						Name:                   "delete",
						Aliases:                []string{"rm"},
						Usage:                  "delete a cookie, a domain or everything",
						UsageText:              "[--domain D] [--key K] [--force]",
						Description:            CookiesDeleteDescription,
						CustomHelpTemplate:     CMD_HELP_TEMPL,
						OnUsageError:           common.UsageErrorCallback,
						Action:                 cookiesDelete,
						Flags:                  delFlags,
						UseShortOptionHandling: true,
					},
					{
						Name:               "import",
						Usage:              "import cookies from a browser",
						UsageText:          "<domain> <file|auto>",
						Description:        CookiesImportDescription,
						CustomHelpTemplate: CMD_HELP_TEMPL,
						OnUsageError:       common.UsageErrorCallback,
						Action:             cookiesImport,
					},
				},
			},
			{
				Name:                   "fetch",
				Aliases:                []string{"f"},
				Usage:                  "download music with the stored sessions",
				UsageText:              "<url>... [-d DIR] [-o OPT]... [-c error|ignore|override] [-l 1..8]",
				Description:            FetchDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				Action:                 fetchCmd,
				Flags:                  fetchFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of musicdl",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
