package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/musicdl/musicdl/cmd/common"
	"github.com/musicdl/musicdl/internal/fetch"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

const DEF_TIMEOUT = time.Second * 30

var (
	errNoURL = errors.New("at least one url is required")

	dlPath     string
	conflict   string
	fetchLimit int
	proxyURL   string
	extOpts    cli.StringSlice
	oneOffs    cli.StringSlice

	fetchFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "dest, d",
			Usage:       "directory to save the files in (default: current directory)",
			Destination: &dlPath,
		},
		cli.StringSliceFlag{
			Name:  "option, o",
			Usage: "extension option as key=value or key, may be repeated",
			Value: &extOpts,
		},
		cli.StringFlag{
			Name:        "conflict, c",
			Usage:       "what to do with existing files: error, ignore or override",
			Value:       fetch.ConflictError.String(),
			Destination: &conflict,
		},
		cli.IntFlag{
			Name:        "limit, l",
			Usage:       fmt.Sprintf("number of parallel downloads, %d to %d", fetch.MinLimit, fetch.MaxLimit),
			Value:       fetch.DefaultLimit,
			Destination: &fetchLimit,
		},
		cli.StringFlag{
			Name:        "proxy",
			Usage:       "http, https or socks5 proxy url (default: from environment)",
			Destination: &proxyURL,
		},
		cli.StringSliceFlag{
			Name:  "cookie",
			Usage: "extra cookie as name=value for this run only, may be repeated",
			Value: &oneOffs,
		},
	}
)

// fetchFs is where downloaded files are written.
var fetchFs = afero.NewOsFs()

func fetchCmd(ctx *cli.Context) error {
	urls := []string(ctx.Args())
	if len(urls) == 0 {
		return common.PrintErrWithCmdHelp(ctx, errNoURL)
	}
	policy, err := fetch.ParseConflict(conflict)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	opts, err := fetch.ParseOptions(extOpts.Value())
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	cookies, err := ParseCookieFlags(oneOffs.Value())
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}

	root := dlPath
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return runtimeErr(ctx, "fetch", "getwd", err)
		}
	}
	dst, err := fetch.NewDestination(fetchFs, root, policy)
	if err != nil {
		return runtimeErr(ctx, "fetch", "destination", err)
	}

	cm, err := getCookieManager(ctx, "fetch")
	if err != nil {
		return err
	}
	defer cm.Close()

	f, err := fetch.New(fetch.Config{
		Store:       cm.store,
		Destination: dst,
		Client: fetch.ClientOptions{
			Proxy:   proxyURL,
			Timeout: DEF_TIMEOUT,
			Cookies: cookies,
		},
		Options:  opts,
		Limit:    fetchLimit,
		Progress: os.Stdout,
		Logger:   cm.log,
	})
	if err != nil {
		return runtimeErr(ctx, "fetch", "new_fetcher", err)
	}

	sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	report, err := f.FetchAll(sctx, urls)
	if report != nil {
		fmt.Printf("Downloaded %d, skipped %d\n", report.Downloaded, report.Skipped)
	}
	if err != nil {
		return runtimeErr(ctx, "fetch", "download", err)
	}
	return nil
}
