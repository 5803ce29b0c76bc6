package cmd

import (
	"errors"
	"fmt"

	"github.com/musicdl/musicdl/cmd/common"
	"github.com/musicdl/musicdl/internal/browser"
	"github.com/musicdl/musicdl/pkg/cookiestore"
	"github.com/urfave/cli"
)

const autoImport = "auto"

var (
	errNoCookie   = errors.New("no such cookie")
	errKeyNoDom   = errors.New("--key needs --domain")
	errArgsCount  = errors.New("wrong number of arguments")
	errNoImported = errors.New("no cookies of the domain found")

	delDomain   string
	delKey      string
	forceDelete bool

	delFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "domain, d",
			Usage:       "domain to delete, all domains if not set",
			Destination: &delDomain,
		},
		cli.StringFlag{
			Name:        "key, k",
			Usage:       "delete only this cookie of the domain",
			Destination: &delKey,
		},
		cli.BoolFlag{
			Name:        "force, f",
			Usage:       "delete domains without confirmation (default: false)",
			Destination: &forceDelete,
		},
	}
)

// displayDomain shows the wildcard entry in a way that can be typed back.
func displayDomain(domain string) string {
	if domain == "" {
		return `""`
	}
	return domain
}

func cookiesSet(ctx *cli.Context) error {
	if ctx.NArg() != 3 {
		return common.PrintErrWithCmdHelp(ctx, errArgsCount)
	}
	domain, key, value := ctx.Args().Get(0), ctx.Args().Get(1), ctx.Args().Get(2)
	cm, err := getCookieManager(ctx, "cookies")
	if err != nil {
		return err
	}
	defer cm.Close()
	if err := cm.store.Set(domain, key, value); err != nil {
		return runtimeErr(ctx, "cookies", "set", err)
	}
	fmt.Printf("Saved %s for %s\n", key, displayDomain(domain))
	return nil
}

func cookiesGet(ctx *cli.Context) error {
	if ctx.NArg() > 2 {
		return common.PrintErrWithCmdHelp(ctx, errArgsCount)
	}
	cm, err := getCookieManager(ctx, "cookies")
	if err != nil {
		return err
	}
	defer cm.Close()

	switch ctx.NArg() {
	case 2:
		domain, key := ctx.Args().Get(0), ctx.Args().Get(1)
		value, ok, err := cm.store.Get(domain, key)
		if err != nil {
			return runtimeErr(ctx, "cookies", "get", err)
		}
		if !ok {
			return runtimeErr(ctx, "cookies", "get",
				fmt.Errorf("%w %q for %s", errNoCookie, key, displayDomain(domain)))
		}
		fmt.Println(value)
	case 1:
		if err := printCookies(cm, ctx.Args().First()); err != nil {
			return runtimeErr(ctx, "cookies", "get", err)
		}
	default:
		domains, err := cm.store.Domains()
		if err != nil {
			return runtimeErr(ctx, "cookies", "list", err)
		}
		if len(domains) == 0 {
			fmt.Println("No cookies stored yet.")
			return nil
		}
		for _, domain := range domains {
			fmt.Printf("Domain %s\n", displayDomain(domain))
			if err := printCookies(cm, domain); err != nil {
				return runtimeErr(ctx, "cookies", "get", err)
			}
		}
	}
	return nil
}

func printCookies(cm *cookieManager, domain string) error {
	cookies, err := cm.store.Cookies(domain)
	if err != nil {
		return err
	}
	for _, c := range cookies {
		fmt.Printf("\t%s\t%s\n", c.Name, c.Value)
	}
	return nil
}

func cookiesDelete(ctx *cli.Context) error {
	hasDomain := ctx.IsSet("domain")
	if delKey != "" && !hasDomain {
		return common.PrintErrWithCmdHelp(ctx, errKeyNoDom)
	}
	cm, err := getCookieManager(ctx, "cookies")
	if err != nil {
		return err
	}
	defer cm.Close()

	switch {
	case delKey != "":
		removed, err := cm.store.DeleteKey(delDomain, delKey)
		if err != nil {
			return runtimeErr(ctx, "cookies", "delete-key", err)
		}
		if !removed {
			fmt.Printf("%s has no cookie %s\n", displayDomain(delDomain), delKey)
			return nil
		}
		fmt.Printf("Deleted %s from %s\n", delKey, displayDomain(delDomain))
	case hasDomain:
		if !confirm(fmt.Sprintf("Delete the cookies of %s", displayDomain(delDomain)), forceDelete) {
			return nil
		}
		if err := cm.store.DeleteDomain(delDomain); err != nil {
			return runtimeErr(ctx, "cookies", "delete-domain", err)
		}
		fmt.Printf("Deleted the cookies of %s\n", displayDomain(delDomain))
	default:
		if !confirm("Delete the cookies of all domains", forceDelete) {
			return nil
		}
		if err := cm.store.DeleteAll(); err != nil {
			return runtimeErr(ctx, "cookies", "delete-all", err)
		}
		fmt.Println("Deleted all cookies!")
	}
	return nil
}

var (
	importFile   = browser.Import
	detectCookie = browser.Detect
)

func cookiesImport(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return common.PrintErrWithCmdHelp(ctx, errArgsCount)
	}
	domain, from := ctx.Args().Get(0), ctx.Args().Get(1)
	cm, err := getCookieManager(ctx, "cookies")
	if err != nil {
		return err
	}
	defer cm.Close()

	cookies, src, err := readBrowserCookies(domain, from)
	if err != nil {
		return runtimeErr(ctx, "cookies", "import", err)
	}
	if src.Skipped > 0 {
		cm.log.Warning("skipped %d unusable cookies of %s in %s", src.Skipped, domain, src.Path)
	}
	if len(cookies) == 0 {
		return runtimeErr(ctx, "cookies", "import",
			fmt.Errorf("%w: %s in %s", errNoImported, domain, src.Path))
	}
	n, err := cm.store.Import(domain, cookies)
	if err != nil {
		return runtimeErr(ctx, "cookies", "import", err)
	}
	name := src.Format.String()
	if src.Browser != "" {
		name = src.Browser
	}
	fmt.Printf("Imported %d cookies of %s from %s (%s), %d stored\n",
		len(cookies), domain, name, src.Path, n)
	return nil
}

func readBrowserCookies(domain, from string) ([]cookiestore.Cookie, *browser.Source, error) {
	if from == autoImport {
		return detectCookie(domain)
	}
	return importFile(from, domain)
}
