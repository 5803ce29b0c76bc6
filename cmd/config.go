package cmd

const DESCRIPTION = `
musicdl downloads music from streaming services you are signed in to.
It keeps the session cookies of every service in a local cookies folder
and reuses them on each run, saving whatever the service changes.
`

const (
	CookiesDescription = `The cookies command manages the cookies folder used by
fetch. Cookies are stored per domain; the empty domain ""
holds cookies shared by every domain without its own entry.

Example:
        musicdl cookies set yandex.ru Session_id <value>
        musicdl cookies get yandex.ru
        musicdl cookies delete --domain yandex.ru

`
	CookiesSetDescription = `The set command stores a single cookie. Other cookies of
the domain are kept; an existing value of the key is replaced.

Example:
        musicdl cookies set yandex.ru Session_id <value>

`
	CookiesGetDescription = `The get command prints stored cookies. Without arguments
it lists every domain, with a domain it lists the cookies
of that domain and with a key it prints a single value.

Example:
        musicdl cookies get
        musicdl cookies get yandex.ru
        musicdl cookies get yandex.ru Session_id

`
	CookiesDeleteDescription = `The delete command removes a cookie, a whole domain or,
without a domain, every domain. Removing domains asks for
confirmation unless --force is given.

Example:
        musicdl cookies delete --domain yandex.ru --key Session_id
        musicdl cookies delete --domain yandex.ru
        musicdl cookies delete --force

`
	CookiesImportDescription = `The import command copies the cookies of a domain from a
browser cookie store: a Firefox cookies.sqlite, a Chrome
Cookies database or a Netscape cookies.txt file. Use "auto"
to search the default Firefox and Chrome profiles.

Example:
        musicdl cookies import yandex.ru ~/cookies.txt
        musicdl cookies import yandex.ru auto

`
	FetchDescription = `The fetch command downloads every url with the stored
session of its domain. Cookies set by the service during
the run are saved when all downloads are done.

Extension options are passed with -o key=value, or -o key
for a switch.

Example:
        musicdl fetch https://music.yandex.ru/album/1 -d ~/Music
        musicdl fetch <url> -c ignore -o filename=song.mp3

`
)
