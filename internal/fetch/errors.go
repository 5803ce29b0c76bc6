package fetch

import "errors"

var (
	ErrNoExtension   = errors.New("no extension supports this url")
	ErrUnknownOption = errors.New("option is not supported by any active extension")
	ErrInvalidLimit  = errors.New("limit must be between 1 and 8")
	ErrInvalidURL    = errors.New("invalid url")
	ErrFileExists    = errors.New("file already exists")
	ErrIgnored       = errors.New("file already exists, skipped")
	ErrBadStatus     = errors.New("unexpected response status")
	ErrUnknownPolicy = errors.New("unknown conflict policy")
	ErrNoDestination = errors.New("destination directory is required")
	ErrInvalidCookie = errors.New("invalid cookie, expected name=value")

	ErrEmptyProxyURL     = errors.New("proxy URL cannot be empty")
	ErrInvalidProxyURL   = errors.New("invalid proxy URL")
	ErrUnsupportedScheme = errors.New("unsupported proxy scheme")

	ErrTooManyRedirects      = errors.New("redirect loop detected")
	ErrCrossProtocolRedirect = errors.New("cross-protocol redirect not supported")
)
