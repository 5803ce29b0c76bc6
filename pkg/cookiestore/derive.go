package cookiestore

import (
	"crypto/md5"
	"encoding/hex"
)

// IdentifierLength is the length of every identifier returned by Derive.
const IdentifierLength = md5.Size * 2

// Derive maps a domain to the file name its cookie record is stored under.
// The digest only makes the name filesystem safe; it protects nothing.
func Derive(domain string) string {
	sum := md5.Sum([]byte(domain))
	return hex.EncodeToString(sum[:])
}
