// Package cookiestore persists per-domain cookie sessions on disk.
//
// A cookies directory holds domains.json, mapping each domain to a record
// identifier, and one record file per identifier. The empty domain is the
// wildcard entry used by domains that have no entry of their own. Every file
// is replaced atomically, and a record that cannot be decoded is reported as
// ErrCorruptRecord and never overwritten.
package cookiestore
