package cookiestore

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptRecord is matched by every *CorruptRecordError.
	ErrCorruptRecord = errors.New("corrupt cookie record")

	ErrEmptyKey         = errors.New("cookie key cannot be empty")
	ErrSessionReleased  = errors.New("session is already released")
	ErrUnsupportedCodec = errors.New("unsupported cookie record version")
)

// CorruptRecordError reports an on-disk document that exists but cannot be
// decoded. It is never recovered from by discarding the file.
type CorruptRecordError struct {
	Domain     string
	Identifier string
	Path       string
	Err        error
}

func (e *CorruptRecordError) Error() string {
	switch {
	case e.Identifier == "":
		return fmt.Sprintf("corrupt record at %s: %v", e.Path, e.Err)
	case e.Domain == "":
		return fmt.Sprintf("corrupt cookie record %s at %s: %v", e.Identifier, e.Path, e.Err)
	default:
		return fmt.Sprintf("corrupt cookie record %s of domain %q at %s: %v",
			e.Identifier, e.Domain, e.Path, e.Err)
	}
}

func (e *CorruptRecordError) Unwrap() error { return e.Err }

func (e *CorruptRecordError) Is(target error) bool { return target == ErrCorruptRecord }
