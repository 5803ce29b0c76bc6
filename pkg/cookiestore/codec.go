package cookiestore

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
)

// On-disk record layout: magic, version byte, flags byte, gob payload.
const (
	recordMagic   = "MDJR"
	recordVersion = byte(1)
	headerSize    = len(recordMagic) + 2

	flagSealed = byte(1 << 0)
)

var (
	errRecordTooShort = errors.New("record is too short")
	errRecordMagic    = errors.New("record has an unknown header")
	errRecordSealed   = errors.New("record is encrypted but no cookie key is configured")
)

// Sealer encrypts record payloads at rest.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(ciphertext []byte) ([]byte, error)
}

// EncodeJar serializes j. The payload is sealed when s is not nil.
func EncodeJar(j *Jar, s Sealer) ([]byte, error) {
	if j == nil {
		j = NewJar()
	}
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(j); err != nil {
		return nil, fmt.Errorf("encode jar: %w", err)
	}
	body := payload.Bytes()
	var flags byte
	if s != nil {
		sealed, err := s.Seal(body)
		if err != nil {
			return nil, fmt.Errorf("seal jar: %w", err)
		}
		body = sealed
		flags |= flagSealed
	}
	out := make([]byte, 0, headerSize+len(body))
	out = append(out, recordMagic...)
	out = append(out, recordVersion, flags)
	return append(out, body...), nil
}

// DecodeJar parses a record produced by EncodeJar.
func DecodeJar(data []byte, s Sealer) (*Jar, error) {
	if len(data) < headerSize {
		return nil, errRecordTooShort
	}
	if string(data[:len(recordMagic)]) != recordMagic {
		return nil, errRecordMagic
	}
	version, flags := data[len(recordMagic)], data[len(recordMagic)+1]
	if version != recordVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCodec, version)
	}
	body := data[headerSize:]
	if flags&flagSealed != 0 {
		if s == nil {
			return nil, errRecordSealed
		}
		opened, err := s.Open(body)
		if err != nil {
			return nil, fmt.Errorf("open sealed jar: %w", err)
		}
		body = opened
	}
	j := NewJar()
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(j); err != nil {
		return nil, fmt.Errorf("decode jar: %w", err)
	}
	return j, nil
}
