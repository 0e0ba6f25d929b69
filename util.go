package awsign

import (
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"
)

type hashBuilder struct {
	h hash.Hash
}

func newHashBuilder(newHash func() hash.Hash) *hashBuilder {
	return &hashBuilder{h: newHash()}
}

func (b *hashBuilder) Write(p []byte) {
	b.h.Write(p)
}

func (b *hashBuilder) WriteString(s string) {
	io.WriteString(b.h, s)
}

func (b *hashBuilder) WriteByte(c byte) error {
	_, err := b.h.Write([]byte{c})
	return err
}

// Sum snapshots the current digest without resetting the state.
func (b *hashBuilder) Sum() []byte {
	return b.h.Sum(nil)
}

type nestedError struct {
	sentinel error
	err      error
}

// nestError attaches formatted context to a sentinel error. The result
// matches the sentinel and anything wrapped through the format verbs.
func nestError(sentinel error, format string, args ...any) error {
	return &nestedError{
		sentinel: sentinel,
		err:      fmt.Errorf(format, args...),
	}
}

func (e *nestedError) Error() string {
	return e.sentinel.Error() + ": " + e.err.Error()
}

func (e *nestedError) Unwrap() error {
	return e.err
}

func (e *nestedError) Is(target error) bool {
	return errors.Is(e.sentinel, target)
}

const upperhex = "0123456789ABCDEF"

// uriEncode percent-encodes s the way the signing process expects:
// unreserved characters pass through, everything else becomes %XX with
// uppercase hex. keepSlash leaves path separators intact for object
// paths.
func uriEncode(s string, keepSlash bool) string {
	b := new(strings.Builder)
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		case c == '/' && keepSlash:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
	return b.String()
}
