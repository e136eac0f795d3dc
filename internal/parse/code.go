package parse

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// CodeLength is the number of characters in a public tracking code.
const CodeLength = 8

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var codeRe = regexp.MustCompile(`^[A-Z0-9]{8}$`)

var (
	// ErrEmptyCode is returned when a lookup code is blank.
	ErrEmptyCode = errors.New("code is empty")
	// ErrMalformedCode is returned when a code cannot possibly have been issued.
	ErrMalformedCode = errors.New("code is malformed")
)

// NewCode returns a random public tracking code drawn uniformly from [A-Z0-9].
func NewCode() (string, error) {
	var sb strings.Builder
	sb.Grow(CodeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeCode trims and upper-cases a user supplied code and checks its shape.
func NormalizeCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", ErrEmptyCode
	}
	if !codeRe.MatchString(code) {
		return "", fmt.Errorf("%w: %q", ErrMalformedCode, raw)
	}
	return code, nil
}

// IsCode reports whether s is a well-formed, already normalized code.
func IsCode(s string) bool {
	return codeRe.MatchString(s)
}
