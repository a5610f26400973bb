// Package registry holds the pure rules of the username registry: how a
// username is validated and canonicalized, how its storage slot is derived,
// and how much deposit a slot escrows. Nothing here touches storage.
package registry

import (
	"strings"

	"github.com/dmitrijs2005/keyregistry/internal/common"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

// Canonicalize validates a raw username and returns its canonical,
// lower-cased form.
//
// The length rule counts bytes of the raw input and is checked first, then
// every byte must be an ASCII letter, digit or underscore. Lower-casing
// happens only after both rules pass, so it never changes the byte length
// and "Alice_1" and "alice_1" always get the same verdict.
func Canonicalize(username string) (string, error) {
	if n := len(username); n < MinUsernameLength || n > MaxUsernameLength {
		return "", common.ErrInvalidUsernameLength
	}

	for i := 0; i < len(username); i++ {
		if !isUsernameByte(username[i]) {
			return "", common.ErrInvalidUsernameCharacters
		}
	}

	return strings.ToLower(username), nil
}

func isUsernameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_':
		return true
	}
	return false
}
