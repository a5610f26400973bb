package cryptox

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mr-tron/base58"
)

// encryptedPrefix marks a key file whose seed is passphrase protected.
const encryptedPrefix = "enc:"

// ErrPassphraseRequired is returned by ReadKeyFile for a protected file
// when no passphrase was given.
var ErrPassphraseRequired = errors.New("key file is passphrase protected")

// WriteKeyFile stores seed at path as base58 text readable only by the
// owner. A non-empty passphrase encrypts the seed first.
func WriteKeyFile(path string, seed, passphrase []byte) error {
	if len(seed) != SeedSize {
		return ErrInvalidSeed
	}

	text := base58.Encode(seed)
	if len(passphrase) > 0 {
		blob, err := encryptSeed(seed, passphrase)
		if err != nil {
			return err
		}
		text = encryptedPrefix + base58.Encode(blob)
	}

	return os.WriteFile(path, []byte(text+"\n"), 0o600)
}

// IsProtected reports whether the key file at path needs a passphrase.
func IsProtected(path string) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.TrimSpace(string(raw)), encryptedPrefix), nil
}

// ReadKeyFile loads the seed written by WriteKeyFile.
func ReadKeyFile(path string, passphrase []byte) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(raw))

	if rest, ok := strings.CutPrefix(text, encryptedPrefix); ok {
		if len(passphrase) == 0 {
			return nil, ErrPassphraseRequired
		}
		blob, err := base58.Decode(rest)
		if err != nil {
			return nil, fmt.Errorf("malformed key file: %w", err)
		}
		return decryptSeed(blob, passphrase)
	}

	seed, err := base58.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("malformed key file: %w", err)
	}
	if len(seed) != SeedSize {
		return nil, ErrInvalidSeed
	}
	return seed, nil
}
