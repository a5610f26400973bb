package registry

import (
	"database/sql/driver"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/keyregistry/internal/common"
)

// EncryptionKeySize is the size of an X25519 public key.
const EncryptionKeySize = 32

// EncryptionKey is the X25519 public key peers use to encrypt messages for
// a username's owner. The registry stores it opaquely.
type EncryptionKey [EncryptionKeySize]byte

// ParseEncryptionKey copies a raw key, rejecting anything that is not
// exactly 32 bytes.
func ParseEncryptionKey(b []byte) (EncryptionKey, error) {
	var k EncryptionKey
	if len(b) != EncryptionKeySize {
		return k, common.ErrInvalidEncryptionKey
	}
	copy(k[:], b)
	return k, nil
}

func (k EncryptionKey) Bytes() []byte {
	b := make([]byte, EncryptionKeySize)
	copy(b, k[:])
	return b
}

// MarshalText uses standard base64, matching how clients exchange the key.
func (k EncryptionKey) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(k[:])), nil
}

func (k *EncryptionKey) UnmarshalText(text []byte) error {
	b, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidEncryptionKey, err)
	}
	parsed, err := ParseEncryptionKey(b)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k EncryptionKey) Value() (driver.Value, error) {
	return k.Bytes(), nil
}

func (k *EncryptionKey) Scan(src any) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into EncryptionKey", src)
	}
	parsed, err := ParseEncryptionKey(b)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
