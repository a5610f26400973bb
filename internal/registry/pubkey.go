package registry

import (
	"crypto/ed25519"
	"database/sql/driver"
	"fmt"

	"github.com/dmitrijs2005/keyregistry/internal/common"
	"github.com/mr-tron/base58"
)

// PubkeySize is the length of an Ed25519 public key and of a slot address.
const PubkeySize = 32

// Pubkey is a 32-byte identity. Owners and payers are Ed25519 public keys;
// slot addresses share the representation but are deliberately off-curve.
// The text form is base58.
type Pubkey [PubkeySize]byte

// ParsePubkey decodes a base58 string into a Pubkey.
func ParsePubkey(s string) (Pubkey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("%w: %v", common.ErrInvalidPublicKey, err)
	}
	return PubkeyFromBytes(b)
}

// MustParsePubkey is ParsePubkey for compile-time constants; it panics on
// malformed input.
func MustParsePubkey(s string) Pubkey {
	p, err := ParsePubkey(s)
	if err != nil {
		panic(err)
	}
	return p
}

// PubkeyFromBytes copies a raw 32-byte key.
func PubkeyFromBytes(b []byte) (Pubkey, error) {
	var p Pubkey
	if len(b) != PubkeySize {
		return p, fmt.Errorf("%w: expected %d bytes, got %d", common.ErrInvalidPublicKey, PubkeySize, len(b))
	}
	copy(p[:], b)
	return p, nil
}

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// Verify reports whether sig is a valid Ed25519 signature of msg by p.
func (p Pubkey) Verify(msg, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p[:]), msg, sig)
}

func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pubkey) UnmarshalText(text []byte) error {
	parsed, err := ParsePubkey(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value stores the key as base58 text.
func (p Pubkey) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p *Pubkey) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return p.UnmarshalText([]byte(v))
	case []byte:
		return p.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Pubkey", src)
	}
}
