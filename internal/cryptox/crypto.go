// Package cryptox holds the client-side key material: the Ed25519 identity
// seed, the X25519 encryption key pair derived from it, sealed messages
// between registered users, and the on-disk key file.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/keyregistry/internal/common"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

const (
	SeedSize  = ed25519.SeedSize
	nonceSize = 24
	saltSize  = 16
)

var (
	ErrInvalidSeed     = errors.New("seed must be 32 bytes")
	ErrDecryptFailed   = errors.New("decryption failed - invalid key or corrupted message")
	ErrMessageTooShort = errors.New("sealed message too short")
)

// Identity is the key material derived from one seed.
type Identity struct {
	Signing       ed25519.PrivateKey
	Pubkey        registry.Pubkey
	EncryptionKey registry.EncryptionKey
	encSecret     [32]byte
}

// GenerateSeed returns a fresh random identity seed.
func GenerateSeed() []byte {
	return common.GenerateRandByteArray(SeedSize)
}

// NewIdentity derives the signing key, its public key and the X25519
// encryption key pair from seed.
func NewIdentity(seed []byte) (*Identity, error) {
	if len(seed) != SeedSize {
		return nil, ErrInvalidSeed
	}

	signing := ed25519.NewKeyFromSeed(seed)
	pubkey, err := registry.PubkeyFromBytes(signing.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}

	encKey, err := EncryptionKeyFromSeed(seed)
	if err != nil {
		return nil, err
	}

	id := &Identity{Signing: signing, Pubkey: pubkey, EncryptionKey: encKey}
	copy(id.encSecret[:], seed)
	return id, nil
}

// EncryptionKeyFromSeed derives the X25519 public key whose secret is the
// Ed25519 seed itself, so one seed backs both signing and encryption.
func EncryptionKeyFromSeed(seed []byte) (registry.EncryptionKey, error) {
	if len(seed) != SeedSize {
		return registry.EncryptionKey{}, ErrInvalidSeed
	}
	pub, err := curve25519.X25519(seed, curve25519.Basepoint)
	if err != nil {
		return registry.EncryptionKey{}, err
	}
	return registry.ParseEncryptionKey(pub)
}

// Seal encrypts msg for the holder of recipient. The output is the random
// nonce followed by the box.
func (id *Identity) Seal(msg []byte, recipient registry.EncryptionKey) ([]byte, error) {
	var nonce [nonceSize]byte
	copy(nonce[:], common.GenerateRandByteArray(nonceSize))

	peer := [32]byte(recipient)
	return box.Seal(nonce[:], msg, &nonce, &peer, &id.encSecret), nil
}

// Open reverses Seal for a message sent by the holder of sender.
func (id *Identity) Open(sealed []byte, sender registry.EncryptionKey) ([]byte, error) {
	if len(sealed) < nonceSize+box.Overhead {
		return nil, ErrMessageTooShort
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	peer := [32]byte(sender)
	out, ok := box.Open(nil, sealed[nonceSize:], &nonce, &peer, &id.encSecret)
	if !ok {
		return nil, ErrDecryptFailed
	}
	return out, nil
}

// deriveFileKey stretches a passphrase into an AES-256 key.
func deriveFileKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

func encryptSeed(seed, passphrase []byte) ([]byte, error) {
	salt := common.GenerateRandByteArray(saltSize)

	block, err := aes.NewCipher(deriveFileKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	out := append(salt, nonce...)
	return aesgcm.Seal(out, nonce, seed, nil), nil
}

func decryptSeed(blob, passphrase []byte) ([]byte, error) {
	if len(blob) < saltSize {
		return nil, ErrMessageTooShort
	}
	salt, rest := blob[:saltSize], blob[saltSize:]

	block, err := aes.NewCipher(deriveFileKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(rest) < aesgcm.NonceSize() {
		return nil, ErrMessageTooShort
	}

	seed, err := aesgcm.Open(nil, rest[:aesgcm.NonceSize()], rest[aesgcm.NonceSize():], nil)
	if err != nil {
		return nil, fmt.Errorf("wrong passphrase: %w", ErrDecryptFailed)
	}
	return seed, nil
}
