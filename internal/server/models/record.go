// Package models defines the server-side data persisted in the database.
package models

import (
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/registry"
)

// Record is the single live binding of a canonical username to its owner.
type Record struct {
	// Slot is the deterministic address derived from Username; primary key.
	Slot registry.Pubkey
	// Bump is the discriminator that makes Slot reproducible by verifiers.
	Bump uint8
	// Owner is the identity allowed to mutate or close the record.
	Owner registry.Pubkey
	// Username is canonical (lower-cased) and never changes.
	Username string
	// CreatedAt is set once, at registration, with second precision.
	CreatedAt time.Time
	// EncryptionKey is the owner's X25519 public key.
	EncryptionKey registry.EncryptionKey
	// Payer funded the slot; Deposit is the amount escrowed.
	Payer   registry.Pubkey
	Deposit int64
}

// Refund describes the deposit released by closing a record.
type Refund struct {
	To     registry.Pubkey
	Amount int64
}
