// Package models defines the registry data as the client sees it.
package models

import (
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/registry"
)

// Record is a username binding returned by the server.
type Record struct {
	Slot          registry.Pubkey
	Bump          uint8
	Owner         registry.Pubkey
	Username      string
	CreatedAt     time.Time
	EncryptionKey registry.EncryptionKey
	Payer         registry.Pubkey
	Deposit       int64
}

// Availability answers whether a username can still be registered.
type Availability struct {
	Username  string
	Slot      registry.Pubkey
	Available bool
}

// Refund is the deposit released when an account is closed.
type Refund struct {
	To     registry.Pubkey
	Amount int64
}

type Event struct {
	Seq       int64
	ID        string
	Kind      string
	Username  string
	Slot      registry.Pubkey
	Owner     registry.Pubkey
	NewOwner  *registry.Pubkey
	Actor     registry.Pubkey
	Refund    int64
	CreatedAt time.Time
}

// Contact is a record cached locally after a verified lookup.
type Contact struct {
	Record
	// FetchedAt is when the record was last confirmed by the server.
	FetchedAt time.Time
	// Stale is set when the server could not be reached and the cached
	// copy was served instead.
	Stale bool
}
