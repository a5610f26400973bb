package models

import (
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/registry"
)

type EventKind string

const (
	EventRegistered  EventKind = "registered"
	EventTransferred EventKind = "transferred"
	EventKeyUpdated  EventKind = "key_updated"
	EventClosed      EventKind = "closed"
)

// Event is one entry of the append-only audit journal. Seq is assigned by
// the store and grows monotonically; it is the archive cursor.
type Event struct {
	Seq       int64            `json:"seq"`
	ID        string           `json:"id"`
	Kind      EventKind        `json:"kind"`
	Username  string           `json:"username"`
	Slot      registry.Pubkey  `json:"slot"`
	Owner     registry.Pubkey  `json:"owner"`
	NewOwner  *registry.Pubkey `json:"new_owner,omitempty"`
	Actor     registry.Pubkey  `json:"actor"`
	Refund    int64            `json:"refund,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
