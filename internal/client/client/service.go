package client

import (
	"context"
	"crypto/ed25519"

	"github.com/dmitrijs2005/keyregistry/internal/client/models"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
)

type Client interface {
	Close() error
	Authenticate(ctx context.Context, key ed25519.PrivateKey) error
	Ping(ctx context.Context) error
	Register(ctx context.Context, username string, key registry.EncryptionKey, owner *registry.Pubkey) (*models.Record, error)
	Lookup(ctx context.Context, username string, slot *registry.Pubkey) (*models.Record, error)
	Check(ctx context.Context, username string) (*models.Availability, error)
	Transfer(ctx context.Context, username string, newOwner registry.Pubkey) (*models.Record, error)
	UpdateEncryptionKey(ctx context.Context, username string, key registry.EncryptionKey) (*models.Record, error)
	CloseAccount(ctx context.Context, username string) (*models.Refund, error)
	Events(ctx context.Context, username string, afterSeq int64, limit int) ([]*models.Event, error)
}
