package records

import (
	"context"

	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"github.com/dmitrijs2005/keyregistry/internal/server/models"
)

// Repository stores username records keyed by slot.
//
// The mutating methods are conditional on the caller-supplied owner and
// report whether a row was changed; a false result with a nil error means
// the owner did not match (or the record vanished).
type Repository interface {
	CreateIfAbsent(ctx context.Context, rec *models.Record) (bool, error)
	Get(ctx context.Context, slot registry.Pubkey) (*models.Record, error)
	UpdateOwner(ctx context.Context, slot, owner, newOwner registry.Pubkey) (bool, error)
	UpdateEncryptionKey(ctx context.Context, slot, owner registry.Pubkey, key registry.EncryptionKey) (bool, error)
	Delete(ctx context.Context, slot, owner registry.Pubkey) (bool, error)
}
