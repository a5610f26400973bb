// Package contacts caches verified registry records on the local machine so
// known usernames still resolve while the server is unreachable.
package contacts

import (
	"context"

	"github.com/dmitrijs2005/keyregistry/internal/client/models"
)

type Repository interface {
	// Put inserts or replaces the contact keyed by its username.
	Put(ctx context.Context, c *models.Contact) error
	// Get returns common.ErrNotFound for an unknown username.
	Get(ctx context.Context, username string) (*models.Contact, error)
	// List returns every contact ordered by username.
	List(ctx context.Context) ([]*models.Contact, error)
	Delete(ctx context.Context, username string) error
}
