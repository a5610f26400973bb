package events

import (
	"context"

	"github.com/dmitrijs2005/keyregistry/internal/server/models"
)

// Repository is the append-only event journal. Entries are never updated
// or deleted; Seq orders them.
type Repository interface {
	Append(ctx context.Context, e *models.Event) (int64, error)
	ListByUsername(ctx context.Context, username string, afterSeq int64, limit int) ([]*models.Event, error)
	ListSince(ctx context.Context, afterSeq int64, limit int) ([]*models.Event, error)
}
