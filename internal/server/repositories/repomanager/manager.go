package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/keyregistry/internal/dbx"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/events"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/metadata"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/records"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/refreshtokens"
)

// RepositoryManager vends repositories bound to a DBTX so that services can
// compose them inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Records(db dbx.DBTX) records.Repository
	Events(db dbx.DBTX) events.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Metadata(db dbx.DBTX) metadata.Repository
}
