package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/client/client"
	"github.com/dmitrijs2005/keyregistry/internal/client/models"
	"github.com/dmitrijs2005/keyregistry/internal/client/repositories/contacts"
	"github.com/dmitrijs2005/keyregistry/internal/common"
	"github.com/dmitrijs2005/keyregistry/internal/cryptox"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
)

// DirectoryService resolves other users' usernames to verified records and
// exchanges sealed messages with them.
type DirectoryService interface {
	// Resolve looks username up on the server, re-derives its slot locally
	// and caches the record. When the server is unreachable the cached
	// copy is returned with Stale set.
	Resolve(ctx context.Context, username string) (*models.Contact, error)
	Check(ctx context.Context, username string) (*models.Availability, error)
	Contacts(ctx context.Context) ([]*models.Contact, error)
	Seal(ctx context.Context, id *cryptox.Identity, username string, msg []byte) ([]byte, error)
	Open(ctx context.Context, id *cryptox.Identity, username string, sealed []byte) ([]byte, error)
}

type directoryService struct {
	client    client.Client
	contacts  contacts.Repository
	programID registry.Pubkey
	now       func() time.Time
}

func NewDirectoryService(client client.Client, db *sql.DB, programID registry.Pubkey) DirectoryService {
	return &directoryService{
		client:    client,
		contacts:  contacts.NewSQLiteRepository(db),
		programID: programID,
		now:       time.Now,
	}
}

// Verify checks that rec sits at the address its username derives to
// under programID.
func Verify(programID registry.Pubkey, rec *models.Record) error {
	ok, err := registry.VerifySlot(programID, rec.Username, rec.Slot)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrSlotMismatch
	}
	return nil
}

func (d *directoryService) Resolve(ctx context.Context, username string) (*models.Contact, error) {
	canonical, err := registry.Canonicalize(username)
	if err != nil {
		return nil, err
	}

	rec, err := d.client.Lookup(ctx, canonical, nil)
	switch {
	case errors.Is(err, client.ErrUnavailable):
		cached, cerr := d.contacts.Get(ctx, canonical)
		if cerr != nil {
			if errors.Is(cerr, common.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s not cached", client.ErrLocalDataNotAvailable, canonical)
			}
			return nil, cerr
		}
		cached.Stale = true
		return cached, nil
	case errors.Is(err, common.ErrNotFound):
		// the name was released; a cached key must not outlive it
		if derr := d.contacts.Delete(ctx, canonical); derr != nil {
			return nil, derr
		}
		return nil, err
	case err != nil:
		return nil, err
	}

	if rec.Username != canonical {
		return nil, fmt.Errorf("%w: asked for %s, got %s", client.ErrMalformedResponse, canonical, rec.Username)
	}
	if err := Verify(d.programID, rec); err != nil {
		return nil, err
	}

	c := &models.Contact{Record: *rec, FetchedAt: d.now().UTC().Truncate(time.Second)}
	if err := d.contacts.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (d *directoryService) Check(ctx context.Context, username string) (*models.Availability, error) {
	return d.client.Check(ctx, username)
}

func (d *directoryService) Contacts(ctx context.Context) ([]*models.Contact, error) {
	return d.contacts.List(ctx)
}

// resolveFresh is Resolve restricted to records the server confirmed just
// now. A cached key may belong to a previous holder of the name, so it is
// never used for encryption.
func (d *directoryService) resolveFresh(ctx context.Context, username string) (*models.Contact, error) {
	c, err := d.Resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	if c.Stale {
		return nil, fmt.Errorf("%w: key of %s cannot be confirmed while offline", client.ErrLocalDataNotAvailable, c.Username)
	}
	return c, nil
}

// Seal encrypts msg for the current encryption key of username.
func (d *directoryService) Seal(ctx context.Context, id *cryptox.Identity, username string, msg []byte) ([]byte, error) {
	c, err := d.resolveFresh(ctx, username)
	if err != nil {
		return nil, err
	}
	return id.Seal(msg, c.EncryptionKey)
}

// Open decrypts a message sealed by the holder of username.
func (d *directoryService) Open(ctx context.Context, id *cryptox.Identity, username string, sealed []byte) ([]byte, error) {
	c, err := d.resolveFresh(ctx, username)
	if err != nil {
		return nil, err
	}
	return id.Open(sealed, c.EncryptionKey)
}
