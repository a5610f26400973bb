// Package services contains application services for the keyregistry CLI.
// This file defines the account service: signing in with the local
// identity, and the owner-side registry operations.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/keyregistry/internal/client/client"
	"github.com/dmitrijs2005/keyregistry/internal/client/models"
	"github.com/dmitrijs2005/keyregistry/internal/client/repositories/contacts"
	"github.com/dmitrijs2005/keyregistry/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/keyregistry/internal/cryptox"
	"github.com/dmitrijs2005/keyregistry/internal/dbx"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
)

// Metadata keys.
const (
	keyUsername = "username"
	keyPubkey   = "pubkey"
)

// historyPage is the page size used when walking the audit journal.
const historyPage = 100

// AccountService defines the operations the local identity performs on its
// own usernames. All methods honor context cancellation.
type AccountService interface {
	SignIn(ctx context.Context, id *cryptox.Identity) error
	Register(ctx context.Context, id *cryptox.Identity, username string) (*models.Record, error)
	Transfer(ctx context.Context, username string, newOwner registry.Pubkey) (*models.Record, error)
	RotateKey(ctx context.Context, id *cryptox.Identity, username string) (*models.Record, error)
	CloseAccount(ctx context.Context, username string) (*models.Refund, error)
	History(ctx context.Context, username string) ([]*models.Event, error)
	Username(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type accountService struct {
	client client.Client
	db     *sql.DB
}

// NewAccountService constructs an AccountService bound to the given API
// client and local cache.
func NewAccountService(client client.Client, db *sql.DB) AccountService {
	return &accountService{client: client, db: db}
}

func (a *accountService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// SignIn authenticates id against the server. Switching to a different
// identity forgets the username remembered for the previous one.
func (a *accountService) SignIn(ctx context.Context, id *cryptox.Identity) error {
	if err := a.client.Authenticate(ctx, id.Signing); err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getMetadataRepo(tx)
		prev, err := repo.Get(ctx, keyPubkey)
		if err != nil {
			return err
		}
		if prev != nil && string(prev) != id.Pubkey.String() {
			if err := repo.Delete(ctx, keyUsername); err != nil {
				return err
			}
		}
		return repo.Set(ctx, keyPubkey, []byte(id.Pubkey.String()))
	})
}

// Register claims username for id, publishing id's encryption key, and
// remembers it as the local username.
func (a *accountService) Register(ctx context.Context, id *cryptox.Identity, username string) (*models.Record, error) {
	rec, err := a.client.Register(ctx, username, id.EncryptionKey, nil)
	if err != nil {
		return nil, err
	}
	if err := a.getMetadataRepo(a.db).Set(ctx, keyUsername, []byte(rec.Username)); err != nil {
		return nil, fmt.Errorf("offline data saving error: %w", err)
	}
	return rec, nil
}

func (a *accountService) Transfer(ctx context.Context, username string, newOwner registry.Pubkey) (*models.Record, error) {
	rec, err := a.client.Transfer(ctx, username, newOwner)
	if err != nil {
		return nil, err
	}
	if err := a.forget(ctx, rec.Username); err != nil {
		return nil, err
	}
	return rec, nil
}

// RotateKey publishes id's current encryption key for username, e.g. after
// the username was transferred to id.
func (a *accountService) RotateKey(ctx context.Context, id *cryptox.Identity, username string) (*models.Record, error) {
	rec, err := a.client.UpdateEncryptionKey(ctx, username, id.EncryptionKey)
	if err != nil {
		return nil, err
	}
	if err := a.getMetadataRepo(a.db).Set(ctx, keyUsername, []byte(rec.Username)); err != nil {
		return nil, fmt.Errorf("offline data saving error: %w", err)
	}
	return rec, nil
}

func (a *accountService) CloseAccount(ctx context.Context, username string) (*models.Refund, error) {
	refund, err := a.client.CloseAccount(ctx, username)
	if err != nil {
		return nil, err
	}
	canonical, err := registry.Canonicalize(username)
	if err != nil {
		return nil, err
	}
	if err := a.forget(ctx, canonical); err != nil {
		return nil, err
	}
	return refund, nil
}

// forget drops username from local state once it no longer belongs to us.
func (a *accountService) forget(ctx context.Context, username string) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getMetadataRepo(tx)
		mine, err := repo.Get(ctx, keyUsername)
		if err != nil {
			return err
		}
		if string(mine) == username {
			if err := repo.Delete(ctx, keyUsername); err != nil {
				return err
			}
		}
		return contacts.NewSQLiteRepository(tx).Delete(ctx, username)
	})
}

// History walks every page of username's audit journal.
func (a *accountService) History(ctx context.Context, username string) ([]*models.Event, error) {
	var (
		out   []*models.Event
		after int64
	)
	for {
		page, err := a.client.Events(ctx, username, after, historyPage)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < historyPage {
			return out, nil
		}
		after = page[len(page)-1].Seq
	}
}

// Username returns the username remembered for the local identity, or
// client.ErrLocalDataNotAvailable when none is known.
func (a *accountService) Username(ctx context.Context) (string, error) {
	v, err := a.getMetadataRepo(a.db).Get(ctx, keyUsername)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", client.ErrLocalDataNotAvailable
	}
	return string(v), nil
}

// Ping proxies a liveness check to the underlying client.
func (a *accountService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *accountService) Close(ctx context.Context) error {
	return a.client.Close()
}
