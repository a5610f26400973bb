package services

import (
	"context"
	"crypto/ed25519"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/client/client"
	"github.com/dmitrijs2005/keyregistry/internal/client/models"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"github.com/stretchr/testify/require"
)

// goldenSlot is the address of "valid_name" under the default program id.
var goldenSlot = registry.MustParsePubkey("H5sTxih9HEnF7iJ1aEaXcSwdGq6A8a3en3w4CY7Pr2zg")

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func validRecord(owner registry.Pubkey, key registry.EncryptionKey) *models.Record {
	return &models.Record{
		Slot:          goldenSlot,
		Bump:          255,
		Owner:         owner,
		Username:      "valid_name",
		CreatedAt:     time.Unix(1_700_000_000, 0).UTC(),
		EncryptionKey: key,
		Payer:         owner,
		Deposit:       10,
	}
}

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	authKey ed25519.PrivateKey
	authErr error

	pingErr error

	lastRegisterName string
	lastRegisterKey  registry.EncryptionKey

	record    *models.Record
	recordErr error

	lookups int

	refund   *models.Refund
	closeErr error

	events    []*models.Event
	eventsErr error
	pages     []int64

	closed bool
}

func (f *fakeClient) Close() error { f.closed = true; return nil }

func (f *fakeClient) Authenticate(_ context.Context, key ed25519.PrivateKey) error {
	f.authKey = key
	return f.authErr
}

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeClient) Register(_ context.Context, username string, key registry.EncryptionKey, _ *registry.Pubkey) (*models.Record, error) {
	f.lastRegisterName, f.lastRegisterKey = username, key
	return f.record, f.recordErr
}

func (f *fakeClient) Lookup(context.Context, string, *registry.Pubkey) (*models.Record, error) {
	f.lookups++
	return f.record, f.recordErr
}

func (f *fakeClient) Check(_ context.Context, username string) (*models.Availability, error) {
	return &models.Availability{Username: username, Slot: goldenSlot, Available: true}, nil
}

func (f *fakeClient) Transfer(context.Context, string, registry.Pubkey) (*models.Record, error) {
	return f.record, f.recordErr
}

func (f *fakeClient) UpdateEncryptionKey(_ context.Context, _ string, key registry.EncryptionKey) (*models.Record, error) {
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	rec := *f.record
	rec.EncryptionKey = key
	return &rec, nil
}

func (f *fakeClient) CloseAccount(context.Context, string) (*models.Refund, error) {
	return f.refund, f.closeErr
}

// Events serves f.events in pages of limit after afterSeq.
func (f *fakeClient) Events(_ context.Context, _ string, afterSeq int64, limit int) ([]*models.Event, error) {
	f.pages = append(f.pages, afterSeq)
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	var out []*models.Event
	for _, e := range f.events {
		if e.Seq > afterSeq && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}
