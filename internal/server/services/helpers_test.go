package services

import (
	"context"
	"crypto/ed25519"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/dbx"
	"github.com/dmitrijs2005/keyregistry/internal/logging"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"github.com/dmitrijs2005/keyregistry/internal/server/config"
	"github.com/dmitrijs2005/keyregistry/internal/server/models"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/events"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/metadata"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/records"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/keyregistry/internal/testutil"
	"github.com/stretchr/testify/require"
)

// clock is a settable time source shared by a service under test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock { return &clock{now: time.Unix(1_700_000_000, 0).UTC()} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

// signer is a deterministic Ed25519 identity.
type signer struct {
	priv ed25519.PrivateKey
	pub  registry.Pubkey
}

func newSigner(t *testing.T, seed byte) signer {
	t.Helper()
	s := make([]byte, ed25519.SeedSize)
	for i := range s {
		s[i] = seed
	}
	priv := ed25519.NewKeyFromSeed(s)
	pub, err := registry.PubkeyFromBytes(priv.Public().(ed25519.PublicKey))
	require.NoError(t, err)
	return signer{priv: priv, pub: pub}
}

func encKey(b byte) registry.EncryptionKey {
	var k registry.EncryptionKey
	for i := range k {
		k[i] = b
	}
	return k
}

// newSQLiteRegistry wires a RegistryService to a migrated SQLite database.
func newSQLiteRegistry(t *testing.T) (*RegistryService, *sql.DB, *clock) {
	t.Helper()
	db := testutil.OpenSQLite(t)
	m, err := repomanager.NewSQLRepositoryManager(dbx.SQLite)
	require.NoError(t, err)
	s, err := NewRegistryService(db, m, testConfig(), logging.NewDiscardLogger())
	require.NoError(t, err)
	c := newClock()
	s.now = c.Now
	return s, db, c
}

func countRecords(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n))
	return n
}

// --- fakes ---

type fakeRecords struct {
	createOK  bool
	createErr error
	getOut    *models.Record
	getErr    error
	writeOK   bool
	writeErr  error
}

func (f *fakeRecords) CreateIfAbsent(context.Context, *models.Record) (bool, error) {
	return f.createOK, f.createErr
}

func (f *fakeRecords) Get(context.Context, registry.Pubkey) (*models.Record, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	rec := *f.getOut
	return &rec, nil
}

func (f *fakeRecords) UpdateOwner(context.Context, registry.Pubkey, registry.Pubkey, registry.Pubkey) (bool, error) {
	return f.writeOK, f.writeErr
}

func (f *fakeRecords) UpdateEncryptionKey(context.Context, registry.Pubkey, registry.Pubkey, registry.EncryptionKey) (bool, error) {
	return f.writeOK, f.writeErr
}

func (f *fakeRecords) Delete(context.Context, registry.Pubkey, registry.Pubkey) (bool, error) {
	return f.writeOK, f.writeErr
}

type fakeEvents struct {
	appended  []*models.Event
	appendErr error
	listErr   error
	lastLimit int
}

func (f *fakeEvents) Append(_ context.Context, e *models.Event) (int64, error) {
	if f.appendErr != nil {
		return 0, f.appendErr
	}
	f.appended = append(f.appended, e)
	return int64(len(f.appended)), nil
}

func (f *fakeEvents) ListByUsername(_ context.Context, _ string, _ int64, limit int) ([]*models.Event, error) {
	f.lastLimit = limit
	return f.appended, f.listErr
}

func (f *fakeEvents) ListSince(context.Context, int64, int) ([]*models.Event, error) {
	return f.appended, f.listErr
}

type fakeRefreshRepo struct {
	findOut   *models.RefreshToken
	findErr   error
	delErr    error
	spent     bool
	createErr error
	purgeErr  error
	created   []*models.RefreshToken
}

func (f *fakeRefreshRepo) Create(_ context.Context, t *models.RefreshToken) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, t)
	return nil
}

func (f *fakeRefreshRepo) Find(context.Context, string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(context.Context, string) (bool, error) {
	if f.delErr != nil {
		return false, f.delErr
	}
	return !f.spent, nil
}

func (f *fakeRefreshRepo) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, f.purgeErr
}

type fakeRepoManager struct {
	records *fakeRecords
	events  *fakeEvents
	refresh *fakeRefreshRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Records(dbx.DBTX) records.Repository             { return m.records }
func (m *fakeRepoManager) Events(dbx.DBTX) events.Repository               { return m.events }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refresh }
func (m *fakeRepoManager) Metadata(dbx.DBTX) metadata.Repository           { return nil }
