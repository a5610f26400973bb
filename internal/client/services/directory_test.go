package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/client/client"
	"github.com/dmitrijs2005/keyregistry/internal/common"
	"github.com/dmitrijs2005/keyregistry/internal/cryptox"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectory(t *testing.T, f *fakeClient) *directoryService {
	t.Helper()
	d := NewDirectoryService(f, setupDB(t), registry.MustParsePubkey(registry.DefaultProgramID)).(*directoryService)
	d.now = func() time.Time { return time.Unix(1_700_000_900, 0) }
	return d
}

func TestVerify(t *testing.T) {
	programID := registry.MustParsePubkey(registry.DefaultProgramID)
	rec := validRecord(registry.Pubkey{1}, registry.EncryptionKey{1})
	require.NoError(t, Verify(programID, rec))

	rec.Slot = registry.Pubkey{9}
	assert.ErrorIs(t, Verify(programID, rec), common.ErrSlotMismatch)
}

func TestResolve_VerifiesAndCaches(t *testing.T) {
	f := &fakeClient{record: validRecord(registry.Pubkey{1}, registry.EncryptionKey{7})}
	d := newDirectory(t, f)
	ctx := context.Background()

	c, err := d.Resolve(ctx, "Valid_Name")
	require.NoError(t, err)
	assert.False(t, c.Stale)
	assert.Equal(t, time.Unix(1_700_000_900, 0).UTC(), c.FetchedAt)

	list, err := d.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, registry.EncryptionKey{7}, list[0].EncryptionKey)
}

func TestResolve_OfflineFallsBackToCache(t *testing.T) {
	f := &fakeClient{record: validRecord(registry.Pubkey{1}, registry.EncryptionKey{7})}
	d := newDirectory(t, f)
	ctx := context.Background()

	_, err := d.Resolve(ctx, "valid_name")
	require.NoError(t, err)

	f.recordErr = client.ErrUnavailable
	c, err := d.Resolve(ctx, "valid_name")
	require.NoError(t, err)
	assert.True(t, c.Stale)
	assert.Equal(t, registry.EncryptionKey{7}, c.EncryptionKey)

	_, err = d.Resolve(ctx, "unknown_user")
	assert.ErrorIs(t, err, client.ErrLocalDataNotAvailable)
}

func TestResolve_RejectsForgedSlot(t *testing.T) {
	rec := validRecord(registry.Pubkey{1}, registry.EncryptionKey{7})
	rec.Slot = registry.Pubkey{9}
	d := newDirectory(t, &fakeClient{record: rec})

	_, err := d.Resolve(context.Background(), "valid_name")
	assert.ErrorIs(t, err, common.ErrSlotMismatch)

	list, err := d.Contacts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list, "unverified records are never cached")
}

func TestResolve_RejectsWrongUsername(t *testing.T) {
	rec := validRecord(registry.Pubkey{1}, registry.EncryptionKey{7})
	d := newDirectory(t, &fakeClient{record: rec})

	_, err := d.Resolve(context.Background(), "other_name")
	assert.ErrorIs(t, err, client.ErrMalformedResponse)
}

func TestResolve_ReleasedNameDropsCache(t *testing.T) {
	f := &fakeClient{record: validRecord(registry.Pubkey{1}, registry.EncryptionKey{7})}
	d := newDirectory(t, f)
	ctx := context.Background()

	_, err := d.Resolve(ctx, "valid_name")
	require.NoError(t, err)

	f.recordErr = common.ErrNotFound
	_, err = d.Resolve(ctx, "valid_name")
	assert.ErrorIs(t, err, common.ErrNotFound)

	f.recordErr = client.ErrUnavailable
	_, err = d.Resolve(ctx, "valid_name")
	assert.ErrorIs(t, err, client.ErrLocalDataNotAvailable)
}

func TestResolve_InvalidUsername(t *testing.T) {
	f := &fakeClient{}
	d := newDirectory(t, f)

	_, err := d.Resolve(context.Background(), "ab")
	assert.ErrorIs(t, err, common.ErrInvalidUsernameLength)
	assert.Zero(t, f.lookups, "rejected before any network call")
}

func TestSealOpen_ThroughDirectory(t *testing.T) {
	alice, bob := identity(t, 1), identity(t, 2)
	ctx := context.Background()

	// alice seals to bob, who holds valid_name
	toBob := newDirectory(t, &fakeClient{record: validRecord(bob.Pubkey, bob.EncryptionKey)})
	sealed, err := toBob.Seal(ctx, alice, "valid_name", []byte("hello"))
	require.NoError(t, err)

	// bob opens it, resolving alice under the same name in his own cache
	fromAlice := newDirectory(t, &fakeClient{record: validRecord(alice.Pubkey, alice.EncryptionKey)})
	msg, err := fromAlice.Open(ctx, bob, "valid_name", sealed)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(msg))

	_, err = fromAlice.Open(ctx, identity(t, 3), "valid_name", sealed)
	assert.ErrorIs(t, err, cryptox.ErrDecryptFailed)

	_, err = newDirectory(t, &fakeClient{recordErr: errors.New("boom")}).Seal(ctx, alice, "valid_name", []byte("x"))
	assert.Error(t, err)
}

func TestCheck_Proxies(t *testing.T) {
	a, err := newDirectory(t, &fakeClient{}).Check(context.Background(), "bob_1")
	require.NoError(t, err)
	assert.True(t, a.Available)
}

func TestSealOpen_RefuseCachedKeyWhileOffline(t *testing.T) {
	alice, bob := identity(t, 1), identity(t, 2)
	f := &fakeClient{record: validRecord(bob.Pubkey, bob.EncryptionKey)}
	d := newDirectory(t, f)
	ctx := context.Background()

	sealed, err := d.Seal(ctx, alice, "valid_name", []byte("hello"))
	require.NoError(t, err)

	f.recordErr = client.ErrUnavailable

	// the cached record is still served for display
	c, err := d.Resolve(ctx, "valid_name")
	require.NoError(t, err)
	assert.True(t, c.Stale)

	out, err := d.Seal(ctx, alice, "valid_name", []byte("hello"))
	assert.ErrorIs(t, err, client.ErrLocalDataNotAvailable)
	assert.Nil(t, out)

	_, err = d.Open(ctx, bob, "valid_name", sealed)
	assert.ErrorIs(t, err, client.ErrLocalDataNotAvailable)
}
