package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/client/client"
	"github.com/dmitrijs2005/keyregistry/internal/client/config"
	"github.com/dmitrijs2005/keyregistry/internal/client/models"
	"github.com/dmitrijs2005/keyregistry/internal/common"
	"github.com/dmitrijs2005/keyregistry/internal/cryptox"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccount struct {
	signInErr error
	signedIn  *cryptox.Identity
	username  string

	record    *models.Record
	recordErr error
	transfer  registry.Pubkey

	refund   *models.Refund
	closed   string
	events   []*models.Event
	pingErr  error
	closedUp bool
}

func (f *fakeAccount) SignIn(_ context.Context, id *cryptox.Identity) error {
	f.signedIn = id
	return f.signInErr
}
func (f *fakeAccount) Register(_ context.Context, _ *cryptox.Identity, _ string) (*models.Record, error) {
	return f.record, f.recordErr
}
func (f *fakeAccount) Transfer(_ context.Context, _ string, newOwner registry.Pubkey) (*models.Record, error) {
	f.transfer = newOwner
	return f.record, f.recordErr
}
func (f *fakeAccount) RotateKey(_ context.Context, _ *cryptox.Identity, _ string) (*models.Record, error) {
	return f.record, f.recordErr
}
func (f *fakeAccount) CloseAccount(_ context.Context, username string) (*models.Refund, error) {
	f.closed = username
	return f.refund, f.recordErr
}
func (f *fakeAccount) History(context.Context, string) ([]*models.Event, error) {
	return f.events, f.recordErr
}
func (f *fakeAccount) Username(context.Context) (string, error) {
	if f.username == "" {
		return "", client.ErrLocalDataNotAvailable
	}
	return f.username, nil
}
func (f *fakeAccount) Ping(context.Context) error  { return f.pingErr }
func (f *fakeAccount) Close(context.Context) error { f.closedUp = true; return nil }

type fakeDirectory struct {
	contact  *models.Contact
	err      error
	contacts []*models.Contact
	sealedTo string
}

func (f *fakeDirectory) Resolve(context.Context, string) (*models.Contact, error) {
	return f.contact, f.err
}
func (f *fakeDirectory) Check(_ context.Context, username string) (*models.Availability, error) {
	return &models.Availability{Username: username, Slot: registry.Pubkey{4}}, f.err
}
func (f *fakeDirectory) Contacts(context.Context) ([]*models.Contact, error) {
	return f.contacts, f.err
}
func (f *fakeDirectory) Seal(_ context.Context, id *cryptox.Identity, username string, msg []byte) ([]byte, error) {
	f.sealedTo = username
	return append([]byte("sealed:"), msg...), f.err
}
func (f *fakeDirectory) Open(_ context.Context, _ *cryptox.Identity, _ string, sealed []byte) ([]byte, error) {
	return bytes.TrimPrefix(sealed, []byte("sealed:")), f.err
}

func newTestApp(t *testing.T, acc *fakeAccount, dir *fakeDirectory, input ...string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.KeyFile = filepath.Join(t.TempDir(), "identity.key")

	out := &bytes.Buffer{}
	return &App{
		config:    cfg,
		account:   acc,
		directory: dir,
		reader:    bufio.NewReader(strings.NewReader(strings.Join(input, "\n") + "\n")),
		out:       out,
	}, out
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	getPassword = func(string, io.Writer) ([]byte, error) {
		if len(pws) == 0 {
			return nil, errors.New("no more passwords")
		}
		pw := pws[0]
		pws = pws[1:]
		return []byte(pw), nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func seedOf(b byte) []byte { return bytes.Repeat([]byte{b}, cryptox.SeedSize) }

func stubSeed(t *testing.T, b byte) {
	t.Helper()
	orig := generateSeed
	generateSeed = func() []byte { return seedOf(b) }
	t.Cleanup(func() { generateSeed = orig })
}

func TestKeygenThenLogin(t *testing.T) {
	acc := &fakeAccount{username: "alice_1"}
	app, out := newTestApp(t, acc, &fakeDirectory{})
	stubSeed(t, 7)
	stubPasswords(t, "pw", "pw", "pw")

	require.NoError(t, app.Keygen(context.Background(), nil))
	protected, err := cryptox.IsProtected(app.config.KeyFile)
	require.NoError(t, err)
	assert.True(t, protected)

	want, err := cryptox.NewIdentity(seedOf(7))
	require.NoError(t, err)
	assert.Contains(t, out.String(), want.Pubkey.String())

	require.NoError(t, app.Login(context.Background(), nil))
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, want.Pubkey, acc.signedIn.Pubkey)
	assert.Equal(t, ModeOnline, app.Mode)
	assert.Equal(t, "alice_1", app.userName)
}

func TestKeygen_RefusesOverwrite(t *testing.T) {
	app, _ := newTestApp(t, &fakeAccount{}, &fakeDirectory{})
	stubSeed(t, 1)
	stubPasswords(t, "", "", "")

	require.NoError(t, app.Keygen(context.Background(), nil))
	assert.ErrorContains(t, app.Keygen(context.Background(), nil), "already exists")
	require.NoError(t, app.Keygen(context.Background(), []string{"force"}))
}

func TestKeygen_PassphraseMismatch(t *testing.T) {
	app, _ := newTestApp(t, &fakeAccount{}, &fakeDirectory{})
	stubPasswords(t, "one", "two")

	assert.ErrorIs(t, app.Keygen(context.Background(), nil), errPassphraseMismatch)
}

func TestLogin_Offline(t *testing.T) {
	acc := &fakeAccount{signInErr: client.ErrUnavailable}
	app, _ := newTestApp(t, acc, &fakeDirectory{})
	require.NoError(t, cryptox.WriteKeyFile(app.config.KeyFile, seedOf(3), nil))

	require.NoError(t, app.Login(context.Background(), nil))
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, ModeOffline, app.Mode)
}

func TestLogin_Failures(t *testing.T) {
	app, _ := newTestApp(t, &fakeAccount{}, &fakeDirectory{})
	assert.ErrorContains(t, app.Login(context.Background(), nil), "run 'keygen' first")
	assert.Equal(t, ModeDisabled, app.Mode)

	acc := &fakeAccount{signInErr: common.ErrInvalidSignature}
	app, _ = newTestApp(t, acc, &fakeDirectory{})
	require.NoError(t, cryptox.WriteKeyFile(app.config.KeyFile, seedOf(3), nil))
	assert.ErrorIs(t, app.Login(context.Background(), nil), common.ErrInvalidSignature)
	assert.False(t, app.isLoggedIn())
}

func TestLogout(t *testing.T) {
	app, _ := newTestApp(t, &fakeAccount{}, &fakeDirectory{})
	app.identity, app.userName = &cryptox.Identity{}, "alice_1"

	require.NoError(t, app.Logout(context.Background(), nil))
	assert.False(t, app.isLoggedIn())
	assert.Empty(t, app.userName)
}

func sampleRecord() *models.Record {
	return &models.Record{
		Username:  "alice_1",
		Slot:      registry.Pubkey{4},
		Owner:     registry.Pubkey{5},
		Payer:     registry.Pubkey{5},
		Deposit:   10,
		CreatedAt: time.Unix(1_700_000_000, 0),
	}
}

func TestRegisterAndTransfer(t *testing.T) {
	acc := &fakeAccount{record: sampleRecord()}
	app, out := newTestApp(t, acc, &fakeDirectory{})
	ctx := context.Background()

	assert.ErrorIs(t, app.Register(ctx, nil), errUsage)

	require.NoError(t, app.Register(ctx, []string{"Alice_1"}))
	assert.Equal(t, "alice_1", app.userName)
	assert.Contains(t, out.String(), "Registered alice_1")

	assert.Error(t, app.Transfer(ctx, []string{"alice_1", "not-a-key!"}))

	newOwner := registry.Pubkey{6}
	require.NoError(t, app.Transfer(ctx, []string{"alice_1", newOwner.String()}))
	assert.Equal(t, newOwner, acc.transfer)
	assert.Empty(t, app.userName)

	acc.recordErr = common.ErrNotOwner
	assert.ErrorIs(t, app.Rotate(ctx, []string{"alice_1"}), common.ErrNotOwner)
}

func TestCloseAccount_Confirmation(t *testing.T) {
	acc := &fakeAccount{refund: &models.Refund{To: registry.Pubkey{5}, Amount: 10}}
	app, out := newTestApp(t, acc, &fakeDirectory{}, "nope", "ALICE_1")
	app.userName = "alice_1"
	ctx := context.Background()

	require.NoError(t, app.CloseAccount(ctx, []string{"alice_1"}))
	assert.Empty(t, acc.closed)
	assert.Contains(t, out.String(), "Aborted")

	require.NoError(t, app.CloseAccount(ctx, []string{"alice_1"}))
	assert.Equal(t, "alice_1", acc.closed)
	assert.Empty(t, app.userName)
	assert.Contains(t, out.String(), "refunded 10")
}

func TestHistory_Prints(t *testing.T) {
	newOwner := registry.Pubkey{6}
	acc := &fakeAccount{events: []*models.Event{
		{Seq: 1, Kind: "registered", Actor: registry.Pubkey{5}, CreatedAt: time.Unix(0, 0)},
		{Seq: 2, Kind: "transferred", Actor: registry.Pubkey{5}, NewOwner: &newOwner, CreatedAt: time.Unix(0, 0)},
		{Seq: 3, Kind: "closed", Actor: registry.Pubkey{6}, Refund: 10, CreatedAt: time.Unix(0, 0)},
	}}
	app, out := newTestApp(t, acc, &fakeDirectory{})

	require.NoError(t, app.History(context.Background(), []string{"alice_1"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "#1 1970-01-01T00:00:00Z registered"))
	assert.Contains(t, lines[1], "-> "+newOwner.String())
	assert.Contains(t, lines[2], "refund 10")
}

func TestLookup_MarksStale(t *testing.T) {
	dir := &fakeDirectory{contact: &models.Contact{Record: *sampleRecord(), FetchedAt: time.Unix(1_700_000_500, 0), Stale: true}}
	app, out := newTestApp(t, &fakeAccount{}, dir)

	require.NoError(t, app.Lookup(context.Background(), []string{"alice_1"}))
	assert.Contains(t, out.String(), "Username:       alice_1")
	assert.Contains(t, out.String(), "offline: cached copy")

	dir.err = common.ErrNotFound
	assert.ErrorIs(t, app.Lookup(context.Background(), []string{"alice_1"}), common.ErrNotFound)
}

func TestCheckAndContacts(t *testing.T) {
	dir := &fakeDirectory{}
	app, out := newTestApp(t, &fakeAccount{}, dir)
	ctx := context.Background()

	require.NoError(t, app.Check(ctx, []string{"bob_1"}))
	assert.Contains(t, out.String(), "bob_1 is taken")

	require.NoError(t, app.Contacts(ctx, nil))
	assert.Contains(t, out.String(), "No cached contacts")

	dir.contacts = []*models.Contact{{Record: *sampleRecord(), FetchedAt: time.Unix(0, 0)}}
	require.NoError(t, app.Contacts(ctx, nil))
	assert.Contains(t, out.String(), "alice_1")
}

func TestSealOpen(t *testing.T) {
	dir := &fakeDirectory{}
	app, out := newTestApp(t, &fakeAccount{}, dir)
	ctx := context.Background()

	require.NoError(t, app.Seal(ctx, []string{"bob_1", "hello", "bob"}))
	assert.Equal(t, "bob_1", dir.sealedTo)
	encoded := strings.TrimSpace(out.String())

	raw, err := base58.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "sealed:hello bob", string(raw))

	out.Reset()
	require.NoError(t, app.Open(ctx, []string{"bob_1", encoded}))
	assert.Equal(t, "hello bob\n", out.String())

	assert.Error(t, app.Open(ctx, []string{"bob_1", "0OIl"}))
	assert.ErrorIs(t, app.Seal(ctx, []string{"bob_1"}), errUsage)
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	acc := &fakeAccount{}
	app, _ := newTestApp(t, acc, &fakeDirectory{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go app.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
	require.Eventually(t, func() bool { return app.mode() == ModeOnline }, time.Second, 5*time.Millisecond)
}
