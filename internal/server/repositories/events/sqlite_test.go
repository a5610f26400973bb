package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/dbx"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"github.com/dmitrijs2005/keyregistry/internal/server/models"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/events"
	"github.com/dmitrijs2005/keyregistry/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendEvent(t *testing.T, repo *events.SQLRepository, username string, kind models.EventKind) int64 {
	t.Helper()
	seq, err := repo.Append(context.Background(), &models.Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Username:  username,
		Slot:      registry.Pubkey{1},
		Owner:     registry.Pubkey{2},
		Actor:     registry.Pubkey{2},
		CreatedAt: time.Unix(1_700_000_000, 0),
	})
	require.NoError(t, err)
	return seq
}

func TestSQLite_SeqIsMonotonic(t *testing.T) {
	repo := events.NewSQLRepository(testutil.OpenSQLite(t), dbx.SQLite)

	a := appendEvent(t, repo, "alice", models.EventRegistered)
	b := appendEvent(t, repo, "bob", models.EventRegistered)
	c := appendEvent(t, repo, "alice", models.EventKeyUpdated)
	assert.Less(t, a, b)
	assert.Less(t, b, c)

	all, err := repo.ListSince(context.Background(), 0, 100)
	require.NoError(t, err)
	require.Len(t, all, 3)

	page, err := repo.ListSince(context.Background(), a, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, b, page[0].Seq)

	alice, err := repo.ListByUsername(context.Background(), "alice", 0, 100)
	require.NoError(t, err)
	require.Len(t, alice, 2)
	assert.Equal(t, models.EventKeyUpdated, alice[1].Kind)
}

func TestSQLite_EventsAreAppendOnly(t *testing.T) {
	db := testutil.OpenSQLite(t)
	repo := events.NewSQLRepository(db, dbx.SQLite)
	seq := appendEvent(t, repo, "alice", models.EventRegistered)

	_, err := db.Exec(`UPDATE events SET username = 'mallory' WHERE seq = ?`, seq)
	require.Error(t, err)

	_, err = db.Exec(`DELETE FROM events WHERE seq = ?`, seq)
	require.Error(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n))
	assert.Equal(t, 1, n)
}
