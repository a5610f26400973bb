package services

import (
	"context"
	"crypto/ed25519"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/keyregistry/internal/common"
	"github.com/dmitrijs2005/keyregistry/internal/dbx"
	"github.com/dmitrijs2005/keyregistry/internal/logging"
	"github.com/dmitrijs2005/keyregistry/internal/server/models"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/keyregistry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteSessions(t *testing.T) (*SessionService, *clock) {
	t.Helper()
	db := testutil.OpenSQLite(t)
	m, err := repomanager.NewSQLRepositoryManager(dbx.SQLite)
	require.NoError(t, err)
	s := NewSessionService(db, m, testConfig(), logging.NewDiscardLogger())
	c := newClock()
	s.now = c.Now
	return s, c
}

func login(t *testing.T, s *SessionService, who signer) *TokenPair {
	t.Helper()
	ctx := context.Background()
	challenge, err := s.Challenge(ctx, who.pub)
	require.NoError(t, err)
	pair, err := s.Login(ctx, who.pub, challenge, ed25519.Sign(who.priv, []byte(challenge)))
	require.NoError(t, err)
	return pair
}

func TestSession_LoginAndAuthorize(t *testing.T) {
	s, _ := newSQLiteSessions(t)
	alice := newSigner(t, 1)

	pair := login(t, s, alice)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	who, err := s.Authorize(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.pub, who)
}

func TestSession_ChallengeRejectsZeroKey(t *testing.T) {
	s, _ := newSQLiteSessions(t)
	var zero signer
	_, err := s.Challenge(context.Background(), zero.pub)
	assert.ErrorIs(t, err, common.ErrInvalidPublicKey)
}

func TestSession_LoginFailures(t *testing.T) {
	s, c := newSQLiteSessions(t)
	alice, mallory := newSigner(t, 1), newSigner(t, 2)
	ctx := context.Background()

	challenge, err := s.Challenge(ctx, alice.pub)
	require.NoError(t, err)

	t.Run("signature by another key", func(t *testing.T) {
		_, err := s.Login(ctx, alice.pub, challenge, ed25519.Sign(mallory.priv, []byte(challenge)))
		assert.ErrorIs(t, err, common.ErrInvalidSignature)
	})

	t.Run("challenge issued to someone else", func(t *testing.T) {
		_, err := s.Login(ctx, mallory.pub, challenge, ed25519.Sign(mallory.priv, []byte(challenge)))
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("forged challenge", func(t *testing.T) {
		forged := "eyJhbGciOiJub25lIn0.e30."
		_, err := s.Login(ctx, alice.pub, forged, ed25519.Sign(alice.priv, []byte(forged)))
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("access token is not a challenge", func(t *testing.T) {
		pair := login(t, s, alice)
		_, err := s.Login(ctx, alice.pub, pair.AccessToken, ed25519.Sign(alice.priv, []byte(pair.AccessToken)))
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("expired challenge", func(t *testing.T) {
		c.Advance(time.Hour)
		_, err := s.Login(ctx, alice.pub, challenge, ed25519.Sign(alice.priv, []byte(challenge)))
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})
}

func TestSession_AccessTokenExpires(t *testing.T) {
	s, c := newSQLiteSessions(t)
	pair := login(t, s, newSigner(t, 1))

	c.Advance(testConfig().AccessTokenValidityDuration + time.Second)

	_, err := s.Authorize(pair.AccessToken)
	require.ErrorIs(t, err, common.ErrTokenExpired)
	assert.Equal(t, "token expired", err.Error())
}

func TestSession_RefreshRotates(t *testing.T) {
	s, c := newSQLiteSessions(t)
	alice := newSigner(t, 1)
	ctx := context.Background()

	first := login(t, s, alice)
	c.Advance(time.Minute)

	second, err := s.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	who, err := s.Authorize(second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.pub, who)

	_, err = s.RefreshToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized, "a refresh token is single-use")
}

func TestSession_RefreshExpired(t *testing.T) {
	s, c := newSQLiteSessions(t)
	pair := login(t, s, newSigner(t, 1))

	c.Advance(testConfig().RefreshTokenValidityDuration)

	_, err := s.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestSession_AuthorizeGarbage(t *testing.T) {
	s, _ := newSQLiteSessions(t)
	_, err := s.Authorize("garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

// --- failure paths with fakes ---

func newFakeSessions(t *testing.T, r *fakeRefreshRepo) (*SessionService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := NewSessionService(db, &fakeRepoManager{refresh: r}, testConfig(), logging.NewDiscardLogger())
	c := newClock()
	s.now = c.Now
	return s, mock
}

func TestRefreshToken_Success(t *testing.T) {
	r := &fakeRefreshRepo{findOut: &models.RefreshToken{Subject: newSigner(t, 1).pub.String(), Expires: newClock().Now().Add(10 * time.Minute)}}
	s, mock := newFakeSessions(t, r)
	mock.ExpectBegin()
	mock.ExpectCommit()

	pair, err := s.RefreshToken(context.Background(), "refresh-xyz")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	require.Len(t, r.created, 1)
	assert.Equal(t, pair.RefreshToken, r.created[0].Token)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshToken_Failures(t *testing.T) {
	valid := &models.RefreshToken{Subject: "pk", Expires: newClock().Now().Add(time.Hour)}
	tests := []struct {
		name string
		repo *fakeRefreshRepo
		want error
	}{
		{"not found", &fakeRefreshRepo{findErr: common.ErrNotFound}, common.ErrUnauthorized},
		{"find error", &fakeRefreshRepo{findErr: errors.New("db")}, nil},
		{"delete error", &fakeRefreshRepo{findOut: valid, delErr: errors.New("db")}, nil},
		{"rotated concurrently", &fakeRefreshRepo{findOut: valid, spent: true}, common.ErrUnauthorized},
		{"create error", &fakeRefreshRepo{findOut: valid, createErr: errors.New("db")}, common.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newFakeSessions(t, tt.repo)
			mock.ExpectBegin()
			mock.ExpectRollback()

			_, err := s.RefreshToken(context.Background(), "tok")
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLogin_PurgeErrorRollsBack(t *testing.T) {
	s, mock := newFakeSessions(t, &fakeRefreshRepo{purgeErr: errors.New("db")})
	alice := newSigner(t, 1)
	mock.ExpectBegin()
	mock.ExpectRollback()

	challenge, err := s.Challenge(context.Background(), alice.pub)
	require.NoError(t, err)
	_, err = s.Login(context.Background(), alice.pub, challenge, ed25519.Sign(alice.priv, []byte(challenge)))
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
