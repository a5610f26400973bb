package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/common"
	"github.com/dmitrijs2005/keyregistry/internal/dbx"
	"github.com/dmitrijs2005/keyregistry/internal/logging"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"github.com/dmitrijs2005/keyregistry/internal/server/auth"
	"github.com/dmitrijs2005/keyregistry/internal/server/config"
	"github.com/dmitrijs2005/keyregistry/internal/server/models"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService authenticates key holders:
//   - Challenge: mint a short-lived token the caller must sign
//   - Login: verify the Ed25519 signature over the challenge and mint tokens
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - Authorize: resolve an access token to the authorizer's public key
type SessionService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	challengeValidityDuration    time.Duration
	logger                       logging.Logger
	now                          func() time.Time
}

// NewSessionService constructs a SessionService using repositories and server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *SessionService {
	return &SessionService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		challengeValidityDuration:    cfg.ChallengeValidityDuration,
		logger:                       l.With("module", "session"),
		now:                          time.Now,
	}
}

// Challenge returns a signed, single-subject challenge for pubkey. The
// caller proves key ownership by signing the returned string.
func (s *SessionService) Challenge(ctx context.Context, pubkey registry.Pubkey) (string, error) {
	if pubkey.IsZero() {
		return "", common.ErrInvalidPublicKey
	}
	challenge, err := auth.GenerateToken(auth.KindChallenge, pubkey.String(), s.jwtSecret, s.now(), s.challengeValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}
	return challenge, nil
}

// Login checks that challenge was issued to pubkey and is still valid, and
// that signature is pubkey's Ed25519 signature over it.
func (s *SessionService) Login(ctx context.Context, pubkey registry.Pubkey, challenge string, signature []byte) (*TokenPair, error) {
	claims, err := auth.ParseToken(challenge, auth.KindChallenge, s.jwtSecret, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}
	if claims.Subject != pubkey.String() {
		return nil, common.ErrUnauthorized
	}
	if !pubkey.Verify([]byte(challenge), signature) {
		s.logger.Warn(ctx, "login with bad signature", "pubkey", pubkey.String())
		return nil, common.ErrInvalidSignature
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if n, err := s.repomanager.RefreshTokens(tx).DeleteExpired(ctx, s.now()); err != nil {
			return fmt.Errorf("error purging refresh tokens: %w", err)
		} else if n > 0 {
			s.logger.Debug(ctx, "purged expired refresh tokens", "count", n)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, pubkey.String(), tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "session started", "pubkey", pubkey.String())
	return pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *SessionService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)

		token, err := repoTx.Find(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrUnauthorized
			}
			return fmt.Errorf("error searching refresh token: %w", err)
		}
		if !token.Expires.After(s.now()) {
			return common.ErrRefreshTokenExpired
		}
		// a concurrent rotation of the same token may have deleted it after
		// our Find; only the caller that removed the row gets a new pair
		deleted, err := repoTx.Delete(ctx, refreshToken)
		if err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		if !deleted {
			return common.ErrUnauthorized
		}

		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.Subject, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Authorize resolves an access token to the public key it was issued to.
func (s *SessionService) Authorize(accessToken string) (registry.Pubkey, error) {
	subject, err := auth.GetSubjectFromToken(accessToken, s.jwtSecret, s.now())
	if err != nil {
		return registry.Pubkey{}, err
	}
	pubkey, err := registry.ParsePubkey(subject)
	if err != nil {
		return registry.Pubkey{}, common.ErrInvalidToken
	}
	return pubkey, nil
}

// --- helpers below ---

func (s *SessionService) generateAccessToken(subject string) (string, error) {
	return auth.GenerateToken(auth.KindAccess, subject, s.jwtSecret, s.now(), s.accessTokenValidityDuration)
}

func (s *SessionService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *SessionService) generateTokenPair(ctx context.Context, subject string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(subject)
	if err != nil {
		return nil, common.ErrInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrInternal
	}
	now := s.now()
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, &models.RefreshToken{
		Token:     refresh,
		Subject:   subject,
		Expires:   now.Add(s.refreshTokenValidityDuration),
		CreatedAt: now,
	}); err != nil {
		return nil, common.ErrInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
