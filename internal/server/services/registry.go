// Package services contains server-side business logic. RegistryService
// owns the username record lifecycle; SessionService issues the sessions
// that identify the authorizer of each mutation.
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
	"github.com/dmitrijs2005/keyregistry/internal/server/config"
	"github.com/dmitrijs2005/keyregistry/internal/server/models"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	defaultEventsLimit = 100
	maxEventsLimit     = 1000
)

// RegisterParams describes a registration request. Payer funds the deposit;
// Owner receives control of the record. They are usually the same key.
type RegisterParams struct {
	Username      string
	EncryptionKey registry.EncryptionKey
	Payer         registry.Pubkey
	Owner         registry.Pubkey
}

// Availability is the answer to a Check call.
type Availability struct {
	Username  string
	Slot      registry.Pubkey
	Available bool
}

// RegistryService implements register, lookup, transfer, key rotation and
// close for username records. Each mutating call is one transaction that
// also appends an audit event; nothing is cached between calls.
type RegistryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	programID   registry.Pubkey
	depositRate int64
	logger      logging.Logger
	now         func() time.Time
	newID       func() string
}

// NewRegistryService constructs a RegistryService using repositories and
// server config.
func NewRegistryService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) (*RegistryService, error) {
	programID, err := registry.ParsePubkey(cfg.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("program id: %w", err)
	}
	return &RegistryService{
		db:          db,
		repomanager: m,
		programID:   programID,
		depositRate: cfg.DepositRate,
		logger:      l.With("module", "registry"),
		now:         time.Now,
		newID:       uuid.NewString,
	}, nil
}

// ProgramID is the namespace mixed into slot addresses.
func (s *RegistryService) ProgramID() registry.Pubkey {
	return s.programID
}

// Deposit is the escrow a new registration locks.
func (s *RegistryService) Deposit() int64 {
	return registry.DepositFor(registry.RecordSpace, s.depositRate)
}

// Register claims username for p.Owner. It fails with ErrUsernameTaken when
// any case variant of the name is already registered.
func (s *RegistryService) Register(ctx context.Context, p RegisterParams) (*models.Record, error) {
	canonical, slot, bump, err := s.resolve(p.Username)
	if err != nil {
		return nil, err
	}
	if p.Owner.IsZero() || p.Payer.IsZero() {
		return nil, common.ErrInvalidPublicKey
	}

	rec := &models.Record{
		Slot:          slot,
		Bump:          bump,
		Owner:         p.Owner,
		Username:      canonical,
		CreatedAt:     s.now().UTC().Truncate(time.Second),
		EncryptionKey: p.EncryptionKey,
		Payer:         p.Payer,
		Deposit:       s.Deposit(),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Records(tx).CreateIfAbsent(ctx, rec)
		if err != nil {
			return fmt.Errorf("error creating record: %w", err)
		}
		if !created {
			return common.ErrUsernameTaken
		}
		return s.appendEvent(ctx, tx, &models.Event{
			Kind:     models.EventRegistered,
			Username: canonical,
			Slot:     slot,
			Owner:    p.Owner,
			Actor:    p.Payer,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "username registered",
		"username", canonical, "owner", p.Owner.String(), "slot", slot.String())
	return rec, nil
}

// Lookup reads the record for username. When claimedSlot is non-nil it must
// equal the derived slot, otherwise ErrSlotMismatch is returned. An empty
// slot yields ErrNotFound.
func (s *RegistryService) Lookup(ctx context.Context, username string, claimedSlot *registry.Pubkey) (*models.Record, error) {
	_, slot, _, err := s.resolve(username)
	if err != nil {
		return nil, err
	}
	if claimedSlot != nil && *claimedSlot != slot {
		return nil, common.ErrSlotMismatch
	}

	rec, err := s.repomanager.Records(s.db).Get(ctx, slot)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error reading record: %w", err)
	}
	return rec, nil
}

// Check reports whether username is free to register.
func (s *RegistryService) Check(ctx context.Context, username string) (*Availability, error) {
	canonical, slot, _, err := s.resolve(username)
	if err != nil {
		return nil, err
	}

	_, err = s.repomanager.Records(s.db).Get(ctx, slot)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return &Availability{Username: canonical, Slot: slot, Available: true}, nil
	case err != nil:
		return nil, fmt.Errorf("error reading record: %w", err)
	default:
		return &Availability{Username: canonical, Slot: slot, Available: false}, nil
	}
}

// Transfer hands the record to newOwner. Only the current owner may do so.
func (s *RegistryService) Transfer(ctx context.Context, username string, newOwner, authorizer registry.Pubkey) (*models.Record, error) {
	if newOwner.IsZero() {
		return nil, common.ErrInvalidPublicKey
	}

	rec, err := s.mutate(ctx, username, authorizer, func(ctx context.Context, tx dbx.DBTX, rec *models.Record) (*models.Event, error) {
		ok, err := s.repomanager.Records(tx).UpdateOwner(ctx, rec.Slot, authorizer, newOwner)
		if err != nil {
			return nil, fmt.Errorf("error updating owner: %w", err)
		}
		if !ok {
			return nil, common.ErrNotOwner
		}
		rec.Owner = newOwner
		to := newOwner
		return &models.Event{Kind: models.EventTransferred, Owner: authorizer, NewOwner: &to}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "username transferred",
		"username", rec.Username, "old_owner", authorizer.String(), "new_owner", newOwner.String())
	return rec, nil
}

// UpdateEncryptionKey replaces the record's encryption key. Only the current
// owner may do so.
func (s *RegistryService) UpdateEncryptionKey(ctx context.Context, username string, key registry.EncryptionKey, authorizer registry.Pubkey) (*models.Record, error) {
	rec, err := s.mutate(ctx, username, authorizer, func(ctx context.Context, tx dbx.DBTX, rec *models.Record) (*models.Event, error) {
		ok, err := s.repomanager.Records(tx).UpdateEncryptionKey(ctx, rec.Slot, authorizer, key)
		if err != nil {
			return nil, fmt.Errorf("error updating encryption key: %w", err)
		}
		if !ok {
			return nil, common.ErrNotOwner
		}
		rec.EncryptionKey = key
		return &models.Event{Kind: models.EventKeyUpdated, Owner: authorizer}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "encryption key updated", "username", rec.Username)
	return rec, nil
}

// Close deletes the record and releases its deposit to the authorizer. The
// username becomes available immediately.
func (s *RegistryService) Close(ctx context.Context, username string, authorizer registry.Pubkey) (*models.Refund, error) {
	var refund *models.Refund
	rec, err := s.mutate(ctx, username, authorizer, func(ctx context.Context, tx dbx.DBTX, rec *models.Record) (*models.Event, error) {
		ok, err := s.repomanager.Records(tx).Delete(ctx, rec.Slot, authorizer)
		if err != nil {
			return nil, fmt.Errorf("error deleting record: %w", err)
		}
		if !ok {
			return nil, common.ErrNotOwner
		}
		refund = &models.Refund{To: authorizer, Amount: rec.Deposit}
		return &models.Event{Kind: models.EventClosed, Owner: authorizer, Refund: rec.Deposit}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account closed",
		"username", rec.Username, "released_by", authorizer.String(), "refund", refund.Amount)
	return refund, nil
}

// Events returns the audit trail of username ordered by sequence number,
// starting after afterSeq. A non-positive limit selects the default page.
func (s *RegistryService) Events(ctx context.Context, username string, afterSeq int64, limit int) ([]*models.Event, error) {
	canonical, err := registry.Canonicalize(username)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultEventsLimit
	}
	limit = min(limit, maxEventsLimit)

	list, err := s.repomanager.Events(s.db).ListByUsername(ctx, canonical, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	return list, nil
}

// --- helpers below ---

// resolve validates username and derives its slot.
func (s *RegistryService) resolve(username string) (string, registry.Pubkey, uint8, error) {
	canonical, err := registry.Canonicalize(username)
	if err != nil {
		return "", registry.Pubkey{}, 0, err
	}
	slot, bump, err := registry.DeriveSlot(s.programID, canonical)
	if err != nil {
		return "", registry.Pubkey{}, 0, fmt.Errorf("error deriving slot: %w", err)
	}
	return canonical, slot, bump, nil
}

type mutation func(ctx context.Context, tx dbx.DBTX, rec *models.Record) (*models.Event, error)

// mutate runs the owner gate shared by Transfer, UpdateEncryptionKey and
// Close: the record is read inside the transaction, authorizer must be its
// owner, then fn performs the conditional write and describes the event.
func (s *RegistryService) mutate(ctx context.Context, username string, authorizer registry.Pubkey, fn mutation) (*models.Record, error) {
	_, slot, _, err := s.resolve(username)
	if err != nil {
		return nil, err
	}

	var rec *models.Record
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		current, err := s.repomanager.Records(tx).Get(ctx, slot)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrNotFound
			}
			return fmt.Errorf("error reading record: %w", err)
		}
		if current.Owner != authorizer {
			return common.ErrNotOwner
		}

		e, err := fn(ctx, tx, current)
		if err != nil {
			return err
		}
		e.Username = current.Username
		e.Slot = current.Slot
		e.Actor = authorizer
		if err := s.appendEvent(ctx, tx, e); err != nil {
			return err
		}
		rec = current
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrNotOwner) {
			s.logger.Warn(ctx, "rejected mutation by non-owner",
				"username", username, "authorizer", authorizer.String())
		}
		return nil, err
	}
	return rec, nil
}

func (s *RegistryService) appendEvent(ctx context.Context, tx dbx.DBTX, e *models.Event) error {
	e.ID = s.newID()
	e.CreatedAt = s.now().UTC().Truncate(time.Second)
	if _, err := s.repomanager.Events(tx).Append(ctx, e); err != nil {
		return fmt.Errorf("error appending event: %w", err)
	}
	return nil
}
