// Package records provides the SQL-backed store of username records. The same
// query texts serve PostgreSQL and SQLite; placeholders are rebound per
// dialect.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/common"
	"github.com/dmitrijs2005/keyregistry/internal/dbx"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"github.com/dmitrijs2005/keyregistry/internal/server/models"
)

const (
	createQuery = `
		INSERT INTO records (slot, bump, owner, username, created_at, encryption_key, payer, deposit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
		RETURNING slot`

	getQuery = `
		SELECT slot, bump, owner, username, created_at, encryption_key, payer, deposit
		FROM records
		WHERE slot = ?`

	updateOwnerQuery = `
		UPDATE records SET owner = ?
		WHERE slot = ? AND owner = ?`

	updateKeyQuery = `
		UPDATE records SET encryption_key = ?
		WHERE slot = ? AND owner = ?`

	deleteQuery = `
		DELETE FROM records
		WHERE slot = ? AND owner = ?`
)

// SQLRepository implements Repository over dbx.DBTX (satisfied by *sql.DB
// or *sql.Tx).
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// CreateIfAbsent inserts rec unless its slot or username is already in use.
// It reports false, without error, when the insert was skipped.
func (r *SQLRepository) CreateIfAbsent(ctx context.Context, rec *models.Record) (bool, error) {
	var slot string
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(createQuery),
		rec.Slot, int64(rec.Bump), rec.Owner, rec.Username, rec.CreatedAt.Unix(),
		rec.EncryptionKey, rec.Payer, rec.Deposit,
	).Scan(&slot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

// Get returns the record stored at slot, or common.ErrNotFound.
func (r *SQLRepository) Get(ctx context.Context, slot registry.Pubkey) (*models.Record, error) {
	var (
		rec       models.Record
		bump      int64
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(getQuery), slot).Scan(
		&rec.Slot, &bump, &rec.Owner, &rec.Username, &createdAt,
		&rec.EncryptionKey, &rec.Payer, &rec.Deposit,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	rec.Bump = uint8(bump)
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &rec, nil
}

// UpdateOwner moves the record to newOwner if owner still holds it.
func (r *SQLRepository) UpdateOwner(ctx context.Context, slot, owner, newOwner registry.Pubkey) (bool, error) {
	return r.exec(ctx, updateOwnerQuery, newOwner, slot, owner)
}

// UpdateEncryptionKey replaces the key if owner still holds the record.
func (r *SQLRepository) UpdateEncryptionKey(ctx context.Context, slot, owner registry.Pubkey, key registry.EncryptionKey) (bool, error) {
	return r.exec(ctx, updateKeyQuery, key, slot, owner)
}

// Delete removes the record if owner still holds it.
func (r *SQLRepository) Delete(ctx context.Context, slot, owner registry.Pubkey) (bool, error) {
	return r.exec(ctx, deleteQuery, slot, owner)
}

func (r *SQLRepository) exec(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}
