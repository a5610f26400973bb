package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/client/models"
	"github.com/dmitrijs2005/keyregistry/internal/common"
	"github.com/dmitrijs2005/keyregistry/internal/dbx"
)

const contactColumns = `username, slot, bump, owner, payer, encryption_key, deposit, created_at, fetched_at`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, c *models.Contact) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			slot = excluded.slot,
			bump = excluded.bump,
			owner = excluded.owner,
			payer = excluded.payer,
			encryption_key = excluded.encryption_key,
			deposit = excluded.deposit,
			created_at = excluded.created_at,
			fetched_at = excluded.fetched_at
	`, c.Username, c.Slot, c.Bump, c.Owner, c.Payer, c.EncryptionKey, c.Deposit, c.CreatedAt.Unix(), c.FetchedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save contact %s: %w", c.Username, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, username string) (*models.Contact, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE username = ?`, username)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact %s: %w", username, err)
	}
	return c, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var out []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contact rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, username string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE username = ?`, username); err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", username, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(s scanner) (*models.Contact, error) {
	var (
		c                    models.Contact
		createdAt, fetchedAt int64
	)
	if err := s.Scan(&c.Username, &c.Slot, &c.Bump, &c.Owner, &c.Payer, &c.EncryptionKey, &c.Deposit, &createdAt, &fetchedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	c.FetchedAt = time.Unix(fetchedAt, 0).UTC()
	return &c, nil
}
