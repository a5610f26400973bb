// Package events stores the audit journal of registry mutations.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/dbx"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"github.com/dmitrijs2005/keyregistry/internal/server/models"
)

// appendLockKey names the transaction-scoped advisory lock that serializes
// appends on Postgres.
const appendLockKey = 7_301_024

const (
	// BIGSERIAL values are taken at insert time but become visible at
	// commit, so two concurrent appenders could publish seq 11 before seq 10.
	// Readers page by seq > cursor and would then skip 10 for good.
	appendLockQuery = `SELECT pg_advisory_xact_lock(?)`

	appendQuery = `
		INSERT INTO events (id, kind, username, slot, owner, new_owner, actor, refund, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING seq`

	selectColumns = `SELECT seq, id, kind, username, slot, owner, new_owner, actor, refund, created_at FROM events`

	listByUsernameQuery = selectColumns + `
		WHERE username = ? AND seq > ?
		ORDER BY seq
		LIMIT ?`

	listSinceQuery = selectColumns + `
		WHERE seq > ?
		ORDER BY seq
		LIMIT ?`
)

// SQLRepository implements Repository over dbx.DBTX.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// Append writes e and returns the sequence number the store assigned to it.
// e.Seq is updated as well. On Postgres it must run inside the transaction
// that performs the mutation: the append lock is held until that commits, so
// sequence numbers become visible in the order they were assigned. SQLite
// already allows a single writer.
func (r *SQLRepository) Append(ctx context.Context, e *models.Event) (int64, error) {
	if r.dialect == dbx.Postgres {
		if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(appendLockQuery), appendLockKey); err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
	}

	var newOwner any
	if e.NewOwner != nil {
		newOwner = e.NewOwner.String()
	}

	var seq int64
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(appendQuery),
		e.ID, string(e.Kind), e.Username, e.Slot, e.Owner, newOwner, e.Actor, e.Refund, e.CreatedAt.Unix(),
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	e.Seq = seq
	return seq, nil
}

// ListByUsername returns up to limit events for username with Seq greater
// than afterSeq, oldest first.
func (r *SQLRepository) ListByUsername(ctx context.Context, username string, afterSeq int64, limit int) ([]*models.Event, error) {
	return r.list(ctx, listByUsernameQuery, username, afterSeq, limit)
}

// ListSince returns up to limit events with Seq greater than afterSeq,
// oldest first.
func (r *SQLRepository) ListSince(ctx context.Context, afterSeq int64, limit int) ([]*models.Event, error) {
	return r.list(ctx, listSinceQuery, afterSeq, limit)
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]*models.Event, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Event
	for rows.Next() {
		var (
			e         models.Event
			kind      string
			newOwner  sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&e.Seq, &e.ID, &kind, &e.Username, &e.Slot, &e.Owner, &newOwner, &e.Actor, &e.Refund, &createdAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		e.Kind = models.EventKind(kind)
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		if newOwner.Valid {
			p, err := registry.ParsePubkey(newOwner.String)
			if err != nil {
				return nil, fmt.Errorf("db error: %w", err)
			}
			e.NewOwner = &p
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
