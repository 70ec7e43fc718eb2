package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optiretail/optiretail/internal/platform/db"
)

// PG is the Postgres Lookup. It joins the request transaction when one is
// bound to the context.
type PG struct {
	pool *pgxpool.Pool
}

// NewPG creates a Postgres-backed Lookup.
func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool}
}

func (s *PG) query(c Collection, cols string, p Predicate) *db.Query {
	q := db.NewQuery(c.Table(), cols)
	for _, f := range p.Filters {
		q.Where(f.Column, f.Value)
	}
	if p.ExcludeID != nil {
		q.WhereNot("id", *p.ExcludeID)
	}
	if softDeleted[c] {
		q.Where("deleted_at", nil)
	}
	return q
}

// Exists reports whether any live record of c matches p.
func (s *PG) Exists(ctx context.Context, c Collection, p Predicate) (bool, error) {
	if err := checkCollection(c); err != nil {
		return false, err
	}
	q := s.query(c, "1", p)
	var exists bool
	if err := db.Conn(ctx, s.pool).QueryRow(ctx, q.ExistsSQL(), q.CountArgs()...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists in %s: %w", c, err)
	}
	return exists, nil
}

// Find loads a live record of c by id as a column map.
func (s *PG) Find(ctx context.Context, c Collection, id uuid.UUID) (Record, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	q := s.query(c, "*", ByID(id))
	rows, err := db.Conn(ctx, s.pool).Query(ctx, q.DataSQL(), q.DataArgs(1, 0)...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c, err)
	}
	return Record(row), nil
}
