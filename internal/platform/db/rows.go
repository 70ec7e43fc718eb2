package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optiretail/optiretail/internal/platform/apperr"
)

// DeleteByID removes the row of table with the given id. A missing row is
// reported as a NotFoundError for resource.
func DeleteByID(ctx context.Context, pool *pgxpool.Pool, table, resource string, id uuid.UUID) error {
	tag, err := Conn(ctx, pool).Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound(resource, id)
	}
	return nil
}

// Search runs the count and page queries of qb and scans every row.
func Search[T any](ctx context.Context, pool *pgxpool.Pool, qb *Query, limit, offset int, scan func(pgx.Row) (T, error)) ([]T, int, error) {
	var total int
	if err := Conn(ctx, pool).QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := Conn(ctx, pool).Query(ctx, qb.DataSQL(), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	items, err := Collect(rows, scan)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Collect scans every row and closes rows.
func Collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
