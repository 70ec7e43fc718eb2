package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/db"
)

type itemRepoPG struct {
	pool  *pgxpool.Pool
	kind  Kind
	table string
}

// NewItemRepoPG returns the repository of kind k.
func NewItemRepoPG(pool *pgxpool.Pool, k Kind) ItemRepository {
	return &itemRepoPG{pool: pool, kind: k, table: k.Collection().Table()}
}

const itemCols = `id, name, description, price, created_at, updated_at`

func (r *itemRepoPG) Kind() Kind { return r.kind }

func (r *itemRepoPG) scanItem(row pgx.Row) (*Item, error) {
	i := Item{Kind: r.kind}
	err := row.Scan(&i.ID, &i.Name, &i.Description, &i.Price, &i.CreatedAt, &i.UpdatedAt)
	return &i, err
}

func (r *itemRepoPG) Create(ctx context.Context, i *Item) error {
	i.ID = uuid.New()
	i.Kind = r.kind
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO `+r.table+` (id, name, description, price)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		i.ID, i.Name, i.Description, i.Price).Scan(&i.CreatedAt, &i.UpdatedAt)
}

func (r *itemRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	i, err := r.scanItem(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+itemCols+` FROM `+r.table+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound(string(r.kind), id)
	}
	return i, err
}

func (r *itemRepoPG) Update(ctx context.Context, i *Item) error {
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE `+r.table+` SET name = $2, description = $3, price = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		i.ID, i.Name, i.Description, i.Price).Scan(&i.UpdatedAt)
}

func (r *itemRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM `+r.table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound(string(r.kind), id)
	}
	return nil
}

var itemSearchParams = map[string]db.ParamConfig{
	"name":       {Type: db.ParamString, Column: "name"},
	"price":      {Type: db.ParamEquals, Column: "price"},
	"created_at": {Type: db.ParamDate, Column: "created_at"},
}

func (r *itemRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Item, int, error) {
	qb := db.NewQuery(r.table, itemCols)
	qb.ApplyParams(params, itemSearchParams)
	qb.ApplySort(params["sort"], "name ASC", itemSearchParams)

	var total int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, qb.DataSQL(), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		i, err := r.scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, i)
	}
	return items, total, rows.Err()
}
