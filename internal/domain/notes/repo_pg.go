package notes

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optiretail/optiretail/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const cols = `id, noteable_type, noteable_id, body, author_id, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.NoteableType, &n.NoteableID, &n.Body, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	return &n, err
}

func (r *repoPG) Create(ctx context.Context, n *Note) error {
	n.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO notes (id, noteable_type, noteable_id, body, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		n.ID, string(n.NoteableType), n.NoteableID, n.Body, n.AuthorID,
	).Scan(&n.CreatedAt, &n.UpdatedAt)
}

func (r *repoPG) ListFor(ctx context.Context, kind Kind, id uuid.UUID, limit, offset int) ([]*Note, int, error) {
	qb := db.NewQuery("notes", cols)
	qb.Where("noteable_type", string(kind))
	qb.Where("noteable_id", id)
	qb.OrderBy("created_at DESC")
	return db.Search(ctx, r.pool, qb, limit, offset, r.scan)
}
