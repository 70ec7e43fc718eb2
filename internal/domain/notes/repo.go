package notes

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, n *Note) error
	ListFor(ctx context.Context, kind Kind, id uuid.UUID, limit, offset int) ([]*Note, int, error)
}
