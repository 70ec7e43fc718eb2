// Package catalog holds the priced lens types and treatments offered at the
// counter. Both share one shape and differ only by kind.
package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
	"github.com/optiretail/optiretail/internal/platform/store"
)

// Kind selects the catalog table.
type Kind string

const (
	KindLensType  Kind = "lens_type"
	KindTreatment Kind = "treatment"
)

// Collection returns the store collection of k.
func (k Kind) Collection() store.Collection {
	if k == KindTreatment {
		return store.Treatments
	}
	return store.LensTypes
}

// Entity returns the lifecycle entity of k.
func (k Kind) Entity() lifecycle.Entity {
	return lifecycle.Entity(k)
}

// Item is a lens type or a treatment.
type Item struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Kind        Kind      `db:"-" json:"kind"`
	Name        string    `db:"name" json:"name" mapstructure:"name"`
	Description *string   `db:"description" json:"description,omitempty" mapstructure:"description"`
	Price       float64   `db:"price" json:"price" mapstructure:"price"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (i *Item) Identifier() string { return i.ID.String() }

func (i *Item) ToResource(_ resource.Includes) resource.Document {
	return resource.Document{
		"id":          i.ID,
		"kind":        i.Kind,
		"name":        i.Name,
		"description": i.Description,
		"price":       i.Price,
		"created_at":  i.CreatedAt,
		"updated_at":  i.UpdatedAt,
	}
}
