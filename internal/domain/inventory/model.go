package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
)

const (
	EntityWarehouse lifecycle.Entity = "warehouse"
	EntityLocation  lifecycle.Entity = "warehouse_location"
	EntityProduct   lifecycle.Entity = "product"
	EntityTransfer  lifecycle.Entity = "inventory_transfer"
)

// Transfer statuses.
const (
	TransferPending   = "pending"
	TransferInTransit = "in_transit"
	TransferReceived  = "received"
	TransferCancelled = "cancelled"
)

var TransferStatuses = []string{TransferPending, TransferInTransit, TransferReceived, TransferCancelled}

// Warehouse maps to the warehouses table.
type Warehouse struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name" mapstructure:"name"`
	Address   *string   `db:"address" json:"address,omitempty" mapstructure:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (w *Warehouse) Identifier() string { return w.ID.String() }

func (w *Warehouse) ToResource(_ resource.Includes) resource.Document {
	return resource.Document{
		"id":         w.ID,
		"name":       w.Name,
		"address":    w.Address,
		"created_at": w.CreatedAt,
		"updated_at": w.UpdatedAt,
	}
}

// Location is a shelf or bin inside a warehouse. Codes are unique per
// warehouse.
type Location struct {
	ID          uuid.UUID `db:"id" json:"id"`
	WarehouseID uuid.UUID `db:"warehouse_id" json:"warehouse_id" mapstructure:"warehouse_id"`
	Code        string    `db:"code" json:"code" mapstructure:"code"`
	Description *string   `db:"description" json:"description,omitempty" mapstructure:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (l *Location) Identifier() string { return l.ID.String() }

func (l *Location) ToResource(_ resource.Includes) resource.Document {
	return resource.Document{
		"id":           l.ID,
		"warehouse_id": l.WarehouseID,
		"code":         l.Code,
		"description":  l.Description,
		"created_at":   l.CreatedAt,
		"updated_at":   l.UpdatedAt,
	}
}

// Product maps to the products table.
type Product struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	SKU        string     `db:"sku" json:"sku" mapstructure:"sku"`
	Name       string     `db:"name" json:"name" mapstructure:"name"`
	Brand      *string    `db:"brand" json:"brand,omitempty" mapstructure:"brand"`
	Price      float64    `db:"price" json:"price" mapstructure:"price"`
	LensTypeID *uuid.UUID `db:"lens_type_id" json:"lens_type_id,omitempty" mapstructure:"lens_type_id"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

func (p *Product) Identifier() string { return p.ID.String() }

func (p *Product) ToResource(_ resource.Includes) resource.Document {
	return resource.Document{
		"id":           p.ID,
		"sku":          p.SKU,
		"name":         p.Name,
		"brand":        p.Brand,
		"price":        p.Price,
		"lens_type_id": p.LensTypeID,
		"created_at":   p.CreatedAt,
		"updated_at":   p.UpdatedAt,
	}
}

// Transfer moves a quantity of a product between two locations.
type Transfer struct {
	ID                    uuid.UUID `db:"id" json:"id"`
	ProductID             uuid.UUID `db:"product_id" json:"product_id" mapstructure:"product_id"`
	SourceLocationID      uuid.UUID `db:"source_location_id" json:"source_location_id" mapstructure:"source_location_id"`
	DestinationLocationID uuid.UUID `db:"destination_location_id" json:"destination_location_id" mapstructure:"destination_location_id"`
	Quantity              int       `db:"quantity" json:"quantity" mapstructure:"quantity"`
	Status                string    `db:"status" json:"status" mapstructure:"status"`
	Notes                 *string   `db:"notes" json:"notes,omitempty" mapstructure:"notes"`
	RequestedBy           uuid.UUID `db:"requested_by" json:"requested_by"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

func (t *Transfer) Identifier() string { return t.ID.String() }

func (t *Transfer) ToResource(_ resource.Includes) resource.Document {
	return resource.Document{
		"id":                      t.ID,
		"product_id":              t.ProductID,
		"source_location_id":      t.SourceLocationID,
		"destination_location_id": t.DestinationLocationID,
		"quantity":                t.Quantity,
		"status":                  t.Status,
		"notes":                   t.Notes,
		"requested_by":            t.RequestedBy,
		"created_at":              t.CreatedAt,
		"updated_at":              t.UpdatedAt,
	}
}
