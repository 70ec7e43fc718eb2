package laboratory

import (
	"time"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
)

const (
	EntityLaboratory lifecycle.Entity = "laboratory"
	EntityLabOrder   lifecycle.Entity = "lab_order"
)

// Lab order statuses, in the order an order moves through them.
const (
	OrderPending   = "pending"
	OrderSent      = "sent"
	OrderInProcess = "in_process"
	OrderReceived  = "received"
	OrderDelivered = "delivered"
)

var OrderStatuses = []string{OrderPending, OrderSent, OrderInProcess, OrderReceived, OrderDelivered}

// Laboratory is an external lens workshop.
type Laboratory struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name" mapstructure:"name"`
	Email     *string   `db:"email" json:"email,omitempty" mapstructure:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty" mapstructure:"phone"`
	Address   *string   `db:"address" json:"address,omitempty" mapstructure:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (l *Laboratory) Identifier() string { return l.ID.String() }

func (l *Laboratory) ToResource(resource.Includes) resource.Document {
	return resource.Document{
		"id":         l.ID,
		"name":       l.Name,
		"email":      l.Email,
		"phone":      l.Phone,
		"address":    l.Address,
		"created_at": l.CreatedAt,
		"updated_at": l.UpdatedAt,
	}
}

// Order is a lens job sent to a laboratory for a prescription.
type Order struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	LaboratoryID   uuid.UUID  `db:"laboratory_id" json:"laboratory_id" mapstructure:"laboratory_id"`
	PrescriptionID uuid.UUID  `db:"prescription_id" json:"prescription_id" mapstructure:"prescription_id"`
	SaleID         *uuid.UUID `db:"sale_id" json:"sale_id,omitempty" mapstructure:"sale_id"`
	Status         string     `db:"status" json:"status" mapstructure:"status"`
	OrderedAt      time.Time  `db:"ordered_at" json:"ordered_at" mapstructure:"ordered_at"`
	DueDate        *time.Time `db:"due_date" json:"due_date,omitempty" mapstructure:"due_date"`
	Notes          *string    `db:"notes" json:"notes,omitempty" mapstructure:"notes"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

func (o *Order) Identifier() string { return o.ID.String() }

func (o *Order) ToResource(resource.Includes) resource.Document {
	return resource.Document{
		"id":              o.ID,
		"laboratory_id":   o.LaboratoryID,
		"prescription_id": o.PrescriptionID,
		"sale_id":         o.SaleID,
		"status":          o.Status,
		"ordered_at":      o.OrderedAt,
		"due_date":        o.DueDate,
		"notes":           o.Notes,
		"created_at":      o.CreatedAt,
		"updated_at":      o.UpdatedAt,
	}
}
