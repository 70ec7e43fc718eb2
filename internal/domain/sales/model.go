package sales

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/domain/identity"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
)

const (
	EntitySale       lifecycle.Entity = "sale"
	EntityPayment    lifecycle.Entity = "partial_payment"
	EntityAdjustment lifecycle.Entity = "sale_lens_price_adjustment"
)

// Sale statuses.
const (
	StatusOpen      = "open"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

var Statuses = []string{StatusOpen, StatusPaid, StatusCancelled}

// Payment methods.
const (
	MethodCash     = "cash"
	MethodCard     = "card"
	MethodTransfer = "transfer"
)

var Methods = []string{MethodCash, MethodCard, MethodTransfer}

// Sale maps to the sales table. Balance is the amount still owed and is only
// moved by payments and total changes.
type Sale struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id" mapstructure:"patient_id"`
	SellerID  uuid.UUID `db:"seller_id" json:"seller_id" mapstructure:"seller_id"`
	Total     float64   `db:"total" json:"total" mapstructure:"total"`
	Balance   float64   `db:"balance" json:"balance" mapstructure:"-"`
	Status    string    `db:"status" json:"status" mapstructure:"status"`
	Notes     *string   `db:"notes" json:"notes,omitempty" mapstructure:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Patient     *identity.Patient `db:"-" json:"-"`
	Payments    []*Payment        `db:"-" json:"-"`
	Adjustments []*Adjustment     `db:"-" json:"-"`
}

func (s *Sale) Identifier() string { return s.ID.String() }

// Paid returns the amount collected so far.
func (s *Sale) Paid() float64 { return s.Total - s.Balance }

// cents rounds an amount to whole cents so NUMERIC values read back as
// float64 compare exactly.
func cents(f float64) int64 { return int64(math.Round(f * 100)) }

// settle sets the balance to total minus paid and keeps the status in step
// with it: an open sale with nothing owed becomes paid, and a paid sale that
// owes again is reopened. Cancelled sales keep their status.
func (s *Sale) settle(paid float64) {
	owed := cents(s.Total) - cents(paid)
	s.Balance = float64(owed) / 100
	switch {
	case owed <= 0 && s.Status == StatusOpen:
		s.Balance = 0
		s.Status = StatusPaid
	case owed > 0 && s.Status == StatusPaid:
		s.Status = StatusOpen
	}
}

// AcceptsPayments reports whether a payment can be recorded against the sale.
func (s *Sale) AcceptsPayments() bool { return s.Status == StatusOpen }

func (s *Sale) ToResource(in resource.Includes) resource.Document {
	doc := resource.Document{
		"id":         s.ID,
		"patient_id": s.PatientID,
		"seller_id":  s.SellerID,
		"total":      s.Total,
		"balance":    s.Balance,
		"paid":       s.Paid(),
		"status":     s.Status,
		"notes":      s.Notes,
		"created_at": s.CreatedAt,
		"updated_at": s.UpdatedAt,
	}
	if in.Has("patient") && s.Patient != nil {
		doc["patient"] = s.Patient.ToResource(nil)
	}
	if in.Has("payments") {
		doc["payments"] = resource.Collection(s.Payments, nil)
	}
	if in.Has("adjustments") {
		doc["adjustments"] = resource.Collection(s.Adjustments, nil)
	}
	return doc
}

// Payment maps to the partial_payments table.
type Payment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	SaleID     uuid.UUID `db:"sale_id" json:"sale_id" mapstructure:"sale_id"`
	Amount     float64   `db:"amount" json:"amount" mapstructure:"amount"`
	Method     string    `db:"method" json:"method" mapstructure:"method"`
	Reference  *string   `db:"reference" json:"reference,omitempty" mapstructure:"reference"`
	ReceivedBy uuid.UUID `db:"received_by" json:"received_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

func (p *Payment) Identifier() string { return p.ID.String() }

func (p *Payment) ToResource(resource.Includes) resource.Document {
	return resource.Document{
		"id":          p.ID,
		"sale_id":     p.SaleID,
		"amount":      p.Amount,
		"method":      p.Method,
		"reference":   p.Reference,
		"received_by": p.ReceivedBy,
		"created_at":  p.CreatedAt,
	}
}

// Adjustment maps to the sale_lens_price_adjustments table.
type Adjustment struct {
	ID            uuid.UUID `db:"id" json:"id"`
	SaleID        uuid.UUID `db:"sale_id" json:"sale_id" mapstructure:"sale_id"`
	ProductID     uuid.UUID `db:"product_id" json:"product_id" mapstructure:"product_id"`
	AdjustedPrice float64   `db:"adjusted_price" json:"adjusted_price" mapstructure:"adjusted_price"`
	Reason        *string   `db:"reason" json:"reason,omitempty" mapstructure:"reason"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

func (a *Adjustment) Identifier() string { return a.ID.String() }

func (a *Adjustment) ToResource(resource.Includes) resource.Document {
	return resource.Document{
		"id":             a.ID,
		"sale_id":        a.SaleID,
		"product_id":     a.ProductID,
		"adjusted_price": a.AdjustedPrice,
		"reason":         a.Reason,
		"created_at":     a.CreatedAt,
		"updated_at":     a.UpdatedAt,
	}
}
