package notes

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
	"github.com/optiretail/optiretail/internal/platform/store"
)

const EntityNote lifecycle.Entity = "note"

// Kind is the closed set of records a note can be attached to.
type Kind string

const (
	KindPatient           Kind = "patient"
	KindAppointment       Kind = "appointment"
	KindPrescription      Kind = "prescription"
	KindSale              Kind = "sale"
	KindLabOrder          Kind = "lab_order"
	KindInventoryTransfer Kind = "inventory_transfer"
)

type target struct {
	collection store.Collection
	route      string
}

var targets = map[Kind]target{
	KindPatient:           {store.Patients, "patients"},
	KindAppointment:       {store.Appointments, "appointments"},
	KindPrescription:      {store.Prescriptions, "prescriptions"},
	KindSale:              {store.Sales, "sales"},
	KindLabOrder:          {store.LabOrders, "lab-orders"},
	KindInventoryTransfer: {store.InventoryTransfers, "inventory-transfers"},
}

// ParseKind resolves a noteable type tag.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := targets[k]
	return k, ok
}

// Collection returns the store collection holding records of k.
func (k Kind) Collection() store.Collection { return targets[k].collection }

// Route returns the path segment of k's resource.
func (k Kind) Route() string { return targets[k].route }

// Kinds lists every noteable kind in a stable order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(targets))
	for k := range targets {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ValidateKinds checks the noteable table: every kind maps to a known
// collection and routes are distinct. It runs once at startup.
func ValidateKinds() error {
	routes := make(map[string]Kind, len(targets))
	for _, k := range Kinds() {
		t := targets[k]
		if !t.collection.Valid() {
			return fmt.Errorf("noteable %q: unknown collection %q", k, t.collection)
		}
		if t.route == "" {
			return fmt.Errorf("noteable %q: empty route", k)
		}
		if other, dup := routes[t.route]; dup {
			return fmt.Errorf("noteable %q: route %q already used by %q", k, t.route, other)
		}
		routes[t.route] = k
	}
	return nil
}

// Note is free text attached to a patient, appointment, prescription, sale,
// lab order or inventory transfer.
type Note struct {
	ID           uuid.UUID `db:"id" json:"id"`
	NoteableType Kind      `db:"noteable_type" json:"noteable_type"`
	NoteableID   uuid.UUID `db:"noteable_id" json:"noteable_id"`
	Body         string    `db:"body" json:"body" mapstructure:"body"`
	AuthorID     uuid.UUID `db:"author_id" json:"author_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

func (n *Note) Identifier() string { return n.ID.String() }

func (n *Note) ToResource(resource.Includes) resource.Document {
	return resource.Document{
		"id":            n.ID,
		"noteable_type": n.NoteableType,
		"noteable_id":   n.NoteableID,
		"body":          n.Body,
		"author_id":     n.AuthorID,
		"created_at":    n.CreatedAt,
		"updated_at":    n.UpdatedAt,
	}
}
