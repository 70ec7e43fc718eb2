// Package store exposes the record store used by validation rules and
// authorization gates: existence and lookup by named collection.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Collection names a persisted entity set.
type Collection string

const (
	Users                    Collection = "users"
	Patients                 Collection = "patients"
	Appointments             Collection = "appointments"
	Prescriptions            Collection = "prescriptions"
	Sales                    Collection = "sales"
	PartialPayments          Collection = "partial_payments"
	InventoryTransfers       Collection = "inventory_transfers"
	Products                 Collection = "products"
	WarehouseLocations       Collection = "warehouse_locations"
	Warehouses               Collection = "warehouses"
	Laboratories             Collection = "laboratories"
	LabOrders                Collection = "lab_orders"
	Treatments               Collection = "treatments"
	LensTypes                Collection = "lens_types"
	SaleLensPriceAdjustments Collection = "sale_lens_price_adjustments"
	Notes                    Collection = "notes"
	Payrolls                 Collection = "payrolls"
)

// softDeleted lists collections whose rows carry deleted_at. Soft-deleted
// rows are invisible to Exists and Find.
var softDeleted = map[Collection]bool{
	Prescriptions: true,
}

var collections = map[Collection]bool{
	Users: true, Patients: true, Appointments: true, Prescriptions: true,
	Sales: true, PartialPayments: true, InventoryTransfers: true, Products: true,
	WarehouseLocations: true, Warehouses: true, Laboratories: true, LabOrders: true,
	Treatments: true, LensTypes: true, SaleLensPriceAdjustments: true,
	Notes: true, Payrolls: true,
}

// Valid reports whether c is a known collection.
func (c Collection) Valid() bool {
	return collections[c]
}

// Table returns the table backing the collection.
func (c Collection) Table() string {
	return string(c)
}

// ErrNotFound is returned by Find when no live record matches.
var ErrNotFound = errors.New("record not found")

// ErrUnknownCollection is returned for a collection outside the known set.
var ErrUnknownCollection = errors.New("unknown collection")

// Record is a row projected as column -> value.
type Record map[string]interface{}

// Filter is an equality condition on a column.
type Filter struct {
	Column string
	Value  interface{}
}

// Predicate selects records by equality filters, optionally excluding one id.
type Predicate struct {
	Filters   []Filter
	ExcludeID *uuid.UUID
}

// Where starts a predicate with a single equality filter.
func Where(column string, value interface{}) Predicate {
	return Predicate{Filters: []Filter{{Column: column, Value: value}}}
}

// ByID selects the record with the given id.
func ByID(id uuid.UUID) Predicate {
	return Where("id", id)
}

// And adds an equality filter.
func (p Predicate) And(column string, value interface{}) Predicate {
	filters := make([]Filter, 0, len(p.Filters)+1)
	filters = append(filters, p.Filters...)
	p.Filters = append(filters, Filter{Column: column, Value: value})
	return p
}

// Excluding removes the record with id from the match.
func (p Predicate) Excluding(id uuid.UUID) Predicate {
	p.ExcludeID = &id
	return p
}

// Lookup reads the record store. Implementations must treat unknown
// collections as errors rather than empty results.
type Lookup interface {
	Exists(ctx context.Context, c Collection, p Predicate) (bool, error)
	Find(ctx context.Context, c Collection, id uuid.UUID) (Record, error)
}

func checkCollection(c Collection) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	return nil
}
