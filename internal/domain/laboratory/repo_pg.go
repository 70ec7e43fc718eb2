package laboratory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/db"
)

type laboratoryRepoPG struct{ pool *pgxpool.Pool }

func NewLaboratoryRepoPG(pool *pgxpool.Pool) LaboratoryRepository {
	return &laboratoryRepoPG{pool: pool}
}

const labCols = `id, name, email, phone, address, created_at, updated_at`

func (r *laboratoryRepoPG) scanLab(row pgx.Row) (*Laboratory, error) {
	var l Laboratory
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Address, &l.CreatedAt, &l.UpdatedAt)
	return &l, err
}

func (r *laboratoryRepoPG) Create(ctx context.Context, l *Laboratory) error {
	l.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO laboratories (id, name, email, phone, address) VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		l.ID, l.Name, l.Email, l.Phone, l.Address).Scan(&l.CreatedAt, &l.UpdatedAt)
}

func (r *laboratoryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Laboratory, error) {
	l, err := r.scanLab(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+labCols+` FROM laboratories WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("laboratory", id)
	}
	return l, err
}

func (r *laboratoryRepoPG) Update(ctx context.Context, l *Laboratory) error {
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE laboratories SET name = $2, email = $3, phone = $4, address = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		l.ID, l.Name, l.Email, l.Phone, l.Address).Scan(&l.UpdatedAt)
}

func (r *laboratoryRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteByID(ctx, r.pool, "laboratories", "laboratory", id)
}

var labSearchParams = map[string]db.ParamConfig{
	"name":  {Type: db.ParamString, Column: "name"},
	"email": {Type: db.ParamEquals, Column: "email"},
}

func (r *laboratoryRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Laboratory, int, error) {
	qb := db.NewQuery("laboratories", labCols)
	qb.ApplyParams(params, labSearchParams)
	qb.ApplySort(params["sort"], "name ASC", labSearchParams)
	return db.Search(ctx, r.pool, qb, limit, offset, r.scanLab)
}

type orderRepoPG struct{ pool *pgxpool.Pool }

func NewOrderRepoPG(pool *pgxpool.Pool) OrderRepository {
	return &orderRepoPG{pool: pool}
}

const orderCols = `id, laboratory_id, prescription_id, sale_id, status, ordered_at, due_date, notes, created_at, updated_at`

func (r *orderRepoPG) scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.LaboratoryID, &o.PrescriptionID, &o.SaleID, &o.Status,
		&o.OrderedAt, &o.DueDate, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *orderRepoPG) Create(ctx context.Context, o *Order) error {
	o.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO lab_orders (id, laboratory_id, prescription_id, sale_id, status, ordered_at, due_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		o.ID, o.LaboratoryID, o.PrescriptionID, o.SaleID, o.Status, o.OrderedAt, o.DueDate, o.Notes,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
}

func (r *orderRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := r.scanOrder(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+orderCols+` FROM lab_orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("lab_order", id)
	}
	return o, err
}

func (r *orderRepoPG) Update(ctx context.Context, o *Order) error {
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE lab_orders SET laboratory_id = $2, prescription_id = $3, sale_id = $4, status = $5,
			ordered_at = $6, due_date = $7, notes = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		o.ID, o.LaboratoryID, o.PrescriptionID, o.SaleID, o.Status, o.OrderedAt, o.DueDate, o.Notes,
	).Scan(&o.UpdatedAt)
}

func (r *orderRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteByID(ctx, r.pool, "lab_orders", "lab_order", id)
}

var orderSearchParams = map[string]db.ParamConfig{
	"laboratory_id":   {Type: db.ParamReference, Column: "laboratory_id"},
	"prescription_id": {Type: db.ParamReference, Column: "prescription_id"},
	"sale_id":         {Type: db.ParamReference, Column: "sale_id"},
	"status":          {Type: db.ParamEquals, Column: "status"},
	"ordered_at":      {Type: db.ParamDate, Column: "ordered_at"},
	"due_date":        {Type: db.ParamDate, Column: "due_date"},
}

func (r *orderRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Order, int, error) {
	qb := db.NewQuery("lab_orders", orderCols)
	qb.ApplyParams(params, orderSearchParams)
	qb.ApplySort(params["sort"], "ordered_at DESC", orderSearchParams)
	return db.Search(ctx, r.pool, qb, limit, offset, r.scanOrder)
}
