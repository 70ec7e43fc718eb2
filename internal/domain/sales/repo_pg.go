package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/db"
)

// -- Sales --

type saleRepoPG struct{ pool *pgxpool.Pool }

func NewSaleRepoPG(pool *pgxpool.Pool) SaleRepository {
	return &saleRepoPG{pool: pool}
}

const saleCols = `id, patient_id, seller_id, total, balance, status, notes, created_at, updated_at`

func (r *saleRepoPG) scanSale(row pgx.Row) (*Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.PatientID, &s.SellerID, &s.Total, &s.Balance,
		&s.Status, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *saleRepoPG) Create(ctx context.Context, s *Sale) error {
	s.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO sales (id, patient_id, seller_id, total, balance, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		s.ID, s.PatientID, s.SellerID, s.Total, s.Balance, s.Status, s.Notes,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *saleRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Sale, error) {
	s, err := r.scanSale(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+saleCols+` FROM sales WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("sale", id)
	}
	return s, err
}

func (r *saleRepoPG) Update(ctx context.Context, s *Sale) error {
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE sales SET patient_id = $2, seller_id = $3, total = $4, balance = $5,
			status = $6, notes = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		s.ID, s.PatientID, s.SellerID, s.Total, s.Balance, s.Status, s.Notes,
	).Scan(&s.UpdatedAt)
}

func (r *saleRepoPG) ApplyPayment(ctx context.Context, id uuid.UUID, amount float64) (*Sale, error) {
	s, err := r.scanSale(db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE sales SET balance = balance - $2,
			status = CASE WHEN balance - $2 <= 0 THEN 'paid' ELSE status END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+saleCols, id, amount))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("sale", id)
	}
	return s, err
}

func (r *saleRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteByID(ctx, r.pool, "sales", "sale", id)
}

var saleSearchParams = map[string]db.ParamConfig{
	"patient_id": {Type: db.ParamReference, Column: "patient_id"},
	"seller_id":  {Type: db.ParamReference, Column: "seller_id"},
	"status":     {Type: db.ParamEquals, Column: "status"},
	"created_at": {Type: db.ParamDate, Column: "created_at"},
}

func (r *saleRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Sale, int, error) {
	qb := db.NewQuery("sales", saleCols)
	qb.ApplyParams(params, saleSearchParams)
	qb.ApplySort(params["sort"], "created_at DESC", saleSearchParams)
	return db.Search(ctx, r.pool, qb, limit, offset, r.scanSale)
}

// -- Partial payments --

type paymentRepoPG struct{ pool *pgxpool.Pool }

func NewPaymentRepoPG(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepoPG{pool: pool}
}

const paymentCols = `id, sale_id, amount, method, reference, received_by, created_at`

func (r *paymentRepoPG) scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.SaleID, &p.Amount, &p.Method, &p.Reference, &p.ReceivedBy, &p.CreatedAt)
	return &p, err
}

func (r *paymentRepoPG) Create(ctx context.Context, p *Payment) error {
	p.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO partial_payments (id, sale_id, amount, method, reference, received_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		p.ID, p.SaleID, p.Amount, p.Method, p.Reference, p.ReceivedBy,
	).Scan(&p.CreatedAt)
}

func (r *paymentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := r.scanPayment(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+paymentCols+` FROM partial_payments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("partial_payment", id)
	}
	return p, err
}

func (r *paymentRepoPG) ListBySale(ctx context.Context, saleID uuid.UUID) ([]*Payment, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		`SELECT `+paymentCols+` FROM partial_payments WHERE sale_id = $1 ORDER BY created_at`, saleID)
	if err != nil {
		return nil, err
	}
	return db.Collect(rows, r.scanPayment)
}

var paymentSearchParams = map[string]db.ParamConfig{
	"sale_id":    {Type: db.ParamReference, Column: "sale_id"},
	"method":     {Type: db.ParamEquals, Column: "method"},
	"created_at": {Type: db.ParamDate, Column: "created_at"},
}

func (r *paymentRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Payment, int, error) {
	qb := db.NewQuery("partial_payments", paymentCols)
	qb.ApplyParams(params, paymentSearchParams)
	qb.ApplySort(params["sort"], "created_at DESC", paymentSearchParams)
	return db.Search(ctx, r.pool, qb, limit, offset, r.scanPayment)
}

// -- Lens price adjustments --

type adjustmentRepoPG struct{ pool *pgxpool.Pool }

func NewAdjustmentRepoPG(pool *pgxpool.Pool) AdjustmentRepository {
	return &adjustmentRepoPG{pool: pool}
}

const adjustmentCols = `id, sale_id, product_id, adjusted_price, reason, created_at, updated_at`

func (r *adjustmentRepoPG) scanAdjustment(row pgx.Row) (*Adjustment, error) {
	var a Adjustment
	err := row.Scan(&a.ID, &a.SaleID, &a.ProductID, &a.AdjustedPrice, &a.Reason, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *adjustmentRepoPG) Create(ctx context.Context, a *Adjustment) error {
	a.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO sale_lens_price_adjustments (id, sale_id, product_id, adjusted_price, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		a.ID, a.SaleID, a.ProductID, a.AdjustedPrice, a.Reason,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *adjustmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Adjustment, error) {
	a, err := r.scanAdjustment(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+adjustmentCols+` FROM sale_lens_price_adjustments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("sale_lens_price_adjustment", id)
	}
	return a, err
}

func (r *adjustmentRepoPG) Update(ctx context.Context, a *Adjustment) error {
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE sale_lens_price_adjustments SET sale_id = $2, product_id = $3,
			adjusted_price = $4, reason = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.SaleID, a.ProductID, a.AdjustedPrice, a.Reason,
	).Scan(&a.UpdatedAt)
}

func (r *adjustmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteByID(ctx, r.pool, "sale_lens_price_adjustments", "sale_lens_price_adjustment", id)
}

func (r *adjustmentRepoPG) ListBySale(ctx context.Context, saleID uuid.UUID) ([]*Adjustment, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		`SELECT `+adjustmentCols+` FROM sale_lens_price_adjustments WHERE sale_id = $1 ORDER BY created_at`, saleID)
	if err != nil {
		return nil, err
	}
	return db.Collect(rows, r.scanAdjustment)
}

var adjustmentSearchParams = map[string]db.ParamConfig{
	"sale_id":    {Type: db.ParamReference, Column: "sale_id"},
	"product_id": {Type: db.ParamReference, Column: "product_id"},
}

func (r *adjustmentRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Adjustment, int, error) {
	qb := db.NewQuery("sale_lens_price_adjustments", adjustmentCols)
	qb.ApplyParams(params, adjustmentSearchParams)
	qb.ApplySort(params["sort"], "created_at DESC", adjustmentSearchParams)
	return db.Search(ctx, r.pool, qb, limit, offset, r.scanAdjustment)
}


