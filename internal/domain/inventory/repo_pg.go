package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/db"
)



// -- Warehouses --

type warehouseRepoPG struct{ pool *pgxpool.Pool }

func NewWarehouseRepoPG(pool *pgxpool.Pool) WarehouseRepository {
	return &warehouseRepoPG{pool: pool}
}

const warehouseCols = `id, name, address, created_at, updated_at`

func (r *warehouseRepoPG) scanWarehouse(row pgx.Row) (*Warehouse, error) {
	var w Warehouse
	err := row.Scan(&w.ID, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt)
	return &w, err
}

func (r *warehouseRepoPG) Create(ctx context.Context, w *Warehouse) error {
	w.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO warehouses (id, name, address) VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		w.ID, w.Name, w.Address).Scan(&w.CreatedAt, &w.UpdatedAt)
}

func (r *warehouseRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Warehouse, error) {
	w, err := r.scanWarehouse(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+warehouseCols+` FROM warehouses WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("warehouse", id)
	}
	return w, err
}

func (r *warehouseRepoPG) Update(ctx context.Context, w *Warehouse) error {
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE warehouses SET name = $2, address = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		w.ID, w.Name, w.Address).Scan(&w.UpdatedAt)
}

func (r *warehouseRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteByID(ctx, r.pool, "warehouses", "warehouse", id)
}

var warehouseSearchParams = map[string]db.ParamConfig{
	"name": {Type: db.ParamString, Column: "name"},
}

func (r *warehouseRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Warehouse, int, error) {
	qb := db.NewQuery("warehouses", warehouseCols)
	qb.ApplyParams(params, warehouseSearchParams)
	qb.ApplySort(params["sort"], "name ASC", warehouseSearchParams)
	return db.Search(ctx, r.pool, qb, limit, offset, r.scanWarehouse)
}

// -- Locations --

type locationRepoPG struct{ pool *pgxpool.Pool }

func NewLocationRepoPG(pool *pgxpool.Pool) LocationRepository {
	return &locationRepoPG{pool: pool}
}

const locationCols = `id, warehouse_id, code, description, created_at, updated_at`

func (r *locationRepoPG) scanLocation(row pgx.Row) (*Location, error) {
	var l Location
	err := row.Scan(&l.ID, &l.WarehouseID, &l.Code, &l.Description, &l.CreatedAt, &l.UpdatedAt)
	return &l, err
}

func (r *locationRepoPG) Create(ctx context.Context, l *Location) error {
	l.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO warehouse_locations (id, warehouse_id, code, description) VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		l.ID, l.WarehouseID, l.Code, l.Description).Scan(&l.CreatedAt, &l.UpdatedAt)
}

func (r *locationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Location, error) {
	l, err := r.scanLocation(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+locationCols+` FROM warehouse_locations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("warehouse_location", id)
	}
	return l, err
}

func (r *locationRepoPG) Update(ctx context.Context, l *Location) error {
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE warehouse_locations SET warehouse_id = $2, code = $3, description = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		l.ID, l.WarehouseID, l.Code, l.Description).Scan(&l.UpdatedAt)
}

func (r *locationRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteByID(ctx, r.pool, "warehouse_locations", "warehouse_location", id)
}

var locationSearchParams = map[string]db.ParamConfig{
	"warehouse_id": {Type: db.ParamReference, Column: "warehouse_id"},
	"code":         {Type: db.ParamString, Column: "code"},
}

func (r *locationRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Location, int, error) {
	qb := db.NewQuery("warehouse_locations", locationCols)
	qb.ApplyParams(params, locationSearchParams)
	qb.ApplySort(params["sort"], "code ASC", locationSearchParams)
	return db.Search(ctx, r.pool, qb, limit, offset, r.scanLocation)
}

// -- Products --

type productRepoPG struct{ pool *pgxpool.Pool }

func NewProductRepoPG(pool *pgxpool.Pool) ProductRepository {
	return &productRepoPG{pool: pool}
}

const productCols = `id, sku, name, brand, price, lens_type_id, created_at, updated_at`

func (r *productRepoPG) scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Brand, &p.Price, &p.LensTypeID, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *productRepoPG) Create(ctx context.Context, p *Product) error {
	p.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO products (id, sku, name, brand, price, lens_type_id) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, p.SKU, p.Name, p.Brand, p.Price, p.LensTypeID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := r.scanProduct(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("product", id)
	}
	return p, err
}

func (r *productRepoPG) Update(ctx context.Context, p *Product) error {
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE products SET sku = $2, name = $3, brand = $4, price = $5, lens_type_id = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.SKU, p.Name, p.Brand, p.Price, p.LensTypeID).Scan(&p.UpdatedAt)
}

func (r *productRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteByID(ctx, r.pool, "products", "product", id)
}

var productSearchParams = map[string]db.ParamConfig{
	"sku":          {Type: db.ParamEquals, Column: "sku"},
	"name":         {Type: db.ParamString, Column: "name"},
	"brand":        {Type: db.ParamString, Column: "brand"},
	"lens_type_id": {Type: db.ParamReference, Column: "lens_type_id"},
	"price":        {Type: db.ParamEquals, Column: "price"},
}

func (r *productRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Product, int, error) {
	qb := db.NewQuery("products", productCols)
	qb.ApplyParams(params, productSearchParams)
	qb.ApplySort(params["sort"], "name ASC", productSearchParams)
	return db.Search(ctx, r.pool, qb, limit, offset, r.scanProduct)
}

// -- Transfers --

type transferRepoPG struct{ pool *pgxpool.Pool }

func NewTransferRepoPG(pool *pgxpool.Pool) TransferRepository {
	return &transferRepoPG{pool: pool}
}

const transferCols = `id, product_id, source_location_id, destination_location_id,
	quantity, status, notes, requested_by, created_at, updated_at`

func (r *transferRepoPG) scanTransfer(row pgx.Row) (*Transfer, error) {
	var t Transfer
	err := row.Scan(&t.ID, &t.ProductID, &t.SourceLocationID, &t.DestinationLocationID,
		&t.Quantity, &t.Status, &t.Notes, &t.RequestedBy, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *transferRepoPG) Create(ctx context.Context, t *Transfer) error {
	t.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO inventory_transfers (id, product_id, source_location_id, destination_location_id,
			quantity, status, notes, requested_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		t.ID, t.ProductID, t.SourceLocationID, t.DestinationLocationID,
		t.Quantity, t.Status, t.Notes, t.RequestedBy).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *transferRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Transfer, error) {
	t, err := r.scanTransfer(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+transferCols+` FROM inventory_transfers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("inventory_transfer", id)
	}
	return t, err
}

func (r *transferRepoPG) Update(ctx context.Context, t *Transfer) error {
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE inventory_transfers SET product_id = $2, source_location_id = $3,
			destination_location_id = $4, quantity = $5, status = $6, notes = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		t.ID, t.ProductID, t.SourceLocationID, t.DestinationLocationID,
		t.Quantity, t.Status, t.Notes).Scan(&t.UpdatedAt)
}

func (r *transferRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteByID(ctx, r.pool, "inventory_transfers", "inventory_transfer", id)
}

var transferSearchParams = map[string]db.ParamConfig{
	"product_id":              {Type: db.ParamReference, Column: "product_id"},
	"source_location_id":      {Type: db.ParamReference, Column: "source_location_id"},
	"destination_location_id": {Type: db.ParamReference, Column: "destination_location_id"},
	"status":                  {Type: db.ParamEquals, Column: "status"},
	"created_at":              {Type: db.ParamDate, Column: "created_at"},
}

func (r *transferRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Transfer, int, error) {
	qb := db.NewQuery("inventory_transfers", transferCols)
	qb.ApplyParams(params, transferSearchParams)
	qb.ApplySort(params["sort"], "created_at DESC", transferSearchParams)
	return db.Search(ctx, r.pool, qb, limit, offset, r.scanTransfer)
}
