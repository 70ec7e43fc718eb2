package payroll

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const cols = `id, user_id, period_start, period_end, base_salary, commissions, deductions, net, notes, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Payroll, error) {
	var p Payroll
	err := row.Scan(&p.ID, &p.UserID, &p.PeriodStart, &p.PeriodEnd, &p.BaseSalary,
		&p.Commissions, &p.Deductions, &p.Net, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Payroll) error {
	p.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO payrolls (id, user_id, period_start, period_end, base_salary, commissions, deductions, net, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		p.ID, p.UserID, p.PeriodStart, p.PeriodEnd, p.BaseSalary, p.Commissions, p.Deductions, p.Net, p.Notes,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Payroll, error) {
	p, err := r.scan(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+cols+` FROM payrolls WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("payroll", id)
	}
	return p, err
}

func (r *repoPG) Update(ctx context.Context, p *Payroll) error {
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE payrolls SET user_id = $2, period_start = $3, period_end = $4, base_salary = $5,
			commissions = $6, deductions = $7, net = $8, notes = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.UserID, p.PeriodStart, p.PeriodEnd, p.BaseSalary, p.Commissions, p.Deductions, p.Net, p.Notes,
	).Scan(&p.UpdatedAt)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteByID(ctx, r.pool, "payrolls", "payroll", id)
}

var searchParams = map[string]db.ParamConfig{
	"user_id":      {Type: db.ParamReference, Column: "user_id"},
	"period_start": {Type: db.ParamDate, Column: "period_start"},
	"period_end":   {Type: db.ParamDate, Column: "period_end"},
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Payroll, int, error) {
	qb := db.NewQuery("payrolls", cols)
	qb.ApplyParams(params, searchParams)
	qb.ApplySort(params["sort"], "period_start DESC", searchParams)
	return db.Search(ctx, r.pool, qb, limit, offset, r.scan)
}
