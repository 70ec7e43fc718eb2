package clinical

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/db"
)

type prescriptionRepoPG struct{ pool *pgxpool.Pool }

func NewPrescriptionRepoPG(pool *pgxpool.Pool) PrescriptionRepository {
	return &prescriptionRepoPG{pool: pool}
}

const rxCols = `id, appointment_id, od_sphere, od_cylinder, od_axis,
	os_sphere, os_cylinder, os_axis, addition, pupillary_distance,
	diagnosis, notes, deleted_at, created_at, updated_at`

func (r *prescriptionRepoPG) scanRx(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.AppointmentID, &p.OdSphere, &p.OdCylinder, &p.OdAxis,
		&p.OsSphere, &p.OsCylinder, &p.OsAxis, &p.Addition, &p.PupillaryDistance,
		&p.Diagnosis, &p.Notes, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *prescriptionRepoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO prescriptions (id, appointment_id, od_sphere, od_cylinder, od_axis,
			os_sphere, os_cylinder, os_axis, addition, pupillary_distance, diagnosis, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`,
		p.ID, p.AppointmentID, p.OdSphere, p.OdCylinder, p.OdAxis,
		p.OsSphere, p.OsCylinder, p.OsAxis, p.Addition, p.PupillaryDistance,
		p.Diagnosis, p.Notes).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *prescriptionRepoPG) get(ctx context.Context, id uuid.UUID, trashed bool) (*Prescription, error) {
	cond := `deleted_at IS NULL`
	if trashed {
		cond = `deleted_at IS NOT NULL`
	}
	p, err := r.scanRx(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+rxCols+` FROM prescriptions WHERE id = $1 AND `+cond, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("prescription", id)
	}
	return p, err
}

func (r *prescriptionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return r.get(ctx, id, false)
}

func (r *prescriptionRepoPG) GetTrashed(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return r.get(ctx, id, true)
}

func (r *prescriptionRepoPG) Update(ctx context.Context, p *Prescription) error {
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE prescriptions SET appointment_id = $2, od_sphere = $3, od_cylinder = $4,
			od_axis = $5, os_sphere = $6, os_cylinder = $7, os_axis = $8, addition = $9,
			pupillary_distance = $10, diagnosis = $11, notes = $12, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`,
		p.ID, p.AppointmentID, p.OdSphere, p.OdCylinder, p.OdAxis,
		p.OsSphere, p.OsCylinder, p.OsAxis, p.Addition, p.PupillaryDistance,
		p.Diagnosis, p.Notes).Scan(&p.UpdatedAt)
}

func (r *prescriptionRepoPG) setDeleted(ctx context.Context, id uuid.UUID, deleted bool) error {
	sql := `UPDATE prescriptions SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	if !deleted {
		sql = `UPDATE prescriptions SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL`
	}
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, sql, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("prescription", id)
	}
	return nil
}

func (r *prescriptionRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.setDeleted(ctx, id, true)
}

func (r *prescriptionRepoPG) Restore(ctx context.Context, id uuid.UUID) error {
	return r.setDeleted(ctx, id, false)
}

var rxSearchParams = map[string]db.ParamConfig{
	"appointment_id": {Type: db.ParamReference, Column: "appointment_id"},
	"diagnosis":      {Type: db.ParamString, Column: "diagnosis"},
	"created_at":     {Type: db.ParamDate, Column: "created_at"},
}

func (r *prescriptionRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Prescription, int, error) {
	qb := db.NewQuery("prescriptions", rxCols)
	qb.Where("deleted_at", nil)
	qb.ApplyParams(params, rxSearchParams)
	qb.ApplySort(params["sort"], "created_at DESC", rxSearchParams)

	var total int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, qb.DataSQL(), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		p, err := r.scanRx(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
