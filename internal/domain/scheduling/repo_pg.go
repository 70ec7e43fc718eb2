package scheduling

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/db"
)

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

const apptCols = `id, patient_id, specialist_id, receptionist_id, scheduled_at,
	status, reason, prescription_id, sale_id, started_at, created_at, updated_at`

func (r *appointmentRepoPG) scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.SpecialistID, &a.ReceptionistID,
		&a.ScheduledAt, &a.Status, &a.Reason, &a.PrescriptionID, &a.SaleID,
		&a.StartedAt, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, specialist_id, receptionist_id,
			scheduled_at, status, reason, prescription_id, sale_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.SpecialistID, a.ReceptionistID,
		a.ScheduledAt, a.Status, a.Reason, a.PrescriptionID, a.SaleID).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := r.scanAppt(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("appointment", id)
	}
	return a, err
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE appointments SET patient_id = $2, specialist_id = $3, receptionist_id = $4,
			scheduled_at = $5, status = $6, reason = $7, prescription_id = $8,
			sale_id = $9, started_at = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.PatientID, a.SpecialistID, a.ReceptionistID, a.ScheduledAt,
		a.Status, a.Reason, a.PrescriptionID, a.SaleID, a.StartedAt).Scan(&a.UpdatedAt)
}

func (r *appointmentRepoPG) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("appointment", id)
	}
	return nil
}

func (r *appointmentRepoPG) InProgressFor(ctx context.Context, specialistID, exclude uuid.UUID) (*Appointment, error) {
	a, err := r.scanAppt(db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE specialist_id = $1 AND status = $2 AND id <> $3
		ORDER BY started_at DESC NULLS LAST
		LIMIT 1`, specialistID, StatusInProgress, exclude))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("appointment", id)
	}
	return nil
}

var apptSearchParams = map[string]db.ParamConfig{
	"patient_id":    {Type: db.ParamReference, Column: "patient_id"},
	"specialist_id": {Type: db.ParamReference, Column: "specialist_id"},
	"status":        {Type: db.ParamEquals, Column: "status"},
	"scheduled_at":  {Type: db.ParamDate, Column: "scheduled_at"},
	"date":          {Type: db.ParamDate, Column: "scheduled_at"},
}

func (r *appointmentRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	qb := db.NewQuery("appointments", apptCols)
	qb.ApplyParams(params, apptSearchParams)
	qb.ApplySort(params["sort"], "scheduled_at ASC", apptSearchParams)

	var total int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, qb.DataSQL(), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}
