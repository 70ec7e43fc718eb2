package store

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Float reads a numeric column. Postgres NUMERIC arrives as pgtype.Numeric,
// double precision as float64.
func (r Record) Float(col string) (float64, bool) {
	switch v := r[col].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	case pgtype.Numeric:
		f, err := v.Float64Value()
		if err != nil || !f.Valid {
			return 0, false
		}
		return f.Float64, true
	}
	return 0, false
}

// UUID reads a uuid column. pgx returns uuid columns as [16]byte when
// scanning into a map.
func (r Record) UUID(col string) (uuid.UUID, bool) {
	switch v := r[col].(type) {
	case uuid.UUID:
		return v, true
	case [16]byte:
		return uuid.UUID(v), true
	case string:
		id, err := uuid.Parse(v)
		return id, err == nil
	}
	return uuid.Nil, false
}

// String reads a text column.
func (r Record) String(col string) (string, bool) {
	s, ok := r[col].(string)
	return s, ok
}
