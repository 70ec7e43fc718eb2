package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ParamType defines how a list filter is translated to SQL.
type ParamType int

const (
	ParamEquals    ParamType = iota // exact match
	ParamReference                  // uuid reference column; invalid ids match nothing
	ParamDate                       // supports gt, lt, ge, le prefixes
	ParamString                     // case-insensitive prefix match
)

// ParamConfig maps a query-string filter to its column.
type ParamConfig struct {
	Type   ParamType
	Column string
}

// Query builds WHERE clauses for list, count and existence queries.
type Query struct {
	table   string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
}

// NewQuery creates a Query for the given table and column list.
func NewQuery(table, cols string) *Query {
	return &Query{table: table, cols: cols, idx: 1}
}

// Idx returns the next positional parameter index.
func (q *Query) Idx() int { return q.idx }

// Add appends a raw clause using $n placeholders starting at Idx().
func (q *Query) Add(clause string, args ...interface{}) {
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// Where adds an equality clause. A nil value matches NULL.
func (q *Query) Where(column string, value interface{}) {
	if value == nil {
		q.where += fmt.Sprintf(" AND %s IS NULL", column)
		return
	}
	q.Add(fmt.Sprintf("%s = $%d", column, q.idx), value)
}

// WhereNot adds an inequality clause.
func (q *Query) WhereNot(column string, value interface{}) {
	q.Add(fmt.Sprintf("%s <> $%d", column, q.idx), value)
}

// AddDate adds a date clause. The value may be prefixed with gt, lt, ge or le.
func (q *Query) AddDate(column, value string) {
	op := "="
	for prefix, sqlOp := range map[string]string{"gt": ">", "lt": "<", "ge": ">=", "le": "<="} {
		if strings.HasPrefix(value, prefix) {
			op, value = sqlOp, value[len(prefix):]
			break
		}
	}
	t, err := parseDate(value)
	if err != nil {
		q.Add(fmt.Sprintf("%s::text = $%d", column, q.idx), value)
		return
	}
	if op == "=" && len(value) == 10 {
		q.Add(fmt.Sprintf("(%s >= $%d AND %s < $%d)", column, q.idx, column, q.idx+1), t, t.Add(24*time.Hour))
		return
	}
	q.Add(fmt.Sprintf("%s %s $%d", column, op, q.idx), t)
}

// AddString adds a case-insensitive prefix match.
func (q *Query) AddString(column, value string) {
	q.Add(fmt.Sprintf("%s ILIKE $%d", column, q.idx), value+"%")
}

// AddRef adds a reference clause on a uuid column.
func (q *Query) AddRef(column, value string) {
	id, err := uuid.Parse(value)
	if err != nil {
		q.where += " AND FALSE"
		return
	}
	q.Where(column, id)
}

// ApplyParams applies every filter present in configs.
func (q *Query) ApplyParams(params map[string]string, configs map[string]ParamConfig) {
	for name, value := range params {
		config, ok := configs[name]
		if !ok {
			continue
		}
		switch config.Type {
		case ParamDate:
			q.AddDate(config.Column, value)
		case ParamString:
			q.AddString(config.Column, value)
		case ParamReference:
			q.AddRef(config.Column, value)
		default:
			q.Where(config.Column, value)
		}
	}
}

// OrderBy sets the ORDER BY clause (without the keyword).
func (q *Query) OrderBy(orderBy string) {
	q.orderBy = orderBy
}

// ApplySort processes a comma separated sort parameter; "-" prefixes sort
// descending. Unknown fields are ignored.
func (q *Query) ApplySort(sortParam, defaultOrder string, configs map[string]ParamConfig) {
	var parts []string
	for _, field := range strings.Split(sortParam, ",") {
		field = strings.TrimSpace(field)
		dir := " ASC"
		if strings.HasPrefix(field, "-") {
			dir = " DESC"
			field = field[1:]
		}
		if config, ok := configs[field]; ok {
			parts = append(parts, config.Column+dir)
		}
	}
	if len(parts) == 0 {
		q.orderBy = defaultOrder
		return
	}
	q.orderBy = strings.Join(parts, ", ")
}

// CountSQL returns the count query.
func (q *Query) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", q.table, q.where)
}

// CountArgs returns the arguments of CountSQL.
func (q *Query) CountArgs() []interface{} {
	return q.args
}

// ExistsSQL returns a query selecting whether any row matches.
func (q *Query) ExistsSQL() string {
	return fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE 1=1%s)", q.table, q.where)
}

// DataSQL returns the data query with ORDER BY and LIMIT/OFFSET.
func (q *Query) DataSQL() string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.table, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", q.idx, q.idx+1)
	return sql
}

// DataArgs returns the arguments of DataSQL.
func (q *Query) DataArgs(limit, offset int) []interface{} {
	result := make([]interface{}, len(q.args)+2)
	copy(result, q.args)
	result[len(q.args)] = limit
	result[len(q.args)+1] = offset
	return result
}

// ExtractParams returns every query-string filter, skipping pagination and
// control parameters (limit, offset, include and anything prefixed with _).
// "sort" is kept for ApplySort; ApplyParams ignores it.
func ExtractParams(c echo.Context) map[string]string {
	params := map[string]string{}
	for k, v := range c.QueryParams() {
		if len(v) == 0 || strings.HasPrefix(k, "_") {
			continue
		}
		switch k {
		case "limit", "offset", "include":
			continue
		}
		params[k] = v[0]
	}
	return params
}

func parseDate(s string) (time.Time, error) {
	for _, f := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
