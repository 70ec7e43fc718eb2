package validation

import (
	"encoding/json"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// prepare trims strings and turns blank strings into null.
func prepare(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		return s
	}
	return v
}

// coerce normalizes v to the Go type of kind:
// string, int64, float64, bool, time.Time or uuid.UUID.
func coerce(kind Kind, v interface{}) (interface{}, bool) {
	switch kind {
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindEmail:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return nil, false
		}
		return strings.ToLower(s), true
	case KindInteger:
		return toInt(v)
	case KindNumeric:
		return toFloat(v)
	case KindBoolean:
		return toBool(v)
	case KindDate:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return nil, false
	case KindUUID:
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, false
		}
		return id, true
	}
	return v, true
}

func toInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return floatToInt(n)
	}
	return 0, false
}

func floatToInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch b {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	case json.Number:
		switch b.String() {
		case "1":
			return true, true
		case "0":
			return false, true
		}
	}
	return false, false
}

// size is the measure Min and Max compare: rune count for strings, the value
// for numbers.
func size(v interface{}) (float64, string, bool) {
	if s, ok := v.(string); ok {
		return float64(utf8.RuneCountInString(s)), "string", true
	}
	if f, ok := toFloat(v); ok {
		return f, "numeric", true
	}
	return 0, "", false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// stringOf renders a normalized value for enum comparison.
func stringOf(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatNumber(x)
	case bool:
		return strconv.FormatBool(x)
	case uuid.UUID:
		return x.String()
	case json.Number:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339)
	}
	return ""
}
