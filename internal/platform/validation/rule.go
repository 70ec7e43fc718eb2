package validation

import (
	"context"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/store"
)

// Kind tags a rule value.
type Kind string

const (
	KindOptional  Kind = "optional"
	KindNullable  Kind = "nullable"
	KindString    Kind = "string"
	KindInteger   Kind = "integer"
	KindNumeric   Kind = "numeric"
	KindBoolean   Kind = "boolean"
	KindDate      Kind = "date"
	KindUUID      Kind = "uuid"
	KindEmail     Kind = "email"
	KindIn        Kind = "in"
	KindMin       Kind = "min"
	KindMax       Kind = "max"
	KindDifferent Kind = "different"
	KindGt        Kind = "gt"
	KindAfter     Kind = "after"
	KindBefore    Kind = "before"
	KindExists    Kind = "exists"
	KindUnique    Kind = "unique"
	KindCheck     Kind = "check"
)

// typeKinds normalize the raw value. A field carries at most one.
var typeKinds = map[Kind]bool{
	KindString: true, KindInteger: true, KindNumeric: true, KindBoolean: true,
	KindDate: true, KindUUID: true, KindEmail: true,
}

// Today is the Other value of a date comparison against the current day.
const Today = "today"

// Scope narrows a uniqueness rule to records sharing the value of Field in
// column Column.
type Scope struct {
	Column string
	Field  string
}

// Rule is a single declared constraint on a field.
type Rule struct {
	Kind Kind

	// In
	Values []string
	// Min, Max
	Bound float64
	// Different, Gt, After, Before: another field name, or Today.
	Other string

	// Exists, Unique
	Collection  store.Collection
	Column      string
	IgnoreParam string
	Scopes      []Scope

	// Check; on Unique, an optional message key replacing "unique".
	Name string
	Fn   CheckFunc
}

// CheckFunc is a custom predicate. It returns ok=false with optional message
// params when the value is rejected. Returning an error wrapping
// store.ErrNotFound skips the rule; any other error aborts validation.
type CheckFunc func(ctx context.Context, cc CheckContext) (ok bool, params map[string]string, err error)

// CheckContext is handed to custom predicates.
type CheckContext struct {
	Field   string
	Value   interface{}
	Input   Input
	Request Request
	Lookup  store.Lookup
}

// UUID returns the normalized uuid of another field in the payload.
func (cc CheckContext) UUID(field string) (uuid.UUID, bool) {
	id, ok := cc.Input[field].(uuid.UUID)
	return id, ok
}

// Float returns the normalized value as a float64.
func (cc CheckContext) Float() (float64, bool) {
	return toFloat(cc.Value)
}

func Optional() Rule { return Rule{Kind: KindOptional} }
func Nullable() Rule { return Rule{Kind: KindNullable} }
func String() Rule { return Rule{Kind: KindString} }
func Integer() Rule { return Rule{Kind: KindInteger} }
func Numeric() Rule { return Rule{Kind: KindNumeric} }
func Boolean() Rule { return Rule{Kind: KindBoolean} }
func Date() Rule { return Rule{Kind: KindDate} }
func UUID() Rule { return Rule{Kind: KindUUID} }
func Email() Rule { return Rule{Kind: KindEmail} }

func In(values ...string) Rule { return Rule{Kind: KindIn, Values: values} }

// Min bounds string length or numeric value from below, inclusive.
func Min(n float64) Rule { return Rule{Kind: KindMin, Bound: n} }

// Max bounds string length or numeric value from above, inclusive.
func Max(n float64) Rule { return Rule{Kind: KindMax, Bound: n} }

func Different(other string) Rule { return Rule{Kind: KindDifferent, Other: other} }
func Gt(other string) Rule { return Rule{Kind: KindGt, Other: other} }
func After(other string) Rule { return Rule{Kind: KindAfter, Other: other} }
func Before(other string) Rule { return Rule{Kind: KindBefore, Other: other} }

// Exists requires a live record in c whose id equals the value.
func Exists(c store.Collection) Rule {
	return Rule{Kind: KindExists, Collection: c, Column: "id"}
}

// Unique requires no other record in c with the same value in column. An
// empty column defaults to the field name.
func Unique(c store.Collection, column string) Rule {
	return Rule{Kind: KindUnique, Collection: c, Column: column}
}

// Ignore excludes the record whose id is the named route parameter.
func (r Rule) Ignore(param string) Rule {
	r.IgnoreParam = param
	return r
}

// Scoped restricts uniqueness to records whose column equals the value of
// field. When field is absent from the payload, the value is read from the
// record excluded by Ignore.
func (r Rule) Scoped(column, field string) Rule {
	scopes := make([]Scope, 0, len(r.Scopes)+1)
	scopes = append(scopes, r.Scopes...)
	r.Scopes = append(scopes, Scope{Column: column, Field: field})
	return r
}

// As replaces the message key of the rule.
func (r Rule) As(key string) Rule {
	r.Name = key
	return r
}

// Check declares a custom predicate. name is the message key.
func Check(name string, fn CheckFunc) Rule {
	return Rule{Kind: KindCheck, Name: name, Fn: fn}
}

// Positive rejects numbers not strictly greater than zero.
func Positive() Rule {
	return Check("positive", func(_ context.Context, cc CheckContext) (bool, map[string]string, error) {
		f, ok := cc.Float()
		return ok && f > 0, nil, nil
	})
}

// Field is a payload key with its ordered rules.
type Field struct {
	Name  string
	Rules []Rule
}

// F declares a field.
func F(name string, rules ...Rule) Field {
	return Field{Name: name, Rules: rules}
}

func (f Field) has(k Kind) bool {
	for _, r := range f.Rules {
		if r.Kind == k {
			return true
		}
	}
	return false
}

func (f Field) typeRule() (Kind, bool) {
	for _, r := range f.Rules {
		if typeKinds[r.Kind] {
			return r.Kind, true
		}
	}
	return "", false
}

// Form is the declared validation of one mutation.
type Form struct {
	Name   string
	Gate   Gate
	Fields []Field
}

// Partial returns a copy of the form with every field optional, the shape
// of an update that keeps unset fields unchanged.
func (f Form) Partial(name string) Form {
	out := Form{Name: name, Gate: f.Gate, Fields: make([]Field, len(f.Fields))}
	for i, fld := range f.Fields {
		if fld.has(KindOptional) {
			out.Fields[i] = fld
			continue
		}
		rules := make([]Rule, 0, len(fld.Rules)+1)
		rules = append(rules, Optional())
		rules = append(rules, fld.Rules...)
		out.Fields[i] = Field{Name: fld.Name, Rules: rules}
	}
	return out
}

// WithGate returns a copy of the form guarded by g.
func (f Form) WithGate(g Gate) Form {
	f.Gate = g
	return f
}
