// Package validation evaluates declared forms against request payloads.
//
// A Form lists fields with ordered rules. Validate runs the form's gate
// first; a denial returns apperr.ErrAuthorizationDenied without evaluating
// any rule. Otherwise every field is checked, failures are collected per
// field in declaration order, and the normalized payload is returned only
// when nothing failed.
package validation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/metrics"
	"github.com/optiretail/optiretail/internal/platform/store"
)

// Messages renders the text of a failed rule.
type Messages interface {
	Message(tag language.Tag, field, rule string, params map[string]string) string
}

// Engine evaluates forms.
type Engine struct {
	lookup   store.Lookup
	messages Messages
	logger   zerolog.Logger
	now      func() time.Time
}

// NewEngine creates an Engine reading existence and uniqueness from lookup.
func NewEngine(lookup store.Lookup, messages Messages, logger zerolog.Logger) *Engine {
	return &Engine{
		lookup:   lookup,
		messages: messages,
		logger:   logger.With().Str("component", "validation").Logger(),
		now:      time.Now,
	}
}

// Lookup returns the record store the engine checks against.
func (e *Engine) Lookup() store.Lookup {
	return e.lookup
}

// Message renders a rule failure the same way Validate does. Services use it
// for checks that can only run after the payload is merged into a record.
func (e *Engine) Message(tag language.Tag, field, rule string, params map[string]string) string {
	return e.messages.Message(tag, field, rule, params)
}

type evaluation struct {
	form   Form
	req    Request
	clean  Input
	failed map[string]bool
	errs   *apperr.ValidationError
}

func (ev *evaluation) fail(e *Engine, field, rule string, params map[string]string) {
	ev.failed[field] = true
	ev.errs.Add(field, e.messages.Message(ev.req.Lang, field, rule, params))
}

// Validate runs form against req and returns the normalized payload. Only
// declared fields that were present in the payload appear in the result.
func (e *Engine) Validate(ctx context.Context, form Form, req Request) (Input, error) {
	gate := form.Gate
	if gate == nil {
		gate = AllowAll()
	}
	ok, err := gate.Allow(ctx, req)
	if err != nil {
		return nil, apperr.Persistence("authorize "+form.Name, err)
	}
	if !ok {
		metrics.RecordAuthorizationDenied(form.Name)
		e.logger.Debug().Str("form", form.Name).Str("user_id", req.Identity.UserID.String()).Msg("authorization denied")
		return nil, apperr.ErrAuthorizationDenied
	}
	if req.Input == nil {
		req.Input = Input{}
	}

	ev := &evaluation{
		form:   form,
		req:    req,
		clean:  make(Input),
		failed: make(map[string]bool),
		errs:   apperr.NewValidationError(),
	}

	// Presence and type first, so cross-field rules can read normalized
	// values of fields declared after them.
	active := make([]Field, 0, len(form.Fields))
	for _, f := range form.Fields {
		if e.normalize(ev, f) {
			active = append(active, f)
		}
	}
	for _, f := range active {
		if err := e.constrain(ctx, ev, f); err != nil {
			return nil, err
		}
	}
	for _, f := range form.Fields {
		if err := e.rescope(ctx, ev, f); err != nil {
			return nil, err
		}
	}

	if !ev.errs.Empty() {
		metrics.RecordValidationFailure(form.Name)
		return nil, ev.errs
	}
	return ev.clean, nil
}

// normalize checks presence and type of f and stores the normalized value.
// It reports whether the remaining rules should run.
func (e *Engine) normalize(ev *evaluation, f Field) bool {
	raw, present := ev.req.Input[f.Name]
	if !present {
		if !f.has(KindOptional) {
			ev.fail(e, f.Name, "required", nil)
		}
		return false
	}

	v := prepare(raw)
	if v == nil {
		switch {
		case f.has(KindNullable):
			ev.clean[f.Name] = nil
		case f.has(KindOptional):
			ev.fail(e, f.Name, "filled", nil)
		default:
			ev.fail(e, f.Name, "required", nil)
		}
		return false
	}

	if kind, ok := f.typeRule(); ok {
		norm, ok := coerce(kind, v)
		if !ok {
			ev.fail(e, f.Name, string(kind), nil)
			return false
		}
		v = norm
	}
	ev.clean[f.Name] = v
	return true
}

func (e *Engine) constrain(ctx context.Context, ev *evaluation, f Field) error {
	v := ev.clean[f.Name]
	for _, r := range f.Rules {
		switch r.Kind {
		case KindIn:
			s := stringOf(v)
			found := false
			for _, allowed := range r.Values {
				if s == allowed {
					found = true
					break
				}
			}
			if !found {
				ev.fail(e, f.Name, "in", nil)
			}

		case KindMin, KindMax:
			n, unit, ok := size(v)
			if !ok {
				continue
			}
			if r.Kind == KindMin && n < r.Bound {
				ev.fail(e, f.Name, "min."+unit, map[string]string{"min": formatNumber(r.Bound)})
			}
			if r.Kind == KindMax && n > r.Bound {
				ev.fail(e, f.Name, "max."+unit, map[string]string{"max": formatNumber(r.Bound)})
			}

		case KindDifferent, KindGt, KindAfter, KindBefore:
			other, ok := e.other(ev, r.Other)
			if !ok {
				continue
			}
			if !compare(r.Kind, v, other) {
				ev.fail(e, f.Name, string(r.Kind), map[string]string{"other": r.Other})
			}

		case KindExists:
			exists, err := e.lookup.Exists(ctx, r.Collection, store.Where(r.Column, v))
			if err != nil {
				return apperr.Persistence("check "+f.Name+" exists", err)
			}
			if !exists {
				ev.fail(e, f.Name, "exists", nil)
			}

		case KindUnique:
			taken, err := e.taken(ctx, ev, f, r, v)
			if err != nil {
				return apperr.Persistence("check "+f.Name+" unique", err)
			}
			if taken {
				key := r.Name
				if key == "" {
					key = "unique"
				}
				ev.fail(e, f.Name, key, nil)
			}

		case KindCheck:
			ok, params, err := r.Fn(ctx, CheckContext{
				Field:   f.Name,
				Value:   v,
				Input:   ev.clean,
				Request: ev.req,
				Lookup:  e.lookup,
			})
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return apperr.Persistence("check "+f.Name+" "+r.Name, err)
			}
			if !ok {
				ev.fail(e, f.Name, r.Name, params)
			}
		}
	}
	return nil
}

// other resolves the comparison operand of a cross-field rule. A missing or
// invalid operand field skips the rule; its own rules report it.
func (e *Engine) other(ev *evaluation, name string) (interface{}, bool) {
	if name == Today {
		y, m, d := e.now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	if ev.failed[name] {
		return nil, false
	}
	v, ok := ev.clean[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func compare(kind Kind, a, b interface{}) bool {
	switch kind {
	case KindDifferent:
		return stringOf(a) != stringOf(b)
	case KindGt:
		x, ok1 := toFloat(a)
		y, ok2 := toFloat(b)
		return ok1 && ok2 && x > y
	case KindAfter, KindBefore:
		x, ok1 := a.(time.Time)
		y, ok2 := b.(time.Time)
		if !ok1 || !ok2 {
			return false
		}
		if kind == KindAfter {
			return x.After(y)
		}
		return x.Before(y)
	}
	return false
}

// rescope runs the scoped unique rules of a field left out of a partial
// update when one of its scope fields was sent. The field's value comes from
// the record being updated and failures are reported under the field.
func (e *Engine) rescope(ctx context.Context, ev *evaluation, f Field) error {
	if ev.req.Input.Has(f.Name) || ev.failed[f.Name] {
		return nil
	}
	for _, r := range f.Rules {
		if r.Kind != KindUnique || r.IgnoreParam == "" || !ev.scopeSent(r) {
			continue
		}
		id, ok := ev.req.Params.UUID(r.IgnoreParam)
		if !ok {
			continue
		}
		current, err := e.lookup.Find(ctx, r.Collection, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return apperr.Persistence("check "+f.Name+" unique", err)
		}
		column := r.Column
		if column == "" {
			column = f.Name
		}
		v, ok := current[column]
		if !ok || v == nil {
			continue
		}
		taken, err := e.taken(ctx, ev, f, r, v)
		if err != nil {
			return apperr.Persistence("check "+f.Name+" unique", err)
		}
		if taken {
			key := r.Name
			if key == "" {
				key = "unique"
			}
			ev.fail(e, f.Name, key, nil)
		}
	}
	return nil
}

func (ev *evaluation) scopeSent(r Rule) bool {
	for _, s := range r.Scopes {
		if _, ok := ev.clean[s.Field]; ok && !ev.failed[s.Field] {
			return true
		}
	}
	return false
}

func (e *Engine) taken(ctx context.Context, ev *evaluation, f Field, r Rule, v interface{}) (bool, error) {
	column := r.Column
	if column == "" {
		column = f.Name
	}
	p := store.Where(column, v)

	var ignoreID uuid.UUID
	var hasIgnore bool
	if r.IgnoreParam != "" {
		ignoreID, hasIgnore = ev.req.Params.UUID(r.IgnoreParam)
		if hasIgnore {
			p = p.Excluding(ignoreID)
		}
	}

	var current store.Record
	for _, s := range r.Scopes {
		if sv, ok := ev.clean[s.Field]; ok && !ev.failed[s.Field] {
			p = p.And(s.Column, sv)
			continue
		}
		if ev.failed[s.Field] || !hasIgnore {
			// No basis for the scope; the scope field reports its own error.
			return false, nil
		}
		if current == nil {
			rec, err := e.lookup.Find(ctx, r.Collection, ignoreID)
			if errors.Is(err, store.ErrNotFound) {
				return false, nil
			}
			if err != nil {
				return false, err
			}
			current = rec
		}
		p = p.And(s.Column, current[s.Column])
	}
	return e.lookup.Exists(ctx, r.Collection, p)
}
