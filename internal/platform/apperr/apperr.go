package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ErrAuthorizationDenied is returned when an authorization gate rejects a
// request. No validation rule has been evaluated when it is returned.
var ErrAuthorizationDenied = errors.New("this action is unauthorized")

// ValidationError carries every rule violation of a rejected payload, keyed
// by field name. Messages keep the order in which rules were declared.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no violation was recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// First returns the first message recorded for field.
func (e *ValidationError) First(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ConflictError reports a domain state that forbids the requested operation,
// such as starting an appointment while another one is in progress.
type ConflictError struct {
	Message      string
	ResourceType string
	ResourceID   uuid.UUID
}

// NewConflict creates a ConflictError pointing at the conflicting resource.
func NewConflict(message, resourceType string, id uuid.UUID) *ConflictError {
	return &ConflictError{Message: message, ResourceType: resourceType, ResourceID: id}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s (%s %s)", e.Message, e.ResourceType, e.ResourceID)
}

// NotFoundError reports a missing resource addressed directly by the route.
// Missing references inside a payload are validation failures instead.
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFound creates a NotFoundError.
func NewNotFound(resource string, id interface{}) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// PersistenceError wraps a store failure that happened after validation
// passed. It is never retried.
type PersistenceError struct {
	Op  string
	Err error
}

// Persistence wraps err as a PersistenceError unless it is nil or already
// classified.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsPersistence reports whether err is a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
