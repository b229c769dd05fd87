package form

import (
	"strings"

	"github.com/shopspring/decimal"

	"expenses/internal/apperrors"
	"expenses/internal/core"
)

// FieldName identifies a form field.
type FieldName string

const (
	FieldAmount      FieldName = "amount"
	FieldDate        FieldName = "date"
	FieldDescription FieldName = "description"
)

// Fields lists the form fields in display order.
var Fields = []FieldName{FieldAmount, FieldDate, FieldDescription}

// ParseFieldName maps a wire name onto a field.
func ParseFieldName(s string) (FieldName, bool) {
	switch f := FieldName(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldAmount, FieldDate, FieldDescription:
		return f, true
	default:
		return "", false
	}
}

// Messages shown for an invalid field.
const (
	MsgAmount      = "Amount must be a number up to 10 digits and max 2 decimals."
	MsgDate        = "Date must be in YYYY-MM-DD format."
	MsgDescription = "Description must not be empty and cannot exceed 100 words."
)

// Message returns the user facing message for an invalid field.
func Message(f FieldName) string {
	switch f {
	case FieldAmount:
		return MsgAmount
	case FieldDate:
		return MsgDate
	case FieldDescription:
		return MsgDescription
	}
	return ""
}

// Field is either Valid(value) or Invalid(reason).
type Field[T any] struct {
	value  T
	reason string
	valid  bool
}

func Valid[T any](v T) Field[T] {
	return Field[T]{value: v, valid: true}
}

func Invalid[T any](reason string) Field[T] {
	return Field[T]{reason: reason}
}

func (f Field[T]) IsValid() bool { return f.valid }

// Value returns the parsed value; ok is false for an invalid field.
func (f Field[T]) Value() (v T, ok bool) {
	return f.value, f.valid
}

// Reason is empty for a valid field.
func (f Field[T]) Reason() string { return f.reason }

// Result is the outcome of validating all three fields.
type Result struct {
	Amount      Field[decimal.Decimal]
	Date        Field[core.Date]
	Description Field[string]
}

func (r Result) OK() bool {
	return r.Amount.IsValid() && r.Date.IsValid() && r.Description.IsValid()
}

// Valid reports the validity of a single field.
func (r Result) Valid(f FieldName) bool {
	switch f {
	case FieldAmount:
		return r.Amount.IsValid()
	case FieldDate:
		return r.Date.IsValid()
	case FieldDescription:
		return r.Description.IsValid()
	}
	return false
}

// Payload returns the normalized payload when every field is valid.
func (r Result) Payload() (core.Payload, bool) {
	if !r.OK() {
		return core.Payload{}, false
	}
	amount, _ := r.Amount.Value()
	date, _ := r.Date.Value()
	desc, _ := r.Description.Value()
	return core.Payload{Amount: amount, Date: date, Description: desc}, true
}

// FieldError describes one failing field.
type FieldError struct {
	Field   FieldName `json:"field"`
	Reason  string    `json:"reason"`
	Message string    `json:"message"`
}

// Errors lists the failing fields in display order.
func (r Result) Errors() []FieldError {
	var out []FieldError
	add := func(f FieldName, valid bool, reason string) {
		if !valid {
			out = append(out, FieldError{Field: f, Reason: reason, Message: Message(f)})
		}
	}
	add(FieldAmount, r.Amount.IsValid(), r.Amount.Reason())
	add(FieldDate, r.Date.IsValid(), r.Date.Reason())
	add(FieldDescription, r.Description.IsValid(), r.Description.Reason())
	return out
}

// Err returns a *ValidationError, or nil when the result is OK.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Fields: r.Errors()}
}

// ValidationError is a field scoped submit failure. It is meant to be
// rendered inline, never treated as fatal.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f.Field)
	}
	return "invalid " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

// Has reports whether field f failed.
func (e *ValidationError) Has(f FieldName) bool {
	for _, fe := range e.Fields {
		if fe.Field == f {
			return true
		}
	}
	return false
}
