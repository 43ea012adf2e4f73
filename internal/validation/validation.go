// Package validation collects field-level validation failures for inbound
// DTOs so the API can report every problem in one 422 response.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrFailed is matched by every *Error via errors.Is.
var ErrFailed = errors.New("validation failed")

// FieldError describes one failed constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries all field failures found on a DTO.
type Error struct {
	Fields []FieldError
}

// Error implements error.
func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("%s: %s", ErrFailed, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is(err, ErrFailed) match.
func (e *Error) Unwrap() error {
	return ErrFailed
}

// Validator accumulates failures. The zero value is ready to use.
//
//	var v validation.Validator
//	v.NotBlank("name", dto.Name)
//	v.Length("name", dto.Name, 3, 30)
//	return v.Err()
type Validator struct {
	fields []FieldError
}

// Add records a failure for field.
func (v *Validator) Add(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

// Check records message for field when ok is false.
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.Add(field, message)
	}
}

// NotBlank fails when value is empty or only whitespace.
func (v *Validator) NotBlank(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be blank")
}

// Length fails when value's character count is outside [minLen, maxLen].
// Blank values are left to NotBlank so a missing field reports once.
func (v *Validator) Length(field, value string, minLen, maxLen int) {
	if value == "" {
		return
	}
	n := utf8.RuneCountInString(value)
	v.Check(n >= minLen && n <= maxLen, field, fmt.Sprintf("size must be between %d and %d", minLen, maxLen))
}

// MaxLength fails when value is longer than maxLen characters.
func (v *Validator) MaxLength(field, value string, maxLen int) {
	v.Check(utf8.RuneCountInString(value) <= maxLen, field, fmt.Sprintf("size must be at most %d", maxLen))
}

// NotNull fails when present is false.
func (v *Validator) NotNull(field string, present bool) {
	v.Check(present, field, "must not be null")
}

// Null fails when present is true. Used for ids that the server assigns.
func (v *Validator) Null(field string, present bool) {
	v.Check(!present, field, "must be null")
}

// Valid reports whether no failure has been recorded.
func (v *Validator) Valid() bool {
	return len(v.fields) == 0
}

// Err returns a *Error holding every recorded failure, or nil.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	fields := make([]FieldError, len(v.fields))
	copy(fields, v.fields)
	return &Error{Fields: fields}
}

// Fields returns the field failures carried by err, or nil when err is not
// a validation error.
func Fields(err error) []FieldError {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
