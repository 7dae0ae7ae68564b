package profile

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for profile operations.
var (
	// ErrProfileNotFound indicates no file exists for the requested id.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileValidation indicates the YAML parsed but broke a schema rule.
	ErrProfileValidation = errors.New("profile validation failed")

	// ErrProfileParse indicates the file is not valid YAML.
	ErrProfileParse = errors.New("profile parse failed")
)

// NotFoundError names the missing profile id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("profile %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrProfileNotFound
}

// ParseError wraps a YAML syntax error.
type ParseError struct {
	ProfileID string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("profile %q: invalid YAML: %v", e.ProfileID, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrProfileParse, e.Err}
}

// Line returns the line yaml reported the error on, or 0 when unknown.
func (e *ParseError) Line() int {
	line, _ := splitLine(e.Err.Error())
	return line
}

// Reason returns the yaml error text without its line prefix.
func (e *ParseError) Reason() string {
	_, text := splitLine(e.Err.Error())
	return text
}

// FieldError is one violated schema constraint.
type FieldError struct {
	Field   string
	Message string
	Value   any
}

func (f FieldError) String() string {
	if f.Value != nil {
		return fmt.Sprintf("%s: %s (got: %v)", f.Field, f.Message, f.Value)
	}
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// ValidationError lists every constraint a profile violated.
type ValidationError struct {
	ProfileID string
	Fields    []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return fmt.Sprintf("profile %q failed validation with %d error(s): %s",
		e.ProfileID, len(e.Fields), strings.Join(msgs, "; "))
}

// Is supports errors.Is(err, ErrProfileValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrProfileValidation
}

// HasField reports whether the named field is among the violations.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
