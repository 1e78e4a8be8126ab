package settings

import (
	"fmt"
	"strings"
)

// Field error reasons.
const (
	// ReasonMissing: a required parameter is absent.
	ReasonMissing = "missing"
	// ReasonType: a parameter holds a value of the wrong type.
	ReasonType = "type"
	// ReasonInvalid: a parameter value violates its declared range or enum.
	ReasonInvalid = "invalid"
	// ReasonRule: a cross-field rule does not hold.
	ReasonRule = "rule"
)

// FieldError describes one problem with one parameter of a settings file.
type FieldError struct {
	// Kind is the settings kind being parsed.
	Kind string
	// Param is the offending parameter, empty for document-wide problems.
	Param string
	// Reason categorizes the error (missing, type, invalid, rule).
	Reason string
	// Message is the human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: parameter '%s': %s", e.Kind, e.Param, e.Message)
}

// FieldErrors is the error returned by a failed full parse.
type FieldErrors []*FieldError

// Error implements the error interface.
func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual field errors to errors.As.
func (e FieldErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, fe := range e {
		errs[i] = fe
	}
	return errs
}
