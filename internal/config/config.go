package config

import (
	"errors"
	"fmt"

	"github.com/realmcfg/runtime/internal/pathutil"
)

// Reader reads a settings file into a Document.
type Reader interface {
	ReadDocument(filepath string) (Document, error)
}

// FileReader reads settings documents from the local filesystem.
// The zero value is ready to use and safe for concurrent use.
type FileReader struct{}

// ReadDocument parses the file at filepath. Any failure is returned as a
// ParseError whose Type tells io, syntax and format problems apart.
func (FileReader) ReadDocument(filepath string) (Document, error) {
	if err := pathutil.ValidateFilePath(filepath); err != nil {
		return nil, ParseError{Path: filepath, Message: err.Error(), Type: ErrorTypeIO}
	}

	result := ParseFile(filepath)
	if !result.IsValid() {
		return nil, result.Errors[0]
	}
	return result.Data, nil
}

// ErrParamNotFound is returned by SneakParam when the file lacks the parameter.
var ErrParamNotFound = errors.New("parameter not found")

// ParamTypeError is returned by SneakParam when the parameter exists but
// holds a value of a different type.
type ParamTypeError struct {
	Name  string
	Want  string
	Value interface{}
}

// Error implements the error interface.
func (e *ParamTypeError) Error() string {
	return fmt.Sprintf("parameter '%s': expected %s, got %T", e.Name, e.Want, e.Value)
}

// SneakParam reads a single top-level parameter from a settings file without
// knowing anything else about the file's schema.
func SneakParam[T any](r Reader, filepath, name string) (T, error) {
	var zero T

	doc, err := r.ReadDocument(filepath)
	if err != nil {
		return zero, err
	}

	raw, ok := doc[name]
	if !ok || raw == nil {
		return zero, fmt.Errorf("%s: '%s': %w", filepath, name, ErrParamNotFound)
	}

	value, ok := convertParam[T](raw)
	if !ok {
		return zero, &ParamTypeError{Name: name, Want: fmt.Sprintf("%T", zero), Value: raw}
	}
	return value, nil
}

// convertParam converts a normalised document value to T. Integer targets
// accept only integral numbers.
func convertParam[T any](raw interface{}) (T, bool) {
	var out T
	switch p := any(&out).(type) {
	case *int:
		f, ok := raw.(float64)
		if !ok || f != float64(int(f)) {
			return out, false
		}
		*p = int(f)
	case *int64:
		f, ok := raw.(float64)
		if !ok || f != float64(int64(f)) {
			return out, false
		}
		*p = int64(f)
	default:
		v, ok := raw.(T)
		if !ok {
			return out, false
		}
		out = v
	}
	return out, true
}
