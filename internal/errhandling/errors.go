// Package errhandling provides the error taxonomy of settings loading.
// Every load failure is classified into exactly one category; callers treat
// all of them as fatal for the file being loaded.
package errhandling

import (
	"errors"
	"fmt"
	"strings"

	"github.com/realmcfg/runtime/internal/config"
	"github.com/realmcfg/runtime/pkg/settings"
)

// ErrorCategory represents the type/category of a load error.
type ErrorCategory string

// Error categories for classification.
const (
	// CategoryFile represents a missing, unreadable or structurally malformed file.
	CategoryFile ErrorCategory = "file"

	// CategoryMissingType represents a file without a usable type field.
	CategoryMissingType ErrorCategory = "missing_type"

	// CategoryTypeMismatch represents a file whose type differs from the expected kind.
	CategoryTypeMismatch ErrorCategory = "type_mismatch"

	// CategoryUnsupportedKind represents a type outside the loader's kind table.
	CategoryUnsupportedKind ErrorCategory = "unsupported_kind"

	// CategoryField represents missing or invalid parameters of a concrete kind.
	CategoryField ErrorCategory = "field"

	// CategoryUnknown represents unclassified errors.
	CategoryUnknown ErrorCategory = "unknown"
)

// Sentinel errors matched by errors.Is against a LoadError of the same category.
var (
	ErrFileUnreadable   = errors.New("settings file not found or unreadable")
	ErrMissingTypeField = errors.New("settings file has no type field")
	ErrTypeMismatch     = errors.New("settings type mismatch")
	ErrUnsupportedKind  = errors.New("unsupported settings kind")
)

var sentinels = map[ErrorCategory]error{
	CategoryFile:            ErrFileUnreadable,
	CategoryMissingType:     ErrMissingTypeField,
	CategoryTypeMismatch:    ErrTypeMismatch,
	CategoryUnsupportedKind: ErrUnsupportedKind,
}

// LoadError is returned when a settings file is rejected before any
// concrete settings are parsed.
type LoadError struct {
	// Category is the error classification category.
	Category ErrorCategory

	// Path is the settings file path.
	Path string

	// Expected is the kind the caller asked for (empty if none).
	Expected string

	// Declared is the kind found in the file (empty if none).
	Declared string

	// Supported lists the kinds the loader can construct.
	Supported []string

	// Message is a human-readable error message.
	Message string

	// OriginalErr is the underlying error, if any.
	OriginalErr error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("%s error: %s: %s", e.Category, e.Path, e.Message)
}

// Unwrap returns the original error for use with errors.Is and errors.As.
func (e *LoadError) Unwrap() error {
	return e.OriginalErr
}

// Is reports whether target is the sentinel of the error's category.
func (e *LoadError) Is(target error) bool {
	sentinel, ok := sentinels[e.Category]
	return ok && target == sentinel
}

// NewFileError wraps a reader failure.
func NewFileError(path string, originalErr error) *LoadError {
	return &LoadError{
		Category:    CategoryFile,
		Path:        path,
		Message:     describe(originalErr, "file not found or unreadable"),
		OriginalErr: originalErr,
	}
}

// NewMissingTypeError reports a file without a usable type field.
func NewMissingTypeError(path string, originalErr error) *LoadError {
	return &LoadError{
		Category:    CategoryMissingType,
		Path:        path,
		Message:     "missing or invalid 'type' field",
		OriginalErr: originalErr,
	}
}

// NewTypeMismatchError reports a file whose declared kind differs from the expected one.
func NewTypeMismatchError(path, expected, declared string) *LoadError {
	return &LoadError{
		Category: CategoryTypeMismatch,
		Path:     path,
		Expected: expected,
		Declared: declared,
		Message:  fmt.Sprintf("expected type '%s', file declares '%s'", expected, declared),
	}
}

// NewUnsupportedKindError reports a declared kind that has no constructor.
func NewUnsupportedKindError(path, declared string, supported []string) *LoadError {
	return &LoadError{
		Category:  CategoryUnsupportedKind,
		Path:      path,
		Declared:  declared,
		Supported: supported,
		Message: fmt.Sprintf("type '%s' is not supported (supported: %s)",
			declared, strings.Join(supported, ", ")),
	}
}

// ClassifyError returns the category of any load error.
// Nil errors return an empty category.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Category
	}

	var fieldErrs settings.FieldErrors
	var fieldErr *settings.FieldError
	if errors.As(err, &fieldErrs) || errors.As(err, &fieldErr) {
		return CategoryField
	}

	var parseErr config.ParseError
	if errors.As(err, &parseErr) {
		return CategoryFile
	}

	return CategoryUnknown
}

// IsKindError reports whether err rejects the file because of its type tag.
func IsKindError(err error) bool {
	switch ClassifyError(err) {
	case CategoryMissingType, CategoryTypeMismatch, CategoryUnsupportedKind:
		return true
	default:
		return false
	}
}

func describe(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var parseErr config.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf("%s (%s)", parseErr.Message, parseErr.Type)
	}
	return err.Error()
}
