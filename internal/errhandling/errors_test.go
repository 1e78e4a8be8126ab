package errhandling

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/realmcfg/runtime/internal/config"
	"github.com/realmcfg/runtime/pkg/settings"
)

// TestErrorCategory tests error category constants and their string values.
func TestErrorCategory(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected string
	}{
		{CategoryFile, "file"},
		{CategoryMissingType, "missing_type"},
		{CategoryTypeMismatch, "type_mismatch"},
		{CategoryUnsupportedKind, "unsupported_kind"},
		{CategoryField, "field"},
		{CategoryUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if string(tt.category) != tt.expected {
				t.Errorf("ErrorCategory = %v, want %v", tt.category, tt.expected)
			}
		})
	}
}

func TestLoadError_IsSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      *LoadError
		sentinel error
	}{
		{"file", NewFileError("a.yaml", errors.New("boom")), ErrFileUnreadable},
		{"missing type", NewMissingTypeError("a.yaml", nil), ErrMissingTypeField},
		{"mismatch", NewTypeMismatchError("a.yaml", "mosaicing", "densification"), ErrTypeMismatch},
		{"unsupported", NewUnsupportedKindError("a.yaml", "fisheye", []string{"pinhole"}), ErrUnsupportedKind},
	}

	all := []error{ErrFileUnreadable, ErrMissingTypeField, ErrTypeMismatch, ErrUnsupportedKind}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, sentinel := range all {
				got := errors.Is(tt.err, sentinel)
				if got != (sentinel == tt.sentinel) {
					t.Errorf("errors.Is(%v, %v) = %v", tt.err, sentinel, got)
				}
			}
		})
	}
}

func TestLoadError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("configuring stage: %w", NewTypeMismatchError("a.yaml", "mosaicing", "densification"))
	if !errors.Is(err, ErrTypeMismatch) {
		t.Error("expected wrapped LoadError to match ErrTypeMismatch")
	}
}

func TestLoadError_Unwrap(t *testing.T) {
	parseErr := config.ParseError{Path: "a.yaml", Message: "failed to read file", Type: config.ErrorTypeIO}
	err := NewFileError("a.yaml", parseErr)

	var got config.ParseError
	if !errors.As(err, &got) {
		t.Fatal("expected ParseError in chain")
	}
	if got.Type != config.ErrorTypeIO {
		t.Errorf("expected io type, got %s", got.Type)
	}
	if !strings.Contains(err.Error(), "failed to read file (io)") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestNewTypeMismatchError(t *testing.T) {
	err := NewTypeMismatchError("stage.yaml", "pose_estimation", "mosaicing")

	if err.Expected != "pose_estimation" || err.Declared != "mosaicing" {
		t.Errorf("unexpected kinds: %+v", err)
	}
	want := "type_mismatch error: stage.yaml: expected type 'pose_estimation', file declares 'mosaicing'"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNewUnsupportedKindError(t *testing.T) {
	err := NewUnsupportedKindError("camera.yaml", "fisheye", []string{"pinhole"})

	if !strings.Contains(err.Error(), "'fisheye'") || !strings.Contains(err.Error(), "supported: pinhole") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ""},
		{"load error", NewMissingTypeError("a.yaml", nil), CategoryMissingType},
		{"field errors", settings.FieldErrors{{Kind: "pinhole", Param: "fx"}}, CategoryField},
		{"single field error", &settings.FieldError{Kind: "pinhole", Param: "fx"}, CategoryField},
		{"parse error", config.ParseError{Type: config.ErrorTypeSyntax}, CategoryFile},
		{"other", errors.New("boom"), CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsKindError(t *testing.T) {
	if !IsKindError(NewUnsupportedKindError("a", "b", nil)) {
		t.Error("unsupported kind should be a kind error")
	}
	if IsKindError(NewFileError("a", nil)) {
		t.Error("file error should not be a kind error")
	}
	if IsKindError(settings.FieldErrors{{Kind: "pinhole"}}) {
		t.Error("field error should not be a kind error")
	}
}
