// Package cli provides CLI output formatting and display functions.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/realmcfg/runtime/internal/config"
	"github.com/realmcfg/runtime/internal/errhandling"
	"github.com/realmcfg/runtime/pkg/settings"
)

// PrintLoadError prints any settings load error to w.
func PrintLoadError(w io.Writer, err error, verbose, quiet bool) {
	if err == nil {
		return
	}

	var fieldErrs settings.FieldErrors
	var fieldErr *settings.FieldError
	var loadErr *errhandling.LoadError

	switch {
	case errors.As(err, &fieldErrs):
		PrintFieldErrors(w, fieldErrs, verbose, quiet)
	case errors.As(err, &fieldErr):
		PrintFieldErrors(w, settings.FieldErrors{fieldErr}, verbose, quiet)
	case errors.As(err, &loadErr):
		printLoadError(w, loadErr, verbose)
	default:
		fmt.Fprintf(w, "✗ %s\n", err)
	}
}

// printLoadError prints a rejected settings file.
func printLoadError(w io.Writer, err *errhandling.LoadError, verbose bool) {
	var parseErr config.ParseError
	if errors.As(err, &parseErr) {
		PrintParseErrors(w, []config.ParseError{parseErr}, verbose)
		return
	}

	fmt.Fprintf(w, "✗ %s: %s\n", err.Path, err.Message)
	if !verbose {
		return
	}
	fmt.Fprintf(w, "    Category: %s\n", err.Category)
	if err.Expected != "" {
		fmt.Fprintf(w, "    Expected: %s\n", err.Expected)
	}
	if err.Declared != "" {
		fmt.Fprintf(w, "    Declared: %s\n", err.Declared)
	}
	if len(err.Supported) > 0 {
		fmt.Fprintf(w, "    Supported: %s\n", strings.Join(err.Supported, ", "))
	}
}

// PrintParseErrors prints parse errors to w.
func PrintParseErrors(w io.Writer, errs []config.ParseError, verbose bool) {
	fmt.Fprintln(w, "✗ Parse errors:")
	for _, err := range errs {
		printSingleParseError(w, err, verbose)
	}
}

// printSingleParseError prints a single parse error with location information.
func printSingleParseError(w io.Writer, err config.ParseError, verbose bool) {
	location := formatErrorLocation(err.Path, err.Line, err.Column)

	if location != "" {
		fmt.Fprintf(w, "  %s: %s\n", location, err.Message)
	} else {
		fmt.Fprintf(w, "  %s\n", err.Message)
	}

	if verbose && err.Type != "" {
		fmt.Fprintf(w, "    Type: %s\n", err.Type)
	}
}

// formatErrorLocation formats the error location string (path:line:column).
func formatErrorLocation(path string, line, column int) string {
	if path == "" {
		return ""
	}

	location := path
	if line > 0 {
		location += fmt.Sprintf(":%d", line)
		if column > 0 {
			location += fmt.Sprintf(":%d", column)
		}
	}
	return location
}

// PrintFieldErrors prints the parameter errors of a concrete settings kind.
func PrintFieldErrors(w io.Writer, errs settings.FieldErrors, verbose, quiet bool) {
	kind := ""
	if len(errs) > 0 {
		kind = errs[0].Kind
	}
	if kind != "" {
		fmt.Fprintf(w, "✗ Invalid %s settings:\n", kind)
	} else {
		fmt.Fprintln(w, "✗ Invalid settings:")
	}

	for _, err := range errs {
		printSingleFieldError(w, err, verbose)
	}
	printValidationHint(w, verbose, quiet)
}

// printSingleFieldError prints a single parameter error.
func printSingleFieldError(w io.Writer, err *settings.FieldError, verbose bool) {
	param := err.Param
	if param == "" {
		param = "/"
	}

	if verbose {
		printVerboseFieldError(w, param, err)
	} else {
		printCompactFieldError(w, param, err.Message)
	}
}

// printVerboseFieldError prints detailed parameter error information.
func printVerboseFieldError(w io.Writer, param string, err *settings.FieldError) {
	fmt.Fprintf(w, "  %s:\n", param)
	fmt.Fprintf(w, "    Message: %s\n", err.Message)
	if err.Reason != "" {
		fmt.Fprintf(w, "    Reason: %s\n", err.Reason)
	}
}

// printCompactFieldError prints a compact parameter error message.
func printCompactFieldError(w io.Writer, param, message string) {
	shortMsg := message
	if utf8.RuneCountInString(shortMsg) > 80 {
		shortMsg = string([]rune(shortMsg)[:77]) + "..."
	}
	fmt.Fprintf(w, "  %s: %s\n", param, shortMsg)
}

// printValidationHint prints a hint about verbose mode.
func printValidationHint(w io.Writer, verbose, quiet bool) {
	if !verbose && !quiet {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Hint: Use --verbose for detailed error information")
	}
}
