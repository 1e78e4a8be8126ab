package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ParseFile parses a settings file, detecting the format from its extension
// and falling back to content sniffing for unknown extensions.
func ParseFile(filepath string) *ParseResult {
	result := &ParseResult{
		FilePath: filepath,
	}

	content, err := os.ReadFile(filepath)
	if err != nil {
		result.Errors = append(result.Errors, ParseError{
			Path:    filepath,
			Message: fmt.Sprintf("failed to read file: %v", err),
			Type:    ErrorTypeIO,
		})
		return result
	}

	format := DetectFormat(filepath)
	if format == "" {
		format = sniffFormat(string(content))
		if format == "" {
			result.Errors = append(result.Errors, ParseError{
				Path:    filepath,
				Message: "unable to detect settings format: not valid JSON, YAML or TOML",
				Type:    ErrorTypeFormat,
			})
			return result
		}
	}

	parsed := ParseString(string(content), format)
	result.Data = parsed.Data
	result.Errors = parsed.Errors
	result.Format = parsed.Format

	// Update error paths to include file path
	for i := range result.Errors {
		if result.Errors[i].Path == "" {
			result.Errors[i].Path = filepath
		}
	}

	return result
}

// ParseString parses settings content in the given format.
func ParseString(content, format string) *ParseResult {
	switch format {
	case FormatJSON:
		return ParseJSONString(content)
	case FormatYAML:
		return ParseYAMLString(content)
	case FormatTOML:
		return ParseTOMLString(content)
	default:
		return &ParseResult{
			Format: format,
			Errors: []ParseError{{
				Message: fmt.Sprintf("unsupported format: %s", format),
				Type:    ErrorTypeFormat,
			}},
		}
	}
}

// DetectFormat detects the settings format from file extension.
// Returns "json", "yaml", "toml", or empty string if format cannot be detected.
func DetectFormat(filepath string) string {
	ext := strings.ToLower(path.Ext(filepath))
	switch ext {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return ""
	}
}

// sniffFormat guesses the format of content with no telling extension.
// JSON is tried first since it is also valid YAML.
func sniffFormat(content string) string {
	switch {
	case IsJSON(content):
		return FormatJSON
	case IsYAML(content):
		return FormatYAML
	case IsTOML(content):
		return FormatTOML
	default:
		return ""
	}
}

// IsJSON checks if the content appears to be JSON format.
func IsJSON(content string) bool {
	content = strings.TrimSpace(content)
	if content == "" {
		return false
	}
	return strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[")
}

// IsYAML checks if the content parses as a YAML mapping.
func IsYAML(content string) bool {
	content = strings.TrimSpace(stripVersionDirective(content))
	if content == "" {
		return false
	}

	var data map[string]interface{}
	err := yaml.Unmarshal([]byte(content), &data)
	return err == nil && data != nil
}

// IsTOML checks if the content parses as a TOML document.
func IsTOML(content string) bool {
	content = strings.TrimSpace(content)
	if content == "" {
		return false
	}

	var data map[string]interface{}
	_, err := toml.Decode(content, &data)
	return err == nil && len(data) > 0
}

// ============================================================================
// JSON Parsing
// ============================================================================

// ParseJSONString parses JSON content from a string.
func ParseJSONString(content string) *ParseResult {
	result := &ParseResult{
		Format: FormatJSON,
	}

	content = strings.TrimSpace(content)
	if content == "" {
		result.Errors = append(result.Errors, ParseError{
			Message: "empty content: expected JSON object",
			Type:    ErrorTypeSyntax,
		})
		return result
	}

	var data interface{}
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		result.Errors = append(result.Errors, parseJSONError(err, content))
		return result
	}

	return finishParse(result, data, "JSON object")
}

// parseJSONError extracts detailed error information from a JSON unmarshaling error.
func parseJSONError(err error, content string) ParseError {
	parseErr := ParseError{
		Message: err.Error(),
		Type:    ErrorTypeSyntax,
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		parseErr.Offset = syntaxErr.Offset
		parseErr.Line, parseErr.Column = offsetToLineColumn(content, syntaxErr.Offset)
		parseErr.Message = fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxErr.Offset, syntaxErr.Error())
	}

	return parseErr
}

// offsetToLineColumn converts a byte offset to line and column numbers (1-based).
func offsetToLineColumn(content string, offset int64) (line, column int) {
	if offset <= 0 {
		return 1, 1
	}

	line = 1
	column = 1
	for i := int64(0); i < offset && i < int64(len(content)); i++ {
		if content[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// ============================================================================
// YAML Parsing
// ============================================================================

// ParseYAMLString parses YAML content from a string.
func ParseYAMLString(content string) *ParseResult {
	result := &ParseResult{
		Format: FormatYAML,
	}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, ParseError{
			Message: "empty content: expected YAML document",
			Type:    ErrorTypeSyntax,
		})
		return result
	}

	var data interface{}
	if err := yaml.Unmarshal([]byte(stripVersionDirective(content)), &data); err != nil {
		result.Errors = append(result.Errors, parseYAMLError(err))
		return result
	}

	return finishParse(result, data, "YAML mapping")
}

// stripVersionDirective blanks a leading "%YAML:1.0" line as written by
// OpenCV FileStorage. Line numbers are kept.
func stripVersionDirective(content string) string {
	first, rest, found := strings.Cut(content, "\n")
	if !strings.HasPrefix(strings.TrimSpace(first), "%YAML:") {
		return content
	}
	if !found {
		return ""
	}
	return "\n" + rest
}

// parseYAMLError extracts detailed error information from a YAML unmarshaling error.
func parseYAMLError(err error) ParseError {
	parseErr := ParseError{
		Message: err.Error(),
		Type:    ErrorTypeSyntax,
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		parseErr.Message = fmt.Sprintf("YAML type error: %s", strings.Join(typeErr.Errors, "; "))
	}

	// yaml.v3 puts the line into the message: "yaml: line X: ..."
	if strings.Contains(err.Error(), "yaml: line ") {
		var line int
		if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr == nil {
			parseErr.Line = line
		}
	}

	return parseErr
}

// ============================================================================
// TOML Parsing
// ============================================================================

// ParseTOMLString parses TOML content from a string.
func ParseTOMLString(content string) *ParseResult {
	result := &ParseResult{
		Format: FormatTOML,
	}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, ParseError{
			Message: "empty content: expected TOML document",
			Type:    ErrorTypeSyntax,
		})
		return result
	}

	var data map[string]interface{}
	if _, err := toml.Decode(content, &data); err != nil {
		result.Errors = append(result.Errors, parseTOMLError(err, content))
		return result
	}

	return finishParse(result, data, "TOML table")
}

// parseTOMLError extracts line/column from a toml.ParseError.
func parseTOMLError(err error, content string) ParseError {
	parseErr := ParseError{
		Message: err.Error(),
		Type:    ErrorTypeSyntax,
	}

	var tomlErr toml.ParseError
	if errors.As(err, &tomlErr) {
		parseErr.Offset = int64(tomlErr.Position.Start)
		parseErr.Line, parseErr.Column = offsetToLineColumn(content, parseErr.Offset)
		if tomlErr.Position.Line > 0 {
			parseErr.Line = tomlErr.Position.Line
		}
		parseErr.Message = tomlErr.Message
	}

	return parseErr
}

// finishParse checks the decoded value is a mapping and stores its normalised form.
func finishParse(result *ParseResult, data interface{}, expected string) *ParseResult {
	if data == nil {
		result.Errors = append(result.Errors, ParseError{
			Message: fmt.Sprintf("invalid settings: expected %s, got empty document", expected),
			Type:    ErrorTypeFormat,
		})
		return result
	}

	dataMap, ok := normalize(data).(map[string]any)
	if !ok {
		result.Errors = append(result.Errors, ParseError{
			Message: fmt.Sprintf("invalid settings: expected %s, got %T", expected, data),
			Type:    ErrorTypeFormat,
		})
		return result
	}

	result.Data = Document(dataMap)
	return result
}
