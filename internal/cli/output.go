package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/realmcfg/runtime/pkg/settings"
)

// OutputFormat selects how loaded settings are printed.
type OutputFormat string

// Supported output formats.
const (
	OutputSummary OutputFormat = ""
	OutputYAML    OutputFormat = "yaml"
	OutputJSON    OutputFormat = "json"
	OutputTOML    OutputFormat = "toml"
)

// ParseOutputFormat validates an --output value.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(name))); f {
	case OutputSummary, OutputYAML, OutputJSON, OutputTOML:
		return f, nil
	case "yml":
		return OutputYAML, nil
	default:
		return OutputSummary, fmt.Errorf("invalid output format %q (want yaml, json or toml)", name)
	}
}

// OutputOptions configures CLI output behavior.
type OutputOptions struct {
	Verbose bool
	Quiet   bool
	Format  OutputFormat
}

// PrintSettings displays loaded settings. With an output format the full
// parameter set is encoded; otherwise a summary line is printed.
func PrintSettings(w io.Writer, path string, d settings.Descriptor, opts OutputOptions) error {
	if opts.Format != OutputSummary {
		data, err := EncodeSettings(d, opts.Format)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	if opts.Quiet {
		return nil
	}

	fmt.Fprintf(w, "✓ %s settings valid\n", d.Type())
	fmt.Fprintf(w, "  File: %s\n", path)
	fmt.Fprintf(w, "  Parameters: %d\n", len(d.Names()))
	if opts.Verbose {
		printParams(w, d)
	}
	return nil
}

// printParams prints every parameter in name order.
func printParams(w io.Writer, d settings.Descriptor) {
	names := d.Names()
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	for _, name := range names {
		v, _ := d.Param(name)
		fmt.Fprintf(w, "    %-*s = %v\n", width, name, v)
	}
}

// EncodeSettings encodes the parameters of d in the given format.
// Keys are emitted in sorted order by every encoder.
func EncodeSettings(d settings.Descriptor, format OutputFormat) ([]byte, error) {
	params := d.Params()

	switch format {
	case OutputYAML:
		return yaml.Marshal(params)
	case OutputJSON:
		data, err := json.MarshalIndent(params, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case OutputTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(params); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// PrintKinds lists the kinds a loader can construct.
func PrintKinds(w io.Writer, loader string, kinds []string) {
	fmt.Fprintf(w, "%s:\n", loader)
	for _, kind := range kinds {
		fmt.Fprintf(w, "  %s\n", kind)
	}
}
