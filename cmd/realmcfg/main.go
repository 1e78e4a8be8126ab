// Package main provides the CLI entry point for realmcfg.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/realmcfg/runtime/internal/cli"
	"github.com/realmcfg/runtime/internal/errhandling"
	"github.com/realmcfg/runtime/internal/factory"
	"github.com/realmcfg/runtime/internal/logger"
	"github.com/realmcfg/runtime/internal/watcher"
	"github.com/realmcfg/runtime/pkg/settings"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitFieldError   = 1
	ExitFileError    = 2
	ExitKindError    = 3
	ExitRuntimeError = 4
)

// Environment variables providing flag defaults.
const (
	envLogFormat = "REALMCFG_LOG_FORMAT"
	envLogLevel  = "REALMCFG_LOG_LEVEL"
)

var (
	// Build information (set via ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// options holds the flag values of one CLI invocation.
type options struct {
	verbose   bool
	quiet     bool
	logFormat string
	logLevel  string
	logFile   string
	output    string
	watch     bool
	debounce  time.Duration

	format cli.OutputFormat
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	defer logger.CloseLogFile()

	opts := &options{stdout: stdout, stderr: stderr}
	rootCmd := newRootCmd(opts)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	cli.PrintLoadError(stderr, err, opts.verbose, opts.quiet)
	return exitCode(err)
}

// exitCode maps a load error to its exit code.
func exitCode(err error) int {
	if errhandling.IsKindError(err) {
		return ExitKindError
	}
	switch errhandling.ClassifyError(err) {
	case "":
		return ExitSuccess
	case errhandling.CategoryField:
		return ExitFieldError
	case errhandling.CategoryFile:
		return ExitFileError
	default:
		return ExitRuntimeError
	}
}

func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "realmcfg",
		Short: "realmcfg - Type-tagged settings loader for mapping pipelines",
		Long: `realmcfg loads and validates camera and pipeline stage settings files.

Every settings file declares its kind in a top-level "type" field. The
kind is discovered first, checked against the supported kinds, and only
then is the file parsed as that concrete kind.

Settings files may be YAML, JSON or TOML. The format is detected from the
file extension (.yaml, .yml, .json, .toml) or content.

Exit codes:
  0 - Settings are valid
  1 - Invalid parameters (missing, wrong type, failed rule)
  2 - File missing, unreadable or malformed
  3 - Missing type field, type mismatch or unsupported kind
  4 - Other errors (usage, I/O)

Examples:
  # Validate a camera settings file
  realmcfg camera camera.yaml

  # Validate the settings of the mosaicing stage
  realmcfg stage mosaicing stage_settings.yaml

  # Print the parsed settings, defaults included
  realmcfg stage densification densification.yaml --output json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return configure(opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress non-error output")
	flags.StringVar(&opts.logFormat, "log-format", envOr(envLogFormat, "json"), "Log format: json or human (env "+envLogFormat+")")
	flags.StringVar(&opts.logLevel, "log-level", envOr(envLogLevel, "error"), "Log level: debug, info, warn or error (env "+envLogLevel+")")
	flags.StringVar(&opts.logFile, "log-file", "", "Also write JSON logs to this file")
	flags.StringVarP(&opts.output, "output", "o", "", "Print the parsed settings as yaml, json or toml")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "Reload the settings file whenever it changes")
	flags.DurationVar(&opts.debounce, "debounce", watcher.DefaultDebounce, "Quiet period before reloading in watch mode")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(
		newCameraCmd(opts),
		newStageCmd(opts),
		newKindsCmd(opts),
		newSchemaCmd(opts),
		newVersionCmd(opts),
	)
	return rootCmd
}

// configure applies the logging and output flags.
func configure(opts *options) error {
	format, err := cli.ParseOutputFormat(opts.output)
	if err != nil {
		return err
	}
	opts.format = format

	logFormat, err := logger.ParseFormat(opts.logFormat)
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	switch {
	case opts.verbose:
		level = slog.LevelDebug
	case opts.quiet:
		level = slog.LevelError
	}

	if opts.logFile != "" {
		return logger.SetLogFile(opts.logFile, level, logFormat)
	}
	logger.SetLevelAndFormat(level, logFormat)
	return nil
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func newCameraCmd(opts *options) *cobra.Command {
	loader := factory.NewCameraSettingsLoader(nil)

	return &cobra.Command{
		Use:   "camera <settings-file>",
		Short: "Load and validate a camera settings file",
		Long: `Load a camera settings file and validate it as the camera model it declares.

Any supported camera model is accepted. Currently supported: ` + strings.Join(loader.Kinds(), ", ") + `.

Examples:
  realmcfg camera camera.yaml
  realmcfg camera --verbose camera.yaml
  realmcfg camera camera.yaml --output toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return loadAndReport(opts, args[0], func(path string) (settings.Descriptor, error) {
				return loader.Load(path)
			})
		},
	}
}

func newStageCmd(opts *options) *cobra.Command {
	loader := factory.NewStageSettingsLoader(nil)

	return &cobra.Command{
		Use:   "stage <kind> <settings-file>",
		Short: "Load and validate the settings file of a pipeline stage",
		Long: `Load a stage settings file and check that it declares the given stage kind.

Supported kinds: ` + strings.Join(loader.Kinds(), ", ") + `.

Examples:
  realmcfg stage pose_estimation pose_estimation_settings.yaml
  realmcfg stage mosaicing mosaicing_settings.yaml --output yaml`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return loader.Kinds(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(_ *cobra.Command, args []string) error {
			kind := args[0]
			return loadAndReport(opts, args[1], func(path string) (settings.Descriptor, error) {
				return loader.Load(kind, path)
			})
		},
	}
}

// loadFunc loads one settings file.
type loadFunc func(path string) (settings.Descriptor, error)

// loadAndReport loads path once, or keeps reloading it in watch mode.
func loadAndReport(opts *options, path string, load loadFunc) error {
	if !opts.watch {
		return loadOnce(opts, path, load)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchAndReload(ctx, opts, path, load)
}

func loadOnce(opts *options, path string, load loadFunc) error {
	d, err := load(path)
	if err != nil {
		return err
	}
	return cli.PrintSettings(opts.stdout, path, d, cli.OutputOptions{
		Verbose: opts.verbose,
		Quiet:   opts.quiet,
		Format:  opts.format,
	})
}

// watchAndReload reports the file once and again after every change until
// ctx is done. Load errors are printed, not returned.
func watchAndReload(ctx context.Context, opts *options, path string, load loadFunc) error {
	reload := func(path string) {
		if err := loadOnce(opts, path, load); err != nil {
			cli.PrintLoadError(opts.stderr, err, opts.verbose, opts.quiet)
		}
	}

	w, err := watcher.New(path, opts.debounce, reload)
	if err != nil {
		return err
	}

	reload(path)
	if !opts.quiet {
		fmt.Fprintf(opts.stderr, "Watching %s for changes (Ctrl+C to stop)\n", w.Path())
	}
	return w.Run(ctx)
}

func newKindsCmd(opts *options) *cobra.Command {
	camera := factory.NewCameraSettingsLoader(nil)
	stage := factory.NewStageSettingsLoader(nil)

	return &cobra.Command{
		Use:       "kinds [camera|stage]",
		Short:     "List the supported settings kinds",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"camera", "stage"},
		RunE: func(_ *cobra.Command, args []string) error {
			which := ""
			if len(args) == 1 {
				which = args[0]
			}
			if which == "" || which == "camera" {
				cli.PrintKinds(opts.stdout, "camera", camera.Kinds())
			}
			if which == "" || which == "stage" {
				cli.PrintKinds(opts.stdout, "stage", stage.Kinds())
			}
			return nil
		},
	}
}

func newSchemaCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <kind>",
		Short: "Print the JSON schema of a settings kind",
		Long: `Print the embedded JSON schema a settings kind is validated against.

With --verbose, the declared parameters and their defaults are listed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			kind := args[0]
			if opts.verbose {
				params, err := settings.Parameters(kind)
				if err != nil {
					return err
				}
				printParameters(opts.stdout, params)
				return nil
			}

			data, err := settings.GetEmbeddedSchema(kind)
			if err != nil {
				return fmt.Errorf("no schema for kind '%s'", kind)
			}
			_, err = opts.stdout.Write(data)
			return err
		},
	}
}

// printParameters lists parameters in name order; required ones have no default.
func printParameters(w io.Writer, params map[string]any) {
	for _, name := range slices.Sorted(maps.Keys(params)) {
		if v := params[name]; v != nil {
			fmt.Fprintf(w, "  %s (default: %v)\n", name, v)
		} else {
			fmt.Fprintf(w, "  %s (required)\n", name)
		}
	}
}

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print version, commit hash, and build date information.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(opts.stdout, "Version: %s\n", version)
			fmt.Fprintf(opts.stdout, "Commit: %s\n", commit)
			fmt.Fprintf(opts.stdout, "Build Date: %s\n", buildDate)
		},
	}
}
