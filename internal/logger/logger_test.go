package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/realmcfg/runtime/internal/logger"
)

// captureJSON swaps the package logger for a JSON logger writing to buf.
func captureJSON(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	originalLogger := logger.Logger
	t.Cleanup(func() { logger.Logger = originalLogger })

	logger.Logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: level,
	}))
	return &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log output: %v", err)
	}
	return logEntry
}

func TestLoggerInitialization(t *testing.T) {
	if logger.Logger == nil {
		t.Fatal("Logger should be initialized on package load")
	}
}

func TestSetLevelAndFormat(t *testing.T) {
	originalLogger := logger.Logger
	defer func() { logger.Logger = originalLogger }()

	for _, format := range []logger.OutputFormat{logger.FormatJSON, logger.FormatHuman} {
		logger.SetLevelAndFormat(slog.LevelWarn, format)
		ctx := context.Background()
		if logger.Logger.Enabled(ctx, slog.LevelInfo) {
			t.Errorf("format %v: info must be disabled at warn level", format)
		}
		if !logger.Logger.Enabled(ctx, slog.LevelError) {
			t.Errorf("format %v: error must be enabled at warn level", format)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := logger.ParseLevel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    logger.OutputFormat
		wantErr bool
	}{
		{"", logger.FormatJSON, false},
		{"json", logger.FormatJSON, false},
		{"Human", logger.FormatHuman, false},
		{"text", logger.FormatHuman, false},
		{"xml", logger.FormatJSON, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := logger.ParseFormat(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

// =============================================================================
// Load Context Helpers Tests
// =============================================================================

func TestWithLoad(t *testing.T) {
	buf := captureJSON(t, slog.LevelDebug)

	ctx := logger.LoadContext{
		Loader:       "stage",
		Path:         "/etc/realm/stage.yaml",
		ExpectedKind: "mosaicing",
		DeclaredKind: "densification",
	}

	logger.WithLoad(ctx).Info("test log")

	logEntry := decodeEntry(t, buf)
	if logEntry["loader"] != "stage" {
		t.Errorf("Expected loader 'stage', got %v", logEntry["loader"])
	}
	if logEntry["path"] != "/etc/realm/stage.yaml" {
		t.Errorf("Expected path '/etc/realm/stage.yaml', got %v", logEntry["path"])
	}
	if logEntry["expected_kind"] != "mosaicing" {
		t.Errorf("Expected expected_kind 'mosaicing', got %v", logEntry["expected_kind"])
	}
	if logEntry["declared_kind"] != "densification" {
		t.Errorf("Expected declared_kind 'densification', got %v", logEntry["declared_kind"])
	}
}

func TestWithLoadPartialFields(t *testing.T) {
	buf := captureJSON(t, slog.LevelDebug)

	logger.WithLoad(logger.LoadContext{Loader: "camera", Path: "cam.yaml"}).Info("minimal context test")

	logEntry := decodeEntry(t, buf)
	if logEntry["loader"] != "camera" {
		t.Errorf("Expected loader 'camera', got %v", logEntry["loader"])
	}
	if _, exists := logEntry["expected_kind"]; exists {
		t.Errorf("Expected expected_kind to be absent, got %v", logEntry["expected_kind"])
	}
	if _, exists := logEntry["declared_kind"]; exists {
		t.Errorf("Expected declared_kind to be absent, got %v", logEntry["declared_kind"])
	}
}

func TestLogLoadSuccess(t *testing.T) {
	buf := captureJSON(t, slog.LevelInfo)

	ctx := logger.LoadContext{
		Loader:       "camera",
		Path:         "cam.yaml",
		DeclaredKind: "pinhole",
	}
	logger.LogLoadSuccess(ctx, 12, 3*time.Millisecond)

	logEntry := decodeEntry(t, buf)
	if logEntry["msg"] != "settings loaded" {
		t.Errorf("Expected msg 'settings loaded', got %v", logEntry["msg"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level 'INFO', got %v", logEntry["level"])
	}
	count, ok := logEntry["param_count"].(float64)
	if !ok || int(count) != 12 {
		t.Errorf("Expected param_count 12, got %v", logEntry["param_count"])
	}
	if logEntry["duration"] == nil {
		t.Error("Expected duration to be present")
	}
}

func TestLogLoadFailure(t *testing.T) {
	buf := captureJSON(t, slog.LevelInfo)

	root := errors.New("open cam.yaml: no such file or directory")
	err := fmt.Errorf("reading settings: %w", root)

	logger.LogLoadFailure(logger.LoadContext{Loader: "camera", Path: "cam.yaml"}, "file", err)

	logEntry := decodeEntry(t, buf)
	if logEntry["msg"] != "settings rejected" {
		t.Errorf("Expected msg 'settings rejected', got %v", logEntry["msg"])
	}
	if logEntry["level"] != "WARN" {
		t.Errorf("Expected level 'WARN', got %v", logEntry["level"])
	}
	if logEntry["error_category"] != "file" {
		t.Errorf("Expected error_category 'file', got %v", logEntry["error_category"])
	}
	if logEntry["error"] != err.Error() {
		t.Errorf("Expected error %q, got %v", err.Error(), logEntry["error"])
	}
	chain, _ := logEntry["error_chain"].(string)
	if !strings.Contains(chain, " -> open cam.yaml") {
		t.Errorf("Expected error_chain to include the root cause, got %q", chain)
	}
}

func TestLogLoadFailureWithoutChain(t *testing.T) {
	buf := captureJSON(t, slog.LevelInfo)

	logger.LogLoadFailure(logger.LoadContext{Loader: "stage"}, "missing_type", errors.New("no type"))

	logEntry := decodeEntry(t, buf)
	if _, exists := logEntry["error_chain"]; exists {
		t.Errorf("Expected error_chain to be absent for unwrapped errors, got %v", logEntry["error_chain"])
	}
}

func TestConsistentFieldNames(t *testing.T) {
	expectedFields := []string{
		"loader",
		"path",
		"expected_kind",
		"declared_kind",
		"param_count",
		"duration",
		"error",
		"error_type",
		"error_category",
		"error_chain",
	}

	for _, field := range expectedFields {
		if strings.Contains(field, "-") {
			t.Errorf("Field name should use snake_case, not kebab-case: %s", field)
		}
		if field != strings.ToLower(field) {
			t.Errorf("Field name should be lowercase: %s", field)
		}
	}
}

// =============================================================================
// Human-Readable Format Tests
// =============================================================================

func TestHumanHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := logger.NewHumanHandler(&buf, &logger.HumanHandlerOptions{
		Level:     slog.LevelInfo,
		UseColors: false,
	})

	testLogger := slog.New(handler)
	testLogger.Info("test message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected output to contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, "ℹ") {
		t.Errorf("Expected output to contain info prefix 'ℹ', got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("Expected output to contain 'key=value', got: %s", output)
	}
}

func TestHumanHandlerSuccessPrefix(t *testing.T) {
	tests := []struct {
		msg    string
		prefix string
	}{
		{"settings loaded", "✓"},
		{"settings valid", "✓"},
		{"settings invalid", "ℹ"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			var buf bytes.Buffer
			testLogger := slog.New(logger.NewHumanHandler(&buf, nil))
			testLogger.Info(tt.msg)

			if !strings.Contains(buf.String(), tt.prefix) {
				t.Errorf("Expected prefix %q for %q, got: %s", tt.prefix, tt.msg, buf.String())
			}
		})
	}
}

func TestHumanHandlerLevels(t *testing.T) {
	tests := []struct {
		level          slog.Level
		expectedPrefix string
	}{
		{slog.LevelError, "✗"},
		{slog.LevelWarn, "⚠"},
		{slog.LevelInfo, "ℹ"},
		{slog.LevelDebug, "·"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			handler := logger.NewHumanHandler(&buf, &logger.HumanHandlerOptions{
				Level:     slog.LevelDebug,
				UseColors: false,
			})

			testLogger := slog.New(handler)
			testLogger.Log(context.Background(), tt.level, "test")

			output := buf.String()
			if !strings.Contains(output, tt.expectedPrefix) {
				t.Errorf("Expected output to contain prefix '%s' for level %s, got: %s",
					tt.expectedPrefix, tt.level, output)
			}
		})
	}
}

func TestHumanHandlerDuration(t *testing.T) {
	var buf bytes.Buffer
	handler := logger.NewHumanHandler(&buf, &logger.HumanHandlerOptions{
		Level:     slog.LevelInfo,
		UseColors: false,
	})

	testLogger := slog.New(handler)
	testLogger.Info("duration test", "duration", 2500*time.Millisecond)

	output := buf.String()
	if !strings.Contains(output, "duration=2.50s") {
		t.Errorf("Expected output to contain 'duration=2.50s', got: %s", output)
	}
}

func TestHumanHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	testLogger := slog.New(logger.NewHumanHandler(&buf, nil)).
		With("loader", "stage").
		WithGroup("load")
	testLogger.Info("check", "kind", "mosaicing")

	output := buf.String()
	if !strings.Contains(output, "loader=stage") {
		t.Errorf("Expected output to contain 'loader=stage', got: %s", output)
	}
	if !strings.Contains(output, "load.kind=mosaicing") {
		t.Errorf("Expected grouped key 'load.kind=mosaicing', got: %s", output)
	}
}

func TestHumanHandlerConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(logger.NewHumanHandler(&buf, nil))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			base.With("worker", i).Info("settings loaded")
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 20 {
		t.Fatalf("Expected 20 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "settings loaded") {
			t.Errorf("Interleaved line: %q", line)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{250 * time.Millisecond, "250ms"},
		{2500 * time.Millisecond, "2.50s"},
		{90 * time.Second, "1.5m"},
	}

	for _, tt := range tests {
		if got := logger.FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// =============================================================================
// Log File Output Tests
// =============================================================================

func TestSetLogFile(t *testing.T) {
	originalLogger := logger.Logger
	defer func() {
		logger.CloseLogFile()
		logger.Logger = originalLogger
	}()

	tmpPath := filepath.Join(t.TempDir(), "realmcfg.log")

	if err := logger.SetLogFile(tmpPath, slog.LevelInfo, logger.FormatJSON); err != nil {
		t.Fatalf("SetLogFile failed: %v", err)
	}

	logger.Info("test log message", "key", "value")
	logger.CloseLogFile()

	content, err := os.ReadFile(tmpPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if len(content) == 0 {
		t.Fatal("Log file should contain content")
	}

	var logEntry map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := json.Unmarshal([]byte(line), &logEntry); err == nil {
			if logEntry["msg"] == "test log message" {
				if logEntry["key"] != "value" {
					t.Errorf("Expected key='value' in log, got: %v", logEntry["key"])
				}
				return
			}
		}
	}
	t.Error("Expected to find test log message in log file")
}

func TestSetLogFileRotation(t *testing.T) {
	originalLogger := logger.Logger
	defer func() {
		logger.CloseLogFile()
		logger.Logger = originalLogger
	}()

	dir := t.TempDir()
	tmpPath := filepath.Join(dir, "realmcfg.log")
	if err := os.WriteFile(tmpPath, bytes.Repeat([]byte("x"), 10*1024*1024), 0644); err != nil {
		t.Fatalf("Failed to seed log file: %v", err)
	}

	if err := logger.SetLogFile(tmpPath, slog.LevelInfo, logger.FormatJSON); err != nil {
		t.Fatalf("SetLogFile failed: %v", err)
	}
	logger.CloseLogFile()

	matches, err := filepath.Glob(tmpPath + ".*")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("Expected one rotated file, got %v", matches)
	}
}

func TestSetLogFileBadPath(t *testing.T) {
	originalLogger := logger.Logger
	defer func() { logger.Logger = originalLogger }()

	err := logger.SetLogFile(filepath.Join(t.TempDir(), "missing", "realmcfg.log"), slog.LevelInfo, logger.FormatJSON)
	if err == nil {
		t.Fatal("Expected error for log file in a missing directory")
	}
}

func TestCloseLogFile(t *testing.T) {
	originalLogger := logger.Logger
	defer func() { logger.Logger = originalLogger }()

	// No file open yet
	logger.CloseLogFile()

	tmpPath := filepath.Join(t.TempDir(), "realmcfg.log")
	if err := logger.SetLogFile(tmpPath, slog.LevelInfo, logger.FormatJSON); err != nil {
		t.Fatalf("SetLogFile failed: %v", err)
	}

	logger.CloseLogFile()
	logger.CloseLogFile()
}
