package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// resetLoggerState resets all global logger state for test isolation
func resetLoggerState() {
	fileWriter = nil
	logContext = logContextData{}
	Log = zerolog.Nop()
}

func TestInit(t *testing.T) {
	// Init produces a nop logger (pre-file-logging placeholder)
	Init()

	// Nop logger has Disabled level
	if Log.GetLevel() != zerolog.Disabled {
		t.Errorf("Init() should produce nop logger (Disabled level), got %v", Log.GetLevel())
	}
}

func TestLogFunctions(t *testing.T) {
	// With file logging at debug level, all log functions return non-nil events
	tmpDir := t.TempDir()
	cfg := &LoggingConfig{MaxSizeMB: 1}
	if err := InitWithFile(true, tmpDir, cfg); err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}
	t.Cleanup(func() { CloseFileWriter() })

	if Debug() == nil {
		t.Error("Debug() should return non-nil event")
	}
	if Info() == nil {
		t.Error("Info() should return non-nil event")
	}
	if Warn() == nil {
		t.Error("Warn() should return non-nil event")
	}
	if Error() == nil {
		t.Error("Error() should return non-nil event")
	}
}

func TestLogFunctionsSafeBeforeInit(t *testing.T) {
	resetLoggerState()

	// Nop logger returns nil events; logging through them must not panic
	Debug().Str("k", "v").Msg("discarded")
	Info().Msg("discarded")
	Warn().Msg("discarded")
	Error().Msg("discarded")
}

func TestLoggerReinitialize(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &LoggingConfig{MaxSizeMB: 1}

	// Init → nop
	Init()
	if Log.GetLevel() != zerolog.Disabled {
		t.Error("Init should produce nop logger")
	}

	// InitWithFile → real logger
	if err := InitWithFile(true, tmpDir, cfg); err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}
	t.Cleanup(func() { CloseFileWriter() })

	if Log.GetLevel() == zerolog.Disabled {
		t.Error("InitWithFile should produce active logger")
	}
}

func TestLoggingConfigDefaults(t *testing.T) {
	// Nil FileEnabled defaults to true
	cfg := &LoggingConfig{}
	if !cfg.IsFileEnabled() {
		t.Error("IsFileEnabled should default to true when nil")
	}

	falseVal := false
	cfg.FileEnabled = &falseVal
	if cfg.IsFileEnabled() {
		t.Error("IsFileEnabled should return false when explicitly set")
	}

	trueVal := true
	cfg.FileEnabled = &trueVal
	if !cfg.IsFileEnabled() {
		t.Error("IsFileEnabled should return true when explicitly set")
	}

	// Nil Compress defaults to true
	cfg = &LoggingConfig{}
	if !cfg.IsCompressEnabled() {
		t.Error("IsCompressEnabled should default to true when nil")
	}
	cfg.Compress = &falseVal
	if cfg.IsCompressEnabled() {
		t.Error("IsCompressEnabled should return false when explicitly set")
	}

	// Zero values default correctly
	cfg = &LoggingConfig{}
	if cfg.GetMaxSizeMB() != 50 {
		t.Errorf("GetMaxSizeMB should default to 50, got %d", cfg.GetMaxSizeMB())
	}
	if cfg.GetMaxAgeDays() != 7 {
		t.Errorf("GetMaxAgeDays should default to 7, got %d", cfg.GetMaxAgeDays())
	}
	if cfg.GetMaxBackups() != 3 {
		t.Errorf("GetMaxBackups should default to 3, got %d", cfg.GetMaxBackups())
	}

	// Custom values
	cfg = &LoggingConfig{
		MaxSizeMB:  20,
		MaxAgeDays: 14,
		MaxBackups: 5,
	}
	if cfg.GetMaxSizeMB() != 20 {
		t.Errorf("GetMaxSizeMB should return 20, got %d", cfg.GetMaxSizeMB())
	}
	if cfg.GetMaxAgeDays() != 14 {
		t.Errorf("GetMaxAgeDays should return 14, got %d", cfg.GetMaxAgeDays())
	}
	if cfg.GetMaxBackups() != 5 {
		t.Errorf("GetMaxBackups should return 5, got %d", cfg.GetMaxBackups())
	}
}

func TestInitWithFile(t *testing.T) {
	resetLoggerState()
	tmpDir := t.TempDir()

	cfg := &LoggingConfig{
		MaxSizeMB:  1,
		MaxAgeDays: 1,
		MaxBackups: 1,
	}

	err := InitWithFile(false, tmpDir, cfg)
	if err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}

	logPath := GetLogFilePath()
	if logPath == "" {
		t.Error("GetLogFilePath should return non-empty path after InitWithFile")
	}

	expectedPath := filepath.Join(tmpDir, "recur.log")
	if logPath != expectedPath {
		t.Errorf("GetLogFilePath = %q, want %q", logPath, expectedPath)
	}

	Info().Msg("test log message")

	err = CloseFileWriter()
	if err != nil {
		t.Errorf("CloseFileWriter failed: %v", err)
	}

	content, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if len(content) == 0 {
		t.Error("Log file should have content")
	}
	if !strings.Contains(string(content), "test log message") {
		t.Error("Log file should contain the test message")
	}
}

func TestInitWithFileDisabled(t *testing.T) {
	resetLoggerState()

	falseVal := false
	cfg := &LoggingConfig{
		FileEnabled: &falseVal,
	}

	err := InitWithFile(false, "/some/path", cfg)
	if err != nil {
		t.Fatalf("InitWithFile with disabled file logging should not fail: %v", err)
	}

	if GetLogFilePath() != "" {
		t.Error("GetLogFilePath should return empty when file logging is disabled")
	}
}

func TestInitWithFileEmptyDir(t *testing.T) {
	resetLoggerState()

	err := InitWithFile(false, "", &LoggingConfig{})
	if err != nil {
		t.Fatalf("InitWithFile with empty dir should not fail: %v", err)
	}

	if GetLogFilePath() != "" {
		t.Error("GetLogFilePath should return empty when logsDir is empty")
	}
}

func TestInitWithFileNilConfig(t *testing.T) {
	resetLoggerState()

	err := InitWithFile(false, "/some/path", nil)
	if err != nil {
		t.Fatalf("InitWithFile with nil config should not fail: %v", err)
	}

	if GetLogFilePath() != "" {
		t.Error("GetLogFilePath should return empty when config is nil")
	}
}

func TestInitWithFileCompress(t *testing.T) {
	resetLoggerState()
	tmpDir := t.TempDir()

	if err := InitWithFile(false, tmpDir, &LoggingConfig{}); err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}
	t.Cleanup(func() { CloseFileWriter() })

	if !fileWriter.Compress {
		t.Error("rotated backups should be compressed by default")
	}

	CloseFileWriter()
	falseVal := false
	if err := InitWithFile(false, tmpDir, &LoggingConfig{Compress: &falseVal}); err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}
	if fileWriter.Compress {
		t.Error("compress: false should disable backup compression")
	}
}

func TestCloseFileWriterWhenNil(t *testing.T) {
	resetLoggerState()

	err := CloseFileWriter()
	if err != nil {
		t.Errorf("CloseFileWriter should return nil when fileWriter is nil, got: %v", err)
	}
}

func TestSetContext(t *testing.T) {
	Init()
	defer ClearContext()

	SetContext("/work/myrepo", "conv-123")

	ctx := getContext()
	if ctx.Workspace != "/work/myrepo" {
		t.Errorf("Workspace = %q, want %q", ctx.Workspace, "/work/myrepo")
	}
	if ctx.Conversation != "conv-123" {
		t.Errorf("Conversation = %q, want %q", ctx.Conversation, "conv-123")
	}

	ClearContext()
	ctx = getContext()
	if ctx.Workspace != "" || ctx.Conversation != "" {
		t.Error("ClearContext should reset both fields")
	}
}

func TestContextInFileLog(t *testing.T) {
	resetLoggerState()
	tmpDir := t.TempDir()

	cfg := &LoggingConfig{MaxSizeMB: 1}
	err := InitWithFile(false, tmpDir, cfg)
	if err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}
	defer CloseFileWriter()
	defer ClearContext()

	SetContext("/work/myrepo", "conv-xyz")
	Info().Msg("context test")

	CloseFileWriter()

	content, err := os.ReadFile(filepath.Join(tmpDir, "recur.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "/work/myrepo") {
		t.Error("Log should contain workspace")
	}
	if !strings.Contains(string(content), "conv-xyz") {
		t.Error("Log should contain conversation id")
	}
}

func TestContextNotInLogWhenEmpty(t *testing.T) {
	resetLoggerState()
	tmpDir := t.TempDir()

	cfg := &LoggingConfig{MaxSizeMB: 1}
	err := InitWithFile(false, tmpDir, cfg)
	if err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}
	defer CloseFileWriter()
	defer ClearContext()

	ClearContext()
	Info().Msg("no context test")

	CloseFileWriter()

	content, err := os.ReadFile(filepath.Join(tmpDir, "recur.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(content), `"workspace"`) {
		t.Error("Log should not contain workspace field when empty")
	}
	if strings.Contains(string(content), `"conversation"`) {
		t.Error("Log should not contain conversation field when empty")
	}
}

func TestCloseFileWriterResetsState(t *testing.T) {
	resetLoggerState()

	tmpDir := t.TempDir()

	cfg := &LoggingConfig{MaxSizeMB: 1}

	err := InitWithFile(false, tmpDir, cfg)
	if err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}

	if GetLogFilePath() == "" {
		t.Error("GetLogFilePath should return path after InitWithFile")
	}

	err = CloseFileWriter()
	if err != nil {
		t.Errorf("CloseFileWriter failed: %v", err)
	}

	if GetLogFilePath() != "" {
		t.Error("GetLogFilePath should return empty after CloseFileWriter")
	}

	err = CloseFileWriter()
	if err != nil {
		t.Errorf("Double CloseFileWriter should not error: %v", err)
	}
}

func TestInitWithFilePermissionError(t *testing.T) {
	resetLoggerState()

	err := InitWithFile(false, "/dev/null/deeply/nested/path/that/fails", &LoggingConfig{})
	if err == nil {
		if GetLogFilePath() != "" {
			t.Error("GetLogFilePath should return empty for invalid path")
		}
		return
	}
	if !strings.Contains(err.Error(), "failed to create logs directory") {
		t.Errorf("Error should mention directory creation, got: %v", err)
	}
}

func TestInitWithFile_NoConsoleOutput(t *testing.T) {
	resetLoggerState()

	tmpDir := t.TempDir()

	// Capture stderr to verify no console output
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stderr = w

	cfg := &LoggingConfig{MaxSizeMB: 1}
	if err := InitWithFile(false, tmpDir, cfg); err != nil {
		os.Stderr = oldStderr
		t.Fatalf("InitWithFile failed: %v", err)
	}

	Info().Msg("info test")
	Warn().Msg("warn test")
	Error().Msg("error test")
	Debug().Msg("debug test")

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("Failed to read pipe: %v", err)
	}
	r.Close()

	if buf.Len() > 0 {
		t.Errorf("No output should appear on stderr, but got: %q", buf.String())
	}

	CloseFileWriter()
	content, err := os.ReadFile(filepath.Join(tmpDir, "recur.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "info test") {
		t.Error("Log file should contain info message")
	}
	if !strings.Contains(string(content), "warn test") {
		t.Error("Log file should contain warn message")
	}
	if !strings.Contains(string(content), "error test") {
		t.Error("Log file should contain error message")
	}
}

func TestInitWithFile_DebugLevel(t *testing.T) {
	resetLoggerState()
	tmpDir := t.TempDir()

	cfg := &LoggingConfig{MaxSizeMB: 1}
	if err := InitWithFile(true, tmpDir, cfg); err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}
	defer CloseFileWriter()

	Debug().Msg("debug message")
	CloseFileWriter()

	content, err := os.ReadFile(filepath.Join(tmpDir, "recur.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "debug message") {
		t.Error("Log file should contain debug message when debug=true")
	}
}

func TestInitWithFile_InfoLevelDropsDebug(t *testing.T) {
	resetLoggerState()
	tmpDir := t.TempDir()

	cfg := &LoggingConfig{MaxSizeMB: 1}
	if err := InitWithFile(false, tmpDir, cfg); err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}
	defer CloseFileWriter()

	Debug().Msg("hidden debug message")
	Info().Msg("visible info message")
	CloseFileWriter()

	content, err := os.ReadFile(filepath.Join(tmpDir, "recur.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "hidden debug message") {
		t.Error("Debug messages should be dropped when debug=false")
	}
	if !strings.Contains(string(content), "visible info message") {
		t.Error("Info messages should be written when debug=false")
	}
}

func TestWithField(t *testing.T) {
	resetLoggerState()
	tmpDir := t.TempDir()

	cfg := &LoggingConfig{MaxSizeMB: 1}
	if err := InitWithFile(false, tmpDir, cfg); err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}
	defer CloseFileWriter()

	sub := WithField("run_id", "abc-123")
	sub.Info().Msg("sub logger message")
	CloseFileWriter()

	content, err := os.ReadFile(filepath.Join(tmpDir, "recur.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), `"run_id":"abc-123"`) {
		t.Error("Sub-logger should carry the attached field")
	}
}
