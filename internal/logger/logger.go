// Package logger provides file-based diagnostic logging for recur.
//
// recur runs as a Cursor hook: stdout carries the hook response and stderr
// belongs to the user-facing command output. Diagnostics therefore never
// touch the console. They go to a rotated log file under the recur home,
// or nowhere at all until InitWithFile runs.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the active log file inside the logs directory. Rotated
// backups get a timestamp suffix (and .gz when compression is on).
const LogFileName = "recur.log"

var (
	// Log is the global logger instance. Nop until InitWithFile succeeds.
	Log = zerolog.Nop()

	// fileWriter is the rotating file output, nil when file logging is off.
	fileWriter *lumberjack.Logger

	// logContext holds workspace/conversation context for log entries
	// (optional, may be empty).
	logContext   logContextData
	logContextMu sync.RWMutex
)

// logContextData holds optional workspace and conversation context for log entries.
type logContextData struct {
	Workspace    string
	Conversation string
}

// SetContext sets the workspace and conversation context added to all log entries.
// Pass empty strings to omit either field.
func SetContext(workspace, conversation string) {
	logContextMu.Lock()
	defer logContextMu.Unlock()
	logContext = logContextData{Workspace: workspace, Conversation: conversation}
}

// ClearContext removes the workspace/conversation context.
func ClearContext() {
	logContextMu.Lock()
	defer logContextMu.Unlock()
	logContext = logContextData{}
}

func getContext() logContextData {
	logContextMu.RLock()
	defer logContextMu.RUnlock()
	return logContext
}

// addContext attaches ambient context fields to an event. Safe on nil
// events (zerolog returns nil events for disabled levels).
func addContext(e *zerolog.Event) *zerolog.Event {
	ctx := getContext()
	if ctx.Workspace != "" {
		e = e.Str("workspace", ctx.Workspace)
	}
	if ctx.Conversation != "" {
		e = e.Str("conversation", ctx.Conversation)
	}
	return e
}

// LoggingConfig matches internal/config.LoggingConfig but is duplicated here
// to avoid a circular import (config uses logger for validation warnings).
type LoggingConfig struct {
	FileEnabled *bool
	MaxSizeMB   int
	MaxAgeDays  int
	MaxBackups  int
	Compress    *bool
}

// IsFileEnabled returns whether file logging is enabled (default true).
func (c *LoggingConfig) IsFileEnabled() bool {
	if c.FileEnabled == nil {
		return true
	}
	return *c.FileEnabled
}

// IsCompressEnabled returns whether rotated backups are gzipped (default true).
func (c *LoggingConfig) IsCompressEnabled() bool {
	if c.Compress == nil {
		return true
	}
	return *c.Compress
}

// GetMaxSizeMB returns the max log file size in MB (default 50).
func (c *LoggingConfig) GetMaxSizeMB() int {
	if c.MaxSizeMB <= 0 {
		return 50
	}
	return c.MaxSizeMB
}

// GetMaxAgeDays returns the max age of rotated logs in days (default 7).
func (c *LoggingConfig) GetMaxAgeDays() int {
	if c.MaxAgeDays <= 0 {
		return 7
	}
	return c.MaxAgeDays
}

// GetMaxBackups returns the max number of rotated logs to keep (default 3).
func (c *LoggingConfig) GetMaxBackups() int {
	if c.MaxBackups <= 0 {
		return 3
	}
	return c.MaxBackups
}

// Init installs a nop logger. Used before configuration is loaded, and as
// the fallback when file logging cannot or should not be opened.
func Init() {
	Log = zerolog.Nop()
}

// InitWithFile routes all logging to a rotated file under logsDir.
// A nil config, empty logsDir, or disabled file logging leaves the nop
// logger in place without error. Console output is never produced.
func InitWithFile(debug bool, logsDir string, cfg *LoggingConfig) error {
	if cfg == nil || logsDir == "" || !cfg.IsFileEnabled() {
		fileWriter = nil
		Log = zerolog.Nop()
		return nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileWriter = &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, LogFileName),
		MaxSize:    cfg.GetMaxSizeMB(),
		MaxAge:     cfg.GetMaxAgeDays(),
		MaxBackups: cfg.GetMaxBackups(),
		LocalTime:  true,
		Compress:   cfg.IsCompressEnabled(),
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	Log = zerolog.New(fileWriter).Level(level).With().Timestamp().Logger()
	return nil
}

// CloseFileWriter closes the log file and reverts to the nop logger.
// Safe to call when file logging was never initialized.
func CloseFileWriter() error {
	if fileWriter == nil {
		return nil
	}
	err := fileWriter.Close()
	fileWriter = nil
	Log = zerolog.Nop()
	return err
}

// GetLogFilePath returns the active log file path, or "" when file logging is off.
func GetLogFilePath() string {
	if fileWriter == nil {
		return ""
	}
	return fileWriter.Filename
}

// Debug logs a debug-level event with ambient context attached.
func Debug() *zerolog.Event {
	return addContext(Log.Debug())
}

// Info logs an info-level event with ambient context attached.
func Info() *zerolog.Event {
	return addContext(Log.Info())
}

// Warn logs a warn-level event with ambient context attached.
func Warn() *zerolog.Event {
	return addContext(Log.Warn())
}

// Error logs an error-level event with ambient context attached.
func Error() *zerolog.Event {
	return addContext(Log.Error())
}

// WithField returns a sub-logger with an extra field attached.
func WithField(key, value string) zerolog.Logger {
	return Log.With().Str(key, value).Logger()
}
