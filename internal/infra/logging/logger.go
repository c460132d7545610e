// Package logging provides file-based logging for pdok-report.
// Entries go to <config dir>/logs/pdok-report.log; the most recent ones are
// also kept in memory for display.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Ensure Logger implements domain.Logger and domain.LogHistory interfaces.
var (
	_ domain.Logger     = (*Logger)(nil)
	_ domain.LogHistory = (*Logger)(nil)
)

// DefaultRecent is the number of entries kept in memory.
const DefaultRecent = 200

// Logger writes category-tagged entries to a log file.
// Fields are ordered to minimize memory padding.
type Logger struct {
	file      *os.File
	mirror    io.Writer // Optional second destination, e.g. stderr
	now       func() time.Time
	recent    []string
	configDir string
	next      int
	mu        sync.Mutex
	level     slog.Level
}

// New creates a Logger writing under configDir.
// If configDir is empty, file logging is disabled.
func New(configDir string, level slog.Level) *Logger {
	return &Logger{
		configDir: configDir,
		level:     level,
		now:       time.Now,
		recent:    make([]string, 0, DefaultRecent),
	}
}

// SetMirror copies every entry to w as well.
func (l *Logger) SetMirror(w io.Writer) {
	l.mu.Lock()
	l.mirror = w
	l.mu.Unlock()
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureFile opens the log file on first use. Must be called with l.mu held.
func (l *Logger) ensureFile() (*os.File, error) {
	if l.file != nil {
		return l.file, nil
	}
	if err := os.MkdirAll(domain.LogsDir(l.configDir), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	path := domain.LogFilePath(l.configDir)
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	return f, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [download] message
func formatLog(t time.Time, level slog.Level, category, msg string) string {
	return fmt.Sprintf("[%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l *Logger) log(level slog.Level, category, msg string) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := formatLog(l.now(), level, category, msg)
	l.remember(entry[:len(entry)-1])

	if l.configDir != "" {
		if f, err := l.ensureFile(); err == nil {
			_, _ = io.WriteString(f, entry)
		}
	}
	if l.mirror != nil {
		_, _ = io.WriteString(l.mirror, entry)
	}
}

// remember stores entry in the ring of recent entries. Must be called with l.mu held.
func (l *Logger) remember(entry string) {
	if len(l.recent) < cap(l.recent) {
		l.recent = append(l.recent, entry)
		return
	}
	l.recent[l.next] = entry
	l.next = (l.next + 1) % len(l.recent)
}

// Recent returns up to n of the latest entries, oldest first.
func (l *Logger) Recent(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	ordered := make([]string, 0, len(l.recent))
	ordered = append(ordered, l.recent[l.next:]...)
	ordered = append(ordered, l.recent[:l.next]...)
	if n >= 0 && n < len(ordered) {
		ordered = ordered[len(ordered)-n:]
	}
	return ordered
}

// Info logs an info message.
func (l *Logger) Info(category, msg string) {
	l.log(slog.LevelInfo, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(category, msg string) {
	l.log(slog.LevelDebug, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(category, msg string) {
	l.log(slog.LevelWarn, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(category, msg string) {
	l.log(slog.LevelError, category, msg)
}

// FileHistory reads recent entries back from the log file, including those
// written by earlier runs.
type FileHistory struct {
	ConfigDir string
}

// Ensure FileHistory implements domain.LogHistory.
var _ domain.LogHistory = FileHistory{}

// Recent returns up to n of the last lines of the log file, oldest first.
// A missing or unreadable file yields no entries.
func (h FileHistory) Recent(n int) []string {
	data, err := os.ReadFile(filepath.Clean(domain.LogFilePath(h.ConfigDir)))
	if err != nil {
		return nil
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if n >= 0 && n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	return lines
}
