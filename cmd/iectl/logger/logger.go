// Package logger holds the iectl file logger. Output is discarded until
// Init enables it; each day gets its own JSON log file under the log
// directory and files past the retention window are pruned on start.
package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger. It discards everything until Init enables it.
var L = slog.New(slog.DiscardHandler)

const (
	logPrefix     = "iectl-"
	logSuffix     = ".log"
	retentionDays = 30
)

// out is the file behind L, if any.
var out *os.File

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	LogDir  string     // Directory for log files. Default: ~/.iectl/logs
	Level   slog.Level // Minimum log level. The zero value is Info.
}

// Init replaces L according to opts, closing the file a previous call
// opened. If opts.Enabled is false, all log output is discarded.
func Init(opts Options) error {
	if !opts.Enabled {
		return Close()
	}

	dir := opts.LogDir
	if dir == "" {
		var err error
		if dir, err = defaultDir(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	now := time.Now()
	cleanOldLogs(dir, now)

	f, err := os.OpenFile(logFile(dir, now), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	prev := out
	out = f
	L = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level}))
	if prev != nil {
		_ = prev.Close()
	}
	return nil
}

// Close discards further output and closes the current log file.
func Close() error {
	L = slog.New(slog.DiscardHandler)
	if out == nil {
		return nil
	}
	err := out.Close()
	out = nil
	return err
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".iectl", "logs"), nil
}

// logFile names the log for the day of now, e.g. iectl-2024-01-05.log.
func logFile(dir string, now time.Time) string {
	return filepath.Join(dir, logPrefix+now.Format(time.DateOnly)+logSuffix)
}

// logDate parses the day out of a log file name.
func logDate(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
		return time.Time{}, false
	}
	day, err := time.Parse(time.DateOnly, strings.TrimSuffix(strings.TrimPrefix(name, logPrefix), logSuffix))
	return day, err == nil
}

// cleanOldLogs removes log files dated before the retention window.
// Errors are ignored.
func cleanOldLogs(dir string, now time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	for _, e := range entries {
		if day, ok := logDate(e.Name()); ok && day.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, e.Name()))
		}
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
