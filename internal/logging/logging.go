// Package logging provides the leveled logger used across the archiver.
// Output goes to stderr and, when a log directory is configured, to a
// per-run log file named after the run timestamp.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the sink the core components log to. Callers never react to
// logging failures.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Success(msg string, args ...any)
	Step(msg string, args ...any)
	Warning(msg string, args ...any)
	Error(msg string, args ...any)
}

// Custom levels slotted between slog's built-ins. SUCCESS and STEP are
// informational but rendered distinctly.
const (
	LevelSuccess = slog.LevelInfo + 1
	LevelStep    = slog.LevelInfo + 2
)

var levelNames = map[slog.Leveler]string{
	LevelSuccess: "SUCCESS",
	LevelStep:    "STEP",
}

type RunLogger struct {
	sl   *slog.Logger
	file *os.File
}

// Options configures a RunLogger.
type Options struct {
	Verbose bool   // include DEBUG
	LogDir  string // empty disables file output
	RunName string // log file stem, typically the run timestamp
}

// New builds a logger writing to console and, if opts.LogDir is set, to
// {LogDir}/run_{RunName}.log. The log directory is created if needed; a
// file that cannot be opened degrades to console-only with a warning.
func New(console io.Writer, opts Options) *RunLogger {
	var file *os.File
	w := console

	if opts.LogDir != "" {
		name := opts.RunName
		if name == "" {
			name = "archiver"
		}
		path := filepath.Join(opts.LogDir, "run_"+name+".log")
		if err := os.MkdirAll(opts.LogDir, 0o755); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				file = f
				w = io.MultiWriter(console, f)
			} else {
				fmt.Fprintf(console, "WARNING: cannot open log file %s: %v\n", path, err)
			}
		} else {
			fmt.Fprintf(console, "WARNING: cannot create log directory %s: %v\n", opts.LogDir, err)
		}
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				lv := a.Value.Any().(slog.Level)
				if name, ok := levelNames[lv]; ok {
					a.Value = slog.StringValue(name)
				}
			}
			return a
		},
	})

	return &RunLogger{sl: slog.New(h), file: file}
}

// Default returns a console-only logger at INFO level.
func Default() *RunLogger {
	return New(os.Stderr, Options{})
}

// Close flushes and closes the log file, if any.
func (l *RunLogger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *RunLogger) Debug(msg string, args ...any)   { l.sl.Debug(msg, args...) }
func (l *RunLogger) Info(msg string, args ...any)    { l.sl.Info(msg, args...) }
func (l *RunLogger) Warning(msg string, args ...any) { l.sl.Warn(msg, args...) }
func (l *RunLogger) Error(msg string, args ...any)   { l.sl.Error(msg, args...) }

func (l *RunLogger) Success(msg string, args ...any) {
	l.sl.Log(context.Background(), LevelSuccess, msg, args...)
}

func (l *RunLogger) Step(msg string, args ...any) {
	l.sl.Log(context.Background(), LevelStep, msg, args...)
}

// Nop discards everything. Used in tests.
type Nop struct{}

func (Nop) Debug(string, ...any)   {}
func (Nop) Info(string, ...any)    {}
func (Nop) Success(string, ...any) {}
func (Nop) Step(string, ...any)    {}
func (Nop) Warning(string, ...any) {}
func (Nop) Error(string, ...any)   {}
