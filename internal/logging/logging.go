package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Sink selects where a Logger writes.
type Sink int

const (
	// SinkStderr writes human-readable lines to a terminal stream.
	SinkStderr Sink = iota
	// SinkFile writes JSON lines to a rotating file that Viewer can read.
	SinkFile
)

// Options configures New.
type Options struct {
	Level slog.Level
	Sink  Sink

	// Stderr is the SinkStderr stream; nil means os.Stderr.
	Stderr io.Writer

	// File is the SinkFile path; empty means DefaultLogPath().
	File      string
	MaxSizeMB int
	MaxFiles  int
}

// Logger is a slog.Logger that owns its output.
type Logger struct {
	*slog.Logger
	path string
	file *RotatingWriter
}

// New creates a logger for opts. Close releases the log file, if any.
func New(opts Options) (*Logger, error) {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	if opts.Sink == SinkStderr {
		w := opts.Stderr
		if w == nil {
			w = os.Stderr
		}
		return &Logger{Logger: slog.New(slog.NewTextHandler(w, handlerOpts))}, nil
	}

	path := opts.File
	if path == "" {
		path = DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	writer, err := NewRotatingWriter(path, opts.MaxSizeMB, opts.MaxFiles)
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(writer, handlerOpts)),
		path:   path,
		file:   writer,
	}, nil
}

// Path returns the log file, or "" for a stderr logger.
func (l *Logger) Path() string {
	return l.path
}

// Close flushes and closes the log file. Safe on stderr loggers.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel accepts debug, info, warn (or warning) and error, in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// levelOf is ParseLevel for lines already written; unknown levels rank as info.
func levelOf(s string) slog.Level {
	level, _ := ParseLevel(s)
	return level
}
