package logging

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogPath(t *testing.T) {
	// Given/When: the default path
	path := DefaultLogPath()

	// Then: it sits in .objsearch/logs
	assert.Equal(t, "objsearch.log", filepath.Base(path))
	assert.Contains(t, DefaultLogDir(), ".objsearch")
	assert.Equal(t, "logs", filepath.Base(DefaultLogDir()))
}

func TestNew_FileSinkWritesJSON(t *testing.T) {
	// Given: a file logger in a fresh directory
	logPath := filepath.Join(t.TempDir(), "nested", "test.log")
	logger, err := New(Options{Level: slog.LevelDebug, Sink: SinkFile, File: logPath, MaxSizeMB: 1, MaxFiles: 2})
	require.NoError(t, err)
	assert.Equal(t, logPath, logger.Path())

	// When: logging an event
	logger.Debug("objects_added", "count", 3)
	require.NoError(t, logger.Close())

	// Then: the file holds a line the viewer can parse
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	entry := ParseLine(strings.TrimSpace(string(data)))
	require.True(t, entry.IsValid)
	assert.Equal(t, "DEBUG", entry.Level)
	assert.Equal(t, "objects_added", entry.Msg)
	assert.EqualValues(t, 3, entry.Attrs["count"])
}

func TestNew_StderrSinkFiltersByLevel(t *testing.T) {
	// Given: a warn-level logger on a buffer
	var buf bytes.Buffer
	logger, err := New(Options{Level: slog.LevelWarn, Stderr: &buf})
	require.NoError(t, err)

	// When: logging below and at the threshold
	logger.Info("records_loaded")
	logger.Warn("records_sync_failed", slog.String("path", "a.json"))

	// Then: only the warning is written, as text
	assert.NotContains(t, buf.String(), "records_loaded")
	assert.Contains(t, buf.String(), "msg=records_sync_failed")
	assert.Contains(t, buf.String(), "path=a.json")
	assert.Empty(t, logger.Path())
	assert.NoError(t, logger.Close())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug, "DEBUG": slog.LevelDebug, " info ": slog.LevelInfo,
		"warn": slog.LevelWarn, "Warning": slog.LevelWarn, "error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorContains(t, err, "verbose")
	assert.Equal(t, slog.LevelInfo, levelOf("verbose"))
}

func TestDiscard_DropsEverything(t *testing.T) {
	// Given/When/Then: logging to the discard logger is safe and disabled
	logger := Discard()
	logger.Error("nothing")
	assert.NotNil(t, logger)
}

func TestFindLogFile(t *testing.T) {
	// Given: an explicit existing file
	logPath := filepath.Join(t.TempDir(), "x.log")
	require.NoError(t, os.WriteFile(logPath, []byte("x"), 0o644))

	// When/Then: it is found, a missing one is not
	found, err := FindLogFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, logPath, found)

	_, err = FindLogFile(filepath.Join(t.TempDir(), "missing.log"))
	assert.Error(t, err)
}

func TestRotatingWriter_Rotates(t *testing.T) {
	// Given: a 1MB writer keeping two rotated files
	logPath := filepath.Join(t.TempDir(), "objsearch.log")
	w, err := NewRotatingWriter(logPath, 1, 2)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	// When: writing well past the limit several times
	chunk := bytes.Repeat([]byte("x"), 700*1024)
	for i := 0; i < 5; i++ {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}

	// Then: at most two rotated files exist next to the live one
	assert.FileExists(t, logPath)
	assert.FileExists(t, logPath+".1")
	assert.FileExists(t, logPath+".2")
	assert.NoFileExists(t, logPath+".3")
}

func TestRotatingWriter_WriteAfterClose(t *testing.T) {
	// Given: a closed writer
	w, err := NewRotatingWriter(filepath.Join(t.TempDir(), "a.log"), 1, 1)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// When: writing
	_, err = w.Write([]byte("late"))

	// Then: the write fails and Close stays idempotent
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Sync())
}

func TestRotatingWriter_ConcurrentWrites(t *testing.T) {
	// Given: a shared writer
	logPath := filepath.Join(t.TempDir(), "c.log")
	w, err := NewRotatingWriter(logPath, 10, 1)
	require.NoError(t, err)

	// When: many goroutines write lines
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = fmt.Fprintf(w, "line %d\n", i)
		}(i)
	}
	wg.Wait()
	require.NoError(t, w.Close())

	// Then: every line is intact
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 20)
}

func TestViewer_TailFiltersAndFormats(t *testing.T) {
	// Given: a log with mixed levels and a garbage line
	logPath := filepath.Join(t.TempDir(), "v.log")
	lines := []string{
		`{"time":"2026-01-02T10:00:00Z","level":"DEBUG","msg":"search_completed","hits":2}`,
		`{"time":"2026-01-02T10:00:01Z","level":"WARN","msg":"index_inconsistent","orphans":1}`,
		`not json`,
		`{"time":"2026-01-02T10:00:02Z","level":"ERROR","msg":"objects_added_failed","count":3,"error":"boom"}`,
	}
	require.NoError(t, os.WriteFile(logPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	var out bytes.Buffer
	v := NewViewer(ViewerConfig{Level: "warn", NoColor: true}, &out)

	// When: tailing the last three lines at warn level
	entries, err := v.Tail(logPath, 3)
	require.NoError(t, err)
	v.Print(entries)

	// Then: the debug line is outside the window, garbage passes through raw
	require.Len(t, entries, 3)
	assert.Equal(t, "index_inconsistent", entries[0].Msg)
	assert.False(t, entries[1].IsValid)
	assert.Equal(t, "10:00:02.000 ERROR objects_added_failed count=3 error=boom", v.FormatEntry(entries[2]))
	assert.Contains(t, out.String(), "not json")
}

func TestViewer_PatternFilter(t *testing.T) {
	// Given: a pattern filter
	logPath := filepath.Join(t.TempDir(), "p.log")
	require.NoError(t, os.WriteFile(logPath, []byte(
		`{"level":"INFO","msg":"objects_added"}`+"\n"+`{"level":"INFO","msg":"search_completed"}`+"\n"), 0o644))
	v := NewViewer(ViewerConfig{Pattern: regexp.MustCompile("search_")}, &bytes.Buffer{})

	// When: tailing everything
	entries, err := v.Tail(logPath, 0)

	// Then: only the matching line survives
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "search_completed", entries[0].Msg)
}
