package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Operation represents a file system operation type.
type Operation int

const (
	// OpCreate indicates a new file was created.
	OpCreate Operation = iota
	// OpModify indicates an existing file was written.
	OpModify
	// OpDelete indicates a file was removed or renamed away.
	OpDelete
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// FileEvent is a change to one record file.
type FileEvent struct {
	// Path is the absolute file path.
	Path string

	// Operation is the coalesced operation.
	Operation Operation

	// Timestamp is when the last underlying event was seen.
	Timestamp time.Time
}

// Options configures the watcher.
type Options struct {
	// Debounce is how long to wait for quiet before emitting a batch.
	// Default: 200ms
	Debounce time.Duration

	// BufferSize is the number of batches buffered for the consumer.
	// Default: 64
	BufferSize int

	// Extensions limits events to files with these extensions
	// (case-insensitive, with the dot). Empty means every file.
	Extensions []string

	// Logger receives warnings. Default: slog.Default().
	Logger *slog.Logger
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = 200 * time.Millisecond
	}
	if o.BufferSize <= 0 {
		o.BufferSize = 64
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Watcher watches a directory tree and emits debounced batches of FileEvents.
type Watcher struct {
	fs        *fsnotify.Watcher
	debouncer *Debouncer
	opts      Options
	exts      map[string]bool
	events    chan []FileEvent
	errors    chan error
	stopCh    chan struct{}
	mu        sync.Mutex
	stopped   bool
	dropped   atomic.Uint64
}

// New creates a watcher. Call Start to begin watching.
func New(opts Options) (*Watcher, error) {
	opts = opts.WithDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fs:        fsw,
		debouncer: NewDebouncer(opts.Debounce, opts.Logger),
		opts:      opts,
		exts:      make(map[string]bool, len(opts.Extensions)),
		events:    make(chan []FileEvent, opts.BufferSize),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}
	for _, ext := range opts.Extensions {
		w.exts[strings.ToLower(ext)] = true
	}
	return w, nil
}

// Start adds root and its subdirectories, then blocks dispatching events
// until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}

	if err := w.addRecursive(absRoot); err != nil {
		return fmt.Errorf("add directories to watcher: %w", err)
	}

	go w.forward(ctx)

	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

// Accepts reports whether path passes the extension filter.
func (w *Watcher) Accepts(path string) bool {
	if len(w.exts) == 0 {
		return true
	}
	return w.exts[strings.ToLower(filepath.Ext(path))]
}

func (w *Watcher) handle(event fsnotify.Event) {
	info, statErr := os.Stat(event.Name)
	isDir := statErr == nil && info.IsDir()

	if isDir {
		if event.Has(fsnotify.Create) && !hidden(filepath.Base(event.Name)) {
			if err := w.addRecursive(event.Name); err != nil {
				w.emitError(err)
			}
		}
		return
	}
	if hidden(filepath.Base(event.Name)) || !w.Accepts(event.Name) {
		return
	}

	var op Operation
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		op = OpDelete
	default:
		return
	}

	w.debouncer.Add(FileEvent{Path: event.Name, Operation: op, Timestamp: time.Now()})
}

func (w *Watcher) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case batch, ok := <-w.debouncer.Output():
			if !ok {
				return
			}
			w.emit(batch)
		}
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.opts.Logger.Warn("watch_skip_dir",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

// hidden matches dot-files and dot-directories such as .git.
func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func (w *Watcher) emit(batch []FileEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	select {
	case w.events <- batch:
	default:
		count := w.dropped.Add(1)
		w.opts.Logger.Warn("watch_buffer_full",
			slog.Int("batch_size", len(batch)),
			slog.Uint64("dropped_batches", count))
	}
}

func (w *Watcher) emitError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	select {
	case w.errors <- err:
	default:
	}
}

// Stop releases the fsnotify watcher and closes Events and Errors.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopCh)

	w.debouncer.Stop()
	err := w.fs.Close()
	if errors.Is(err, fsnotify.ErrClosed) {
		err = nil
	}

	close(w.events)
	close(w.errors)
	return err
}

// Events returns the channel of debounced batches.
func (w *Watcher) Events() <-chan []FileEvent {
	return w.events
}

// Errors returns non-fatal watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// DroppedBatches returns the number of batches dropped because the consumer
// fell behind.
func (w *Watcher) DroppedBatches() uint64 {
	return w.dropped.Load()
}
