// Package watcher watches page model files and reports debounced batches of
// changes, so the designer can reload a page model an editor just saved.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blocklang/designer/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// EventType is the kind of change seen on a page model file
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

var eventTypeNames = [...]string{
	EventTypeCreated:  "created",
	EventTypeModified: "modified",
	EventTypeDeleted:  "deleted",
	EventTypeRenamed:  "renamed",
}

func (e EventType) String() string {
	if e < 0 || int(e) >= len(eventTypeNames) {
		return "unknown"
	}
	return eventTypeNames[e]
}

// eventTypeOf folds an fsnotify op into one event type. Removal wins over
// the other bits since nothing is left to read.
func eventTypeOf(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Remove):
		return EventTypeDeleted
	case op.Has(fsnotify.Rename):
		return EventTypeRenamed
	case op.Has(fsnotify.Create):
		return EventTypeCreated
	default:
		return EventTypeModified
	}
}

// ChangeEvent is one change to a watched file. ModTime is zero once the file
// is gone.
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
}

// FileFilter reports whether a path is of interest
type FileFilter func(path string) bool

// ChangeHandler receives one debounced batch
type ChangeHandler func(events []ChangeEvent) error

// FileWatcher turns fsnotify events into debounced batches for its handlers.
type FileWatcher struct {
	fsw     *fsnotify.Watcher
	batches *Debouncer
	logger  logging.Logger

	mu       sync.RWMutex
	filters  []FileFilter
	handlers []ChangeHandler
}

// NewFileWatcher creates a watcher that waits for delay of quiet before
// handing a batch to its handlers.
func NewFileWatcher(delay time.Duration, logger logging.Logger) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &FileWatcher{
		fsw:     fsw,
		batches: NewDebouncer(delay),
		logger:  logger.WithComponent("watcher"),
	}, nil
}

// AddFilter adds a filter every event path must pass
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mu.Lock()
	fw.filters = append(fw.filters, filter)
	fw.mu.Unlock()
}

// AddHandler adds a batch handler
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mu.Lock()
	fw.handlers = append(fw.handlers, handler)
	fw.mu.Unlock()
}

// AddPath watches a directory
func (fw *FileWatcher) AddPath(path string) error {
	clean, err := cleanWatchPath(path)
	if err != nil {
		return err
	}
	return fw.fsw.Add(clean)
}

// AddFile watches a single file. The parent directory is watched instead of
// the file so saves that replace the file through a rename are seen.
func (fw *FileWatcher) AddFile(path string) error {
	clean, err := cleanWatchPath(path)
	if err != nil {
		return err
	}
	if err := fw.fsw.Add(filepath.Dir(clean)); err != nil {
		return err
	}
	fw.AddFilter(SameFileFilter(clean))
	return nil
}

func cleanWatchPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("invalid path: empty")
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path: %s leaves the working directory", path)
	}
	return clean, nil
}

// Start runs the watcher until ctx is done.
func (fw *FileWatcher) Start(ctx context.Context) error {
	go fw.batches.Run(ctx)
	go fw.deliver(ctx)
	go fw.receive(ctx)

	fw.logger.Debug(ctx, "File watcher started", "paths", fw.fsw.WatchList())
	return nil
}

// Stop releases the fsnotify watcher. Pending events are dropped.
func (fw *FileWatcher) Stop() error {
	return fw.fsw.Close()
}

func (fw *FileWatcher) receive(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.fsw.Events:
			if !ok {
				return
			}
			if !fw.accept(event.Name) {
				continue
			}
			change := ChangeEvent{Type: eventTypeOf(event.Op), Path: event.Name}
			if info, err := os.Stat(event.Name); err == nil {
				change.ModTime = info.ModTime()
			}
			if !fw.batches.Push(change) {
				fw.logger.Debug(ctx, "Dropped file event, debouncer is full", "path", event.Name)
			}
		case err, ok := <-fw.fsw.Errors:
			if !ok {
				return
			}
			fw.logger.Warn(ctx, err, "File watcher error")
		}
	}
}

func (fw *FileWatcher) accept(path string) bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	for _, filter := range fw.filters {
		if !filter(path) {
			return false
		}
	}
	return true
}

func (fw *FileWatcher) deliver(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-fw.batches.Batches():
			fw.mu.RLock()
			handlers := append([]ChangeHandler(nil), fw.handlers...)
			fw.mu.RUnlock()

			for _, handler := range handlers {
				if err := handler(batch); err != nil {
					fw.logger.Error(ctx, err, "File watcher handler failed", "events", len(batch))
				}
			}
		}
	}
}

// Debouncer collects events until delay passes without a new one, then
// emits them as one batch holding the latest event per path, sorted by path.
type Debouncer struct {
	delay time.Duration
	in    chan ChangeEvent
	out   chan []ChangeEvent
}

// NewDebouncer creates a debouncer; call Run to start it.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay: delay,
		in:    make(chan ChangeEvent, 128),
		out:   make(chan []ChangeEvent, 8),
	}
}

// Push queues an event without blocking. It reports false when the queue
// is full.
func (d *Debouncer) Push(event ChangeEvent) bool {
	select {
	case d.in <- event:
		return true
	default:
		return false
	}
}

// Batches delivers the debounced batches
func (d *Debouncer) Batches() <-chan []ChangeEvent {
	return d.out
}

// Run debounces until ctx is done. Its goroutine owns the pending set.
func (d *Debouncer) Run(ctx context.Context) {
	pending := make(map[string]ChangeEvent)
	timer := time.NewTimer(d.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.in:
			pending[event.Path] = event
			timer.Reset(d.delay)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]ChangeEvent, 0, len(pending))
			for _, event := range pending {
				batch = append(batch, event)
			}
			sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
			pending = make(map[string]ChangeEvent)

			select {
			case d.out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}

// PageModelFilter accepts the file types a page model can be stored in.
func PageModelFilter(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// NoEditorTempFilter rejects swap and backup files editors write next to the
// file being edited.
func NoEditorTempFilter(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, "~") || strings.HasPrefix(base, ".#") {
		return false
	}
	switch filepath.Ext(base) {
	case ".swp", ".swx", ".tmp", ".bak":
		return false
	}
	return true
}

// NoGitFilter rejects paths inside a .git directory.
func NoGitFilter(path string) bool {
	slashed := filepath.ToSlash(path)
	return !strings.HasPrefix(slashed, ".git/") && !strings.Contains(slashed, "/.git/")
}

// SameFileFilter accepts only the given file.
func SameFileFilter(target string) FileFilter {
	target = filepath.Clean(target)
	return func(path string) bool {
		return filepath.Clean(path) == target
	}
}
