package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(99), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestEventTypeOf(t *testing.T) {
	assert.Equal(t, EventTypeCreated, eventTypeOf(fsnotify.Create))
	assert.Equal(t, EventTypeModified, eventTypeOf(fsnotify.Write))
	assert.Equal(t, EventTypeModified, eventTypeOf(fsnotify.Chmod))
	assert.Equal(t, EventTypeRenamed, eventTypeOf(fsnotify.Rename))
	assert.Equal(t, EventTypeDeleted, eventTypeOf(fsnotify.Remove|fsnotify.Write))
}

func TestDebouncerPushWhenFull(t *testing.T) {
	debouncer := NewDebouncer(time.Second)
	for i := 0; i < cap(debouncer.in); i++ {
		require.True(t, debouncer.Push(ChangeEvent{Path: "page.json"}))
	}
	assert.False(t, debouncer.Push(ChangeEvent{Path: "page.json"}))
}

func TestNewFileWatcher(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NotNil(t, watcher.fsw)
	assert.NotNil(t, watcher.batches)
	assert.Empty(t, watcher.filters)
	assert.Empty(t, watcher.handlers)

	watcher.AddFilter(PageModelFilter)
	watcher.AddHandler(func([]ChangeEvent) error { return nil })
	assert.Len(t, watcher.filters, 1)
	assert.Len(t, watcher.handlers, 1)
}

func TestFileWatcherValidation(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.Error(t, watcher.AddPath(""))
	assert.Error(t, watcher.AddPath("../outside"))
	assert.Error(t, watcher.AddFile("../outside/page.json"))
	assert.Error(t, watcher.AddPath(filepath.Join(t.TempDir(), "missing")))
}

func TestFileWatcherAddFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "page.json")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0600))

	watcher, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	require.NoError(t, watcher.AddFile(target))

	var mu sync.Mutex
	var batches [][]ChangeEvent
	watcher.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, events)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0600))
	require.NoError(t, os.WriteFile(target, []byte(`{"pageId":1}`), 0600))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, batch := range batches {
		for _, event := range batch {
			assert.Equal(t, target, event.Path)
		}
	}
}

func TestDebouncer(t *testing.T) {
	debouncer := NewDebouncer(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go debouncer.Run(ctx)

	require.True(t, debouncer.Push(ChangeEvent{Path: "b.json", Type: EventTypeCreated}))
	require.True(t, debouncer.Push(ChangeEvent{Path: "b.json", Type: EventTypeModified}))
	require.True(t, debouncer.Push(ChangeEvent{Path: "a.json", Type: EventTypeModified}))

	select {
	case events := <-debouncer.Batches():
		require.Len(t, events, 2)
		assert.Equal(t, "a.json", events[0].Path)
		assert.Equal(t, "b.json", events[1].Path)
		assert.Equal(t, EventTypeModified, events[1].Type)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a debounced batch")
	}
}

func TestFilters(t *testing.T) {
	assert.True(t, PageModelFilter("page.json"))
	assert.True(t, PageModelFilter("page.YAML"))
	assert.True(t, PageModelFilter("dir/page.yml"))
	assert.False(t, PageModelFilter("page.templ"))

	assert.True(t, NoEditorTempFilter("page.json"))
	assert.False(t, NoEditorTempFilter("page.json~"))
	assert.False(t, NoEditorTempFilter(".page.json.swp"))
	assert.False(t, NoEditorTempFilter("dir/.#page.json"))

	assert.True(t, NoGitFilter("page.json"))
	assert.False(t, NoGitFilter(".git/config"))
	assert.False(t, NoGitFilter("repo/.git/HEAD"))

	same := SameFileFilter("dir/./page.json")
	assert.True(t, same("dir/page.json"))
	assert.False(t, same("dir/other.json"))
}
