package instancemap

import (
	"testing"

	derrors "github.com/blocklang/designer/internal/errors"
	"github.com/blocklang/designer/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetAndSubscribe(t *testing.T) {
	s := NewStore()

	var seen []interface{}
	cancel := s.Subscribe(func(key, value interface{}) {
		// the write is visible to the listener
		stored, ok := s.Get(key)
		assert.True(t, ok)
		assert.Equal(t, value, stored)
		seen = append(seen, key)
	})

	s.Set("k1", 1)
	s.Set("k2", 2)
	assert.Equal(t, []interface{}{"k1", "k2"}, seen)
	assert.Equal(t, 2, s.Len())

	cancel()
	cancel()
	s.Set("k3", 3)
	assert.Len(t, seen, 2)
	assert.Equal(t, 3, s.Len())
}

func TestBridgeCacheDuplicate(t *testing.T) {
	b := NewBridge()
	require.NoError(t, b.Cache(registry.RepoKey("a/b/c"), NewStore()))

	err := b.Cache(registry.Locator{Website: "a", Owner: "b", RepoName: "c"}, NewStore())
	require.Error(t, err)
	assert.True(t, derrors.IsDuplicateRegistration(err))
	assert.Equal(t, []string{"a/b/c"}, b.Keys())
}

func TestBridgeWatchMirrorsWrites(t *testing.T) {
	b := NewBridge()
	pkg1 := NewStore()
	pkg2 := NewStore()
	require.NoError(t, b.Cache(registry.RepoKey("a/b/c"), pkg1))
	require.NoError(t, b.Cache(registry.RepoKey("d/e/f"), pkg2))

	host := NewStore()
	b.Watch(host)

	pkg1.Set("k1", "v1")
	pkg2.Set("k2", "v2")

	v, ok := host.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	v, ok = host.Get("k2")
	require.True(t, ok)
	assert.Equal(t, "v2", v)

	// the local write still happened
	v, ok = pkg1.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "v1", v)
}

func TestBridgeWatchIgnoresEarlierWrites(t *testing.T) {
	b := NewBridge()
	pkg := NewStore()
	pkg.Set("before", 1)
	require.NoError(t, b.Cache(registry.RepoKey("a/b/c"), pkg))

	host := NewStore()
	b.Watch(host)

	_, ok := host.Get("before")
	assert.False(t, ok)
}

func TestBridgeWatchEmptyIsNoop(t *testing.T) {
	b := NewBridge()
	host := NewStore()

	assert.NotPanics(t, func() { b.Watch(host) })
	assert.Equal(t, 0, host.Len())
}

func TestBridgeWatchReplacesHost(t *testing.T) {
	b := NewBridge()
	pkg := NewStore()
	require.NoError(t, b.Cache(registry.RepoKey("a/b/c"), pkg))

	first := NewStore()
	second := NewStore()
	b.Watch(first)
	b.Watch(second)

	pkg.Set("k", "v")
	assert.Equal(t, 0, first.Len())
	assert.Equal(t, 1, second.Len())
}

func TestBridgeClearAll(t *testing.T) {
	b := NewBridge()
	pkg := NewStore()
	require.NoError(t, b.Cache(registry.RepoKey("a/b/c"), pkg))

	host := NewStore()
	b.Watch(host)
	b.ClearAll()

	pkg.Set("k", "v")
	assert.Equal(t, 0, host.Len())
	assert.Empty(t, b.Keys())

	_, ok := b.Lookup(registry.RepoKey("a/b/c"))
	assert.False(t, ok)

	b.ClearAll()
	assert.NoError(t, b.Cache(registry.RepoKey("a/b/c"), NewStore()))
}
