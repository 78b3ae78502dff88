package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blocklang/designer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetOrSet(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)

	calls := 0
	compute := func() interface{} {
		calls++
		return types.Dimensions{Width: 10}
	}

	first := c.GetOrSet("w1", compute)
	second := c.GetOrSet("w1", compute)
	assert.Equal(t, types.Dimensions{Width: 10}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	c.Set("w1", types.Dimensions{Width: 20})
	v, ok := c.Get("w1")
	require.True(t, ok)
	assert.Equal(t, types.Dimensions{Width: 20}, v)

	c.Set("a", 1)
	c.Purge()
	_, ok = c.Get("w1")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestCacheDefaultSize(t *testing.T) {
	c, err := NewCache(0)
	require.NoError(t, err)
	c.Set("k", "v")
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestLayoutRecorder(t *testing.T) {
	r := NewLayoutRecorder()
	assert.True(t, r.Get("missing").IsZero())

	r.Record("w1", types.Dimensions{OffsetTop: 1, OffsetLeft: 2, Width: 3, Height: 4})
	r.RecordAll(map[string]types.Dimensions{"w2": {Width: 5}})

	assert.Equal(t, types.Dimensions{OffsetTop: 1, OffsetLeft: 2, Width: 3, Height: 4}, r.Get("w1"))
	assert.Equal(t, 5.0, r.Get("w2").Width)

	_, ok := r.Lookup("missing")
	assert.False(t, ok)
	zero, ok := r.Lookup("zero")
	assert.False(t, ok)
	r.Record("zero", types.Dimensions{})
	zero, ok = r.Lookup("zero")
	assert.True(t, ok)
	assert.True(t, zero.IsZero())

	r.Reset()
	_, ok = r.Lookup("w1")
	assert.False(t, ok)

	var d Dimensions = DimensionsFunc(func(key string) types.Dimensions {
		return types.Dimensions{Height: float64(len(key))}
	})
	assert.Equal(t, 3.0, d.Get("abc").Height)
}

func TestChainCORS(t *testing.T) {
	chain := NewChain(ChainDependencies{AllowedOrigins: []string{"http://example.com"}})
	assert.Equal(t, 2, chain.Len())

	handler := chain.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestOriginAllowed(t *testing.T) {
	assert.True(t, OriginAllowed(nil, ""))
	assert.True(t, OriginAllowed(nil, "http://localhost:8080"))
	assert.False(t, OriginAllowed(nil, "http://example.com"))
	assert.True(t, OriginAllowed([]string{"*"}, "http://example.com"))
}
