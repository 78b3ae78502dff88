// Package middleware holds the collaborators the designer host lends to
// widgets while rendering: node measurement, a get-or-set cache, and the
// HTTP middleware chain of the preview server.
package middleware

import (
	"sync"

	"github.com/blocklang/designer/internal/types"
)

// Dimensions measures rendered nodes by key. Unknown keys measure as zero.
type Dimensions interface {
	Get(key string) types.Dimensions
}

// DimensionsFunc adapts a function to Dimensions.
type DimensionsFunc func(key string) types.Dimensions

// Get implements Dimensions.
func (f DimensionsFunc) Get(key string) types.Dimensions {
	return f(key)
}

// LayoutSource is a Dimensions that tells a key with no layout yet apart
// from one laid out at zero size.
type LayoutSource interface {
	Dimensions
	Lookup(key string) (types.Dimensions, bool)
}

// LayoutRecorder is a Dimensions implementation fed with layout reports
// from the page hosting the rendered output.
type LayoutRecorder struct {
	mu      sync.RWMutex
	layouts map[string]types.Dimensions
}

// NewLayoutRecorder creates an empty recorder
func NewLayoutRecorder() *LayoutRecorder {
	return &LayoutRecorder{
		layouts: make(map[string]types.Dimensions),
	}
}

// Record stores the dimensions reported for key
func (r *LayoutRecorder) Record(key string, dimensions types.Dimensions) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.layouts[key] = dimensions
}

// RecordAll stores a batch of layout reports
func (r *LayoutRecorder) RecordAll(layouts map[string]types.Dimensions) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, dimensions := range layouts {
		r.layouts[key] = dimensions
	}
}

// Get implements Dimensions.
func (r *LayoutRecorder) Get(key string) types.Dimensions {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.layouts[key]
}

// Lookup implements LayoutSource.
func (r *LayoutRecorder) Lookup(key string) (types.Dimensions, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dimensions, ok := r.layouts[key]
	return dimensions, ok
}

// Reset forgets every recorded layout
func (r *LayoutRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.layouts = make(map[string]types.Dimensions)
}

// Host bundles the collaborators a wrapped widget renders with. Invalidate,
// when set, asks the host for another render pass.
type Host struct {
	Dimensions Dimensions
	Cache      *Cache
	Invalidate func()
}
