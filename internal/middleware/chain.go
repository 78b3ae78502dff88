package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/blocklang/designer/internal/logging"
)

// Chain manages the HTTP middleware stack of the preview server.
//
// Middlewares execute in reverse order of addition: the first added
// middleware is the outermost wrapper.
type Chain struct {
	logger         logging.Logger
	allowedOrigins []string
	middlewares    []Middleware
}

// Middleware represents a single middleware function
type Middleware func(http.Handler) http.Handler

// ChainDependencies contains all dependencies needed for chain construction
type ChainDependencies struct {
	Logger         logging.Logger
	AllowedOrigins []string
}

// NewChain creates a chain with the standard logging and CORS stack
func NewChain(deps ChainDependencies) *Chain {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	chain := &Chain{
		logger:         logger.WithComponent("http"),
		allowedOrigins: deps.AllowedOrigins,
		middlewares:    make([]Middleware, 0, 4),
	}
	chain.buildDefaultStack()

	return chain
}

func (c *Chain) buildDefaultStack() {
	c.Add(c.createLoggingMiddleware())
	c.Add(c.createCORSMiddleware())
}

// Add appends a middleware to the chain
func (c *Chain) Add(middleware Middleware) {
	c.middlewares = append(c.middlewares, middleware)
}

// Len returns the number of middlewares in the chain
func (c *Chain) Len() int {
	return len(c.middlewares)
}

// Apply wraps handler with every middleware of the chain.
func (c *Chain) Apply(handler http.Handler) http.Handler {
	if handler == nil {
		panic("Chain.Apply: handler cannot be nil")
	}

	wrapped := handler
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		middleware := c.middlewares[i]
		if middleware == nil {
			panic(fmt.Sprintf("Chain.Apply: middleware at index %d is nil", i))
		}
		wrapped = middleware(wrapped)
	}

	return wrapped
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer, which the
// websocket upgrade needs.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (c *Chain) createLoggingMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			c.logger.Debug(context.Background(), "HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// OriginAllowed reports whether origin may call the preview API. Empty
// origins are same-origin requests. An empty allow list admits localhost
// only.
func (c *Chain) OriginAllowed(origin string) bool {
	return OriginAllowed(c.allowedOrigins, origin)
}

// OriginAllowed is the origin check shared by the CORS middleware and the
// websocket upgrade.
func OriginAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return true
	}
	if len(allowed) == 0 {
		return strings.HasPrefix(origin, "http://localhost") ||
			strings.HasPrefix(origin, "http://127.0.0.1")
	}
	for _, candidate := range allowed {
		if candidate == "*" || strings.EqualFold(candidate, origin) {
			return true
		}
	}
	return false
}

func (c *Chain) createCORSMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && c.OriginAllowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
