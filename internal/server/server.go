// Package server serves a designer session over HTTP: the rendered page in a
// host shell, a JSON API the shell reports layout and UI events through, and
// a websocket that pushes session events and page reloads to the browser.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/blocklang/designer/internal/config"
	"github.com/blocklang/designer/internal/logging"
	"github.com/blocklang/designer/internal/middleware"
	"github.com/blocklang/designer/internal/page"
	"github.com/blocklang/designer/internal/registry"
	"github.com/blocklang/designer/internal/session"
	"github.com/blocklang/designer/internal/watcher"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PreviewServer serves one designer session with live reload
type PreviewServer struct {
	config      *config.Config
	session     *session.Session
	logger      logging.Logger
	chain       *middleware.Chain
	hub         *Hub
	watcher     *watcher.FileWatcher
	httpServer  *http.Server
	serverMutex sync.RWMutex

	shutdownOnce sync.Once
}

// UpdateMessage represents a message sent to the browser
type UpdateMessage struct {
	Type      string         `json:"type"`
	Event     *session.Event `json:"event,omitempty"`
	Content   string         `json:"content,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

const (
	MessageEvent  = "event"
	MessageReload = "reload"
	MessageError  = "error"
)

// New creates a preview server over sess
func New(cfg *config.Config, sess *session.Session, logger logging.Logger) (*PreviewServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if sess == nil {
		return nil, fmt.Errorf("session is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	s := &PreviewServer{
		config:  cfg,
		session: sess,
		logger:  logger.WithComponent("server"),
		chain: middleware.NewChain(middleware.ChainDependencies{
			Logger:         logger,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}),
	}
	s.hub = NewHub(s.logger)

	if cfg.Page.Model != "" {
		fileWatcher, err := watcher.NewFileWatcher(cfg.Designer.WatchDebounce, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}
		s.watcher = fileWatcher
	}

	return s, nil
}

// Handler returns the routed handler wrapped in the middleware chain
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s.handleIndex())
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/frame", s.handleFrame)
	mux.HandleFunc("/api/data/path", s.handleDataPath)
	mux.HandleFunc("/api/data/value", s.handleDataValue)
	mux.HandleFunc("/api/layout", s.handleLayout)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/widgets", s.handleWidgets)
	mux.HandleFunc("/api/properties", s.handleProperties)

	return s.chain.Apply(mux)
}

// Start runs the server until ctx is done or the listener fails
func (s *PreviewServer) Start(ctx context.Context) error {
	go s.hub.Run(ctx)
	go s.forwardSessionEvents(ctx, s.session.Watch())
	go s.forwardRegistryEvents(ctx, s.session.Extensions().Watch())

	if s.watcher != nil {
		if err := s.setupFileWatcher(ctx); err != nil {
			s.logger.Warn(ctx, err, "Page model watching disabled", "path", s.config.Page.Model)
		}
	}

	s.session.Render(ctx)

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(shutdownCtx, err, "Shutdown failed")
		}
	}()

	s.logger.Info(ctx, "Preview server listening", "address", server.Addr, "mode", s.session.Mode())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server and the page model watcher. It is safe to
// call more than once.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.watcher != nil {
			if stopErr := s.watcher.Stop(); stopErr != nil {
				s.logger.Warn(ctx, stopErr, "Failed to stop file watcher")
			}
		}

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()
		if server != nil {
			err = server.Shutdown(ctx)
		}
	})
	return err
}

func (s *PreviewServer) setupFileWatcher(ctx context.Context) error {
	s.watcher.AddFilter(watcher.PageModelFilter)
	s.watcher.AddFilter(watcher.NoEditorTempFilter)
	s.watcher.AddHandler(func(events []watcher.ChangeEvent) error {
		return s.Reload(ctx)
	})

	if err := s.watcher.AddFile(s.config.Page.Model); err != nil {
		return err
	}
	return s.watcher.Start(ctx)
}

// Reload loads the page model file again and swaps it into the session. A
// model that fails to load leaves the session untouched and is reported to
// connected browsers.
func (s *PreviewServer) Reload(ctx context.Context) error {
	model, err := page.Load(s.config.Page.Model)
	if err != nil {
		s.broadcast(UpdateMessage{Type: MessageError, Content: err.Error()})
		return err
	}
	s.session.ReplaceModel(ctx, model)
	s.logger.Info(ctx, "Page model reloaded", "path", s.config.Page.Model, "widgets", len(model.Widgets))
	return nil
}

func (s *PreviewServer) forwardSessionEvents(ctx context.Context, events <-chan session.Event) {
	defer s.session.UnWatch(events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			msgType := MessageEvent
			if event.Type == session.EventReloaded {
				msgType = MessageReload
			}
			s.broadcast(UpdateMessage{Type: msgType, Event: &event})
		}
	}
}

// forwardRegistryEvents renders again when a component package registers
// after the page was first rendered.
func (s *PreviewServer) forwardRegistryEvents(ctx context.Context, events <-chan registry.Event) {
	defer s.session.Extensions().UnWatch(events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type != registry.EventTypeRegistered {
				continue
			}
			s.logger.Debug(ctx, "Extension registry changed", "type", event.Type.String(), "locator", event.Key)
			s.session.Render(ctx)
			s.broadcast(UpdateMessage{Type: MessageReload})
		}
	}
}

func (s *PreviewServer) broadcast(msg UpdateMessage) {
	msg.Timestamp = time.Now()
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error(context.Background(), err, "Failed to encode update message", "type", msg.Type)
		return
	}
	s.hub.Broadcast(data)
}
