package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/lrtraviteja/contact-book-app/pkg/bus"
	"github.com/lrtraviteja/contact-book-app/pkg/config"
	"github.com/lrtraviteja/contact-book-app/pkg/contacts"
	"github.com/lrtraviteja/contact-book-app/pkg/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	config     config.ServerConfig
	service    *contacts.Service
	store      Pinger
	events     *bus.EventBus
	hub        *Hub
	httpServer *http.Server
	listener   net.Listener
	startTime  time.Time
	started    atomic.Bool
}

func NewServer(cfg config.ServerConfig, service *contacts.Service, store Pinger, events *bus.EventBus) *Server {
	if events == nil {
		events = bus.NewEventBus()
	}
	return &Server{
		config:    cfg,
		service:   service,
		store:     store,
		events:    events,
		hub:       NewHub(events),
		startTime: time.Now(),
	}
}

// Handler returns the full routing tree: the contact routes at the root and
// again under /api.
func (s *Server) Handler() http.Handler {
	routes := http.NewServeMux()
	routes.HandleFunc("/contacts", s.handleContacts)
	routes.HandleFunc("/contacts/", s.handleContactDetail)
	routes.HandleFunc("/healthz", s.handleHealth)
	routes.HandleFunc("/ws", s.hub.handleWebSocket)

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", routes))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			s.handleRoot(w, r)
			return
		}
		routes.ServeHTTP(w, r)
	})

	return s.logMiddleware(s.corsMiddleware(mux))
}

// Start binds the listener and serves in the background until ctx is cancelled
// or Stop is called. A server can be started once.
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("server already started")
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.started.Store(false)
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	s.startTime = time.Now()
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.hub.Run(ctx)

	go func() {
		logger.InfoCF("api", "HTTP server started", map[string]interface{}{
			"address": listener.Addr().String(),
		})
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.ErrorCF("api", "HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Addr is the bound listen address, useful when the configured port is 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop() {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			logger.WarnCF("api", "Shutdown incomplete", map[string]interface{}{"error": err.Error()})
		}
		logger.InfoC("api", "HTTP server stopped")
	}
}
