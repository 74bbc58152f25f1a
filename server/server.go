// Package server exposes the FieldHQ HTTP API: admin login, agent CRUD,
// dashboard stats, file upload/ingestion, and a WebSocket feed of
// ingestion events for the dashboard.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fieldhq/fieldhq/auth"
	"github.com/fieldhq/fieldhq/config"
	"github.com/fieldhq/fieldhq/errors"
	"github.com/fieldhq/fieldhq/ingest"
	"github.com/fieldhq/fieldhq/store"
)

const (
	// ShutdownTimeout is how long to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second
)

// Server is the FieldHQ HTTP server
type Server struct {
	cfg      *config.Config
	agents   *store.AgentStore
	records  *store.RecordStore
	admins   *auth.AdminStore
	ingestor *ingest.Ingestor
	jwt      *auth.JWTManager
	authmw   *auth.Middleware
	logger   *zap.SugaredLogger

	mux  *http.ServeMux
	http *http.Server

	upgrader  websocket.Upgrader
	clientsMu sync.Mutex
	clients   map[*wsClient]bool
}

// New creates a FieldHQ server over an open, migrated database
func New(db *sql.DB, cfg *config.Config, logger *zap.SugaredLogger) (*Server, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	agents := store.NewAgentStore(db, logger)
	records := store.NewRecordStore(db, logger)
	admins := auth.NewAdminStore(db, logger)

	jwtManager, err := auth.NewJWTManager(&cfg.Auth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create JWT manager")
	}

	s := &Server{
		cfg:      cfg,
		agents:   agents,
		records:  records,
		admins:   admins,
		ingestor: ingest.NewIngestor(agents, records, logger),
		jwt:      jwtManager,
		authmw:   auth.NewMiddleware(jwtManager, logger),
		logger:   logger,
		mux:      http.NewServeMux(),
		clients:  make(map[*wsClient]bool),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.setupHTTPRoutes()

	return s, nil
}

// Start serves HTTP on the configured port until the context is canceled
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler: s.mux,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("FieldHQ server listening", "port", s.cfg.Server.Port)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server failed")
	case <-ctx.Done():
		return s.shutdown()
	}
}

// Handler returns the server's HTTP handler, used directly in tests
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) shutdown() error {
	s.logger.Infow("Shutting down server")

	// Close client connections first so both pumps exit before the
	// listener stops accepting
	s.clientsMu.Lock()
	clients := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.Unlock()
	for _, c := range clients {
		s.dropClient(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	return nil
}
