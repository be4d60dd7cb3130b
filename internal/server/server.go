// Package server provides the HTTP API for FormReport.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hireloop/formreport/internal/config"
	"github.com/hireloop/formreport/internal/generator"
	"github.com/hireloop/formreport/internal/storage"
)

// WatchService is the subset of the drop-directory watcher the API manages.
type WatchService interface {
	Directories() []string
	AddDirectory(path string, syncExisting bool) error
	RemoveDirectory(path string) error
}

// Server is the HTTP server for the FormReport API.
type Server struct {
	gen     *generator.Generator
	storage storage.Storage
	config  *config.ServerConfig
	logger  *zap.Logger
	server  *http.Server

	watch       WatchService
	configPath  string
	appConfig   *config.Config
	appConfigMu sync.Mutex
}

// NewServer creates a server with the given dependencies. watch may be nil
// when drop-directory watching is disabled; configPath and appConfig enable
// persisting watch changes back to the config file.
func NewServer(
	gen *generator.Generator,
	store storage.Storage,
	cfg *config.ServerConfig,
	logger *zap.Logger,
	watch WatchService,
	configPath string,
	appConfig *config.Config,
) *Server {
	return &Server{
		gen:        gen,
		storage:    store,
		config:     cfg,
		logger:     logger,
		watch:      watch,
		configPath: configPath,
		appConfig:  appConfig,
	}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/reports", s.handleGenerateReport)
	r.Get("/api/v1/reports", s.handleListReports)
	r.Get("/api/v1/reports/{id}", s.handleGetReport)
	r.Get("/api/v1/reports/{id}/html", s.handleGetReportHTML)
	r.Delete("/api/v1/reports/{id}", s.handleDeleteReport)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/watch/directories", s.handleWatchDirectoriesList)
	r.Post("/api/v1/watch/directories", s.handleWatchDirectoriesAdd)
	r.Delete("/api/v1/watch/directories", s.handleWatchDirectoriesRemove)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
