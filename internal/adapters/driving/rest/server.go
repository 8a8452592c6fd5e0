// Package rest exposes the ingestion and retrieval pipeline over HTTP.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/passim-search/passim/internal/logger"
)

// Config holds the REST server configuration.
type Config struct {
	// Host is the listen address. Defaults to 127.0.0.1.
	Host string

	// Port is the listen port. Defaults to 8088.
	Port int

	// InboxDir is where uploaded files land and where POST /ingest
	// reads from.
	InboxDir string
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host: "127.0.0.1",
		Port: 8088,
	}
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	ports  *Ports
	engine *gin.Engine
}

// NewServer creates a new REST server with the given ports.
func NewServer(cfg Config, ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if cfg.Host == "" {
		cfg.Host = DefaultConfig().Host
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultConfig().Port
	}

	s := &Server{cfg: cfg, ports: ports}
	s.engine = s.router()
	return s, nil
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("Listening on http://%s", addr)
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)
	r.POST("/upload", s.handleUpload)
	r.POST("/ingest", s.handleIngest)
	r.POST("/query", s.handleQuery)
	r.POST("/answer", s.handleAnswer)
	r.GET("/documents", s.handleDocuments)
	r.DELETE("/index", s.handleWipe)

	return r
}
