// Package api is the thin HTTP/SSE shell: seven gin routes (six endpoints
// plus /health) over an
// already-constructed Orchestrator, with no business logic of its own,
// adapted from REST+WebSocket resource endpoints to SSE-streaming
// generate/execute endpoints.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/robotforge/robotforge/pkg/bridge"
	"github.com/robotforge/robotforge/pkg/exec"
	"github.com/robotforge/robotforge/pkg/models"
)

// Orchestrator is satisfied by *orchestrator.Orchestrator. Declared locally
// so the HTTP shell can be tested against a fake without a real Docker
// daemon or LLM credentials.
type Orchestrator interface {
	Generate(ctx context.Context, query models.Query) <-chan bridge.Message
	Execute(ctx context.Context, finalScript, originalQuery string) <-chan bridge.Message
	GenerateAndRun(ctx context.Context, query models.Query) <-chan bridge.Message
	CleanupContainers(ctx context.Context) ([]string, error)
}

// Provisioner is satisfied by *exec.ImageProvisioner.
type Provisioner interface {
	Status(ctx context.Context) (*exec.ImageStatus, error)
	Rebuild(ctx context.Context, onProgress exec.ProgressFunc) error
}

// Server is the HTTP API server.
type Server struct {
	engine       *gin.Engine
	httpServer   *http.Server
	orchestrator Orchestrator
	provisioner  Provisioner
	logger       *slog.Logger
}

// NewServer builds a Server wired to an already-constructed Orchestrator
// and Provisioner and registers all routes.
func NewServer(orchestrator Orchestrator, provisioner Provisioner) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:       engine,
		orchestrator: orchestrator,
		provisioner:  provisioner,
		logger:       slog.Default(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.healthHandler)

	s.engine.POST("/generate-test", s.generateTestHandler)
	s.engine.POST("/execute-test", s.executeTestHandler)
	s.engine.POST("/generate-and-run", s.generateAndRunHandler)
	s.engine.POST("/rebuild-docker-image", s.rebuildDockerImageHandler)
	s.engine.GET("/docker-status", s.dockerStatusHandler)
	s.engine.DELETE("/test/containers/cleanup", s.cleanupContainersHandler)
}

// Start starts the HTTP server on addr (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.engine}
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
