package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/robotforge/robotforge/pkg/models"
)

// generateTestHandler handles POST /generate-test: runs the four-agent
// pipeline and streams generation.* events, terminating after
// generation.complete or generation.error.
func (s *Server) generateTestHandler(c *gin.Context) {
	var req GenerateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	query := models.Query{Text: req.Query, Model: req.Model, Provider: req.Provider}
	ch := s.orchestrator.Generate(c.Request.Context(), query)
	streamEvents(c, ch)
}

// executeTestHandler handles POST /execute-test: runs robot_code inside
// the container execution engine and streams execution.* events.
func (s *Server) executeTestHandler(c *gin.Context) {
	var req ExecuteTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	ch := s.orchestrator.Execute(c.Request.Context(), req.RobotCode, req.UserQuery)
	streamEvents(c, ch)
}

// generateAndRunHandler handles POST /generate-and-run: the concatenation
// of generate then execute on one ordered event stream.
func (s *Server) generateAndRunHandler(c *gin.Context) {
	var req GenerateAndRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	query := models.Query{Text: req.Query, Model: req.Model, Provider: req.Provider}
	ch := s.orchestrator.GenerateAndRun(c.Request.Context(), query)
	streamEvents(c, ch)
}

// rebuildDockerImageHandler handles POST /rebuild-docker-image: forces a
// fresh pull-or-build of the runner image, discarding any existing tag.
func (s *Server) rebuildDockerImageHandler(c *gin.Context) {
	if s.provisioner == nil {
		c.JSON(http.StatusServiceUnavailable, RebuildImageResponse{Status: "error", Message: "docker provisioning is not configured"})
		return
	}

	err := s.provisioner.Rebuild(c.Request.Context(), func(line string) {
		s.logger.Debug("docker image rebuild", "line", line)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, RebuildImageResponse{Status: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, RebuildImageResponse{Status: "ok", Message: "image rebuilt"})
}

// dockerStatusHandler handles GET /docker-status: reports daemon
// reachability and the configured runner image's presence/metadata.
func (s *Server) dockerStatusHandler(c *gin.Context) {
	if s.provisioner == nil {
		c.JSON(http.StatusOK, DockerStatusResponse{Status: "unavailable", DockerAvailable: false})
		return
	}

	status, err := s.provisioner.Status(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp := DockerStatusResponse{
		Status:          "ok",
		DockerAvailable: status.DockerAvailable,
		Image: DockerImageStatus{
			Exists:  status.ImageExists,
			ID:      status.ImageID,
			Created: status.Created,
			Size:    status.SizeBytes,
		},
	}
	if !status.DockerAvailable {
		resp.Status = "unavailable"
	}
	c.JSON(http.StatusOK, resp)
}

// cleanupContainersHandler handles DELETE /test/containers/cleanup:
// force-removes orphaned robot-test-* containers.
func (s *Server) cleanupContainersHandler(c *gin.Context) {
	cleaned, err := s.orchestrator.CleanupContainers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, CleanupResponse{Status: "ok", ContainersCleaned: cleaned})
}
