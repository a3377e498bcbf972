package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotforge/robotforge/pkg/bridge"
	"github.com/robotforge/robotforge/pkg/exec"
	"github.com/gin-gonic/gin"

	"github.com/robotforge/robotforge/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeOrchestrator struct {
	events       []bridge.Message
	cleaned      []string
	cleanupErr   error
	lastQuery    models.Query
	lastScript   string
	lastOrigQuer string
}

func (f *fakeOrchestrator) stream() <-chan bridge.Message {
	ch := make(chan bridge.Message, len(f.events))
	for _, m := range f.events {
		ch <- m
	}
	close(ch)
	return ch
}

func (f *fakeOrchestrator) Generate(_ context.Context, query models.Query) <-chan bridge.Message {
	f.lastQuery = query
	return f.stream()
}

func (f *fakeOrchestrator) Execute(_ context.Context, script, originalQuery string) <-chan bridge.Message {
	f.lastScript = script
	f.lastOrigQuer = originalQuery
	return f.stream()
}

func (f *fakeOrchestrator) GenerateAndRun(_ context.Context, query models.Query) <-chan bridge.Message {
	f.lastQuery = query
	return f.stream()
}

func (f *fakeOrchestrator) CleanupContainers(_ context.Context) ([]string, error) {
	return f.cleaned, f.cleanupErr
}

type fakeProvisioner struct {
	status     *exec.ImageStatus
	statusErr  error
	rebuildErr error
}

func (f *fakeProvisioner) Status(_ context.Context) (*exec.ImageStatus, error) {
	return f.status, f.statusErr
}

func (f *fakeProvisioner) Rebuild(_ context.Context, _ exec.ProgressFunc) error {
	return f.rebuildErr
}

func TestGenerateTestHandler_StreamsEventsAsSSE(t *testing.T) {
	orch := &fakeOrchestrator{events: []bridge.Message{
		{Event: &models.Event{Stage: models.PhaseGeneration, Status: models.StatusRunning}},
		{Heartbeat: true},
		{Event: &models.Event{Stage: models.PhaseGeneration, Status: models.StatusComplete, RobotCode: "*** Test Cases ***"}},
	}}
	s := NewServer(orch, nil)

	body := bytes.NewBufferString(`{"query": "log in at https://example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/generate-test", body)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), ": heartbeat")
	require.Contains(t, rec.Body.String(), `"status":"complete"`)
	require.Equal(t, "log in at https://example.com", orch.lastQuery.Text)
}

func TestGenerateTestHandler_BadRequestOnMissingQuery(t *testing.T) {
	s := NewServer(&fakeOrchestrator{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate-test", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteTestHandler_PassesScriptAndUserQuery(t *testing.T) {
	orch := &fakeOrchestrator{events: []bridge.Message{
		{Event: &models.Event{Stage: models.PhaseExecution, Status: models.StatusComplete}},
	}}
	s := NewServer(orch, nil)

	req := httptest.NewRequest(http.MethodPost, "/execute-test", bytes.NewBufferString(`{"robot_code": "*** Test Cases ***", "user_query": "log in"}`))
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*** Test Cases ***", orch.lastScript)
	require.Equal(t, "log in", orch.lastOrigQuer)
}

func TestDockerStatusHandler_ReportsImageStatus(t *testing.T) {
	prov := &fakeProvisioner{status: &exec.ImageStatus{DockerAvailable: true, ImageExists: true, ImageID: "sha256:abc", SizeBytes: 42}}
	s := NewServer(&fakeOrchestrator{}, prov)

	req := httptest.NewRequest(http.MethodGet, "/docker-status", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DockerStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.DockerAvailable)
	require.True(t, resp.Image.Exists)
	require.Equal(t, "sha256:abc", resp.Image.ID)
}

func TestDockerStatusHandler_UnavailableWhenNoProvisioner(t *testing.T) {
	s := NewServer(&fakeOrchestrator{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/docker-status", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `"unavailable"`))
}

func TestRebuildDockerImageHandler_ReturnsOkOnSuccess(t *testing.T) {
	prov := &fakeProvisioner{}
	s := NewServer(&fakeOrchestrator{}, prov)

	req := httptest.NewRequest(http.MethodPost, "/rebuild-docker-image", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RebuildImageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
}

func TestCleanupContainersHandler_ReturnsCleanedNames(t *testing.T) {
	orch := &fakeOrchestrator{cleaned: []string{"robot-test-1", "robot-test-2"}}
	s := NewServer(orch, nil)

	req := httptest.NewRequest(http.MethodDelete, "/test/containers/cleanup", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CleanupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"robot-test-1", "robot-test-2"}, resp.ContainersCleaned)
}
