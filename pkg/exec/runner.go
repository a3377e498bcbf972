package exec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"

	"github.com/robotforge/robotforge/pkg/config"
	"github.com/robotforge/robotforge/pkg/models"
)

const (
	mountPath      = "/robotforge/run"
	scriptFileName = "test.robot"
	xmlReportName  = "output.xml"
	htmlReportName = "report.html"
)

// Runner executes one generated script as a one-shot, non-auto-removed
// container and ingests its structured artifacts, per the run protocol in
// §4.6: write script, force-remove any name collision, create, wait,
// always remove before reporting.
type Runner struct {
	cfg    *config.Config
	docker *dockerClient
}

// NewRunner opens its own Docker client for running scripts.
func NewRunner(cfg *config.Config) (*Runner, error) {
	dc, err := newDockerClient()
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, docker: dc}, nil
}

// Close releases the underlying Docker client.
func (r *Runner) Close() error { return r.docker.close() }

// Run executes script for runID and returns its classified result. The
// per-run directory under cfg.TestsRoot/<runID> is retained after the
// call so HTML artifacts remain reachable by external path, per the log
// source policy.
func (r *Runner) Run(ctx context.Context, runID, script string) (*models.ExecutionResult, error) {
	runDir := filepath.Join(r.cfg.TestsRoot, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("exec: create run dir: %w", err)
	}
	scriptPath := filepath.Join(runDir, scriptFileName)
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return nil, fmt.Errorf("exec: write script: %w", err)
	}

	name := fmt.Sprintf("robot-test-%s", runID)
	// Collision resolution: force-remove any preexisting container with
	// this name before creating a new one. Best-effort — a removal that
	// fails for any reason other than "no such container" runs the general
	// orphan cleanup, and the run proceeds either way.
	if err := r.docker.removeContainerByName(ctx, name); err != nil && !client.IsErrNotFound(err) {
		_, _ = r.CleanupOrphans(ctx)
	}

	handle, err := r.create(ctx, name, runDir)
	if err != nil {
		return nil, fmt.Errorf("exec: create container: %w", err)
	}

	if err := r.docker.start(ctx, handle.ID()); err != nil {
		_ = handle.Remove(ctx)
		return nil, fmt.Errorf("exec: start container: %w", err)
	}

	exitCode, waitErr := handle.Wait(ctx)
	_ = handle.Remove(ctx)

	xmlPath := filepath.Join(runDir, xmlReportName)
	if result, err := ParseReport(xmlPath); err == nil {
		return result, nil
	}

	htmlPresent := fileExists(filepath.Join(runDir, htmlReportName))
	status, systemError := ClassifyFallback(exitCode, htmlPresent)
	if systemError {
		msg := "container exited without a usable report"
		if waitErr != nil {
			msg = fmt.Sprintf("%s: %v", msg, waitErr)
		}
		return &models.ExecutionResult{TestStatus: models.TestStatusSystemError, Report: msg, Logs: msg}, nil
	}
	logs := fmt.Sprintf("no output.xml produced; classified from exit code %d and HTML report presence (%v)", exitCode, htmlPresent)
	return &models.ExecutionResult{TestStatus: status, Report: runDir, Logs: logs}, nil
}

func (r *Runner) create(ctx context.Context, name, runDir string) (Handle, error) {
	cfg := &container.Config{
		Image:      r.cfg.LocalImageTag,
		WorkingDir: mountPath,
		Cmd: []string{
			"robot",
			"--outputdir", mountPath,
			filepath.Join(mountPath, scriptFileName),
		},
	}
	host := &container.HostConfig{
		Binds: []string{fmt.Sprintf("%s:%s", runDir, mountPath)},
		AutoRemove: false,
	}

	id, err := r.docker.create(ctx, cfg, host, name)
	if err != nil {
		return nil, err
	}
	return &containerHandle{client: r.docker, id: id, name: name}, nil
}

// CleanupOrphans force-removes any leftover robot-test-* containers from
// crashed or abandoned runs.
func (r *Runner) CleanupOrphans(ctx context.Context) ([]string, error) {
	names, err := r.docker.listOrphaned(ctx, "robot-test-")
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, n := range names {
		if err := r.docker.removeContainerByName(ctx, n); err == nil {
			removed = append(removed, n)
		}
	}
	return removed, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
