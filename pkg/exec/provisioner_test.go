package exec

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/docker/docker/client"
	"github.com/stretchr/testify/require"

	"github.com/robotforge/robotforge/pkg/config"
)

// newTestProvisioner opens a real Docker client against the local daemon.
// Skipped when Docker isn't reachable (CI without Docker-in-Docker, or a
// sandboxed dev machine) rather than failing the suite, mirroring
// pkg/patternjournal's testcontainers skip pattern.
func newTestProvisioner(t *testing.T) *ImageProvisioner {
	t.Helper()
	if os.Getenv("ROBOTFORGE_SKIP_DOCKER_TESTS") != "" {
		t.Skip("ROBOTFORGE_SKIP_DOCKER_TESTS set")
	}

	cfg := &config.Config{LocalImageTag: "robotforge-test-nonexistent:does-not-exist"}
	p, err := NewImageProvisioner(cfg)
	if err != nil {
		t.Skipf("docker unavailable, skipping: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.docker.ping(ctx); err != nil {
		_ = p.Close()
		t.Skipf("docker daemon unreachable, skipping: %v", err)
	}

	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestImageProvisioner_StatusReportsImageExistsFalseForUnknownTag(t *testing.T) {
	p := newTestProvisioner(t)

	status, err := p.Status(context.Background())
	require.NoError(t, err)
	require.True(t, status.DockerAvailable)
	require.False(t, status.ImageExists)
}

func TestImageProvisioner_StatusReportsDockerUnavailableWhenDaemonUnreachable(t *testing.T) {
	if os.Getenv("ROBOTFORGE_SKIP_DOCKER_TESTS") != "" {
		t.Skip("ROBOTFORGE_SKIP_DOCKER_TESTS set")
	}

	cfg := &config.Config{LocalImageTag: "whatever:latest"}
	p, err := NewImageProvisioner(cfg)
	if err != nil {
		t.Skipf("docker client unavailable: %v", err)
	}
	defer p.Close()

	// Point the client at a host nothing listens on so Status degrades to
	// DockerAvailable=false rather than erroring, without needing a real
	// unreachable Docker daemon to set up.
	cli, err := client.NewClientWithOpts(client.WithHost("tcp://127.0.0.1:1"))
	if err != nil {
		t.Skipf("could not build unreachable docker client: %v", err)
	}
	p.docker = &dockerClient{cli: cli}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	status, err := p.Status(ctx)
	require.NoError(t, err)
	require.False(t, status.DockerAvailable)
}
