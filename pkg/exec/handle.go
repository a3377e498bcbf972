// Package exec provisions the runner image, executes a generated script
// inside a one-shot Docker container, and classifies the result from its
// structured XML report. Built directly on github.com/docker/docker/client
// — already an indirect dependency pulled in by testcontainers-go, and
// promoted here to direct use since the domain needs to pull/build/run
// images itself, not just stand up containers for tests.
package exec

import "context"

// Handle is the restricted view of a running container C6 hands back to
// callers: no Logs() method exists on this interface, by construction, per
// the log source policy — result text is always reconstructed from the
// structured XML report, never from the container's stdout/stderr.
type Handle interface {
	// Wait blocks until the container exits and returns its exit code.
	Wait(ctx context.Context) (exitCode int, err error)
	// Remove force-removes the container, best-effort.
	Remove(ctx context.Context) error
	Name() string
	ID() string
}

type containerHandle struct {
	client *dockerClient
	id     string
	name   string
}

func (h *containerHandle) Name() string { return h.name }
func (h *containerHandle) ID() string   { return h.id }

func (h *containerHandle) Wait(ctx context.Context) (int, error) {
	return h.client.wait(ctx, h.id)
}

func (h *containerHandle) Remove(ctx context.Context) error {
	return h.client.remove(ctx, h.id)
}
