package exec

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"

	"github.com/robotforge/robotforge/pkg/config"
)

// ImageStatus is the /docker-status response shape: whether the daemon is
// reachable at all, and the inspect details of the configured runner image
// when present.
type ImageStatus struct {
	DockerAvailable bool
	ImageExists     bool
	ImageID         string
	Created         string
	SizeBytes       int64
}

// ProgressFunc receives a human-readable line of pull/build progress,
// which the caller typically relays as an execution.running log event.
type ProgressFunc func(line string)

// ImageProvisioner idempotently ensures the configured runner image tag
// exists locally before a run, using a claim-then-commit idiom applied to
// an image tag instead of a database row: check local state first, only do
// network/build work when necessary, and never leave a half-tagged image
// behind on failure.
type ImageProvisioner struct {
	cfg    *config.Config
	docker *dockerClient
}

// NewImageProvisioner opens a Docker client and wraps it for provisioning.
func NewImageProvisioner(cfg *config.Config) (*ImageProvisioner, error) {
	dc, err := newDockerClient()
	if err != nil {
		return nil, err
	}
	return &ImageProvisioner{cfg: cfg, docker: dc}, nil
}

// Close releases the underlying Docker client.
func (p *ImageProvisioner) Close() error { return p.docker.close() }

// Ensure guarantees the configured local image tag exists, pulling or
// building as needed. Tagging is atomic: a failed pull or build never
// leaves the target tag pointing at a partial image.
func (p *ImageProvisioner) Ensure(ctx context.Context, onProgress ProgressFunc) error {
	exists, err := p.docker.imageExists(ctx, p.cfg.LocalImageTag)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if p.cfg.PreferRemoteDockerImage {
		if err := p.pullAndTag(ctx, onProgress); err == nil {
			return nil
		} else if onProgress != nil {
			onProgress(fmt.Sprintf("remote pull failed, falling back to local build: %v", err))
		}
	}

	return p.buildLocal(ctx, onProgress)
}

func (p *ImageProvisioner) pullAndTag(ctx context.Context, onProgress ProgressFunc) error {
	if err := p.docker.pull(ctx, p.cfg.RemoteDockerImage, onProgress); err != nil {
		return err
	}
	return p.docker.tag(ctx, p.cfg.RemoteDockerImage, p.cfg.LocalImageTag)
}

func (p *ImageProvisioner) buildLocal(ctx context.Context, onProgress ProgressFunc) error {
	buildCtx, err := tarDirectory(p.cfg.BuildContextPath)
	if err != nil {
		return fmt.Errorf("exec: package build context: %w", err)
	}
	return p.docker.build(ctx, buildCtx, p.cfg.LocalImageTag, onProgress)
}

// Status reports Docker daemon reachability and the configured runner
// image's presence/metadata, for the GET /docker-status endpoint.
func (p *ImageProvisioner) Status(ctx context.Context) (*ImageStatus, error) {
	if err := p.docker.ping(ctx); err != nil {
		return &ImageStatus{DockerAvailable: false}, nil
	}

	inspect, err := p.docker.inspectImage(ctx, p.cfg.LocalImageTag)
	if err != nil {
		if client.IsErrNotFound(err) {
			return &ImageStatus{DockerAvailable: true, ImageExists: false}, nil
		}
		return nil, fmt.Errorf("exec: inspect runner image: %w", err)
	}

	return &ImageStatus{
		DockerAvailable: true,
		ImageExists:     true,
		ImageID:         inspect.ID,
		Created:         inspect.Created,
		SizeBytes:       inspect.Size,
	}, nil
}

// Rebuild forces a fresh pull-or-build of the configured runner image,
// discarding any existing tag first so a stale image can never be mistaken
// for the rebuilt one, for the POST /rebuild-docker-image endpoint.
func (p *ImageProvisioner) Rebuild(ctx context.Context, onProgress ProgressFunc) error {
	_ = p.docker.removeImage(ctx, p.cfg.LocalImageTag)

	if p.cfg.PreferRemoteDockerImage {
		if err := p.pullAndTag(ctx, onProgress); err == nil {
			return nil
		} else if onProgress != nil {
			onProgress(fmt.Sprintf("remote pull failed, falling back to local build: %v", err))
		}
	}
	return p.buildLocal(ctx, onProgress)
}
