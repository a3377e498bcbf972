package exec

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// dockerClient is a thin wrapper over the Docker SDK client, kept small and
// unexported so the rest of the package talks to ImageProvisioner/Runner,
// never the SDK directly.
type dockerClient struct {
	cli *client.Client
}

func newDockerClient() (*dockerClient, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("exec: docker client: %w", err)
	}
	return &dockerClient{cli: cli}, nil
}

func (d *dockerClient) close() error {
	return d.cli.Close()
}

func (d *dockerClient) imageExists(ctx context.Context, tag string) (bool, error) {
	_, err := d.cli.ImageInspect(ctx, tag)
	if err == nil {
		return true, nil
	}
	if client.IsErrNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("inspect image %s: %w", tag, err)
}

// inspectImage returns the raw inspect response for tag, or a not-found
// error the caller distinguishes with client.IsErrNotFound.
func (d *dockerClient) inspectImage(ctx context.Context, tag string) (image.InspectResponse, error) {
	return d.cli.ImageInspect(ctx, tag)
}

// ping checks that the Docker daemon is reachable at all, independent of
// any particular image.
func (d *dockerClient) ping(ctx context.Context) error {
	_, err := d.cli.Ping(ctx)
	if err != nil {
		return fmt.Errorf("docker daemon unreachable: %w", err)
	}
	return nil
}

// removeImage removes a previously-tagged image so a forced rebuild starts
// from a clean tag rather than leaving stale layers tagged under it.
func (d *dockerClient) removeImage(ctx context.Context, tag string) error {
	_, err := d.cli.ImageRemove(ctx, tag, image.RemoveOptions{Force: true})
	if err != nil && !client.IsErrNotFound(err) {
		return fmt.Errorf("remove image %s: %w", tag, err)
	}
	return nil
}

func (d *dockerClient) pull(ctx context.Context, ref string, onProgress func(line string)) error {
	rc, err := d.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull %s: %w", ref, err)
	}
	defer rc.Close()
	return drainProgress(rc, onProgress)
}

func (d *dockerClient) tag(ctx context.Context, source, target string) error {
	if err := d.cli.ImageTag(ctx, source, target); err != nil {
		return fmt.Errorf("tag %s as %s: %w", source, target, err)
	}
	return nil
}

func (d *dockerClient) build(ctx context.Context, buildContext io.Reader, tag string, onProgress func(line string)) error {
	resp, err := d.cli.ImageBuild(ctx, buildContext, buildOptions(tag))
	if err != nil {
		return fmt.Errorf("build %s: %w", tag, err)
	}
	defer resp.Body.Close()
	return drainProgress(resp.Body, onProgress)
}

func (d *dockerClient) removeContainerByName(ctx context.Context, name string) error {
	return d.cli.ContainerRemove(ctx, name, container.RemoveOptions{Force: true})
}

func (d *dockerClient) create(ctx context.Context, cfg *container.Config, host *container.HostConfig, name string) (string, error) {
	resp, err := d.cli.ContainerCreate(ctx, cfg, host, nil, nil, name)
	if err != nil {
		return "", fmt.Errorf("create container %s: %w", name, err)
	}
	return resp.ID, nil
}

func (d *dockerClient) start(ctx context.Context, id string) error {
	if err := d.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return fmt.Errorf("start container %s: %w", id, err)
	}
	return nil
}

func (d *dockerClient) wait(ctx context.Context, id string) (int, error) {
	statusCh, errCh := d.cli.ContainerWait(ctx, id, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return -1, fmt.Errorf("wait container %s: %w", id, err)
		}
		return 0, nil
	case status := <-statusCh:
		return int(status.StatusCode), nil
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

func (d *dockerClient) remove(ctx context.Context, id string) error {
	return d.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: true})
}

func (d *dockerClient) listOrphaned(ctx context.Context, namePrefix string) ([]string, error) {
	containers, err := d.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	var names []string
	for _, c := range containers {
		for _, n := range c.Names {
			trimmed := trimLeadingSlash(n)
			if hasPrefix(trimmed, namePrefix) {
				names = append(names, trimmed)
			}
		}
	}
	return names, nil
}

func trimLeadingSlash(s string) string {
	if len(s) > 0 && s[0] == '/' {
		return s[1:]
	}
	return s
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
