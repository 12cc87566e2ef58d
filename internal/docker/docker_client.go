package docker

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/sudankdk/pxexec/internal/model"
	"github.com/sudankdk/pxexec/internal/runtime"
	"github.com/sudankdk/pxexec/internal/toolchain"
	"github.com/sudankdk/pxexec/internal/utils"
	"go.uber.org/zap"
)

const (
	codeMount  = "/run/code"
	ownerLabel = "pxexec"
)

// dockerAPI is the part of *client.Client the runtime uses.
type dockerAPI interface {
	ImageInspect(ctx context.Context, imageID string, opts ...client.ImageInspectOption) (image.InspectResponse, error)
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	Close() error
}

// Runtime runs artifacts inside containers. The artifact directory is
// bind-mounted read-only at /run/code.
type Runtime struct {
	d       dockerAPI
	image   string
	command []string
	log     *zap.SugaredLogger
}

func New(image string, command []string, log *zap.SugaredLogger) (*Runtime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return &Runtime{d: cli, image: image, command: command, log: log}, nil
}

func (r *Runtime) Close() error {
	return r.d.Close()
}

// EnsureImage pulls the runtime image unless it is already present.
func (r *Runtime) EnsureImage(ctx context.Context) error {
	resp, err := r.d.ImageInspect(ctx, r.image)
	if err == nil {
		r.log.Infow("image found", "image", r.image, "id", resp.ID)
		return nil
	}
	r.log.Infow("pulling image", "image", r.image)

	out, err := r.d.ImagePull(ctx, r.image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull %s: %w", r.image, err)
	}
	defer out.Close()
	_, err = io.Copy(io.Discard, out)
	return err
}

func (r *Runtime) Spawn(ctx context.Context, art model.Artifact) (runtime.Handle, error) {
	target := path.Join(codeMount, filepath.Base(art.Path))
	cmd := toolchain.Expand(r.command, map[string]string{toolchain.ArtifactVar: target})

	resp, err := r.d.ContainerCreate(ctx,
		&container.Config{
			Image:      r.image,
			Cmd:        cmd,
			WorkingDir: codeMount,
			Labels:     map[string]string{ownerLabel: "true"},
		},
		&container.HostConfig{
			AutoRemove: false,
			Binds:      []string{art.Dir + ":" + codeMount + ":ro"},
		},
		nil, nil, "",
	)
	if err != nil {
		return nil, fmt.Errorf("create container: %w", err)
	}
	if err := r.d.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = r.d.ContainerRemove(context.WithoutCancel(ctx), resp.ID, container.RemoveOptions{Force: true})
		return nil, fmt.Errorf("start container: %w", err)
	}

	r.log.Infow("container started", "container", shortID(resp.ID), "image", r.image)
	return &ContainerHandle{d: r.d, id: resp.ID, dir: art.Dir, log: r.log}, nil
}

// ContainerHandle is a program started by Runtime.
type ContainerHandle struct {
	d   dockerAPI
	id  string
	dir string
	log *zap.SugaredLogger
}

func (h *ContainerHandle) ID() string { return "container-" + shortID(h.id) }

// Terminate force-removes the container and then its artifact directory.
// A container that is already gone counts as terminated.
func (h *ContainerHandle) Terminate(ctx context.Context) error {
	err := h.d.ContainerRemove(ctx, h.id, container.RemoveOptions{Force: true})
	if err != nil && !client.IsErrNotFound(err) {
		return fmt.Errorf("remove container %s: %w", shortID(h.id), err)
	}
	if err := utils.CleanupFiles(h.dir); err != nil {
		h.log.Warnw("artifact cleanup failed", "container", shortID(h.id), "dir", h.dir, "err", err)
	}
	return nil
}

// Reap removes exited pxexec containers every interval until ctx is done.
func (r *Runtime) Reap(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Infow("container reaper stopped")
			return
		case <-ticker.C:
			r.reapOnce(ctx)
		}
	}
}

func (r *Runtime) reapOnce(ctx context.Context) {
	containers, err := r.d.ContainerList(ctx, container.ListOptions{
		All: true,
		Filters: filters.NewArgs(
			filters.Arg("status", "exited"),
			filters.Arg("label", ownerLabel+"=true"),
		),
	})
	if err != nil {
		r.log.Warnw("container list failed", "err", err)
		return
	}

	for _, ctr := range containers {
		if err := r.d.ContainerRemove(ctx, ctr.ID, container.RemoveOptions{}); err != nil {
			r.log.Warnw("failed to remove exited container", "container", shortID(ctr.ID), "err", err)
			continue
		}
		r.log.Infow("removed exited container", "container", shortID(ctr.ID))
	}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
