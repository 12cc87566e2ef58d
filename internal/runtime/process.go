package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"syscall"

	"github.com/sudankdk/pxexec/internal/model"
	"github.com/sudankdk/pxexec/internal/toolchain"
	"github.com/sudankdk/pxexec/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// ProcessRuntime runs artifacts as child processes of the server.
type ProcessRuntime struct {
	command []string
	Stdout  io.Writer
	Stderr  io.Writer
	log     *zap.SugaredLogger
}

func NewProcessRuntime(command []string, log *zap.SugaredLogger) *ProcessRuntime {
	return &ProcessRuntime{command: command, log: log}
}

// Spawn starts the artifact in its own process group. ctx is only checked
// before starting: the program outlives the request that spawned it.
func (r *ProcessRuntime) Spawn(ctx context.Context, art model.Artifact) (Handle, error) {
	if len(r.command) == 0 {
		return nil, errors.New("runtime command is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	args := toolchain.Expand(r.command, map[string]string{toolchain.ArtifactVar: art.Path})

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = art.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", args[0], err)
	}

	h := &ProcessHandle{
		id:     "pid-" + strconv.Itoa(cmd.Process.Pid),
		pid:    cmd.Process.Pid,
		dir:    art.Dir,
		exited: make(chan struct{}),
		done:   make(chan struct{}),
		log:    r.log,
	}
	go h.wait(cmd)
	r.log.Infow("program started", "handle", h.id, "artifact", art.Path)
	return h, nil
}

// ProcessHandle is a program started by ProcessRuntime.
type ProcessHandle struct {
	id  string
	pid int
	dir string
	// exited closes when the group leader is reaped, done once its artifact is gone too.
	exited chan struct{}
	done   chan struct{}
	log    *zap.SugaredLogger

	killOnce sync.Once
	killErr  error
}

func (h *ProcessHandle) ID() string { return h.id }

// Done is closed once the program has exited and its artifact is removed.
func (h *ProcessHandle) Done() <-chan struct{} { return h.done }

func (h *ProcessHandle) wait(cmd *exec.Cmd) {
	err := cmd.Wait()
	close(h.exited)
	if err != nil {
		h.log.Infow("program exited", "handle", h.id, "err", err)
	} else {
		h.log.Infow("program exited", "handle", h.id)
	}
	if err := utils.CleanupFiles(h.dir); err != nil {
		h.log.Warnw("artifact cleanup failed", "handle", h.id, "dir", h.dir, "err", err)
	}
	close(h.done)
}

// Terminate kills the whole process group and waits for the program to be
// reaped. The group is killed even when the leader has already exited, since
// anything it left running in the background is still part of the program.
// Only the first call sends the signal.
func (h *ProcessHandle) Terminate(ctx context.Context) error {
	h.killOnce.Do(func() { h.killErr = h.killGroup() })
	if h.killErr != nil {
		return h.killErr
	}

	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *ProcessHandle) killGroup() error {
	select {
	case <-h.exited:
		h.log.Debugw("leader already exited, sweeping process group", "handle", h.id)
	default:
	}
	// Negative pid targets the process group.
	if err := unix.Kill(-h.pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("kill process group %d: %w", h.pid, err)
	}
	return nil
}
