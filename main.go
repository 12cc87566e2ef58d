package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sudankdk/pxexec/internal/api"
	"github.com/sudankdk/pxexec/internal/compiler"
	"github.com/sudankdk/pxexec/internal/config"
	"github.com/sudankdk/pxexec/internal/docker"
	"github.com/sudankdk/pxexec/internal/executer"
	"github.com/sudankdk/pxexec/internal/logger"
	"github.com/sudankdk/pxexec/internal/runtime"
	"github.com/sudankdk/pxexec/internal/slot"
	"github.com/sudankdk/pxexec/internal/toolchain"
	"go.uber.org/zap"
)

const (
	reapInterval    = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogDev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Errorw("server stopped", "err", err)
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(cfg config.Config, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tc, err := toolchain.Load(cfg.ToolchainPath)
	if err != nil {
		return fmt.Errorf("failed to load toolchain: %w", err)
	}

	var spawner runtime.Spawner
	switch cfg.Runtime {
	case config.RuntimeDocker:
		dr, err := docker.New(tc.Image, tc.Runtime, log)
		if err != nil {
			return fmt.Errorf("docker client: %w", err)
		}
		defer dr.Close()
		if err := dr.EnsureImage(ctx); err != nil {
			return err
		}
		go dr.Reap(ctx, reapInterval)
		spawner = dr
	default:
		pr := runtime.NewProcessRuntime(tc.Runtime, log)
		pr.Stdout = os.Stdout
		pr.Stderr = os.Stderr
		spawner = pr
	}

	exec := executer.NewExecutor(compiler.New(tc, cfg.WorkDir, log), spawner, slot.New(), tc.Prelude, log)
	return serve(ctx, api.NewServer(exec, cfg.EditorPath, log), cfg.Host, exec, log)
}

type httpServer interface {
	StartServer(addr string) error
	Shutdown(ctx context.Context) error
}

type terminator interface {
	TerminateCurrent(ctx context.Context) error
}

// serve runs server until it fails or ctx is cancelled. On cancellation the
// server is stopped first and then the current program is killed.
func serve(ctx context.Context, server httpServer, addr string, exec terminator, log *zap.SugaredLogger) error {
	errCh := make(chan error, 1)
	go func() { errCh <- server.StartServer(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnw("http shutdown", "err", err)
	}
	if err := exec.TerminateCurrent(shutdownCtx); err != nil {
		log.Warnw("failed to terminate program on shutdown", "err", err)
	}
	return nil
}
