package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sudankdk/pxexec/internal/model"
	"go.uber.org/zap"
)

// Pipeline is what the HTTP layer needs from the executer.
type Pipeline interface {
	Submit(ctx context.Context, bundle model.SourceBundle) error
	TerminateCurrent(ctx context.Context) error
}

type Server struct {
	exec       Pipeline
	editorPath string
	log        *zap.SugaredLogger
	app        *fiber.App

	// ctx is handed to every request and cancelled by Shutdown.
	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer(exec Pipeline, editorPath string, log *zap.SugaredLogger) *Server {
	s := &Server{exec: exec, editorPath: editorPath, log: log}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.app = fiber.New(fiber.Config{
		AppName:               "pxexec",
		DisableStartupMessage: true,
	})
	s.setupRoutes(s.app)
	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) StartServer(addr string) error {
	s.log.Infow("listening", "addr", addr, "editor", s.editorPath)
	return s.app.Listen(addr)
}

// Shutdown aborts in-flight compiles and stops accepting connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	return s.app.ShutdownWithContext(ctx)
}
