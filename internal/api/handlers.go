package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sudankdk/pxexec/internal/executer"
	"github.com/sudankdk/pxexec/internal/model"
)

const (
	clientFault = "YOUR FAULT\n"
	serverFault = "MY FAULT\n"
)

func (s *Server) setupRoutes(app *fiber.App) {
	app.Use(recover.New())
	app.Use(s.requestLogger)
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(s.ctx)
		return c.Next()
	})

	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("pxexec running") })
	app.Static("/editor", s.editorPath)

	api := app.Group("/api")
	api.Post("/save", s.saveHandler)
	api.Post("/kill", s.killHandler)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("NOT FOUND")
	})
}

func (s *Server) saveHandler(c *fiber.Ctx) error {
	var bundle model.SourceBundle
	if err := c.App().Config().JSONDecoder(c.Body(), &bundle); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, clientFault+err.Error())
	}

	err := s.exec.Submit(c.UserContext(), bundle)
	switch {
	case err == nil:
		return c.SendString("ACCEPTED")
	case errors.Is(err, executer.ErrMissingEntryPoint):
		return fiber.NewError(fiber.StatusBadRequest, clientFault+err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, serverFault+err.Error())
	}
}

func (s *Server) killHandler(c *fiber.Ctx) error {
	s.log.Infow("killing current program")
	if err := s.exec.TerminateCurrent(c.UserContext()); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, serverFault+err.Error())
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	s.log.Infow("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", time.Since(start),
	)
	return err
}
