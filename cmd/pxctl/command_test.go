package main

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sudankdk/pxexec/internal/model"
)

// startServer serves a fake pxexec API and records the bundles it receives.
func startServer(t *testing.T, saveStatus int, saveBody string) (string, <-chan model.SourceBundle) {
	t.Helper()
	got := make(chan model.SourceBundle, 4)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/api/save", func(c *fiber.Ctx) error {
		var b model.SourceBundle
		if err := c.BodyParser(&b); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "YOUR FAULT\n"+err.Error())
		}
		got <- b
		return c.Status(saveStatus).SendString(saveBody)
	})
	app.Post("/api/kill", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String(), got
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.ts")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestSaveSendsEntryPoint(t *testing.T) {
	addr, got := startServer(t, fiber.StatusOK, "ACCEPTED")
	src := writeSource(t, "console.log('hi')")

	out, err := run(t, "--addr", addr, "save", src)
	require.NoError(t, err)
	assert.Equal(t, "ACCEPTED\n", out)
	require.Len(t, got, 1)
	assert.Equal(t, model.SourceBundle{"main.ts": "console.log('hi')"}, <-got)
}

func TestSaveReportsServerFault(t *testing.T) {
	addr, _ := startServer(t, fiber.StatusInternalServerError, "MY FAULT\nerror TS1005")

	_, err := run(t, "--addr", addr, "save", writeSource(t, "let x x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "error TS1005")
}

func TestSaveMissingFile(t *testing.T) {
	_, err := run(t, "--addr", "http://127.0.0.1:1", "save", filepath.Join(t.TempDir(), "nope.ts"))
	assert.Error(t, err)
}

func TestKill(t *testing.T) {
	addr, _ := startServer(t, fiber.StatusOK, "ACCEPTED")

	out, err := run(t, "--addr", addr+"/", "kill")
	require.NoError(t, err)
	assert.Equal(t, "killed\n", out)
}

func TestArgsValidation(t *testing.T) {
	_, err := run(t, "save")
	assert.Error(t, err)
	_, err = run(t, "kill", "extra")
	assert.Error(t, err)
}
