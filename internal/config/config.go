package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type RuntimeKind string

const (
	RuntimeProcess RuntimeKind = "process"
	RuntimeDocker  RuntimeKind = "docker"
)

type Config struct {
	Host          string
	EditorPath    string
	ToolchainPath string
	Runtime       RuntimeKind
	WorkDir       string
	LogDev        bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Host:          getenv("PXEXEC_HOST", "0.0.0.0:80"),
		EditorPath:    getenv("PXEXEC_OVERRIDE_EDITOR_PATH", "./editor/"),
		ToolchainPath: os.Getenv("PXEXEC_TOOLCHAIN"),
		Runtime:       RuntimeKind(strings.ToLower(getenv("PXEXEC_RUNTIME", string(RuntimeProcess)))),
		WorkDir:       getenv("PXEXEC_WORKDIR", filepath.Join(os.TempDir(), "pxexec")),
	}

	switch cfg.Runtime {
	case RuntimeProcess, RuntimeDocker:
	default:
		return Config{}, fmt.Errorf("PXEXEC_RUNTIME: unknown runtime %q", cfg.Runtime)
	}

	if v := os.Getenv("PXEXEC_LOG_DEV"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("PXEXEC_LOG_DEV: %w", err)
		}
		cfg.LogDev = dev
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
