package utils

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type CodeFiles struct {
	Dir      string
	CodePath string
}

// Save writes code into a fresh uuid-named directory under base.
func Save(base, code, filename string) (*CodeFiles, error) {
	if base == "" {
		base = filepath.Join(os.TempDir(), "pxexec")
	}
	dir := filepath.Join(base, uuid.New().String())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	codePath := filepath.Join(dir, filename)
	if err := os.WriteFile(codePath, []byte(code), 0644); err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	return &CodeFiles{
		Dir:      dir,
		CodePath: codePath,
	}, nil
}

// CleanupFiles removes a directory created by Save. Empty dir is a no-op.
func CleanupFiles(dir string) error {
	if dir == "" {
		return nil
	}
	return os.RemoveAll(dir)
}
