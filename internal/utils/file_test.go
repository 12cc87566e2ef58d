package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveCreatesFreshDirs(t *testing.T) {
	base := t.TempDir()

	a, err := Save(base, "let a = 1", "main.ts")
	require.NoError(t, err)
	b, err := Save(base, "let b = 2", "main.ts")
	require.NoError(t, err)

	assert.NotEqual(t, a.Dir, b.Dir)
	assert.Equal(t, base, filepath.Dir(a.Dir))
	assert.Equal(t, filepath.Join(a.Dir, "main.ts"), a.CodePath)

	data, err := os.ReadFile(a.CodePath)
	require.NoError(t, err)
	assert.Equal(t, "let a = 1", string(data))
}

func TestCleanupFiles(t *testing.T) {
	f, err := Save(t.TempDir(), "x", "main.ts")
	require.NoError(t, err)

	require.NoError(t, CleanupFiles(f.Dir))
	assert.NoDirExists(t, f.Dir)
	assert.NoError(t, CleanupFiles(""))
	assert.NoError(t, CleanupFiles(f.Dir))
}
