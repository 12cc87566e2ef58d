package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sudankdk/pxexec/internal/model"
	"github.com/sudankdk/pxexec/internal/toolchain"
	"github.com/sudankdk/pxexec/internal/utils"
	"go.uber.org/zap"
)

// Diagnostics is returned when the compiler ran but rejected the source.
// Output is the compiler's combined stdout and stderr.
type Diagnostics struct {
	Output string
}

func (d *Diagnostics) Error() string {
	return d.Output
}

// TSC invokes an external compiler described by a toolchain.
type TSC struct {
	tc      toolchain.Toolchain
	workDir string
	log     *zap.SugaredLogger
}

func New(tc toolchain.Toolchain, workDir string, log *zap.SugaredLogger) *TSC {
	return &TSC{tc: tc, workDir: workDir, log: log}
}

// Compile writes unit into a fresh directory and compiles it there.
// On failure the directory is removed; on success the caller owns it.
func (c *TSC) Compile(ctx context.Context, unit string) (model.Artifact, error) {
	files, err := utils.Save(c.workDir, unit, c.tc.Entry)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("save source: %w", err)
	}

	args := toolchain.Expand(c.tc.Compiler, map[string]string{
		toolchain.SrcVar: files.CodePath,
		toolchain.OutVar: files.Dir,
	})
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = files.Dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	c.log.Debugw("compiling", "dir", files.Dir, "cmd", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		_ = utils.CleanupFiles(files.Dir)
		if ctx.Err() != nil {
			return model.Artifact{}, fmt.Errorf("compile interrupted: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return model.Artifact{}, &Diagnostics{Output: out.String()}
		}
		return model.Artifact{}, fmt.Errorf("run %s: %w", args[0], err)
	}

	artifact := filepath.Join(files.Dir, c.tc.Artifact)
	if _, err := os.Stat(artifact); err != nil {
		_ = utils.CleanupFiles(files.Dir)
		return model.Artifact{}, &Diagnostics{Output: fmt.Sprintf("compiler produced no %s\n%s", c.tc.Artifact, out.String())}
	}

	return model.Artifact{Dir: files.Dir, Path: artifact}, nil
}
