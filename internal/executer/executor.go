package executer

import (
	"context"
	"strings"

	"github.com/sudankdk/pxexec/internal/model"
	"github.com/sudankdk/pxexec/internal/runtime"
	"github.com/sudankdk/pxexec/internal/slot"
	"github.com/sudankdk/pxexec/internal/utils"
	"go.uber.org/zap"
)

// Compiler turns an assembled compilation unit into an artifact.
type Compiler interface {
	Compile(ctx context.Context, unit string) (model.Artifact, error)
}

// Executor compiles submitted programs and keeps the newest one running.
type Executor struct {
	compiler Compiler
	runtime  runtime.Spawner
	slot     *slot.Slot
	prelude  string
	log      *zap.SugaredLogger
}

func NewExecutor(c Compiler, r runtime.Spawner, s *slot.Slot, prelude string, log *zap.SugaredLogger) *Executor {
	return &Executor{compiler: c, runtime: r, slot: s, prelude: prelude, log: log}
}

// Assemble builds the compilation unit from the entry point text.
func Assemble(prelude, main string) string {
	var b strings.Builder
	if prelude != "" {
		b.WriteString(prelude)
		if !strings.HasSuffix(prelude, "\n") {
			b.WriteByte('\n')
		}
	}
	b.WriteString(main)
	if !strings.HasSuffix(main, "\n") {
		b.WriteByte('\n')
	}
	return b.String()
}

// Submit compiles and starts bundle's entry point, then retires the program
// it replaced. The new program is installed before the old one is killed, so
// a failed compile or spawn never leaves nothing running.
func (e *Executor) Submit(ctx context.Context, bundle model.SourceBundle) error {
	entry, ok := bundle.Entry()
	if !ok {
		return ErrMissingEntryPoint
	}

	art, err := e.compiler.Compile(ctx, Assemble(e.prelude, entry))
	if err != nil {
		e.log.Infow("compile failed", "err", err)
		return &CompileError{Detail: err.Error(), Err: err}
	}

	h, err := e.runtime.Spawn(ctx, art)
	if err != nil {
		_ = utils.CleanupFiles(art.Dir)
		e.log.Warnw("spawn failed", "artifact", art.Path, "err", err)
		return &SpawnError{Err: err}
	}

	prev := e.slot.Install(h)
	e.log.Infow("program installed", "handle", h.ID())
	if prev == nil {
		return nil
	}
	// The request already succeeded; a failed kill is only worth a warning.
	if err := prev.Terminate(context.WithoutCancel(ctx)); err != nil {
		e.log.Warnw("failed to terminate replaced program", "handle", prev.ID(), "err", err)
	} else {
		e.log.Infow("replaced program terminated", "handle", prev.ID())
	}
	return nil
}

// TerminateCurrent stops the installed program, if any. An empty slot is not an error.
func (e *Executor) TerminateCurrent(ctx context.Context) error {
	h := e.slot.Take()
	if h == nil {
		return nil
	}
	if err := h.Terminate(ctx); err != nil {
		e.log.Errorw("failed to terminate program", "handle", h.ID(), "err", err)
		return &TerminationError{HandleID: h.ID(), Err: err}
	}
	e.log.Infow("program terminated", "handle", h.ID())
	return nil
}
