package runtime

import (
	"context"

	"github.com/sudankdk/pxexec/internal/model"
)

// Handle is a spawned program. It only knows how to identify and stop itself.
type Handle interface {
	ID() string
	// Terminate stops the program. A program that already exited on its own
	// is not an error.
	Terminate(ctx context.Context) error
}

// Spawner starts a compiled artifact as a background program.
// The returned Handle owns art.Dir from then on.
type Spawner interface {
	Spawn(ctx context.Context, art model.Artifact) (Handle, error)
}
