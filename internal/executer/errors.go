package executer

import (
	"errors"
	"fmt"
)

// ErrMissingEntryPoint means the bundle had no entry point file. Client fault.
var ErrMissingEntryPoint = errors.New("no main.ts file was included in the bundle")

// CompileError carries the compiler's diagnostics verbatim.
type CompileError struct {
	Detail string
	Err    error
}

func (e *CompileError) Error() string { return e.Detail }

func (e *CompileError) Unwrap() error { return e.Err }

// SpawnError means a compiled artifact could not be started.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string { return fmt.Sprintf("failed to start program: %v", e.Err) }

func (e *SpawnError) Unwrap() error { return e.Err }

// TerminationError means a tracked program could not be stopped.
type TerminationError struct {
	HandleID string
	Err      error
}

func (e *TerminationError) Error() string {
	return fmt.Sprintf("failed to terminate %s: %v", e.HandleID, e.Err)
}

func (e *TerminationError) Unwrap() error { return e.Err }

// IsServerFault reports whether err was accepted work that could not be completed.
func IsServerFault(err error) bool {
	var ce *CompileError
	var se *SpawnError
	var te *TerminationError
	return errors.As(err, &ce) || errors.As(err, &se) || errors.As(err, &te)
}
