package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// ErrPipeClosed is returned by Send when the pipeline has been aborted and
// the receiving side is gone. A failed send is fatal for the sending stage:
// silently dropping it would make truncated downstream input
// indistinguishable from a clean end-of-stream.
var ErrPipeClosed = errors.New("pipe closed")

// StageError wraps a failure with the name of the stage it occurred in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// NewStageError wraps err with the stage name, without double-wrapping.
func NewStageError(stage string, err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	return &StageError{Stage: stage, Err: err}
}

// ItemError wraps a per-item failure with the operation and the originating
// path, so the user-visible message is a chain of contexts ending in the
// root cause.
type ItemError struct {
	Op   string // what was being done, e.g. "read", "parse front matter"
	Path string // source path or URL of the offending item
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("while %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// NewItemError builds a contextualized per-item error.
func NewItemError(op, path string, err error) *ItemError {
	return &ItemError{Op: op, Path: path, Err: err}
}

// Aborted reports whether err is a secondary failure caused by the pipeline
// shutting down (a send into an aborted pipe, or context cancellation),
// rather than a root cause worth surfacing.
func Aborted(err error) bool {
	return errors.Is(err, ErrPipeClosed) || errors.Is(err, context.Canceled)
}
