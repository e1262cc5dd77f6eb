package engine

import (
	"errors"
	"fmt"
)

var (
	ErrConfig               = errors.New("invalid grid configuration")
	ErrEmptyBatch           = errors.New("empty instruction batch")
	ErrMismatchedCounts     = errors.New("the number of robot positions and command entries must be the same")
	ErrInvalidCommand       = errors.New("invalid command")
	ErrInvalidGridReference = errors.New("invalid grid reference")
)

// SimulationError wraps a failure that aborts the current batch.
type SimulationError struct {
	Kind error
	Msg  string
}

func (e *SimulationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *SimulationError) Unwrap() error { return e.Kind }

func simErrorf(kind error, format string, args ...any) error {
	return &SimulationError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
