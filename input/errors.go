package input

import (
	"errors"
	"fmt"
)

var (
	ErrInputEmpty            = errors.New("001 - Input empty")
	ErrFileNotExists         = errors.New("004 - File does not exists")
	ErrFileNotReadable       = errors.New("005 - File is not readable")
	ErrInvalidGridSize       = errors.New("007 - Invalid grid size input")
	ErrGridSizeOutOfRange    = errors.New("008 - The grid size is out of range")
	ErrInvalidPosition       = errors.New("009 - Invalid bot position input")
	ErrEmptyPositions        = errors.New("010 - Bot positions input are empty")
	ErrInvalidCommands       = errors.New("011 - Invalid robot commands input")
	ErrEmptyCommands         = errors.New("012 - Bot input commands are empty")
	ErrMismatchedInstruction = errors.New("015 - The number of Bot positions entries and commands entries must be the same")
)

// ValidationError reports a rejected input line
type ValidationError struct {
	Kind  error
	Line  int
	Input string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", e.Kind.Error(), e.Line, e.Input)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Input)
}

func (e *ValidationError) Unwrap() error { return e.Kind }
