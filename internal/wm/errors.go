package wm

import (
	"errors"
	"fmt"
)

// Errors returned at the Server API boundary. Everything else that can go
// wrong inside the placement engine is a broken invariant and panics.
var (
	ErrViewNotFound   = errors.New("view not found")
	ErrAlreadyManaged = errors.New("view already managed")
	ErrNotManaged     = errors.New("view not managed")
	ErrViewNotHidden  = errors.New("view must be hidden")
	ErrViewHidden     = errors.New("view is hidden")
	ErrInvalidSheet   = errors.New("invalid sheet")
	ErrInvalidGroup   = errors.New("invalid group")
	ErrNoOutput       = errors.New("no output")
	ErrUnknownLayout  = errors.New("unknown layout")
	ErrInvalidMark    = errors.New("invalid mark")
	ErrUnknownSerial  = errors.New("unknown completion serial")
	ErrNotTiled       = errors.New("view not tiled")
)

// InvariantError is the panic value raised when internal bookkeeping is
// found inconsistent.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "wm: invariant violated: " + e.Msg
}

func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
	}
}
