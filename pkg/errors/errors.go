// Package errors provides structured error handling for the lifecycle relay.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindInvalidArgument indicates a required host, slot or parent was absent.
	KindInvalidArgument
	// KindHook indicates a lifecycle hook or teardown hook failed.
	KindHook
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates a scenario or configuration error.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindHook:
		return "hook"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ErrInvalidArgument is matched by every LifecycleError of KindInvalidArgument.
var ErrInvalidArgument = stderrors.New("invalid argument")

// LifecycleError represents a structured error in the lifecycle relay.
type LifecycleError struct {
	// Op is the operation that failed (e.g., "lifecycle.SetAppSource").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Family is the lifecycle family involved, if any.
	Family string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *LifecycleError) Error() string {
	if e.Family != "" {
		return fmt.Sprintf("%s [%s] family=%s: %v", e.Op, e.Kind, e.Family, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}

// Is reports KindInvalidArgument errors as ErrInvalidArgument.
func (e *LifecycleError) Is(target error) bool {
	return target == ErrInvalidArgument && e.Kind == KindInvalidArgument
}

// InvalidArgument builds a KindInvalidArgument error for op.
func InvalidArgument(op, family, msg string) *LifecycleError {
	return &LifecycleError{
		Op:        op,
		Kind:      KindInvalidArgument,
		Family:    family,
		Err:       stderrors.New(msg),
		Timestamp: time.Now(),
	}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "lifecycle.deliver").
	Op string
	// Kind is KindHook for hook failures and KindPanic otherwise.
	Kind ErrorKind
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the lifecycle relay.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *LifecycleError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

// Is, As and New re-export the standard helpers so callers importing this
// package under the name errors keep them.
var (
	Is  = stderrors.Is
	As  = stderrors.As
	New = stderrors.New
)
