package errors

import (
	"fmt"
	"io"
	"os"
)

// LogHandler is an ErrorHandler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Out overrides the destination; nil means os.Stderr.
	Out io.Writer
}

func (h *LogHandler) out() io.Writer {
	if h.Out != nil {
		return h.Out
	}
	return os.Stderr
}

// HandleError logs a LifecycleError.
func (h *LogHandler) HandleError(err *LifecycleError) {
	if err == nil {
		return
	}
	w := h.out()
	if h.Verbose {
		fmt.Fprintf(w, "[lifecycle error] %s [%s]", err.Op, err.Kind)
		if err.Family != "" {
			fmt.Fprintf(w, " family=%s", err.Family)
		}
		fmt.Fprintf(w, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(w, "[lifecycle error] %s: %v\n", err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	w := h.out()
	label := "panic"
	if err.Kind == KindHook {
		label = "hook panic"
	}
	if err.Op != "" {
		fmt.Fprintf(w, "[lifecycle %s] %s: %v\n", label, err.Op, err.Value)
	} else {
		fmt.Fprintf(w, "[lifecycle %s] %v\n", label, err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}
