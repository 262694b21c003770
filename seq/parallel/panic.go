package parallel

import (
	"fmt"
	"runtime"
	"strings"
)

// ErrPanic wraps a value recovered from a panicking chunk task.
// Stack holds the trace with this module's own frames removed, so the
// first frame shown is the user function that panicked.
type ErrPanic struct {
	Value any
	Stack string
}

func (e ErrPanic) Error() string {
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// NewPanicError creates an ErrPanic from a recovered value. It must be
// called from the deferred function that recovered.
func NewPanicError(recovered any) ErrPanic {
	// Skip runtime.Callers, userFrames and NewPanicError.
	return ErrPanic{Value: recovered, Stack: formatFrames(userFrames(3))}
}

const ownPackages = "github.com/lguimbarda/min-seq/seq/"

// userFrames returns the calling stack without seq frames and without the
// runtime's panic machinery on top.
func userFrames(skip int) []runtime.Frame {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return nil
	}

	var kept []runtime.Frame
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		top := len(kept) == 0 && strings.HasPrefix(f.Function, "runtime.")
		if !top && !ownFrame(f.Function) {
			kept = append(kept, f)
		}
		if !more {
			return kept
		}
	}
}

// ownFrame reports whether function belongs to a seq package. Test
// packages count as user code.
func ownFrame(function string) bool {
	rest, ok := strings.CutPrefix(function, ownPackages)
	if !ok {
		return false
	}
	pkg, _, _ := strings.Cut(rest[strings.LastIndex(rest, "/")+1:], ".")
	return !strings.HasSuffix(pkg, "_test")
}

func formatFrames(frames []runtime.Frame) string {
	var sb strings.Builder
	for i, f := range frames {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s\n\t%s:%d", f.Function, f.File, f.Line)
	}
	return sb.String()
}
