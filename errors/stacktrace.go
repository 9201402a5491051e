package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// stackTracer is the interface implemented by pkg/errors values that carry a
// recorded call stack.
type stackTracer interface {
	error
	StackTrace() errors.StackTrace
}

// stackTrace returns the attached call stack, digging through the cause
// chain, or nil if none of the layers carries one.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// trimInternal removes the frames that belong to this package and the
// runtime, so that reported traces start at the caller that produced the
// error.
func trimInternal(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && frameWithin(st[0],
		"abacus/errors/",
		"/runtime/") {
		st = st[1:]
	}
	for l := len(st) - 1; l > 0 && frameWithin(st[l], "/runtime/"); l-- {
		st = st[:l]
	}
	return st
}

func frameWithin(f errors.Frame, files ...string) bool {
	name, _ := frameLocation(f)
	for _, file := range files {
		if strings.Contains(name, file) {
			return true
		}
	}
	return false
}

func frameLocation(f errors.Frame) (string, int) {
	// A Frame holds the program counter increased by one.
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(pc)
}

func writeShortFrame(s io.Writer, f errors.Frame) {
	file, line := frameLocation(f)
	// Truncate at the repository host to keep the marker short.
	if chunks := strings.SplitN(file, "github.com/", 2); len(chunks) == 2 {
		file = chunks[1]
	}
	fmt.Fprintf(s, " [%s:%d]", file, line)
}

// Format renders the error for the fmt package.
//
// %s prints only the message. %v adds a short [file:line] marker of the
// frame that created the error and %+v dumps the whole recorded stack.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		if st := stackTrace(e); st != nil {
			fmt.Fprintf(s, "%+v\n", trimInternal(st))
		}
	}
	fmt.Fprint(s, e.Error())
	if verb == 'v' && !s.Flag('+') {
		if st := trimInternal(stackTrace(e)); len(st) > 0 {
			writeShortFrame(s, st[0])
		}
	}
}
