package stacktrace

import (
	"runtime"
	"strings"

	"github.com/cockroachdb/errors/errbase"
)

// StackTrace mirrors [errbase.StackTrace] so traces captured by
// cockroachdb/errors can be rendered without reflection.
type StackTrace errbase.StackTrace

// TraceFrames resolves the program counters into frames, dropping the
// runtime frames at the bottom of the stack.
func (s StackTrace) TraceFrames() []TraceFrame {
	frames := make([]TraceFrame, 0, len(s))
	skipping := true
	for i := len(s) - 1; i >= 0; i-- {
		pc := uintptr(s[i]) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			frames = append(frames, TraceFrame{PC: pc, Function: "unknown"})
			skipping = false
			continue
		}
		name := fn.Name()
		if skipping && strings.HasPrefix(name, "runtime.") {
			continue
		}
		skipping = false
		file, line := fn.FileLine(pc)
		frames = append(frames, TraceFrame{PC: pc, Function: name, File: file, Line: line})
	}
	return frames
}

func (s StackTrace) TraceFramesStrings() []string {
	frames := s.TraceFrames()
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.String()
	}
	return out
}
