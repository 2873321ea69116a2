package stacktrace

import "fmt"

type TraceFrame struct {
	PC       uintptr
	Function string
	File     string
	Line     int
}

func (f TraceFrame) String() string {
	return fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line)
}
