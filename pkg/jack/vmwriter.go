package jack

import "fmt"

// ----------------------------------------------------------------------------
// VM Writer

// This section implements the VM Writer: a thin emitter producing one
// textual VM command per line, with no buffering contract beyond preserving
// line order exactly as the code generator calls it.

// VMWriter accumulates one VM text command per call.
type VMWriter struct {
	lines []string
}

// NewVMWriter returns an empty VMWriter.
func NewVMWriter() *VMWriter { return &VMWriter{} }

func (w *VMWriter) WritePush(segment string, index uint16) {
	w.lines = append(w.lines, fmt.Sprintf("push %s %d", segment, index))
}

func (w *VMWriter) WritePop(segment string, index uint16) {
	w.lines = append(w.lines, fmt.Sprintf("pop %s %d", segment, index))
}

func (w *VMWriter) WriteArithmetic(op string) {
	w.lines = append(w.lines, op)
}

func (w *VMWriter) WriteLabel(name string) {
	w.lines = append(w.lines, fmt.Sprintf("label %s", name))
}

func (w *VMWriter) WriteGoto(name string) {
	w.lines = append(w.lines, fmt.Sprintf("goto %s", name))
}

func (w *VMWriter) WriteIf(name string) {
	w.lines = append(w.lines, fmt.Sprintf("if-goto %s", name))
}

func (w *VMWriter) WriteCall(name string, nArgs uint16) {
	w.lines = append(w.lines, fmt.Sprintf("call %s %d", name, nArgs))
}

func (w *VMWriter) WriteFunction(name string, nLocals uint16) {
	w.lines = append(w.lines, fmt.Sprintf("function %s %d", name, nLocals))
}

func (w *VMWriter) WriteReturn() {
	w.lines = append(w.lines, "return")
}

// Lines returns the emitted VM text, one command per element, in emission order.
func (w *VMWriter) Lines() []string { return w.lines }
