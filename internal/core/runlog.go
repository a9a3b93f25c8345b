package core

import (
	"fmt"
	"io"
)

// Run log line prefixes.
const (
	infoPrefix  = "INFO: "
	errorPrefix = "FEHLER: "
)

// RunLog is the append-only operator log of a run. Every line is echoed to
// the echo writer when it is recorded; the lines are persisted only when the
// run succeeds.
type RunLog struct {
	lines  []string
	errors int
	echo   io.Writer
}

// NewRunLog creates an empty log echoing to w. A nil w disables the echo.
func NewRunLog(w io.Writer) *RunLog {
	if w == nil {
		w = io.Discard
	}
	return &RunLog{echo: w}
}

// Infof records an informational line.
func (l *RunLog) Infof(format string, args ...any) {
	l.add(infoPrefix + fmt.Sprintf(format, args...))
}

// Errorf records an error line and counts it.
func (l *RunLog) Errorf(format string, args ...any) {
	l.errors++
	l.add(errorPrefix + fmt.Sprintf(format, args...))
}

func (l *RunLog) add(line string) {
	fmt.Fprintln(l.echo, line)
	l.lines = append(l.lines, line)
}

// Lines returns the recorded lines in emission order.
func (l *RunLog) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// ErrorCount returns the number of lines recorded with Errorf.
func (l *RunLog) ErrorCount() int {
	return l.errors
}
