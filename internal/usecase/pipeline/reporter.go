// Where: internal/usecase/pipeline/reporter.go
// What: Spinner and plain-text step reporters.
// Why: Animate progress on a terminal and keep logs readable elsewhere.
package pipeline

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

const (
	markOK   = "✔"
	markFail = "✘"
)

// NewReporter returns a spinner reporter when tty is set and a plain
// reporter otherwise.
func NewReporter(out io.Writer, tty bool) Reporter {
	if tty {
		return NewSpinnerReporter(out)
	}
	return PlainReporter{Out: out}
}

// PlainReporter prints "Label: ✔" or "Label: ✘" once a step finishes.
type PlainReporter struct {
	Out io.Writer
}

func (p PlainReporter) Start(string) {}

func (p PlainReporter) Finish(result Result) {
	mark := markOK
	if !result.OK() {
		mark = markFail
	}
	fmt.Fprintf(p.Out, "%s: %s\n", result.Label, mark)
}

// SpinnerReporter animates the running step.
type SpinnerReporter struct {
	out     io.Writer
	mu      sync.Mutex
	spinner *spinner.Spinner
}

// NewSpinnerReporter returns a reporter drawing on out.
func NewSpinnerReporter(out io.Writer) *SpinnerReporter {
	return &SpinnerReporter{
		out:     out,
		spinner: spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out)),
	}
}

func (s *SpinnerReporter) Start(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spinner.Suffix = " " + label
	s.spinner.Start()
}

func (s *SpinnerReporter) Finish(result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spinner.Active() {
		s.spinner.Stop()
	}
	mark := markOK
	if !result.OK() {
		mark = markFail
	}
	fmt.Fprintf(s.out, "%s %s\n", mark, result.Label)
}
