// Where: internal/infra/ui/ui.go
// What: Emoji-aware UI for workflow output.
// Why: Workflows report through one surface; errors go to their own stream.
package ui

import (
	"fmt"
	"io"
	"sync"
)

// UserInterface exposes high-level output helpers used by workflows.
type UserInterface interface {
	Info(msg string)
	Warn(msg string)
	Success(msg string)
	Error(msg string)
	// Stream writes a line of subprocess output verbatim.
	Stream(line string)
}

type level int

const (
	levelSuccess level = iota
	levelWarn
	levelError
)

// prefixes holds the emoji and plain prefix per level.
var prefixes = map[level][2]string{
	levelSuccess: {"✅ ", "[ok] "},
	levelWarn:    {"⚠️ ", "[warn] "},
	levelError:   {"❌ ", "[error] "},
}

// NewUI returns a UserInterface writing to out, with errors on errOut.
// A nil errOut shares out.
func NewUI(out, errOut io.Writer, emojiEnabled bool) UserInterface {
	if errOut == nil {
		errOut = out
	}
	return &console{out: out, errOut: errOut, emoji: emojiEnabled}
}

type console struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	emoji  bool
}

func (c *console) Info(msg string)    { c.write(c.out, "", msg) }
func (c *console) Stream(line string) { c.write(c.out, "", line) }
func (c *console) Warn(msg string)    { c.write(c.out, c.prefix(levelWarn), msg) }
func (c *console) Success(msg string) { c.write(c.out, c.prefix(levelSuccess), msg) }
func (c *console) Error(msg string)   { c.write(c.errOut, c.prefix(levelError), msg) }

func (c *console) prefix(l level) string {
	if c.emoji {
		return prefixes[l][0]
	}
	return prefixes[l][1]
}

// write serializes lines so streamed output and messages never interleave.
func (c *console) write(w io.Writer, prefix, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(w, "%s%s\n", prefix, msg)
}
