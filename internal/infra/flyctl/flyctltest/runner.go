// Where: internal/infra/flyctl/flyctltest/runner.go
// What: Scripted flyctl.Runner for tests.
// Why: Exercise workflows without a platform CLI on the machine.
package flyctltest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/poruru-code/fly-laravel/internal/failure"
	"github.com/poruru-code/fly-laravel/internal/infra/flyctl"
)

// Call records one invocation.
type Call struct {
	Dir      string
	Name     string
	Args     []string
	Streamed bool
	Timeout  time.Duration
}

// Line renders the call as "name arg1 arg2".
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Response scripts the outcome of a matching call.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
	// Lines are delivered to OnLine for streamed calls.
	Lines []string
}

type rule struct {
	prefix   string
	response Response
}

// Runner matches calls against prefixes registered with On. The first
// matching rule wins; unmatched calls succeed with empty output.
type Runner struct {
	mu    sync.Mutex
	rules []rule
	calls []Call
}

// On registers a response for calls whose Line starts with prefix.
func (r *Runner) On(prefix string, resp Response) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{prefix: prefix, response: resp})
	return r
}

// Replace swaps the response of the rule registered for prefix, or adds
// the rule when none exists.
func (r *Runner) Replace(prefix string, resp Response) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rules {
		if r.rules[i].prefix == prefix {
			r.rules[i].response = resp
			return r
		}
	}
	r.rules = append(r.rules, rule{prefix: prefix, response: resp})
	return r
}

// Calls returns a snapshot of the recorded invocations.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Lines returns the rendered command lines in call order.
func (r *Runner) Lines() []string {
	calls := r.Calls()
	out := make([]string, 0, len(calls))
	for _, call := range calls {
		out = append(out, call.Line())
	}
	return out
}

// Called reports whether any call line starts with prefix.
func (r *Runner) Called(prefix string) bool {
	for _, line := range r.Lines() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func (r *Runner) record(call Call) Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	line := call.Line()
	for _, rl := range r.rules {
		if strings.HasPrefix(line, rl.prefix) {
			return rl.response
		}
	}
	return Response{}
}

func (r *Runner) Run(_ context.Context, dir, name string, args ...string) (flyctl.Result, error) {
	call := Call{Dir: dir, Name: name, Args: append([]string(nil), args...)}
	return finish(call, r.record(call))
}

func (r *Runner) Start(_ context.Context, opts flyctl.Options, name string, args ...string) (flyctl.Handle, error) {
	call := Call{Dir: opts.Dir, Name: name, Args: append([]string(nil), args...), Streamed: true, Timeout: opts.Timeout}
	resp := r.record(call)
	return handle{call: call, resp: resp, onLine: opts.OnLine}, nil
}

type handle struct {
	call   Call
	resp   Response
	onLine func(flyctl.Stream, string)
}

func (h handle) Wait() (flyctl.Result, error) {
	if h.onLine != nil {
		for _, line := range h.resp.Lines {
			h.onLine(flyctl.Stdout, line)
		}
	}
	return finish(h.call, h.resp)
}

func finish(call Call, resp Response) (flyctl.Result, error) {
	result := flyctl.Result{
		Command:  call.Line(),
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
		ExitCode: resp.ExitCode,
	}
	if resp.Err != nil {
		return result, resp.Err
	}
	if resp.ExitCode != 0 {
		return result, failure.Command(result.Command, resp.ExitCode, resp.Stdout, resp.Stderr, nil)
	}
	return result, nil
}
