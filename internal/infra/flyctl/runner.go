// Where: internal/infra/flyctl/runner.go
// What: External command execution with captured and streamed output.
// Why: Every platform side effect runs through one invoker that classifies failures.
package flyctl

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/internal/failure"
	"go.uber.org/zap"
)

// DefaultTimeout bounds blocking invocations.
const DefaultTimeout = 60 * time.Second

const maxLineSize = 1024 * 1024

// pipeGrace bounds how long output pipes stay open after the process is
// killed. Children that inherited the pipes would otherwise hold Wait.
const pipeGrace = 2 * time.Second

// Stream identifies which output a streamed line came from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

// Result is the captured outcome of a finished command.
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
}

// Options configures a streamed invocation.
type Options struct {
	Dir     string
	Timeout time.Duration
	// OnLine receives output lines as they arrive. Calls are serialized.
	OnLine func(stream Stream, line string)
}

// Handle is a started command.
type Handle interface {
	Wait() (Result, error)
}

// Runner defines the interface for executing external commands.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
	Start(ctx context.Context, opts Options, name string, args ...string) (Handle, error)
}

// ExecRunner is a concrete implementation of Runner using os/exec.
type ExecRunner struct {
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewExecRunner returns a runner that logs through logger.
func NewExecRunner(logger *zap.Logger) ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return ExecRunner{Logger: logger, Timeout: DefaultTimeout}
}

func (r ExecRunner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// Run blocks until the command exits or the runner timeout elapses.
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	line := CommandLine(name, args...)
	r.logger().Debug("run command", zap.String("command", line), zap.String("dir", dir))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = pipeGrace
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	started := time.Now()
	err := cmd.Run()

	result := Result{Command: line, Stdout: stdout.String(), Stderr: stderr.String()}
	result, err = classify(ctx, result, timeout, err)
	r.logger().Debug("command finished",
		zap.String("command", line),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, err
}

// Start launches the command and streams its output to opts.OnLine.
func (r ExecRunner) Start(ctx context.Context, opts Options, name string, args ...string) (Handle, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)

	line := CommandLine(name, args...)
	r.logger().Debug("start command",
		zap.String("command", line),
		zap.String("dir", opts.Dir),
		zap.Duration("timeout", timeout),
	)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	cmd.WaitDelay = pipeGrace

	h := &execHandle{
		cmd:     cmd,
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
		result:  Result{Command: line},
		logger:  r.logger(),
	}
	h.out = &lineWriter{stream: Stdout, mu: &h.mu, onLine: opts.OnLine}
	h.err = &lineWriter{stream: Stderr, mu: &h.mu, onLine: opts.OnLine}
	cmd.Stdout = h.out
	cmd.Stderr = h.err
	if err := cmd.Start(); err != nil {
		cancel()
		_, classified := classify(ctx, Result{Command: line}, timeout, err)
		return nil, classified
	}
	return h, nil
}

type execHandle struct {
	cmd     *exec.Cmd
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.Mutex
	out    *lineWriter
	err    *lineWriter
	result Result
}

// lineWriter splits output into lines for OnLine and keeps a full copy.
// Writers of one handle share mu so callbacks are serialized.
type lineWriter struct {
	stream  Stream
	mu      *sync.Mutex
	onLine  func(Stream, string)
	all     strings.Builder
	pending []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.all.Write(p)
	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		w.emit(string(bytes.TrimSuffix(w.pending[:i], []byte("\r"))))
		w.pending = w.pending[i+1:]
	}
	if len(w.pending) > maxLineSize {
		w.emit(string(w.pending))
		w.pending = nil
	}
	return len(p), nil
}

// flush delivers a trailing line without a newline.
func (w *lineWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) > 0 {
		w.emit(string(w.pending))
		w.pending = nil
	}
}

func (w *lineWriter) emit(line string) {
	if w.onLine != nil {
		w.onLine(w.stream, line)
	}
}

// Wait blocks until the command exits and its output has been delivered,
// or until the timeout plus a short pipe grace period has passed.
func (h *execHandle) Wait() (Result, error) {
	defer h.cancel()
	waitErr := h.cmd.Wait()
	h.out.flush()
	h.err.flush()

	h.mu.Lock()
	result := h.result
	result.Stdout = h.out.all.String()
	result.Stderr = h.err.all.String()
	h.mu.Unlock()

	result, err := classify(h.ctx, result, h.timeout, waitErr)
	h.logger.Debug("streamed command finished",
		zap.String("command", result.Command),
		zap.Int("exit_code", result.ExitCode),
	)
	return result, err
}

func classify(ctx context.Context, result Result, timeout time.Duration, err error) (Result, error) {
	if err == nil {
		return result, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.ExitCode = -1
		msg := fmt.Sprintf("command timed out after %s: %s", timeout, result.Command)
		return result, failure.Command(result.Command, -1, result.Stdout, msg, ctx.Err())
	}
	// The process exited cleanly but a child kept the output open.
	if errors.Is(err, exec.ErrWaitDelay) {
		return result, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		stderr := result.Stderr
		if strings.TrimSpace(stderr) == "" {
			stderr = result.Stdout
		}
		return result, failure.Command(result.Command, result.ExitCode, result.Stdout, stderr, err)
	}
	result.ExitCode = -1
	return result, failure.Command(result.Command, -1, result.Stdout, err.Error(), err)
}

var assignmentPattern = regexp.MustCompile(`^([A-Z][A-Z0-9_]*)=.+$`)

// CommandLine renders argv for logs and error messages. Values of
// KEY=VALUE arguments are masked.
func CommandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, arg := range args {
		if m := assignmentPattern.FindStringSubmatch(arg); m != nil {
			parts = append(parts, m[1]+"=***")
			continue
		}
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			parts = append(parts, fmt.Sprintf("%q", arg))
			continue
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}
