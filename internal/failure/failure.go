// Where: internal/failure/failure.go
// What: Error taxonomy shared by every workflow.
// Why: Classify command, validation, and API failures so the command layer can report them uniformly.
package failure

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Reference errors used as marks. Check with errors.Is.
var (
	ErrCommandFailed    = errors.New("command failed")
	ErrValidationFailed = errors.New("validation failed")
	ErrResponseFailed   = errors.New("response failed")
)

// CommandError describes an external process that could not complete successfully.
type CommandError struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Cause    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		return msg + ": " + stderr
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Cause }

// Command builds a CommandFailed error for the given invocation.
func Command(command string, exitCode int, stdout, stderr string, cause error) error {
	return errors.Mark(&CommandError{
		Command:  command,
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
		Cause:    cause,
	}, ErrCommandFailed)
}

// Validation builds a ValidationFailed error with a formatted message.
func Validation(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrValidationFailed)
}

// Response builds a ResponseFailed error for an unsuccessful API call.
func Response(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrResponseFailed)
}

// AsCommandFailed re-marks an arbitrary error as CommandFailed.
// Used where a local failure must abort the workflow like a failed process would.
func AsCommandFailed(err error, command string) error {
	if err == nil {
		return nil
	}
	return Command(command, -1, "", err.Error(), err)
}

// Message renders the user-facing text for err. Command failures show the captured
// stderr; everything else shows the error message. Hints are appended on their own lines.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		if stderr := strings.TrimSpace(cmdErr.Stderr); stderr != "" {
			msg = stderr
		}
	}
	hints := errors.GetAllHints(err)
	if len(hints) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for _, hint := range hints {
		b.WriteString("\n  hint: ")
		b.WriteString(hint)
	}
	return b.String()
}

// Kind names the category of err for logging.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCommandFailed):
		return "command"
	case errors.Is(err, ErrValidationFailed):
		return "validation"
	case errors.Is(err, ErrResponseFailed):
		return "response"
	default:
		return "internal"
	}
}
