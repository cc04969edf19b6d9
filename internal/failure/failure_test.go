package failure

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestCommandErrorIsMarked(t *testing.T) {
	err := Command("fly apps create", 1, "", "Error: name has already been taken\n", nil)
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("expected CommandFailed mark, got %v", err)
	}
	if errors.Is(err, ErrValidationFailed) {
		t.Fatalf("command error must not be a validation failure")
	}

	wrapped := fmt.Errorf("create app: %w", err)
	if !errors.Is(wrapped, ErrCommandFailed) {
		t.Fatalf("mark lost through fmt wrapping")
	}
	var cmdErr *CommandError
	if !errors.As(wrapped, &cmdErr) {
		t.Fatalf("expected *CommandError in chain")
	}
	if cmdErr.ExitCode != 1 {
		t.Fatalf("exit code = %d", cmdErr.ExitCode)
	}
}

func TestMessagePrefersStderr(t *testing.T) {
	err := errors.Wrap(Command("fly deploy", 2, "out", "boom\n", nil), "deploy")
	if got := Message(err); got != "boom" {
		t.Fatalf("Message() = %q, want %q", got, "boom")
	}
}

func TestMessageAppendsHints(t *testing.T) {
	err := errors.WithHint(Response("graphql returned 401"), "Run 'fly auth login' first.")
	got := Message(err)
	if !strings.HasPrefix(got, "graphql returned 401") {
		t.Fatalf("unexpected message: %q", got)
	}
	if !strings.Contains(got, "hint: Run 'fly auth login' first.") {
		t.Fatalf("hint missing: %q", got)
	}
}

func TestKind(t *testing.T) {
	cases := map[string]error{
		"command":    Command("fly", 1, "", "", nil),
		"validation": Validation("bad name %q", "$"),
		"response":   Response("status %d", 500),
		"internal":   errors.New("other"),
		"":           nil,
	}
	for want, err := range cases {
		if got := Kind(err); got != want {
			t.Errorf("Kind(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestAsCommandFailed(t *testing.T) {
	if AsCommandFailed(nil, "x") != nil {
		t.Fatal("nil error must stay nil")
	}
	err := AsCommandFailed(errors.New("entropy exhausted"), "generate secret")
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("expected CommandFailed, got %v", err)
	}
	if got := Message(err); got != "entropy exhausted" {
		t.Fatalf("Message() = %q", got)
	}
}
