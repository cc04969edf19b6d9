// Where: cmd/fly-laravel/cli_test.go
// What: Tests for CLI dependency wiring.
// Why: Ensure buildDependencies is deterministic.
package main

import (
	"context"
	"os"
	"testing"

	"github.com/poruru-code/fly-laravel/internal/infra/interaction"
)

func TestBuildDependencies(t *testing.T) {
	ctx := context.WithValue(context.Background(), struct{}{}, "marker")
	deps := buildDependencies(ctx)

	if deps.Context != ctx {
		t.Fatal("expected the provided context")
	}
	if deps.Out != os.Stdout || deps.ErrOut != os.Stderr {
		t.Fatal("expected standard streams")
	}
	if _, ok := deps.Prompter.(interaction.HuhPrompter); !ok {
		t.Fatalf("Prompter = %T", deps.Prompter)
	}
	if deps.HTTPClient == nil || deps.HTTPClient.Timeout != httpTimeout {
		t.Fatalf("HTTPClient = %#v", deps.HTTPClient)
	}
}

func TestBuildDependenciesInteractiveUsesTerminalCheck(t *testing.T) {
	prev := interaction.IsTerminal
	t.Cleanup(func() { interaction.IsTerminal = prev })

	var checked *os.File
	interaction.IsTerminal = func(file *os.File) bool {
		checked = file
		return true
	}
	if !buildDependencies(context.Background()).Interactive() {
		t.Fatal("expected interactive")
	}
	if checked != os.Stdout {
		t.Fatalf("checked %v, want stdout", checked)
	}
}
