// Where: cmd/fly-laravel/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/poruru-code/fly-laravel/internal/command"
	"github.com/poruru-code/fly-laravel/internal/infra/interaction"
)

// httpTimeout bounds GraphQL requests.
const httpTimeout = 30 * time.Second

var (
	buildContext = context.Background
	stdout       = os.Stdout
	stderr       = os.Stderr
)

// buildDependencies constructs the runtime dependencies of the CLI. Fields
// left nil fall back to the defaults applied by command.Run.
func buildDependencies(ctx context.Context) command.Dependencies {
	return command.Dependencies{
		Context:    ctx,
		Out:        stdout,
		ErrOut:     stderr,
		Prompter:   interaction.HuhPrompter{},
		HTTPClient: &http.Client{Timeout: httpTimeout},
		Getwd:      os.Getwd,
		Interactive: func() bool {
			return interaction.IsTerminal(stdout)
		},
	}
}
