// Where: cmd/fly-laravel/main.go
// What: CLI entrypoint.
// Why: Run fly-laravel commands with configured dependencies.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/poruru-code/fly-laravel/internal/command"
)

func main() {
	ctx, stop := signal.NotifyContext(buildContext(), os.Interrupt, syscall.SIGTERM)
	code := command.Run(os.Args[1:], buildDependencies(ctx))
	stop()
	os.Exit(code)
}
