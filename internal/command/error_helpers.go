// Where: internal/command/error_helpers.go
// What: Shared CLI error output.
// Why: Every failure is rendered once, with hints, and mapped to exit code 1.
package command

import (
	"github.com/poruru-code/fly-laravel/internal/failure"
	"github.com/poruru-code/fly-laravel/internal/infra/ui"
	"go.uber.org/zap"
)

// exitWithError prints the user-facing message for err and returns exit
// code 1.
func exitWithError(out ui.UserInterface, logger *zap.Logger, err error) int {
	if logger != nil {
		logger.Debug("command failed", zap.String("kind", failure.Kind(err)), zap.Error(err))
	}
	out.Error(failure.Message(err))
	return 1
}
