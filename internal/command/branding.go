// Where: internal/command/branding.go
// What: Command name shown in usage and hints.
// Why: Wrappers may install the binary under another name.
package command

import (
	"strings"

	"github.com/poruru-code/fly-laravel/internal/infra/envutil"
	"github.com/poruru-code/fly-laravel/internal/meta"
)

// EnvCLIName overrides the command name shown to the user.
const EnvCLIName = "CLI_NAME"

func cliName() string {
	if name := envutil.GetHostEnv(EnvCLIName); name != "" {
		return name
	}
	if name := strings.TrimSpace(meta.Slug); name != "" {
		return name
	}
	return meta.AppName
}
