// Where: internal/infra/envutil/envutil.go
// What: Access to FLY_LARAVEL_* environment overrides.
// Why: One prefix for every host-level setting.
package envutil

import (
	"os"
	"strings"

	"github.com/poruru-code/fly-laravel/internal/meta"
)

// HostEnvKey returns the prefixed variable name, e.g. FLY_LARAVEL_FLYCTL
// for "FLYCTL".
func HostEnvKey(suffix string) string {
	return meta.EnvPrefix + "_" + suffix
}

// GetHostEnv returns the trimmed value of the prefixed variable.
func GetHostEnv(suffix string) string {
	return strings.TrimSpace(os.Getenv(HostEnvKey(suffix)))
}
