// Where: internal/infra/flyio/apps.go
// What: App creation and staged secrets.
// Why: Launch workflows create apps and provision their credentials.
package flyio

import (
	"context"
	"sort"
	"strings"

	"github.com/poruru-code/fly-laravel/internal/domain/naming"
	"github.com/poruru-code/fly-laravel/internal/failure"
)

const createdMarker = "New app created:"

// CreateApp creates a machines app in org. When name is the generate-name
// sentinel the platform picks the name, which is read back from the output.
func (c *Client) CreateApp(ctx context.Context, name, org string) (string, error) {
	result, err := c.run(ctx, "apps", "create", "-o", org, "--machines", name)
	if err != nil {
		return "", err
	}
	if name != naming.GenerateNameSentinel {
		return name, nil
	}
	return ParseCreatedAppName(result.Stdout)
}

// ParseCreatedAppName extracts the app name from `fly apps create` output
// such as "New app created: blue-pond-4265".
func ParseCreatedAppName(output string) (string, error) {
	idx := strings.Index(output, createdMarker)
	if idx < 0 {
		return "", failure.Response("could not find the created app name in: %q", strings.TrimSpace(output))
	}
	fields := strings.Fields(output[idx+len(createdMarker):])
	if len(fields) == 0 {
		return "", failure.Response("fly did not report the created app name")
	}
	return naming.ValidateGeneratedAppName(fields[0])
}

// SetSecrets stages secrets on app without restarting it. Keys are passed in
// sorted order.
func (c *Client) SetSecrets(ctx context.Context, app string, secrets map[string]string) error {
	if len(secrets) == 0 {
		return nil
	}
	keys := make([]string, 0, len(secrets))
	for key := range secrets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	args := []string{"secrets", "set"}
	for _, key := range keys {
		args = append(args, key+"="+secrets[key])
	}
	args = append(args, "-a", app, "--stage")
	_, err := c.run(ctx, args...)
	return err
}
