// Where: internal/usecase/workflow/deploy.go
// What: Streamed deploys of the Laravel app.
// Why: Deploy output is shown live while the pipeline waits for completion.
package workflow

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/internal/infra/fileops"
	"github.com/poruru-code/fly-laravel/internal/infra/flyctl"
	"github.com/poruru-code/fly-laravel/internal/infra/flyio"
	"github.com/poruru-code/fly-laravel/internal/meta"
	"go.uber.org/zap"
)

// DeployRequest configures Deploy.
type DeployRequest struct {
	Open bool
	// CleanTempVolumeSetup removes the storage backup left by a volume mount.
	CleanTempVolumeSetup bool
}

// Deploy runs `fly deploy` for the Laravel app.
func (w *Workflows) Deploy(ctx context.Context, req DeployRequest) error {
	if err := w.deploy(ctx, "", w.settings.DeployTimeout); err != nil {
		return err
	}

	if req.Open {
		if err := w.platform.Open(ctx); err != nil {
			return err
		}
		w.ui.Info("Opened app.")
	}

	if req.CleanTempVolumeSetup {
		backup := w.settings.Path(meta.StorageBackup)
		if fileops.DirExists(backup) {
			if err := fileops.RemoveDir(backup); err != nil {
				return errors.Wrap(err, "remove storage backup")
			}
			w.ui.Info("Removed " + meta.StorageBackup + " folder.")
		}
	}

	w.ui.Success("App deployed successfully!")
	return nil
}

func (w *Workflows) deploy(ctx context.Context, configPath string, timeout time.Duration) error {
	w.logger.Debug("deploy", zap.String("config", configPath), zap.Duration("timeout", timeout))
	_, err := w.platform.Deploy(ctx, flyio.DeployOptions{
		ConfigPath: configPath,
		Timeout:    timeout,
		OnLine: func(_ flyctl.Stream, line string) {
			w.ui.Stream(line)
		},
	})
	return err
}
