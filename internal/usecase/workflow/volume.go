// Where: internal/usecase/workflow/volume.go
// What: Mount a storage volume on every app machine of the Laravel app.
// Why: Persist storage/ across deploys without duplicating existing volumes.
package workflow

import (
	"context"
	"fmt"

	"github.com/poruru-code/fly-laravel/internal/domain/flytoml"
	"github.com/poruru-code/fly-laravel/internal/domain/naming"
	"github.com/poruru-code/fly-laravel/internal/domain/volume"
	"github.com/poruru-code/fly-laravel/internal/meta"
	"github.com/poruru-code/fly-laravel/internal/usecase/pipeline"
)

// StorageVolumeSuffix names the volume mounted at storage/.
const StorageVolumeSuffix = "_storage_vol"

// ReplicationReminder closes every volume mount.
const ReplicationReminder = "Volumes don't automatically sync their data, remember to apply your own replication logic if you need consistent data across your Fly App's Volumes."

// MountRequest configures MountVolume.
type MountRequest struct {
	// Yes deploys without asking.
	Yes bool
}

// MountVolume creates the missing storage volumes, points fly.toml at them,
// and optionally deploys.
func (w *Workflows) MountVolume(ctx context.Context, req MountRequest) error {
	doc, app, err := w.loadLaravelConfig()
	if err != nil {
		return err
	}

	var (
		machines map[string]int
		name     string
		creates  []volume.Create
	)
	err = w.run(ctx, pipeline.Step{Label: "Detect regional volumes to create", Run: func(ctx context.Context) error {
		status, err := w.platform.Status(ctx, app)
		if err != nil {
			return err
		}
		if status.Name != "" {
			app = status.Name
		}
		machines = volume.MachinesPerRegion(status.Machines, volume.AppProcessGroup)
		name = naming.VolumeNameFor(app, StorageVolumeSuffix)

		existing, err := w.platform.Volumes(ctx, app)
		if err != nil {
			return err
		}
		have := make([]volume.Existing, 0, len(existing))
		for _, vol := range existing {
			have = append(have, volume.Existing{Name: vol.Name, Region: vol.Region})
		}
		creates = volume.Plan(machines, have, name)
		return nil
	}})
	if err != nil {
		return err
	}

	if len(machines) == 0 {
		w.ui.Warn("No machines found in the app process group; volumes are created when the app is deployed.")
	}
	for _, create := range creates {
		w.ui.Info(fmt.Sprintf("Detected %d machines in the %s region. Creating %d volume(s) with name %s.",
			machines[create.Region], create.Region, create.Count, create.Name))
	}

	err = w.run(ctx,
		pipeline.Step{Label: "Create volumes per machine detected", Run: func(ctx context.Context) error {
			for _, create := range creates {
				if err := w.platform.CreateVolumes(ctx, app, create); err != nil {
					return err
				}
			}
			return nil
		}},
		pipeline.Step{Label: "Update fly.toml to mount volume", Run: func(context.Context) error {
			doc.Delete("mount")
			doc.Set("mounts", flytoml.Tables(flytoml.NewTable().
				Set("source", flytoml.Scalar(name)).
				Set("destination", flytoml.Scalar(meta.StorageMountPath))))
			return w.writeConfig(doc, w.settings.ConfigPath())
		}},
		pipeline.Step{Label: "Copy storage folder re-initialization script", Run: func(context.Context) error {
			return w.prepareStorage()
		}},
	)
	if err != nil {
		return err
	}

	deploy := req.Yes
	if !deploy {
		deploy, err = w.prompter.Confirm(AskDeployVolumeMount, true)
		if err != nil {
			return err
		}
	}
	if deploy {
		if err := w.deploy(ctx, "", w.settings.VolumeDeployTimeout); err != nil {
			return err
		}
	}

	w.ui.Info(ReplicationReminder)
	return nil
}
