// Where: internal/usecase/workflow/launch.go
// What: Launch a Laravel app: prompts, provisioning, and file generation.
// Why: Take a fresh Laravel project to a deployable state in one command.
package workflow

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/assets"
	"github.com/poruru-code/fly-laravel/internal/domain/flytoml"
	"github.com/poruru-code/fly-laravel/internal/domain/naming"
	"github.com/poruru-code/fly-laravel/internal/domain/runtime"
	"github.com/poruru-code/fly-laravel/internal/domain/secret"
	"github.com/poruru-code/fly-laravel/internal/domain/template"
	"github.com/poruru-code/fly-laravel/internal/failure"
	"github.com/poruru-code/fly-laravel/internal/infra/fileops"
	"github.com/poruru-code/fly-laravel/internal/meta"
	"github.com/poruru-code/fly-laravel/internal/usecase/pipeline"
	"go.uber.org/zap"
)

// LaunchRequest pre-answers launch prompts. Empty fields are asked.
type LaunchRequest struct {
	Name   string
	Org    string
	Region string
	// Yes deploys after launching without asking.
	Yes bool
}

type launchPlan struct {
	name      string
	org       string
	region    string
	processes []template.Process
	mount     *template.Mount

	nodeVersion string
	php         runtime.PHPResolution
	copied      fileops.CopyResult
}

// Launch creates the app on Fly.io and generates its configuration. When a
// fly.toml already exists the operator may deploy instead.
func (w *Workflows) Launch(ctx context.Context, req LaunchRequest) error {
	if fileops.FileExists(w.settings.ConfigPath()) {
		deploy, err := w.prompter.Confirm(AskDeployInstead, false)
		if err != nil {
			return err
		}
		if !deploy {
			w.ui.Info(fmt.Sprintf("Existing %s found, nothing to launch.", w.settings.ConfigFile))
			return nil
		}
		return w.Deploy(ctx, DeployRequest{})
	}

	plan, proceed, err := w.askLaunch(ctx, req)
	if err != nil || !proceed {
		return err
	}

	if err := w.run(ctx, w.launchSteps(plan)...); err != nil {
		return err
	}
	w.reportLaunch(plan)

	deploy := req.Yes
	if !deploy {
		deploy, err = w.prompter.Confirm(AskDeployApp, false)
		if err != nil {
			return err
		}
	}
	if !deploy {
		w.ui.Info("Run 'fly-laravel deploy' when you are ready to deploy.")
		return nil
	}
	return w.Deploy(ctx, DeployRequest{})
}

func (w *Workflows) askLaunch(ctx context.Context, req LaunchRequest) (*launchPlan, bool, error) {
	lookup := w.startLookups(ctx, req.Org == "")
	defer lookup.stop()

	name := req.Name
	if name == "" {
		answer, err := w.prompter.Input(AskAppName, nil)
		if err != nil {
			return nil, false, err
		}
		name = answer
	}
	name, err := naming.ValidateAppName(name)
	if err != nil {
		return nil, false, err
	}

	if err := lookup.wait(); err != nil {
		return nil, false, err
	}

	org := req.Org
	if org == "" {
		org, err = SelectOrganization(w.prompter, w.ui, lookup.orgs)
		if err != nil {
			return nil, false, err
		}
		if org == "" {
			w.ui.Info("Launch cancelled.")
			return nil, false, nil
		}
	}

	region, err := SelectRegion(w.prompter, lookup.regions, req.Region)
	if err != nil {
		return nil, false, err
	}

	processes, err := SelectProcesses(w.prompter)
	if err != nil {
		return nil, false, err
	}

	mount, err := SelectStorageVolume(w.prompter, name)
	if err != nil {
		return nil, false, err
	}

	w.logger.Debug("launch plan",
		zap.String("app", name),
		zap.String("org", org),
		zap.String("region", region),
		zap.Int("processes", len(processes)),
		zap.Bool("volume", mount != nil),
	)
	return &launchPlan{name: name, org: org, region: region, processes: processes, mount: mount}, true, nil
}

func (w *Workflows) launchSteps(plan *launchPlan) []pipeline.Step {
	steps := []pipeline.Step{
		{Label: "Detect Node and PHP versions", Run: func(ctx context.Context) error {
			return w.detectVersions(ctx, plan)
		}},
		{Label: "Create app on Fly.io", Run: func(ctx context.Context) error {
			created, err := w.platform.CreateApp(ctx, plan.name, plan.org)
			if err != nil {
				return err
			}
			plan.name = created
			return nil
		}},
		{Label: "Generate fly.toml app configuration file", Run: func(context.Context) error {
			return w.generateLaravelConfig(plan)
		}},
		{Label: "Copy template files", Run: func(context.Context) error {
			copied, err := fileops.CopyMissingFS(w.settings.Templates, assets.LaravelStaticDir, w.settings.Root)
			if err != nil {
				return errors.Wrap(err, "copy template files")
			}
			plan.copied = copied
			return nil
		}},
	}
	if plan.mount != nil {
		steps = append(steps, pipeline.Step{Label: "Prepare storage folder for the volume", Run: func(context.Context) error {
			return w.prepareStorage()
		}})
	}
	steps = append(steps, pipeline.Step{Label: "Set APP_KEY secret", Run: func(ctx context.Context) error {
		key, err := secret.AppKey()
		if err != nil {
			return err
		}
		return w.platform.SetSecrets(ctx, plan.name, map[string]string{"APP_KEY": key})
	}})
	return steps
}

func (w *Workflows) detectVersions(ctx context.Context, plan *launchPlan) error {
	if w.toolchain == nil {
		return errors.New("toolchain runner is not configured")
	}
	node, err := w.toolchain.Run(ctx, w.settings.Root, "node", "-v")
	if err != nil {
		return errors.WithHint(failure.Validation("could not detect Node version"), "install Node.js and make sure `node` is on your PATH")
	}
	plan.nodeVersion, err = runtime.ResolveNodeVersion(node.Stdout)
	if err != nil {
		return err
	}

	// A missing php binary falls back to the default version.
	php, err := w.toolchain.Run(ctx, w.settings.Root, "php", "-v")
	if err != nil {
		w.logger.Debug("php version probe failed", zap.Error(err))
	}
	plan.php = runtime.ResolvePHPVersion(php.Stdout)
	return nil
}

func (w *Workflows) generateLaravelConfig(plan *launchPlan) error {
	rendered, err := w.renderer.LaravelConfig(template.LaravelConfig{
		AppName:     plan.name,
		Region:      plan.region,
		NodeVersion: plan.nodeVersion,
		PHPVersion:  plan.php.Version,
		Processes:   plan.processes,
		Mount:       plan.mount,
	})
	if err != nil {
		return err
	}
	doc, err := flytoml.Parse([]byte(rendered))
	if err != nil {
		return errors.Wrap(err, "parse generated fly.toml")
	}
	if err := flytoml.ValidateAppConfig(doc); err != nil {
		return err
	}
	return w.writeConfig(doc, w.settings.ConfigPath())
}

// prepareStorage backs up storage/ and writes the script that restores it
// into a freshly mounted volume.
func (w *Workflows) prepareStorage() error {
	storage := w.settings.Path(meta.StorageDir)
	if fileops.DirExists(storage) {
		if err := fileops.CopyDir(storage, w.settings.Path(meta.StorageBackup)); err != nil {
			return errors.Wrap(err, "back up storage folder")
		}
	}
	script, err := w.renderer.StorageInitScript()
	if err != nil {
		return err
	}
	target := w.settings.Path(filepath.FromSlash(meta.ScriptsDir), "1_storage_init.sh")
	if err := fileops.WriteFile(target, script); err != nil {
		return errors.Wrap(err, "write storage init script")
	}
	return nil
}

func (w *Workflows) reportLaunch(plan *launchPlan) {
	w.ui.Info("Detected Node version: " + plan.nodeVersion)
	w.ui.Info(plan.php.Note)
	for _, rel := range plan.copied.Skipped {
		w.ui.Info(fmt.Sprintf("Existing %s found, keeping it.", rel))
	}
	if plan.mount != nil {
		w.ui.Info(fmt.Sprintf("Volume '%s' will be mounted at %s.", plan.mount.Source, plan.mount.Destination))
	}
	w.ui.Success(fmt.Sprintf("App '%s' is ready to go!", plan.name))
}
