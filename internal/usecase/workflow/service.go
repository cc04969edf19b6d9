// Where: internal/usecase/workflow/service.go
// What: Launch and deploy of the MySQL and Redis backing apps.
// Why: Services share one flow and differ only in templates, env, and secrets.
package workflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/internal/domain/flytoml"
	"github.com/poruru-code/fly-laravel/internal/domain/naming"
	"github.com/poruru-code/fly-laravel/internal/domain/secret"
	"github.com/poruru-code/fly-laravel/internal/domain/template"
	"github.com/poruru-code/fly-laravel/internal/failure"
	"github.com/poruru-code/fly-laravel/internal/infra/fileops"
	"github.com/poruru-code/fly-laravel/internal/infra/flyio"
	"github.com/poruru-code/fly-laravel/internal/meta"
	"github.com/poruru-code/fly-laravel/internal/usecase/pipeline"
)

// ServiceInput is what the operator chose for a backing service.
type ServiceInput struct {
	LaravelApp string
	AppName    string
	Org        string
	Region     string
	Database   string
	Volume     string
}

// Secrets maps app name to the secrets staged on it.
type Secrets map[string]map[string]string

// Service describes a backing app launched next to the Laravel app.
type Service struct {
	Name  string
	Label string
	// AsksDatabase prompts for a database name.
	AsksDatabase bool
	Render       func(*template.Renderer, template.ServiceConfig) (string, error)
	// LaravelEnv is merged into the Laravel app's [env].
	LaravelEnv func(ServiceInput) map[string]string
	Secrets    func(ServiceInput) (Secrets, error)
	// Warnings inspects one process group after deploy.
	Warnings func(flyio.ProcessScale) []string
	// Closing is printed after a successful launch.
	Closing string
}

// MySQL is the MySQL database service.
var MySQL = Service{
	Name:         "mysql",
	Label:        "MySQL",
	AsksDatabase: true,
	Render:       (*template.Renderer).MySQLConfig,
	LaravelEnv: func(in ServiceInput) map[string]string {
		return map[string]string{
			"DB_CONNECTION": "mysql",
			"DB_HOST":       in.AppName + ".internal",
			"DB_DATABASE":   in.Database,
		}
	},
	Secrets: func(in ServiceInput) (Secrets, error) {
		values, err := secret.Bundle("password", "username", "root")
		if err != nil {
			return nil, err
		}
		return Secrets{
			in.AppName: {
				"MYSQL_PASSWORD":      values["password"],
				"MYSQL_ROOT_PASSWORD": values["root"],
				"MYSQL_USER":          values["username"],
			},
			in.LaravelApp: {
				"DB_PASSWORD": values["password"],
				"DB_USERNAME": values["username"],
			},
		}, nil
	},
	Warnings: func(scale flyio.ProcessScale) []string {
		if scale.Memory >= 1048 {
			return nil
		}
		return []string{fmt.Sprintf("Process group %s only has %d MB of ram configured. Consider giving the database more breathing room by scaling the app: %s",
			scale.Process, scale.Memory, meta.ScaleDocsURL)}
	},
	Closing: "Also, don't forget to redeploy your Laravel app and run the migrations.",
}

// Redis is the Redis cache service.
var Redis = Service{
	Name:   "redis",
	Label:  "Redis",
	Render: (*template.Renderer).RedisConfig,
	LaravelEnv: func(in ServiceInput) map[string]string {
		return map[string]string{
			"CACHE_DRIVER":   "redis",
			"SESSION_DRIVER": "redis",
			"REDIS_HOST":     in.AppName + ".internal",
		}
	},
	Secrets: func(in ServiceInput) (Secrets, error) {
		password, err := secret.Random()
		if err != nil {
			return nil, err
		}
		return Secrets{
			in.AppName:    {"REDIS_PASSWORD": password},
			in.LaravelApp: {"REDIS_PASSWORD": password},
		}, nil
	},
	Warnings: func(scale flyio.ProcessScale) []string {
		var warnings []string
		if scale.Memory == 256 {
			warnings = append(warnings, fmt.Sprintf("Process group %s only has %d MB of ram configured by default. Consider giving the database more breathing room by scaling the app: %s",
				scale.Process, scale.Memory, meta.ScaleDocsURL))
		}
		if scale.Count < 2 {
			warnings = append(warnings, fmt.Sprintf("Process group %s is running on %d machine(s). We recommend running at least 2 instances for high reliability. Documentation: %s",
				scale.Process, scale.Count, meta.ScaleCountURL))
		}
		return warnings
	},
}

// Services indexes the backing services by name.
var Services = map[string]Service{
	MySQL.Name: MySQL,
	Redis.Name: Redis,
}

// ServiceRequest pre-answers service launch prompts.
type ServiceRequest struct {
	Name   string
	Org    string
	Region string
}

// LaunchService creates a backing app for the Laravel app in the project.
func (w *Workflows) LaunchService(ctx context.Context, svc Service, req ServiceRequest) error {
	laravelDoc, laravelApp, err := w.loadLaravelConfig()
	if err != nil {
		return err
	}

	in, proceed, err := w.askService(ctx, svc, req, laravelDoc, laravelApp)
	if err != nil || !proceed {
		return err
	}

	prefix := svc.Label + ": "
	err = w.run(ctx,
		pipeline.Step{Label: prefix + "Create app on Fly.io", Run: func(ctx context.Context) error {
			_, err := w.platform.CreateApp(ctx, in.AppName, in.Org)
			return err
		}},
		pipeline.Step{Label: prefix + "Create directories", Run: func(context.Context) error {
			return fileops.EnsureDir(w.settings.Path(w.settings.ServiceDir, svc.Name))
		}},
		pipeline.Step{Label: prefix + "Generate fly.toml app configuration file", Run: func(context.Context) error {
			return w.generateServiceConfig(svc, in)
		}},
		pipeline.Step{Label: prefix + "Create random passwords and set as secrets on the app", Run: func(ctx context.Context) error {
			return w.setServiceSecrets(ctx, svc, in)
		}},
	)
	if err != nil {
		return err
	}

	w.ui.Warn("the Laravel app's secrets have been updated but not deployed yet.")
	w.ui.Success(fmt.Sprintf("%s app '%s' is ready to go! Run 'fly-laravel deploy:%s' to deploy it.", svc.Label, in.AppName, svc.Name))
	if svc.Closing != "" {
		w.ui.Info(svc.Closing)
	}
	return nil
}

func (w *Workflows) askService(ctx context.Context, svc Service, req ServiceRequest, laravelDoc *flytoml.Table, laravelApp string) (ServiceInput, bool, error) {
	in := ServiceInput{LaravelApp: laravelApp}

	lookup := w.startLookups(ctx, req.Org == "")
	defer lookup.stop()

	reuse := false
	if req.Org == "" && req.Region == "" {
		var err error
		reuse, err = w.prompter.Confirm(fmt.Sprintf("Laravel app '%s' detected. Use this app's configuration for organization & primary region?", laravelApp), true)
		if err != nil {
			return in, false, err
		}
	}

	name := req.Name
	if name == "" {
		var err error
		name, err = AskName(w.prompter, fmt.Sprintf("What should the %s app be called?", svc.Label), laravelApp+"-"+svc.Name)
		if err != nil {
			return in, false, err
		}
	}
	name, err := naming.ValidateAppName(name)
	if err != nil {
		return in, false, err
	}
	if name == naming.GenerateNameSentinel {
		return in, false, failure.Validation("%s app name is required", svc.Label)
	}
	in.AppName = name

	switch {
	case req.Org != "":
		in.Org = req.Org
	case reuse:
		status, err := w.platform.Status(ctx, laravelApp)
		if err != nil {
			return in, false, err
		}
		in.Org = status.Organization
	default:
		if err := lookup.wait(); err != nil {
			return in, false, err
		}
		in.Org, err = SelectOrganization(w.prompter, w.ui, lookup.orgs)
		if err != nil {
			return in, false, err
		}
		if in.Org == "" {
			w.ui.Info(svc.Label + " launch cancelled.")
			return in, false, nil
		}
	}

	if reuse && req.Region == "" {
		in.Region = laravelDoc.String("primary_region")
	}
	if in.Region == "" {
		if err := lookup.wait(); err != nil {
			return in, false, err
		}
		in.Region, err = SelectRegion(w.prompter, lookup.regions, req.Region)
		if err != nil {
			return in, false, err
		}
	}

	if svc.AsksDatabase {
		in.Database, err = AskName(w.prompter, fmt.Sprintf("What should the %s database be called?", svc.Label), laravelApp)
		if err != nil {
			return in, false, err
		}
	}

	volumeName, err := AskName(w.prompter, fmt.Sprintf("What should the %s volume be called?", svc.Label), naming.VolumeNameFor(laravelApp, "_"+svc.Name+"data"))
	if err != nil {
		return in, false, err
	}
	if in.Volume, err = naming.ValidateVolumeName(volumeName); err != nil {
		return in, false, err
	}
	return in, true, nil
}

func (w *Workflows) generateServiceConfig(svc Service, in ServiceInput) error {
	rendered, err := svc.Render(w.renderer, template.ServiceConfig{
		AppName:  in.AppName,
		Region:   in.Region,
		Database: in.Database,
		Volume:   in.Volume,
	})
	if err != nil {
		return err
	}
	doc, err := flytoml.Parse([]byte(rendered))
	if err != nil {
		return errors.Wrapf(err, "parse generated %s fly.toml", svc.Name)
	}
	if err := w.writeConfig(doc, w.settings.Path(w.settings.ServiceConfig(svc.Name))); err != nil {
		return err
	}

	// Reload so edits made since the launch survive.
	laravelDoc, _, err := w.loadLaravelConfig()
	if err != nil {
		return err
	}
	env := svc.LaravelEnv(in)
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	patch := flytoml.NewTable()
	for _, key := range keys {
		patch.SetPath("env."+key, flytoml.Scalar(env[key]))
	}
	laravelDoc.Merge(patch)
	return w.writeConfig(laravelDoc, w.settings.ConfigPath())
}

func (w *Workflows) setServiceSecrets(ctx context.Context, svc Service, in ServiceInput) error {
	secrets, err := svc.Secrets(in)
	if err != nil {
		return err
	}
	// Service first so a failure leaves the Laravel app untouched.
	for _, app := range []string{in.AppName, in.LaravelApp} {
		if err := w.platform.SetSecrets(ctx, app, secrets[app]); err != nil {
			return err
		}
	}
	return nil
}

// DeployService deploys a backing service and reports its resources.
func (w *Workflows) DeployService(ctx context.Context, svc Service) error {
	configPath := w.settings.ServiceConfig(svc.Name)
	if !fileops.FileExists(w.settings.Path(configPath)) {
		return errors.WithHint(
			failure.Validation("no %s found", configPath),
			fmt.Sprintf("run `fly-laravel launch:%s` first", svc.Name),
		)
	}
	if err := w.deploy(ctx, configPath, w.settings.DeployTimeout); err != nil {
		return err
	}

	scales, err := w.platform.Scale(ctx, configPath)
	if err != nil {
		return err
	}
	for _, scale := range scales {
		w.ui.Info(fmt.Sprintf("Resources of Process Group '%s': Machines: %d | CPU: %d, %s | Memory: %d MB",
			scale.Process, scale.Count, scale.CPUs, scale.CPUKind, scale.Memory))
		if svc.Warnings == nil {
			continue
		}
		for _, warning := range svc.Warnings(scale) {
			w.ui.Warn(warning)
		}
	}
	w.ui.Success(svc.Label + " app deployed successfully!")
	return nil
}
