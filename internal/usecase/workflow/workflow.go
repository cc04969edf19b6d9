// Where: internal/usecase/workflow/workflow.go
// What: Shared settings and collaborators for the launch and deploy workflows.
// Why: Every workflow reads paths, timeouts, and clients from one explicit struct.
package workflow

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/assets"
	"github.com/poruru-code/fly-laravel/internal/domain/flytoml"
	"github.com/poruru-code/fly-laravel/internal/domain/template"
	"github.com/poruru-code/fly-laravel/internal/domain/volume"
	"github.com/poruru-code/fly-laravel/internal/failure"
	"github.com/poruru-code/fly-laravel/internal/infra/fileops"
	"github.com/poruru-code/fly-laravel/internal/infra/flyctl"
	"github.com/poruru-code/fly-laravel/internal/infra/flyio"
	"github.com/poruru-code/fly-laravel/internal/infra/interaction"
	"github.com/poruru-code/fly-laravel/internal/infra/ui"
	"github.com/poruru-code/fly-laravel/internal/meta"
	"github.com/poruru-code/fly-laravel/internal/usecase/pipeline"
	"go.uber.org/zap"
)

const (
	DefaultDeployTimeout       = 180 * time.Second
	DefaultVolumeDeployTimeout = 600 * time.Second
)

// Settings is the project layout and tuning shared by all workflows.
type Settings struct {
	Root                string
	ConfigFile          string
	ServiceDir          string
	DeployTimeout       time.Duration
	VolumeDeployTimeout time.Duration
	// Templates holds templates/ as laid out in the assets package.
	Templates fs.FS
	Now       func() time.Time
}

func (s Settings) withDefaults() Settings {
	if s.Root == "" {
		s.Root = "."
	}
	if s.ConfigFile == "" {
		s.ConfigFile = meta.ConfigFile
	}
	if s.ServiceDir == "" {
		s.ServiceDir = meta.ServiceDir
	}
	if s.DeployTimeout <= 0 {
		s.DeployTimeout = DefaultDeployTimeout
	}
	if s.VolumeDeployTimeout <= 0 {
		s.VolumeDeployTimeout = DefaultVolumeDeployTimeout
	}
	if s.Templates == nil {
		s.Templates = assets.TemplatesFS
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	return s
}

// Path joins parts onto the project root.
func (s Settings) Path(parts ...string) string {
	return filepath.Join(append([]string{s.Root}, parts...)...)
}

// ConfigPath is the Laravel app's fly.toml.
func (s Settings) ConfigPath() string {
	return s.Path(s.ConfigFile)
}

// ServiceConfig is the fly.toml of a backing service, relative to the root.
func (s Settings) ServiceConfig(service string) string {
	return filepath.Join(s.ServiceDir, service, s.ConfigFile)
}

// Platform is the provisioning surface the workflows drive.
type Platform interface {
	CreateApp(ctx context.Context, name, org string) (string, error)
	Organizations(ctx context.Context) ([]flyio.Organization, error)
	Regions(ctx context.Context) ([]flyio.Region, error)
	SetSecrets(ctx context.Context, app string, secrets map[string]string) error
	Status(ctx context.Context, app string) (flyio.Status, error)
	Volumes(ctx context.Context, app string) ([]flyio.Volume, error)
	CreateVolumes(ctx context.Context, app string, create volume.Create) error
	Scale(ctx context.Context, configPath string) ([]flyio.ProcessScale, error)
	Deploy(ctx context.Context, opts flyio.DeployOptions) (flyctl.Result, error)
	Open(ctx context.Context) error
}

// Deps wires a Workflows.
type Deps struct {
	Settings Settings
	Platform Platform
	// Toolchain runs local probes such as `php -v`.
	Toolchain flyctl.Runner
	Prompter  interaction.Prompter
	UI        ui.UserInterface
	Reporter  pipeline.Reporter
	Logger    *zap.Logger
}

// Workflows runs the operator-facing commands.
type Workflows struct {
	settings  Settings
	platform  Platform
	toolchain flyctl.Runner
	prompter  interaction.Prompter
	ui        ui.UserInterface
	steps     pipeline.Runner
	renderer  *template.Renderer
	logger    *zap.Logger
}

// New returns Workflows with defaults applied to deps.Settings.
func New(deps Deps) *Workflows {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := deps.Settings.withDefaults()
	return &Workflows{
		settings:  settings,
		platform:  deps.Platform,
		toolchain: deps.Toolchain,
		prompter:  deps.Prompter,
		ui:        deps.UI,
		steps:     pipeline.Runner{Reporter: deps.Reporter, Logger: logger},
		renderer:  template.NewRenderer(settings.Templates),
		logger:    logger,
	}
}

// Settings returns the resolved settings.
func (w *Workflows) Settings() Settings {
	return w.settings
}

func (w *Workflows) run(ctx context.Context, steps ...pipeline.Step) error {
	_, err := w.steps.Run(ctx, steps...)
	return err
}

// loadLaravelConfig reads the app's fly.toml and returns it with the app name.
func (w *Workflows) loadLaravelConfig() (*flytoml.Table, string, error) {
	path := w.settings.ConfigPath()
	if !fileops.FileExists(path) {
		return nil, "", errors.WithHint(
			failure.Validation("no %s found in %s", w.settings.ConfigFile, w.settings.Root),
			"run `fly-laravel launch` first",
		)
	}
	doc, err := flytoml.Load(path)
	if err != nil {
		return nil, "", err
	}
	app := doc.String("app")
	if app == "" {
		return nil, "", failure.Validation("%s has no app name", w.settings.ConfigFile)
	}
	return doc, app, nil
}

func (w *Workflows) writeConfig(doc *flytoml.Table, path string) error {
	return flytoml.Write(doc, path, w.settings.Now())
}
