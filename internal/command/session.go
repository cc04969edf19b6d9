// Where: internal/command/session.go
// What: Per-invocation wiring of settings, logger, clients, and workflows.
// Why: Commands share one construction path that tests can feed with fakes.
package command

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/internal/failure"
	"github.com/poruru-code/fly-laravel/internal/infra/config"
	"github.com/poruru-code/fly-laravel/internal/infra/fileops"
	"github.com/poruru-code/fly-laravel/internal/infra/flyctl"
	"github.com/poruru-code/fly-laravel/internal/infra/flyio"
	"github.com/poruru-code/fly-laravel/internal/infra/interaction"
	"github.com/poruru-code/fly-laravel/internal/infra/logging"
	"github.com/poruru-code/fly-laravel/internal/infra/ui"
	"github.com/poruru-code/fly-laravel/internal/usecase/pipeline"
	"github.com/poruru-code/fly-laravel/internal/usecase/workflow"
	"go.uber.org/zap"
)

// session carries what one command invocation needs. Workflows are built
// on first use so that commands such as version run outside a project.
type session struct {
	cli      CLI
	deps     Dependencies
	settings config.GlobalConfig
	ui       ui.UserInterface
	logger   *zap.Logger
	wf       *workflow.Workflows
}

func newSession(cli CLI, deps Dependencies) (*session, error) {
	if cli.LogLevel != "" && !logging.KnownLevel(cli.LogLevel) {
		return nil, failure.Validation("unknown --log-level %q (use debug, info, warn or error)", cli.LogLevel)
	}
	logger := logging.New(logging.Options{Out: deps.ErrOut, Verbose: cli.Verbose, Level: cli.LogLevel})

	path, err := deps.GlobalConfigPath()
	if err != nil {
		logger.Debug("global config path unavailable", zap.Error(err))
		path = ""
	}
	settings, err := config.Resolve(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("settings resolved",
		zap.String("path", path),
		zap.String("flyctl", settings.Flyctl),
		zap.String("api_endpoint", settings.APIEndpoint),
	)

	return &session{
		cli:      cli,
		deps:     deps,
		settings: settings,
		ui:       newUI(deps, settings.EmojiEnabled() && !cli.NoEmoji),
		logger:   logger,
	}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// workflows resolves the project root and wires the workflow collaborators.
func (s *session) workflows() (*workflow.Workflows, error) {
	if s.wf != nil {
		return s.wf, nil
	}
	root, err := s.projectRoot()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("project root", zap.String("root", root))

	runner := s.deps.Runner
	if runner == nil {
		runner = flyctl.NewExecRunner(s.logger)
	}
	prompter := s.deps.Prompter
	if prompter == nil {
		prompter = interaction.HuhPrompter{}
	}
	client := flyio.New(flyio.Config{
		Runner:     runner,
		Binary:     s.settings.Flyctl,
		Dir:        root,
		Endpoint:   s.settings.APIEndpoint,
		HTTPClient: s.deps.HTTPClient,
		Logger:     s.logger,
	})

	s.wf = workflow.New(workflow.Deps{
		Settings: workflow.Settings{
			Root:                root,
			DeployTimeout:       s.settings.DeployTimeout(),
			VolumeDeployTimeout: s.settings.VolumeDeployTimeout(),
			Now:                 s.deps.Now,
		},
		Platform:  client,
		Toolchain: runner,
		Prompter:  prompter,
		UI:        s.ui,
		Reporter:  pipeline.NewReporter(s.deps.Out, s.deps.Interactive()),
		Logger:    s.logger,
	})
	return s.wf, nil
}

func (s *session) projectRoot() (string, error) {
	if s.cli.Dir != "" {
		dir, err := filepath.Abs(s.cli.Dir)
		if err != nil {
			return "", errors.Wrap(err, "resolve --dir")
		}
		if !fileops.DirExists(dir) {
			return "", failure.Validation("--dir %s is not a directory", s.cli.Dir)
		}
		return dir, nil
	}
	cwd, err := s.deps.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "resolve working directory")
	}
	return s.deps.ProjectResolver(cwd)
}

// newUI returns the console UI for deps.
func newUI(deps Dependencies, emoji bool) ui.UserInterface {
	out, errOut := deps.Out, deps.ErrOut
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return ui.NewUI(out, errOut, emoji)
}
