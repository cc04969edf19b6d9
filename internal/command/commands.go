// Where: internal/command/commands.go
// What: Handlers mapping parsed flags onto workflow requests.
// Why: Keep flag plumbing separate from the workflows.
package command

import (
	"context"
	"fmt"

	"github.com/poruru-code/fly-laravel/internal/meta"
	"github.com/poruru-code/fly-laravel/internal/usecase/workflow"
	"github.com/poruru-code/fly-laravel/internal/version"
)

func runLaunch(ctx context.Context, cli CLI, s *session) error {
	wf, err := s.workflows()
	if err != nil {
		return err
	}
	return wf.Launch(ctx, workflow.LaunchRequest{
		Name:   cli.Launch.Name,
		Org:    cli.Launch.Org,
		Region: cli.Launch.Region,
		Yes:    cli.Launch.Yes,
	})
}

func runDeploy(ctx context.Context, cli CLI, s *session) error {
	wf, err := s.workflows()
	if err != nil {
		return err
	}
	return wf.Deploy(ctx, workflow.DeployRequest{
		Open:                 cli.Deploy.Open,
		CleanTempVolumeSetup: cli.Deploy.CleanTempVolumeSetup,
	})
}

func launchService(svc workflow.Service, flags func(CLI) ServiceLaunchCmd) commandHandler {
	return func(ctx context.Context, cli CLI, s *session) error {
		wf, err := s.workflows()
		if err != nil {
			return err
		}
		f := flags(cli)
		return wf.LaunchService(ctx, svc, workflow.ServiceRequest{Name: f.Name, Org: f.Org, Region: f.Region})
	}
}

func deployService(svc workflow.Service) commandHandler {
	return func(ctx context.Context, _ CLI, s *session) error {
		wf, err := s.workflows()
		if err != nil {
			return err
		}
		return wf.DeployService(ctx, svc)
	}
}

func runMountVolume(ctx context.Context, cli CLI, s *session) error {
	wf, err := s.workflows()
	if err != nil {
		return err
	}
	return wf.MountVolume(ctx, workflow.MountRequest{Yes: cli.MountVolume.Yes})
}

// runVersion prints the version information of the CLI.
func runVersion(_ context.Context, _ CLI, s *session) error {
	s.ui.Info(fmt.Sprintf("%s %s", meta.AppName, version.GetVersion()))
	return nil
}
