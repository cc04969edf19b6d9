// Where: internal/infra/flyio/platform.go
// What: Regions, app status, volumes, and scale through fly JSON output.
// Why: Volume planning and resource reports need typed platform state.
package flyio

import (
	"context"
	"strconv"

	"github.com/poruru-code/fly-laravel/internal/domain/volume"
)

// Region is a platform region.
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Label is the prompt text for the region.
func (r Region) Label() string {
	return r.Code + " - " + r.Name
}

// Regions lists the platform regions.
func (c *Client) Regions(ctx context.Context) ([]Region, error) {
	var regions []Region
	if err := c.runJSON(ctx, &regions, "platform", "regions", "--json"); err != nil {
		return nil, err
	}
	return regions, nil
}

// Status is the subset of `fly status --json` used by the workflows.
type Status struct {
	Name         string
	Organization string
	Machines     []volume.Machine
}

type statusPayload struct {
	Name         string `json:"Name"`
	Organization struct {
		Slug string `json:"Slug"`
	} `json:"Organization"`
	Machines []struct {
		Region string `json:"region"`
		Config struct {
			Env      map[string]string `json:"env"`
			Metadata map[string]string `json:"metadata"`
		} `json:"config"`
	} `json:"Machines"`
}

// Status reads the app status. An empty app uses the fly.toml in the
// project directory.
func (c *Client) Status(ctx context.Context, app string) (Status, error) {
	args := []string{"status", "--json"}
	if app != "" {
		args = append(args, "-a", app)
	}
	var payload statusPayload
	if err := c.runJSON(ctx, &payload, args...); err != nil {
		return Status{}, err
	}

	status := Status{Name: payload.Name, Organization: payload.Organization.Slug}
	for _, m := range payload.Machines {
		group := m.Config.Env["FLY_PROCESS_GROUP"]
		if group == "" {
			group = m.Config.Metadata["fly_process_group"]
		}
		status.Machines = append(status.Machines, volume.Machine{Region: m.Region, ProcessGroup: group})
	}
	return status, nil
}

// Volume is an existing volume.
type Volume struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// Volumes lists the volumes of app.
func (c *Client) Volumes(ctx context.Context, app string) ([]Volume, error) {
	args := []string{"volumes", "list", "--json"}
	if app != "" {
		args = append(args, "-a", app)
	}
	var volumes []Volume
	if err := c.runJSON(ctx, &volumes, args...); err != nil {
		return nil, err
	}
	return volumes, nil
}

// CreateVolumes creates count volumes named name in region.
func (c *Client) CreateVolumes(ctx context.Context, app string, create volume.Create) error {
	args := []string{"volumes", "create", create.Name,
		"--count", strconv.Itoa(create.Count),
		"--region", create.Region,
		"--yes",
	}
	if app != "" {
		args = append(args, "-a", app)
	}
	_, err := c.run(ctx, args...)
	return err
}

// ProcessScale is one process group from `fly scale show --json`.
type ProcessScale struct {
	Process string         `json:"Process"`
	Count   int            `json:"Count"`
	CPUKind string         `json:"CPUKind"`
	CPUs    int            `json:"CPUs"`
	Memory  int            `json:"Memory"`
	Regions map[string]int `json:"Regions"`
}

// Scale reports machine resources for the app configured at configPath.
func (c *Client) Scale(ctx context.Context, configPath string) ([]ProcessScale, error) {
	args := []string{"scale", "show", "--json"}
	if configPath != "" {
		args = append(args, "-c", configPath)
	}
	var scales []ProcessScale
	if err := c.runJSON(ctx, &scales, args...); err != nil {
		return nil, err
	}
	return scales, nil
}
