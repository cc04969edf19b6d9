// Where: internal/usecase/workflow/prompts.go
// What: Operator questions shared by the launch workflows.
// Why: Selection shortcuts and answer validation live in one place.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/internal/domain/naming"
	"github.com/poruru-code/fly-laravel/internal/domain/template"
	"github.com/poruru-code/fly-laravel/internal/failure"
	"github.com/poruru-code/fly-laravel/internal/infra/flyio"
	"github.com/poruru-code/fly-laravel/internal/infra/interaction"
	"github.com/poruru-code/fly-laravel/internal/infra/suggest"
	"github.com/poruru-code/fly-laravel/internal/infra/ui"
	"github.com/poruru-code/fly-laravel/internal/meta"
	"golang.org/x/sync/errgroup"
)

// Prompt titles.
const (
	AskDeployInstead     = "Do you want to run the deploy command instead?"
	AskAppName           = "Choose an app name (leave blank to generate one)"
	AskOrganization      = "Select the organization where you want to deploy the app"
	AskRegion            = "Select your app's primary region"
	AskProcesses         = "Select additional processes to run"
	AskPersistStorage    = "Would you like to persist data in your storage folder? (this will mount a volume to the storage folder)"
	AskVolumeName        = "What should the volume be called?"
	AskDeployApp         = "Do you want to deploy your app?"
	AskDeployVolumeMount = "Do you wish to deploy and complete mounting the volumes to your Fly App?"
)

// CancelLabel is the organization option that ends a launch without error.
const CancelLabel = "Cancel"

// Additional process groups offered at launch.
var additionalProcesses = []template.Process{
	{Name: "cron", Command: "cron -F"},
	{Name: "worker", Command: "php artisan queue:listen"},
}

// SelectOrganization returns the slug of the chosen organization. A single
// organization is picked without prompting. Choosing Cancel returns "".
func SelectOrganization(p interaction.Prompter, out ui.UserInterface, orgs []flyio.Organization) (string, error) {
	switch len(orgs) {
	case 0:
		return "", errors.WithHint(failure.Response("no organizations found on Fly.io"), "run `fly auth login` with an account that belongs to an organization")
	case 1:
		if out != nil {
			out.Info(fmt.Sprintf("Auto-selected '%s' since it is the only organization found on Fly.io.", orgs[0].Label()))
		}
		return orgs[0].Slug, nil
	}

	options := make([]interaction.SelectOption, 0, len(orgs)+1)
	for _, org := range orgs {
		options = append(options, interaction.SelectOption{Label: org.Label(), Value: org.Slug})
	}
	options = append(options, interaction.SelectOption{Label: CancelLabel, Value: ""})
	return p.SelectValue(AskOrganization, options)
}

// SelectRegion returns a region code. A non-empty flag is matched against
// regions instead of prompting.
func SelectRegion(p interaction.Prompter, regions []flyio.Region, flag string) (string, error) {
	if len(regions) == 0 {
		return "", failure.Response("fly returned no regions")
	}
	if flag = strings.TrimSpace(flag); flag != "" {
		codes := make([]string, 0, len(regions))
		for _, region := range regions {
			if strings.EqualFold(region.Code, flag) {
				return region.Code, nil
			}
			codes = append(codes, region.Code)
		}
		err := failure.Validation("unknown region %q", flag)
		if match, ok := suggest.Closest(flag, codes, 1); ok {
			err = errors.WithHint(err, fmt.Sprintf("did you mean %q?", match))
		}
		return "", errors.WithHint(err, "run `fly platform regions` to list region codes")
	}

	options := make([]interaction.SelectOption, 0, len(regions))
	for _, region := range regions {
		options = append(options, interaction.SelectOption{Label: region.Label(), Value: region.Code})
	}
	return p.SelectValue(AskRegion, options)
}

// SelectProcesses returns the process group set: nil when nothing beyond
// the web process was chosen, otherwise app followed by the chosen groups.
func SelectProcesses(p interaction.Prompter) ([]template.Process, error) {
	options := make([]interaction.SelectOption, 0, len(additionalProcesses))
	for _, proc := range additionalProcesses {
		options = append(options, interaction.SelectOption{
			Label: fmt.Sprintf("%s (%s)", proc.Name, proc.Command),
			Value: proc.Name,
		})
	}
	chosen, err := p.MultiSelect(AskProcesses, options)
	if err != nil {
		return nil, err
	}
	if len(chosen) == 0 {
		return nil, nil
	}
	selected := map[string]bool{}
	for _, name := range chosen {
		selected[name] = true
	}
	processes := []template.Process{{Name: "app", Command: ""}}
	for _, proc := range additionalProcesses {
		if selected[proc.Name] {
			processes = append(processes, proc)
		}
	}
	return processes, nil
}

// AskName asks for a value, falling back to def on a blank answer.
func AskName(p interaction.Prompter, title, def string) (string, error) {
	var suggestions []string
	if def != "" {
		suggestions = []string{def}
	}
	answer, err := p.Input(title, suggestions)
	if err != nil {
		return "", err
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		return def, nil
	}
	return answer, nil
}

// SelectStorageVolume asks whether storage/ should live on a volume and
// returns the mount, or nil when declined.
func SelectStorageVolume(p interaction.Prompter, appName string) (*template.Mount, error) {
	persist, err := p.Confirm(AskPersistStorage, true)
	if err != nil || !persist {
		return nil, err
	}
	def := "laravel_data"
	if appName != "" && appName != naming.GenerateNameSentinel {
		def = naming.VolumeNameFor(appName, "_data")
	}
	name, err := AskName(p, AskVolumeName, def)
	if err != nil {
		return nil, err
	}
	if _, err := naming.ValidateVolumeName(name); err != nil {
		return nil, err
	}
	return &template.Mount{Source: name, Destination: meta.StorageMountPath}, nil
}

// lookups overlaps the organization and region queries with prompting.
type lookups struct {
	group   *errgroup.Group
	cancel  context.CancelFunc
	once    sync.Once
	err     error
	orgs    []flyio.Organization
	regions []flyio.Region
}

func (w *Workflows) startLookups(ctx context.Context, withOrgs bool) *lookups {
	ctx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(ctx)
	l := &lookups{group: group, cancel: cancel}
	if withOrgs {
		group.Go(func() error {
			orgs, err := w.platform.Organizations(gctx)
			if err != nil {
				return errors.Wrap(err, "list organizations")
			}
			l.orgs = orgs
			return nil
		})
	}
	group.Go(func() error {
		regions, err := w.platform.Regions(gctx)
		if err != nil {
			return errors.Wrap(err, "list regions")
		}
		l.regions = regions
		return nil
	})
	return l
}

// wait joins both lookups. Later calls return the first result.
func (l *lookups) wait() error {
	l.once.Do(func() {
		l.err = l.group.Wait()
	})
	return l.err
}

// stop abandons lookups that are no longer needed.
func (l *lookups) stop() {
	l.cancel()
	_ = l.wait()
}
