// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/poruru-code/fly-laravel/internal/infra/config"
	"github.com/poruru-code/fly-laravel/internal/infra/flyctl"
	"github.com/poruru-code/fly-laravel/internal/infra/interaction"
	"github.com/poruru-code/fly-laravel/internal/infra/suggest"
	"github.com/poruru-code/fly-laravel/internal/meta"
	"github.com/poruru-code/fly-laravel/internal/usecase/workflow"
)

// Dependencies holds the collaborators a command run needs. Nil fields
// fall back to the real implementations.
type Dependencies struct {
	Context          context.Context
	Out              io.Writer
	ErrOut           io.Writer
	Prompter         interaction.Prompter
	Runner           flyctl.Runner
	HTTPClient       *http.Client
	Getwd            func() (string, error)
	ProjectResolver  func(string) (string, error)
	GlobalConfigPath func() (string, error)
	// Interactive reports whether progress may be animated.
	Interactive func() bool
	Now         func() time.Time
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Verbose  bool   `short:"v" help:"Print debug logs to stderr"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error); overrides --verbose"`
	EnvFile  string `name:"env-file" help:"Path to an env file (default: .fly-laravel.env when present)"`
	Dir      string `name:"dir" help:"Laravel project directory (default: nearest parent holding artisan or fly.toml)"`
	NoEmoji  bool   `name:"no-emoji" help:"Disable emoji output"`

	Launch      LaunchCmd        `cmd:"" help:"Launch a Laravel app on Fly.io"`
	Deploy      DeployCmd        `cmd:"" help:"Deploy the Laravel app"`
	LaunchMySQL ServiceLaunchCmd `cmd:"" name:"launch:mysql" help:"Launch a MySQL app for the Laravel app"`
	DeployMySQL ServiceDeployCmd `cmd:"" name:"deploy:mysql" help:"Deploy the MySQL app"`
	LaunchRedis ServiceLaunchCmd `cmd:"" name:"launch:redis" help:"Launch a Redis app for the Laravel app"`
	DeployRedis ServiceDeployCmd `cmd:"" name:"deploy:redis" help:"Deploy the Redis app"`
	MountVolume MountVolumeCmd   `cmd:"" name:"mount:volume" help:"Mount a volume on the storage folder of every app machine"`
	Version     VersionCmd       `cmd:"" help:"Show version information"`
}

type (
	LaunchCmd struct {
		Name   string `help:"App name (blank generates one)"`
		Org    string `help:"Organization slug"`
		Region string `help:"Primary region code"`
		Yes    bool   `short:"y" help:"Deploy after launching without asking"`
	}

	DeployCmd struct {
		Open                 bool `help:"Open the app in a browser after deploying"`
		CleanTempVolumeSetup bool `name:"clean-temp-volume-setup" help:"Remove the storage_ backup left by a volume mount"`
	}

	ServiceLaunchCmd struct {
		Name   string `help:"Service app name"`
		Org    string `help:"Organization slug"`
		Region string `help:"Primary region code"`
	}

	ServiceDeployCmd struct{}

	MountVolumeCmd struct {
		Yes bool `short:"y" help:"Deploy after mounting without asking"`
	}

	VersionCmd struct{}
)

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, identifies the requested command,
// and dispatches to the appropriate handler. Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	deps = deps.withDefaults()
	out := deps.Out

	if len(args) == 0 {
		return runNoArgs(out)
	}

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name(cliName()),
		kong.Description("Launch and deploy Laravel apps on Fly.io."),
		kong.Writers(out, deps.ErrOut),
	)
	if err != nil {
		return exitWithError(newUI(deps, true), nil, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return handleParseError(args, err, deps)
	}

	loadEnvFile(cli.EnvFile, deps.Getwd, newUI(deps, !cli.NoEmoji))

	s, err := newSession(cli, deps)
	if err != nil {
		return exitWithError(newUI(deps, !cli.NoEmoji), nil, err)
	}
	defer s.close()

	if exitCode, handled := dispatchCommand(deps.Context, ctx.Command(), cli, s); handled {
		return exitCode
	}

	s.ui.Warn("unknown command")
	return 1
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Context == nil {
		d.Context = context.Background()
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.ErrOut == nil {
		d.ErrOut = os.Stderr
	}
	if d.Getwd == nil {
		d.Getwd = os.Getwd
	}
	if d.ProjectResolver == nil {
		d.ProjectResolver = config.ResolveProjectRoot
	}
	if d.GlobalConfigPath == nil {
		d.GlobalConfigPath = config.GlobalConfigPath
	}
	if d.Interactive == nil {
		d.Interactive = func() bool { return interaction.IsTerminal(os.Stdout) }
	}
	return d
}

// toolEnvFile holds FLY_LARAVEL_* overrides next to the project. The
// project's own .env carries app credentials and is never loaded.
const toolEnvFile = "." + meta.Slug + ".env"

// loadEnvFile loads --env-file, or toolEnvFile from the working directory
// when present.
func loadEnvFile(path string, getwd func() (string, error), out interface{ Warn(string) }) {
	if path == "" {
		cwd, err := getwd()
		if err != nil {
			return
		}
		path = filepath.Join(cwd, toolEnvFile)
		if _, err := os.Stat(path); err != nil {
			return
		}
	}
	if err := godotenv.Load(path); err != nil {
		out.Warn(fmt.Sprintf("failed to load env file %s: %v", path, err))
	}
}

type commandHandler func(context.Context, CLI, *session) error

func handlers() map[string]commandHandler {
	return map[string]commandHandler{
		"launch":       runLaunch,
		"deploy":       runDeploy,
		"launch:mysql": launchService(workflow.MySQL, func(cli CLI) ServiceLaunchCmd { return cli.LaunchMySQL }),
		"deploy:mysql": deployService(workflow.MySQL),
		"launch:redis": launchService(workflow.Redis, func(cli CLI) ServiceLaunchCmd { return cli.LaunchRedis }),
		"deploy:redis": deployService(workflow.Redis),
		"mount:volume": runMountVolume,
		"version":      runVersion,
	}
}

// commandNames lists the dispatchable commands in sorted order.
func commandNames() []string {
	all := handlers()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func dispatchCommand(ctx context.Context, command string, cli CLI, s *session) (int, bool) {
	handler, ok := handlers()[command]
	if !ok {
		return 1, false
	}
	if err := handler(ctx, cli, s); err != nil {
		return exitWithError(s.ui, s.logger, err), true
	}
	return 0, true
}

// commandName extracts the first non-flag argument from the command line,
// which represents the command name. Recognizes and skips known flag pairs.
func commandName(args []string) string {
	skipNext := false
	for _, arg := range args {
		if skipNext {
			skipNext = false
			continue
		}
		if strings.HasPrefix(arg, "-") {
			switch arg {
			case "--env-file", "--dir", "--log-level", "--name", "--org", "--region":
				skipNext = true
			}
			continue
		}
		return arg
	}
	return ""
}

// runNoArgs prints usage when the CLI is invoked without arguments.
func runNoArgs(out io.Writer) int {
	cmd := cliName()
	fmt.Fprintln(out, "Usage:")
	for _, line := range []string{
		"launch [--name <app>] [--org <slug>] [--region <code>] [--yes]",
		"deploy [--open] [--clean-temp-volume-setup]",
		"launch:mysql | deploy:mysql",
		"launch:redis | deploy:redis",
		"mount:volume [--yes]",
	} {
		fmt.Fprintf(out, "  %s %s\n", cmd, line)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Try: %s --help\n", cmd)
	return 0
}

// handleParseError provides user-friendly error messages for parse failures.
func handleParseError(args []string, err error, deps Dependencies) int {
	out := newUI(deps, true)
	msg := err.Error()
	cmd := cliName()

	if strings.Contains(msg, "expected string value") {
		for _, flag := range []string{"--env-file", "--dir", "--name", "--org", "--region"} {
			if strings.Contains(msg, flag) {
				out.Warn(fmt.Sprintf("`%s` expects a value.", flag))
				out.Info(fmt.Sprintf("Try: %s --help", cmd))
				return 1
			}
		}
	}

	if name := commandName(args); name != "" {
		if _, known := handlers()[name]; !known {
			out.Error(fmt.Sprintf("unknown command %q", name))
			if match, ok := suggest.Closest(name, commandNames(), 0); ok {
				out.Info(fmt.Sprintf("Did you mean %q?", match))
			}
			out.Info(fmt.Sprintf("Available commands: %s", strings.Join(commandNames(), ", ")))
			return 1
		}
	}
	return exitWithError(out, nil, err)
}
