// Where: internal/infra/flyio/client.go
// What: Fly.io provisioning client over the fly CLI and the GraphQL API.
// Why: Give workflows typed access to apps, secrets, volumes, and deploys.
package flyio

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/internal/failure"
	"github.com/poruru-code/fly-laravel/internal/infra/flyctl"
	"github.com/poruru-code/fly-laravel/internal/meta"
	"go.uber.org/zap"
)

// Config wires a Client.
type Config struct {
	Runner     flyctl.Runner
	Binary     string
	Dir        string
	Endpoint   string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client runs fly commands in the project directory.
type Client struct {
	runner   flyctl.Runner
	binary   string
	dir      string
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// New returns a Client with defaults applied for empty fields.
func New(cfg Config) *Client {
	c := &Client{
		runner:   cfg.Runner,
		binary:   cfg.Binary,
		dir:      cfg.Dir,
		endpoint: cfg.Endpoint,
		http:     cfg.HTTPClient,
		logger:   cfg.Logger,
	}
	if c.binary == "" {
		c.binary = meta.FlyctlBinary
	}
	if c.endpoint == "" {
		c.endpoint = meta.GraphQLEndpoint
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

func (c *Client) run(ctx context.Context, args ...string) (flyctl.Result, error) {
	if c.runner == nil {
		return flyctl.Result{}, errors.New("command runner is nil")
	}
	return c.runner.Run(ctx, c.dir, c.binary, args...)
}

func (c *Client) runJSON(ctx context.Context, out any, args ...string) error {
	result, err := c.run(ctx, args...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(result.Stdout), out); err != nil {
		return failure.Response("unexpected output from %s: %v", result.Command, err)
	}
	return nil
}

// DeployOptions configures a streamed deploy.
type DeployOptions struct {
	ConfigPath string
	Timeout    time.Duration
	OnLine     func(flyctl.Stream, string)
}

// Deploy runs `fly deploy`, streaming its output until it exits.
func (c *Client) Deploy(ctx context.Context, opts DeployOptions) (flyctl.Result, error) {
	if c.runner == nil {
		return flyctl.Result{}, errors.New("command runner is nil")
	}
	args := []string{"deploy"}
	if opts.ConfigPath != "" {
		args = append(args, "-c", opts.ConfigPath)
	}
	handle, err := c.runner.Start(ctx, flyctl.Options{
		Dir:     c.dir,
		Timeout: opts.Timeout,
		OnLine:  opts.OnLine,
	}, c.binary, args...)
	if err != nil {
		return flyctl.Result{}, err
	}
	return handle.Wait()
}

// Open runs `fly open`.
func (c *Client) Open(ctx context.Context) error {
	_, err := c.run(ctx, "open")
	return err
}

// AuthToken returns the token of the logged-in fly user.
func (c *Client) AuthToken(ctx context.Context) (string, error) {
	result, err := c.run(ctx, "auth", "token")
	if err != nil {
		return "", errors.WithHint(err, "run `fly auth login` first")
	}
	token := strings.TrimSpace(result.Stdout)
	if token == "" {
		return "", errors.WithHint(failure.Validation("fly auth token returned no token"), "run `fly auth login` first")
	}
	return token, nil
}
