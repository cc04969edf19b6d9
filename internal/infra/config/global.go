// Where: internal/infra/config/global.go
// What: User settings load/save with environment overrides.
// Why: Manage ~/.fly-laravel/config.yaml consistently.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/poruru-code/fly-laravel/internal/failure"
	"github.com/poruru-code/fly-laravel/internal/infra/envutil"
	"github.com/poruru-code/fly-laravel/internal/meta"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDeployTimeout       = 180 * time.Second
	DefaultVolumeDeployTimeout = 600 * time.Second

	EnvFlyctl      = "FLYCTL"
	EnvAPIEndpoint = "API_ENDPOINT"
)

// GlobalConfig represents ~/.fly-laravel/config.yaml.
type GlobalConfig struct {
	Flyctl                     string `yaml:"flyctl,omitempty"`
	APIEndpoint                string `yaml:"api_endpoint,omitempty" validate:"omitempty,url"`
	DeployTimeoutSeconds       int    `yaml:"deploy_timeout_seconds,omitempty" validate:"gte=0"`
	VolumeDeployTimeoutSeconds int    `yaml:"volume_deploy_timeout_seconds,omitempty" validate:"gte=0"`
	Emoji                      *bool  `yaml:"emoji,omitempty"`
}

// DefaultGlobalConfig returns the settings used when no file exists.
func DefaultGlobalConfig() GlobalConfig {
	emoji := true
	return GlobalConfig{
		Flyctl:                     meta.FlyctlBinary,
		APIEndpoint:                meta.GraphQLEndpoint,
		DeployTimeoutSeconds:       int(DefaultDeployTimeout / time.Second),
		VolumeDeployTimeoutSeconds: int(DefaultVolumeDeployTimeout / time.Second),
		Emoji:                      &emoji,
	}
}

// GlobalConfigPath returns ~/.fly-laravel/config.yaml.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve home directory")
	}
	return filepath.Join(home, meta.HomeDir, "config.yaml"), nil
}

// LoadGlobalConfig reads and parses the settings file.
func LoadGlobalConfig(path string) (GlobalConfig, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return GlobalConfig{}, errors.Wrap(err, "read global config")
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return GlobalConfig{}, failure.Validation("decode %s: %v", path, err)
	}
	return cfg, nil
}

// Resolve loads path when it exists, applies FLY_LARAVEL_* overrides, and
// fills unset fields with defaults. An empty path skips the file.
func Resolve(path string) (GlobalConfig, error) {
	cfg := GlobalConfig{}
	if path != "" {
		loaded, err := LoadGlobalConfig(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
		default:
			return GlobalConfig{}, err
		}
	}

	if v := envutil.GetHostEnv(EnvFlyctl); v != "" {
		cfg.Flyctl = v
	}
	if v := envutil.GetHostEnv(EnvAPIEndpoint); v != "" {
		cfg.APIEndpoint = v
	}

	if err := validator.New().Struct(cfg); err != nil {
		return GlobalConfig{}, errors.WithHint(
			failure.Validation("invalid settings: %v", err),
			"check "+path+" and the "+meta.EnvPrefix+"_* environment variables",
		)
	}
	return cfg.withDefaults(), nil
}

func (c GlobalConfig) withDefaults() GlobalConfig {
	def := DefaultGlobalConfig()
	if c.Flyctl == "" {
		c.Flyctl = def.Flyctl
	}
	if c.APIEndpoint == "" {
		c.APIEndpoint = def.APIEndpoint
	}
	if c.DeployTimeoutSeconds == 0 {
		c.DeployTimeoutSeconds = def.DeployTimeoutSeconds
	}
	if c.VolumeDeployTimeoutSeconds == 0 {
		c.VolumeDeployTimeoutSeconds = def.VolumeDeployTimeoutSeconds
	}
	if c.Emoji == nil {
		c.Emoji = def.Emoji
	}
	return c
}

// DeployTimeout bounds app and service deploys.
func (c GlobalConfig) DeployTimeout() time.Duration {
	return time.Duration(c.DeployTimeoutSeconds) * time.Second
}

// VolumeDeployTimeout bounds the deploy that mounts new volumes.
func (c GlobalConfig) VolumeDeployTimeout() time.Duration {
	return time.Duration(c.VolumeDeployTimeoutSeconds) * time.Second
}

// EmojiEnabled reports whether console output uses emoji.
func (c GlobalConfig) EmojiEnabled() bool {
	return c.Emoji == nil || *c.Emoji
}
