// Where: internal/domain/naming/naming.go
// What: App and volume name validation.
// Why: Reject names the platform would refuse before any resource is created.
package naming

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/poruru-code/fly-laravel/internal/failure"
)

// GenerateNameSentinel asks the platform to pick an app name.
const GenerateNameSentinel = "--generate-name"

// MaxVolumeNameLength is the longest volume name the platform accepts.
const MaxVolumeNameLength = 30

var (
	appNamePattern    = regexp.MustCompile(`^[a-z0-9-]+$`)
	volumeNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("appname", func(fl validator.FieldLevel) bool {
			return appNamePattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("volname", func(fl validator.FieldLevel) bool {
			return volumeNamePattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// ValidateAppName returns name unchanged when it is a valid app name.
// An empty name maps to GenerateNameSentinel.
func ValidateAppName(name string) (string, error) {
	if name == "" {
		return GenerateNameSentinel, nil
	}
	if name == GenerateNameSentinel {
		return name, nil
	}
	if err := instance().Var(name, "appname"); err != nil {
		return "", failure.Validation("App names are only allowed to contain lowercase, numbers and hyphens.")
	}
	return name, nil
}

// ValidateGeneratedAppName checks a name that must be concrete (never the sentinel).
func ValidateGeneratedAppName(name string) (string, error) {
	if err := instance().Var(name, "required,appname"); err != nil {
		return "", failure.Validation("platform returned an invalid app name %q", name)
	}
	return name, nil
}

// ValidateVolumeName returns name unchanged when it is a valid volume name.
func ValidateVolumeName(name string) (string, error) {
	if err := instance().Var(name, "required,max=30,volname"); err != nil {
		return "", failure.Validation("Volume names are only allowed to contain lowercase, numbers and underscores, with a maximum of 30 characters.")
	}
	return name, nil
}

// VolumeNameFor derives a volume name from an app name and a suffix,
// trimming the app part so the result fits MaxVolumeNameLength.
func VolumeNameFor(appName, suffix string) string {
	base := strings.ReplaceAll(appName, "-", "_")
	if room := MaxVolumeNameLength - len(suffix); len(base) > room {
		if room < 0 {
			room = 0
		}
		base = strings.TrimRight(base[:room], "_")
	}
	return base + suffix
}
