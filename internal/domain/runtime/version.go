// Where: internal/domain/runtime/version.go
// What: Local PHP and Node version resolution.
// Why: Pick build arguments for the Laravel image from the developer's toolchain.
package runtime

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/poruru-code/fly-laravel/internal/failure"
)

const (
	// DefaultPHPVersion has the broadest image compatibility.
	DefaultPHPVersion = "8.0"
	// MinimumPHPVersion is the oldest PHP with a matching base image.
	MinimumPHPVersion = "7.4"
)

var (
	phpVersionPattern  = regexp.MustCompile(`PHP ([0-9]+\.[0-9]+)\.[0-9]`)
	nodeVersionPattern = regexp.MustCompile(`v(\d+)\.`)
	minimumPHP         = semver.MustParse(MinimumPHPVersion)
)

// PHPResolution is the PHP version chosen for the build and how it was chosen.
type PHPResolution struct {
	Version string
	Note    string
}

// ResolvePHPVersion picks a PHP version from `php -v` output. Missing or
// unparseable output falls back to DefaultPHPVersion; versions older than
// MinimumPHPVersion are raised to it.
func ResolvePHPVersion(output string) PHPResolution {
	match := phpVersionPattern.FindStringSubmatch(output)
	if len(match) < 2 {
		return PHPResolution{
			Version: DefaultPHPVersion,
			Note:    fmt.Sprintf("Could not find PHP version, using PHP %s which has the broadest compatibility", DefaultPHPVersion),
		}
	}
	detected, err := semver.NewVersion(match[1])
	if err != nil {
		return PHPResolution{
			Version: DefaultPHPVersion,
			Note:    fmt.Sprintf("Could not parse PHP version %q, using PHP %s", match[1], DefaultPHPVersion),
		}
	}
	if detected.LessThan(minimumPHP) {
		return PHPResolution{
			Version: MinimumPHPVersion,
			Note:    fmt.Sprintf("PHP version is below %s that does not have compatible container, using PHP %s instead.", MinimumPHPVersion, MinimumPHPVersion),
		}
	}
	return PHPResolution{
		Version: match[1],
		Note:    "Detected PHP version: " + match[1],
	}
}

// ResolveNodeVersion extracts the major version from `node -v` output.
func ResolveNodeVersion(output string) (string, error) {
	match := nodeVersionPattern.FindStringSubmatch(output)
	if len(match) < 2 {
		return "", failure.Validation("could not detect Node version")
	}
	return match[1], nil
}
