// Where: internal/infra/config/project.go
// What: Laravel project root discovery.
// Why: Commands may run from a subdirectory of the project.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/internal/failure"
	"github.com/poruru-code/fly-laravel/internal/meta"
)

// ProjectMarkers identify a Laravel project root, checked in order.
var ProjectMarkers = []string{"artisan", meta.ConfigFile}

// ResolveProjectRoot searches upward from startDir for a directory holding
// one of ProjectMarkers.
func ResolveProjectRoot(startDir string) (string, error) {
	if root, ok := findProjectRoot(startDir); ok {
		return root, nil
	}
	return "", errors.WithHint(
		failure.Validation("no Laravel project found at %s or its parents", startDir),
		"run fly-laravel from your Laravel project or pass --dir",
	)
}

func findProjectRoot(path string) (string, bool) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	for {
		for _, marker := range ProjectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}
