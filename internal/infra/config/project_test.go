// Where: internal/infra/config/project_test.go
// What: Tests for project root discovery.
// Why: Commands must find the Laravel root from nested directories.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/internal/failure"
)

func TestResolveProjectRootSearchesUpward(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "artisan"), []byte("#!/usr/bin/env php"), 0o755); err != nil {
		t.Fatalf("write artisan: %v", err)
	}
	nested := filepath.Join(root, "app", "Http")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := ResolveProjectRoot(nested)
	if err != nil {
		t.Fatalf("ResolveProjectRoot() error = %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Fatalf("ResolveProjectRoot() = %q, want %q", got, want)
	}
}

func TestResolveProjectRootAcceptsFlyToml(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "fly.toml"), []byte("app = 'demo'"), 0o644); err != nil {
		t.Fatalf("write fly.toml: %v", err)
	}
	got, err := ResolveProjectRoot(root)
	if err != nil {
		t.Fatalf("ResolveProjectRoot() error = %v", err)
	}
	if want, _ := filepath.Abs(root); got != want {
		t.Fatalf("ResolveProjectRoot() = %q, want %q", got, want)
	}
}

func TestResolveProjectRootNotFound(t *testing.T) {
	orig := ProjectMarkers
	t.Cleanup(func() { ProjectMarkers = orig })
	ProjectMarkers = []string{"fly-laravel-test-marker-that-does-not-exist"}

	_, err := ResolveProjectRoot(t.TempDir())
	if !errors.Is(err, failure.ErrValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}
