package naming

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/internal/failure"
)

func TestValidateAppNameAcceptsValidNames(t *testing.T) {
	for _, name := range []string{"an-okay-app-name", "app1", "a", "123", "---"} {
		got, err := ValidateAppName(name)
		if err != nil {
			t.Fatalf("ValidateAppName(%q) error = %v", name, err)
		}
		if got != name {
			t.Fatalf("ValidateAppName(%q) = %q", name, got)
		}
	}
}

func TestValidateAppNameRejectsInvalidNames(t *testing.T) {
	for _, name := range []string{"$", "App", "my_app", "my app", "café", "name!"} {
		_, err := ValidateAppName(name)
		if err == nil {
			t.Fatalf("ValidateAppName(%q) expected error", name)
		}
		if !errors.Is(err, failure.ErrValidationFailed) {
			t.Fatalf("ValidateAppName(%q) error kind = %v", name, err)
		}
	}
}

func TestValidateAppNameEmptyUsesSentinel(t *testing.T) {
	got, err := ValidateAppName("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != GenerateNameSentinel {
		t.Fatalf("ValidateAppName(\"\") = %q", got)
	}
}

func TestValidateGeneratedAppNameRejectsEmpty(t *testing.T) {
	if _, err := ValidateGeneratedAppName(""); !errors.Is(err, failure.ErrValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if _, err := ValidateGeneratedAppName("blue-pond-4265"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateVolumeName(t *testing.T) {
	valid := []string{"data", "my_app_data", strings.Repeat("a", 30)}
	for _, name := range valid {
		if _, err := ValidateVolumeName(name); err != nil {
			t.Errorf("ValidateVolumeName(%q) error = %v", name, err)
		}
	}
	invalid := []string{"", "my-app-data", "Data", strings.Repeat("a", 31), "data!"}
	for _, name := range invalid {
		_, err := ValidateVolumeName(name)
		if !errors.Is(err, failure.ErrValidationFailed) {
			t.Errorf("ValidateVolumeName(%q) error = %v, want validation failure", name, err)
		}
	}
}

func TestVolumeNameFor(t *testing.T) {
	if got := VolumeNameFor("my-app", "_storage_vol"); got != "my_app_storage_vol" {
		t.Fatalf("VolumeNameFor = %q", got)
	}
	long := VolumeNameFor("a-very-long-application-name", "_storage_vol")
	if len(long) > MaxVolumeNameLength {
		t.Fatalf("VolumeNameFor produced %d chars: %q", len(long), long)
	}
	if _, err := ValidateVolumeName(long); err != nil {
		t.Fatalf("derived name %q is invalid: %v", long, err)
	}
}
