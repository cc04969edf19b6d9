package envutil

import "testing"

func TestHostEnvKey(t *testing.T) {
	if got := HostEnvKey("FLYCTL"); got != "FLY_LARAVEL_FLYCTL" {
		t.Fatalf("HostEnvKey() = %q", got)
	}
}

func TestGetHostEnvTrims(t *testing.T) {
	t.Setenv("FLY_LARAVEL_API_ENDPOINT", "  http://localhost \n")
	if got := GetHostEnv("API_ENDPOINT"); got != "http://localhost" {
		t.Fatalf("GetHostEnv() = %q", got)
	}
	if got := GetHostEnv("UNSET_FOR_TEST"); got != "" {
		t.Fatalf("GetHostEnv(unset) = %q", got)
	}
}
