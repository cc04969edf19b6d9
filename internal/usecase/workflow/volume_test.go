package workflow

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/poruru-code/fly-laravel/internal/domain/flytoml"
	"github.com/poruru-code/fly-laravel/internal/infra/fileops"
	"github.com/poruru-code/fly-laravel/internal/infra/flyctl/flyctltest"
)

const mountStatusJSON = `{"Name":"demo-app","Organization":{"Slug":"personal"},"Machines":[
	{"region":"ams","config":{"env":{"FLY_PROCESS_GROUP":"app"}}},
	{"region":"ams","config":{"env":{"FLY_PROCESS_GROUP":"app"}}},
	{"region":"ams","config":{"env":{"FLY_PROCESS_GROUP":"app"}}},
	{"region":"ams","config":{"env":{"FLY_PROCESS_GROUP":"worker"}}},
	{"region":"fra","config":{"metadata":{"fly_process_group":"app"}}}]}`

const mountVolumesJSON = `[
	{"id":"vol_1","name":"demo_app_storage_vol","region":"ams"},
	{"id":"vol_2","name":"pg_data","region":"fra"}]`

func TestMountVolume(t *testing.T) {
	h := newHarness(t, personalOrgJSON)
	h.write(t, "fly.toml", `app = "demo-app"
primary_region = "ams"

[mount]
source = "old"
destination = "/data"

[http_service]
internal_port = 8080
`)
	h.write(t, "storage/logs/laravel.log", "log")
	h.runner.
		On("fly status --json -a demo-app", flyctltest.Response{Stdout: mountStatusJSON}).
		On("fly volumes list --json -a demo-app", flyctltest.Response{Stdout: mountVolumesJSON})
	h.prompter.confirms[AskDeployVolumeMount] = false

	if err := h.wf.MountVolume(context.Background(), MountRequest{}); err != nil {
		t.Fatalf("MountVolume() error = %v", err)
	}

	creates := h.callsWithPrefix("fly volumes create")
	if len(creates) != 2 {
		t.Fatalf("create calls = %v", h.runner.Lines())
	}
	if got := creates[0].Line(); got != "fly volumes create demo_app_storage_vol --count 2 --region ams --yes -a demo-app" {
		t.Fatalf("first create = %q", got)
	}
	if got := creates[1].Line(); got != "fly volumes create demo_app_storage_vol --count 1 --region fra --yes -a demo-app" {
		t.Fatalf("second create = %q", got)
	}

	doc, err := flytoml.Load(h.path("fly.toml"))
	if err != nil {
		t.Fatalf("load fly.toml: %v", err)
	}
	if _, ok := doc.Get("mount"); ok {
		t.Fatal("legacy mount key must be replaced")
	}
	mounts, ok := doc.Get("mounts")
	if !ok || mounts.Kind() != flytoml.KindTableArray {
		t.Fatalf("mounts = %#v", mounts)
	}
	mount := mounts.TableList()[0]
	if mount.String("source") != "demo_app_storage_vol" || mount.String("destination") != "/var/www/html/storage" {
		t.Fatalf("mount = %v", mount.ToMap())
	}
	if doc.String("http_service.internal_port") != "8080" {
		t.Fatalf("unrelated keys must survive, got %v", doc.ToMap())
	}
	raw, err := os.ReadFile(h.path("fly.toml"))
	if err != nil {
		t.Fatalf("read fly.toml: %v", err)
	}
	if !strings.Contains(string(raw), "[[mounts]]") {
		t.Fatalf("mounts must be written as a table array:\n%s", raw)
	}

	if !fileops.FileExists(h.path("storage_", "logs", "laravel.log")) {
		t.Fatal("storage backup missing")
	}
	if !fileops.FileExists(h.path(".fly", "scripts", "1_storage_init.sh")) {
		t.Fatal("storage init script missing")
	}
	if h.runner.Called("fly deploy") {
		t.Fatal("deploy must not run when declined")
	}
	if !h.ui.contains("info", "Detected 3 machines in the ams region") {
		t.Fatalf("ui = %v", h.ui.lines)
	}
	if !h.ui.contains("info", "replication logic") {
		t.Fatalf("ui = %v", h.ui.lines)
	}
}

func TestMountVolumeDeploysWithVolumeTimeout(t *testing.T) {
	h := newHarness(t, personalOrgJSON)
	h.write(t, "fly.toml", laravelToml)
	h.runner.
		On("fly status --json -a demo", flyctltest.Response{Stdout: `{"Name":"demo","Machines":[{"region":"ams","config":{"env":{"FLY_PROCESS_GROUP":"app"}}}]}`}).
		On("fly volumes list --json -a demo", flyctltest.Response{Stdout: `[{"id":"v","name":"demo_storage_vol","region":"ams"}]`})

	if err := h.wf.MountVolume(context.Background(), MountRequest{Yes: true}); err != nil {
		t.Fatalf("MountVolume() error = %v", err)
	}
	if h.runner.Called("fly volumes create") {
		t.Fatalf("no volumes should be created, calls = %v", h.runner.Lines())
	}
	deploys := h.callsWithPrefix("fly deploy")
	if len(deploys) != 1 || deploys[0].Timeout != DefaultVolumeDeployTimeout {
		t.Fatalf("deploy calls = %#v", deploys)
	}
}
