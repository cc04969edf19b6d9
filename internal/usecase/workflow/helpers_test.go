package workflow

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/poruru-code/fly-laravel/internal/infra/flyctl/flyctltest"
	"github.com/poruru-code/fly-laravel/internal/infra/flyio"
	"github.com/poruru-code/fly-laravel/internal/infra/interaction"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

const regionsJSON = `[{"Code":"ams","Name":"Amsterdam, Netherlands"},{"Code":"fra","Name":"Frankfurt, Germany"}]`

const personalOrgJSON = `{"data":{"currentUser":{"email":"dev@example.com"},"organizations":{"nodes":[
	{"id":"o1","slug":"personal","name":"Dev","type":"PERSONAL","viewerRole":"admin"}]}}}`

const twoOrgsJSON = `{"data":{"currentUser":{"email":"dev@example.com"},"organizations":{"nodes":[
	{"id":"o1","slug":"personal","name":"Dev","type":"PERSONAL","viewerRole":"admin"},
	{"id":"o2","slug":"acme","name":"Acme Inc","type":"SHARED","viewerRole":"member"}]}}}`

const laravelToml = `app = "demo"
primary_region = "ams"

[build.args]
NODE_VERSION = "20"
PHP_VERSION = "8.2"

[env]
APP_ENV = "production"
`

// fakePrompter answers prompts by title. Unscripted prompts fail.
type fakePrompter struct {
	mu       sync.Mutex
	inputs   map[string]string
	selects  map[string]string
	multi    map[string][]string
	confirms map[string]bool
	asked    []string
}

func (p *fakePrompter) record(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asked = append(p.asked, title)
}

func (p *fakePrompter) Input(title string, _ []string) (string, error) {
	p.record(title)
	answer, ok := p.inputs[title]
	if !ok {
		return "", fmt.Errorf("unexpected input prompt %q", title)
	}
	return answer, nil
}

func (p *fakePrompter) SelectValue(title string, options []interaction.SelectOption) (string, error) {
	p.record(title)
	answer, ok := p.selects[title]
	if !ok {
		return "", fmt.Errorf("unexpected select prompt %q", title)
	}
	for _, opt := range options {
		if opt.Value == answer {
			return answer, nil
		}
	}
	return "", fmt.Errorf("answer %q is not an option of %q", answer, title)
}

func (p *fakePrompter) MultiSelect(title string, _ []interaction.SelectOption) ([]string, error) {
	p.record(title)
	answer, ok := p.multi[title]
	if !ok {
		return nil, fmt.Errorf("unexpected multi select prompt %q", title)
	}
	return answer, nil
}

func (p *fakePrompter) Confirm(title string, _ bool) (bool, error) {
	p.record(title)
	answer, ok := p.confirms[title]
	if !ok {
		return false, fmt.Errorf("unexpected confirm prompt %q", title)
	}
	return answer, nil
}

func (p *fakePrompter) wasAsked(title string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, asked := range p.asked {
		if asked == title {
			return true
		}
	}
	return false
}

// recordingUI keeps every message with its level.
type recordingUI struct {
	mu    sync.Mutex
	lines []string
}

func (u *recordingUI) add(level, msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.lines = append(u.lines, level+": "+msg)
}

func (u *recordingUI) Info(msg string)    { u.add("info", msg) }
func (u *recordingUI) Warn(msg string)    { u.add("warn", msg) }
func (u *recordingUI) Success(msg string) { u.add("success", msg) }
func (u *recordingUI) Error(msg string)   { u.add("error", msg) }
func (u *recordingUI) Stream(line string) { u.add("stream", line) }

func (u *recordingUI) contains(level, fragment string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, line := range u.lines {
		if strings.HasPrefix(line, level+": ") && strings.Contains(line, fragment) {
			return true
		}
	}
	return false
}

func (u *recordingUI) count(level string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, line := range u.lines {
		if strings.HasPrefix(line, level+": ") {
			n++
		}
	}
	return n
}

type harness struct {
	root     string
	runner   *flyctltest.Runner
	prompter *fakePrompter
	ui       *recordingUI
	wf       *Workflows
}

// newHarness wires Workflows against a scripted runner and a GraphQL
// server answering with orgsJSON.
func newHarness(t *testing.T, orgsJSON string) *harness {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(orgsJSON))
	}))
	t.Cleanup(server.Close)

	root := t.TempDir()
	runner := &flyctltest.Runner{}
	runner.
		On("fly auth token", flyctltest.Response{Stdout: "test-token\n"}).
		On("fly platform regions --json", flyctltest.Response{Stdout: regionsJSON}).
		On("node -v", flyctltest.Response{Stdout: "v20.11.1\n"}).
		On("php -v", flyctltest.Response{Stdout: "PHP 8.2.7 (cli) (built: Jun  9 2023 07:43:59) (NTS)\n"})

	h := &harness{
		root:     root,
		runner:   runner,
		prompter: &fakePrompter{inputs: map[string]string{}, selects: map[string]string{}, multi: map[string][]string{}, confirms: map[string]bool{}},
		ui:       &recordingUI{},
	}
	client := flyio.New(flyio.Config{Runner: runner, Dir: root, Endpoint: server.URL, HTTPClient: server.Client()})
	h.wf = New(Deps{
		Settings:  Settings{Root: root, Now: func() time.Time { return fixedNow }},
		Platform:  client,
		Toolchain: runner,
		Prompter:  h.prompter,
		UI:        h.ui,
	})
	return h
}

func (h *harness) path(parts ...string) string {
	return filepath.Join(append([]string{h.root}, parts...)...)
}

func (h *harness) write(t *testing.T, rel, content string) {
	t.Helper()
	target := h.path(filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func (h *harness) callsWithPrefix(prefix string) []flyctltest.Call {
	var out []flyctltest.Call
	for _, call := range h.runner.Calls() {
		if strings.HasPrefix(call.Line(), prefix) {
			out = append(out, call)
		}
	}
	return out
}
