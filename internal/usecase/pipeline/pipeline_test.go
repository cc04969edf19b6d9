package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/internal/failure"
)

type recordingReporter struct {
	events []string
}

func (r *recordingReporter) Start(label string) { r.events = append(r.events, "start:"+label) }

func (r *recordingReporter) Finish(result Result) {
	state := "ok"
	if !result.OK() {
		state = "err"
	}
	r.events = append(r.events, state+":"+result.Label)
}

func TestRunExecutesStepsInOrder(t *testing.T) {
	var order []string
	step := func(label string) Step {
		return Step{Label: label, Run: func(context.Context) error {
			order = append(order, label)
			return nil
		}}
	}
	reporter := &recordingReporter{}
	results, err := Runner{Reporter: reporter}.Run(context.Background(), step("a"), step("b"), step("c"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 3 || !results[2].OK() {
		t.Fatalf("results = %#v", results)
	}
	if got := len(order); got != 3 || order[0] != "a" || order[2] != "c" {
		t.Fatalf("order = %v", order)
	}
	if len(reporter.events) != 6 || reporter.events[0] != "start:a" || reporter.events[1] != "ok:a" {
		t.Fatalf("events = %v", reporter.events)
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	cause := failure.Command("fly apps create", 1, "", "name taken", nil)
	ranThird := false
	reporter := &recordingReporter{}
	results, err := Runner{Reporter: reporter}.Run(context.Background(),
		Step{Label: "one", Run: func(context.Context) error { return nil }},
		Step{Label: "two", Run: func(context.Context) error { return cause }},
		Step{Label: "three", Run: func(context.Context) error { ranThird = true; return nil }},
	)
	if ranThird {
		t.Fatal("step after failure must not run")
	}
	if len(results) != 2 || results[1].OK() {
		t.Fatalf("results = %#v", results)
	}
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Label != "two" {
		t.Fatalf("expected StepError for two, got %v", err)
	}
	if !errors.Is(err, failure.ErrCommandFailed) {
		t.Fatalf("failure mark lost: %v", err)
	}
	if got := failure.Message(err); got != "name taken" {
		t.Fatalf("Message() = %q", got)
	}
	if reporter.events[len(reporter.events)-1] != "err:two" {
		t.Fatalf("events = %v", reporter.events)
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	_, err := Runner{}.Run(ctx, Step{Label: "x", Run: func(context.Context) error { ran = true; return nil }})
	if err == nil || ran {
		t.Fatalf("expected cancellation before the step, err=%v ran=%v", err, ran)
	}
}

func TestPlainReporter(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf, false)
	reporter.Start("Create app")
	reporter.Finish(Ok("Create app"))
	reporter.Finish(Err("Set secrets", errors.New("boom")))
	want := "Create app: ✔\nSet secrets: ✘\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}
