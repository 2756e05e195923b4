package buildtool

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/mcpforge/mcpforge/internal/detect"
)

// fakeRunner fails every step whose rendered command line appears in fail,
// returning the mapped text as captured output.
type fakeRunner struct {
	fail  map[string]string
	calls []string
}

func (r *fakeRunner) Run(_ context.Context, _ string, step Step) (string, error) {
	line := step.String()
	r.calls = append(r.calls, line)
	if out, ok := r.fail[line]; ok {
		return out, errors.New("exit status 1")
	}
	return "ok", nil
}

func TestRunFirstCandidateWins(t *testing.T) {
	r := &fakeRunner{}
	plan := PlanFor(detect.Python, false)

	if err := Run(context.Background(), r, "/srv/p", plan); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(r.calls, []string{"uv sync"}) {
		t.Fatalf("unexpected calls %v: fallback must not run after success", r.calls)
	}
}

func TestRunAdvancesToFallback(t *testing.T) {
	r := &fakeRunner{fail: map[string]string{"uv sync": "uv: command not found"}}
	plan := PlanFor(detect.Python, false)

	if err := Run(context.Background(), r, "/srv/p", plan); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"uv sync", "python3 -m venv .venv", ".venv/bin/pip install -e ."}
	if !reflect.DeepEqual(r.calls, want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
}

func TestRunStepFailureAbortsCandidate(t *testing.T) {
	r := &fakeRunner{fail: map[string]string{"npm install": "ERESOLVE unable to resolve"}}
	plan := PlanFor(detect.TypeScript, false)

	err := Run(context.Background(), r, "/srv/t", plan)
	if err == nil {
		t.Fatal("expected failure")
	}
	if len(r.calls) != 1 {
		t.Fatalf("npm run build must not run after npm install fails: %v", r.calls)
	}
}

func TestRunExhaustedCarriesCapturedOutput(t *testing.T) {
	r := &fakeRunner{fail: map[string]string{
		"./gradlew build": "gradlew: no such file",
		"gradle build":    "FAILURE: compilation error in Server.java",
	}}
	plan := PlanFor(detect.Java, false)

	err := Run(context.Background(), r, "/srv/j", plan)
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if !strings.Contains(exhausted.Output, "compilation error") {
		t.Fatalf("output should carry the last failure, got %q", exhausted.Output)
	}
	if exhausted.Step.Name != "gradle" {
		t.Fatalf("expected last failing step, got %+v", exhausted.Step)
	}
}

func TestPlanForJavaSelectsTool(t *testing.T) {
	maven := PlanFor(detect.Java, true)
	if len(maven) != 1 || maven[0][0].Name != "mvn" {
		t.Fatalf("unexpected maven plan %+v", maven)
	}

	gradle := PlanFor(detect.Java, false)
	if len(gradle) != 2 || gradle[0][0].Name != "./gradlew" || gradle[1][0].Name != "gradle" {
		t.Fatalf("unexpected gradle plan %+v", gradle)
	}
}
