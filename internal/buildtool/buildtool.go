// Package buildtool runs the ecosystem build commands for a project.
// Builds are modeled as an ordered fallback chain: candidates are tried in
// sequence and the first one whose steps all succeed wins.
package buildtool

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mcpforge/mcpforge/internal/detect"
)

// Step is one external command run inside the project directory.
type Step struct {
	Name string
	Args []string
}

func (s Step) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + " " + strings.Join(s.Args, " ")
}

// Candidate is an ordered sequence of steps that must all succeed.
type Candidate []Step

// Plan is the fallback chain for one project kind.
type Plan []Candidate

// Runner executes one external command and returns its combined output.
// Commands run to completion; no timeout is imposed here.
type Runner interface {
	Run(ctx context.Context, dir string, step Step) (string, error)
}

// ExecRunner shells out with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, step Step) (string, error) {
	cmd := exec.CommandContext(ctx, step.Name, step.Args...)
	cmd.Dir = dir
	combined, err := cmd.CombinedOutput()
	return string(combined), err
}

// PlanFor returns the build chain for a project kind. hasPom selects the
// Maven plan for Java projects; otherwise the Gradle wrapper is preferred
// with the system gradle as fallback.
func PlanFor(kind detect.Kind, hasPom bool) Plan {
	switch kind {
	case detect.TypeScript:
		return Plan{{
			{Name: "npm", Args: []string{"install"}},
			{Name: "npm", Args: []string{"run", "build"}},
		}}
	case detect.Python:
		return Plan{
			{{Name: "uv", Args: []string{"sync"}}},
			{
				{Name: "python3", Args: []string{"-m", "venv", ".venv"}},
				{Name: filepath.Join(".venv", "bin", "pip"), Args: []string{"install", "-e", "."}},
			},
		}
	case detect.Java:
		if hasPom {
			return Plan{{{Name: "mvn", Args: []string{"-B", "package"}}}}
		}
		return Plan{
			{{Name: "./gradlew", Args: []string{"build"}}},
			{{Name: "gradle", Args: []string{"build"}}},
		}
	}
	return nil
}

// ExhaustedError reports that every candidate failed. Output carries the
// combined output captured from the last failing step.
type ExhaustedError struct {
	Step   Step
	Output string
	Err    error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Step, e.Output)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// Run works through the plan and returns nil as soon as one candidate
// completes. Exhausting the chain returns an ExhaustedError describing the
// last failure.
func Run(ctx context.Context, r Runner, dir string, plan Plan) error {
	if len(plan) == 0 {
		return fmt.Errorf("no build plan for %s", dir)
	}

	var last *ExhaustedError
	for _, candidate := range plan {
		failed := false
		for _, step := range candidate {
			out, err := r.Run(ctx, dir, step)
			if err != nil {
				text := strings.TrimSpace(out)
				if text == "" {
					text = err.Error()
				}
				last = &ExhaustedError{Step: step, Output: text, Err: err}
				failed = true
				break
			}
		}
		if !failed {
			return nil
		}
	}
	return last
}
