package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/curveball/pkg/pipeline"
)

func TestEvaluateWithoutGeometry(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		warnings int
	}{
		{"empty", "", 0},
		{"whitespace", "   \n\t  \n  ", 0},
		{"arithmetic", "(+ 1 2)", 1},
		{"definitions", "(def inner 32)\n(def outer (* inner 2))\n(+ inner outer)", 1},
		{"comment", ";; nothing yet", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewEngine().EvaluateResult(tt.source)
			if err != nil {
				t.Fatalf("unexpected fatal error: %v", err)
			}
			if len(res.Errors) > 0 {
				t.Fatalf("unexpected eval errors: %v", res.Errors)
			}
			if res.Jobs == nil {
				t.Fatal("expected non-nil job list")
			}
			if len(res.Jobs) != 0 {
				t.Errorf("expected no jobs, got %d", len(res.Jobs))
			}
			if len(res.Warnings) != tt.warnings {
				t.Errorf("warnings = %v, want %d", res.Warnings, tt.warnings)
			}
			for _, w := range res.Warnings {
				if w.Job != -1 {
					t.Errorf("script warning should not point at a job: %+v", w)
				}
			}
		})
	}
}

func TestEvaluateKeepsScriptOrder(t *testing.T) {
	source := `
(bank :name "first" :n 2)
(def ring (annulus :sides 4))
(extrude ring (revolve) :name "second" :steps 4)
(rayto :name "third" :n 2)
`
	jobs, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	want := []string{"first", "second", "third"}
	if len(jobs) != len(want) {
		t.Fatalf("expected %d jobs, got %d", len(want), len(jobs))
	}
	for i, j := range jobs {
		if j.Name != want[i] {
			t.Errorf("job %d = %q, want %q", i, j.Name, want[i])
		}
	}
	if jobs[1].Profile == nil || jobs[1].Path == nil {
		t.Error("extrude should queue a sweep job")
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unclosed paren", "(rayto :n 4"},
		{"undefined symbol", "(+ 1 undefined-symbol)"},
		{"error after a job", "(rayto :n 4)\n(+ 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if jobs != nil {
				t.Fatalf("expected nil jobs, got %d", len(jobs))
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected at least one eval error")
			}
			if evalErrs[0].Message == "" {
				t.Error("eval error message should not be empty")
			}
			// Line info depends on the zygomys error format; log what we got.
			t.Logf("line=%d message=%q", evalErrs[0].Line, evalErrs[0].Message)
		})
	}
}

func TestEvalErrorFormatting(t *testing.T) {
	e := EvalError{Line: 5, Message: "rayto: n = 0, need at least 1 segment"}
	if got := e.Error(); got != "line 5: rayto: n = 0, need at least 1 segment" {
		t.Errorf("Error() = %q", got)
	}

	var err error = EvalError{Message: "no location"}
	if strings.Contains(err.Error(), "line") {
		t.Errorf("Error() with no line should not mention a line, got: %s", err)
	}
	var target EvalError
	if !errors.As(err, &target) || target.Message != "no location" {
		t.Errorf("errors.As did not recover the EvalError: %+v", target)
	}
}

func TestEvaluateIsRepeatable(t *testing.T) {
	eng := NewEngine()

	for i := 0; i < 5; i++ {
		jobs, evalErrs, err := eng.Evaluate("(rayto :n 4 :at (vec3 8 0 0))")
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if len(jobs) != 1 {
			t.Fatalf("iteration %d: expected 1 job, got %d", i, len(jobs))
		}
		if jobs[0].Generator == nil || jobs[0].Generator.Name() != "rayto" {
			t.Errorf("iteration %d: unexpected job %+v", i, jobs[0])
		}
		if jobs[0].Origin.X != 8 {
			t.Errorf("iteration %d: origin = %v", i, jobs[0].Origin)
		}
	}
}

func TestWaitTimesOut(t *testing.T) {
	// A channel that never sends stands in for a script stuck in a loop.
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult)

	done := make(chan error, 1)
	go func() {
		_, err := waitWithTimeout(ch, 1, &mu, &gen)
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "timed out") {
			t.Fatalf("expected timeout error, got: %v", err)
		}
	case <-time.After(EvalTimeout + 2*time.Second):
		t.Fatal("test itself timed out waiting for evaluation timeout")
	}
}

func TestWaitGenerations(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2)

	// A result from generation 1 arrives after generation 2 started.
	stale := make(chan evalResult, 1)
	stale <- evalResult{}
	if _, err := waitWithTimeout(stale, 1, &mu, &gen); err == nil || !strings.Contains(err.Error(), "superseded") {
		t.Errorf("expected superseded error, got: %v", err)
	}

	// The current generation's result passes through untouched.
	current := make(chan evalResult, 1)
	current <- evalResult{result: EvalResult{Jobs: make([]pipeline.Job, 2)}}
	res, err := waitWithTimeout(current, 2, &mu, &gen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Jobs) != 2 {
		t.Errorf("expected 2 jobs, got %d", len(res.Jobs))
	}

	// Evaluation failures are returned as is.
	failed := make(chan evalResult, 1)
	failed <- evalResult{err: errors.New("panic during evaluation: boom")}
	if _, err := waitWithTimeout(failed, 2, &mu, &gen); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected the evaluation error, got: %v", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"short form", "line 3: extrude: expected a profile and a path", 3, "expected a profile"},
		{"no line info", "circle: invalid profile: 2 sides", 0, "2 sides"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errors.New(tt.msg))
			if len(errs) != 1 {
				t.Fatalf("expected one error, got %d", len(errs))
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}
