// Package engine evaluates curve scripts. It wraps zygomys in a sandboxed
// environment whose builtins describe profiles, paths and generators, and
// turns a script into the pipeline jobs it queues.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/curveball/pkg/pipeline"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a builtin rejecting its arguments.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents something suspicious that did not stop evaluation.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
	// Job is the index of the queued job the warning concerns, or -1.
	Job int
}

// EvalResult bundles the full output of an evaluation for front ends.
type EvalResult struct {
	Jobs     []pipeline.Job
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call creates a fresh sandboxed environment.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs a curve script and returns the jobs it queued, in order.
//
// Return semantics:
//   - On success: jobs + nil errors + nil error
//   - On parse/eval failure: nil jobs + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): nil + nil + error
func (e *Engine) Evaluate(source string) ([]pipeline.Job, []EvalError, error) {
	res, err := e.EvaluateResult(source)
	if err != nil {
		return nil, nil, err
	}
	if len(res.Errors) > 0 {
		return nil, res.Errors, nil
	}
	return res.Jobs, nil, nil
}

// EvaluateResult is Evaluate with warnings included.
func (e *Engine) EvaluateResult(source string) (EvalResult, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res := e.evaluate(source)
		ch <- evalResult{result: res}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) EvalResult {
	if strings.TrimSpace(source) == "" {
		return EvalResult{Jobs: []pipeline.Job{}}
	}

	// The sandbox denies user code the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	s := &session{}
	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return EvalResult{Errors: parseZygomysError(err), Warnings: s.warnings}
	}
	if _, err := env.Run(); err != nil {
		return EvalResult{Errors: parseZygomysError(err), Warnings: s.warnings}
	}

	if len(s.jobs) == 0 {
		s.warnings = append(s.warnings, EvalWarning{Job: -1, Message: "script queued no geometry"})
	}
	pipeline.Logger().Debug("script evaluated", "jobs", len(s.jobs), "warnings", len(s.warnings))
	return EvalResult{Jobs: append([]pipeline.Job{}, s.jobs...), Warnings: s.warnings}
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
