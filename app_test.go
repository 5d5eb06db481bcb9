package main

import (
	"os"
	"strings"
	"testing"

	"github.com/chazu/curveball/pkg/qmap"
)

// checkExample runs an example script through the full pipeline: script →
// engine → jobs → brushes → map text → meshes. This is the same path an
// editor front end takes.
func checkExample(t *testing.T, file string, parts ...string) EvalResult {
	t.Helper()
	app := NewApp()

	source, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}

	result := app.Evaluate(string(source))

	// No errors expected.
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	if len(result.Meshes) != len(parts) {
		t.Fatalf("expected %d meshes, got %d", len(parts), len(result.Meshes))
	}

	for i, m := range result.Meshes {
		if m.PartName != parts[i] {
			t.Errorf("mesh %d: part name %q, want %q", i, m.PartName, parts[i])
		}

		// Each mesh must have non-empty geometry.
		if len(m.Vertices) == 0 {
			t.Errorf("part %q: no vertices", m.PartName)
		}
		if len(m.Normals) == 0 {
			t.Errorf("part %q: no normals", m.PartName)
		}
		if len(m.Indices) == 0 {
			t.Errorf("part %q: no indices", m.PartName)
		}

		// Must have a color assigned.
		if m.Color == "" {
			t.Errorf("part %q: no color assigned", m.PartName)
		}
	}

	if result.Brushes == 0 {
		t.Error("expected brushes")
	}
	return result
}

func TestE2ETrackExample(t *testing.T) {
	result := checkExample(t, "examples/track.curve", "corner", "ramp", "bank", "bridge")

	m, err := qmap.Parse(strings.NewReader(result.Map))
	if err != nil {
		t.Fatalf("map text does not parse: %v", err)
	}
	// Worldspawn plus one group per named job.
	if len(m.Entities) != 5 {
		t.Fatalf("expected 5 entities, got %d", len(m.Entities))
	}
	if m.BrushCount() != result.Brushes {
		t.Errorf("parsed %d brushes, result reports %d", m.BrushCount(), result.Brushes)
	}
	for _, tex := range []string{"mtrl/stone", "mtrl/edge"} {
		if !strings.Contains(result.Map, tex) {
			t.Errorf("map does not use texture %s", tex)
		}
	}
}

func TestE2EPipeExample(t *testing.T) {
	result := checkExample(t, "examples/pipe.curve", "pipe-ring", "column", "fan")

	if !strings.Contains(result.Map, "mtrl/marble") {
		t.Error("column texture missing from map")
	}
	// 12 annulus quads per step, 48 steps.
	if result.Brushes < 12*48 {
		t.Errorf("expected at least %d brushes, got %d", 12*48, result.Brushes)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
	if result.Map != "" {
		t.Errorf("expected no map text for empty source, got %q", result.Map)
	}
}

// TestE2ESyntaxError ensures syntax errors are reported, not panicked.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(extrude (circle`)

	if len(result.Errors) == 0 {
		t.Error("expected errors for unclosed paren")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2ESingleSweep tests a single sweep without names.
func TestE2ESingleSweep(t *testing.T) {
	app := NewApp()
	source := `(extrude (rectangle :width 16 :height 16) (line (vec3 0 0 0) (vec3 128 0 0)) :steps 1)`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if result.Meshes[0].PartName != "job 0" {
		t.Errorf("expected part name 'job 0', got %q", result.Meshes[0].PartName)
	}
	if result.Brushes != 1 {
		t.Errorf("expected 1 brush, got %d", result.Brushes)
	}
	// A box has 6 faces of 2 triangles each.
	if got := len(result.Meshes[0].Indices); got != 36 {
		t.Errorf("expected 36 indices, got %d", got)
	}
}
