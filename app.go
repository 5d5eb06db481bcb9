package main

import (
	"log"

	"github.com/chazu/curveball/pkg/engine"
	"github.com/chazu/curveball/pkg/kernel"
	"github.com/chazu/curveball/pkg/kernel/polytope"
	"github.com/chazu/curveball/pkg/pipeline"
	"github.com/chazu/curveball/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App turns curve scripts into map text and preview meshes. Its exported
// methods are the bindings an editor front end calls.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	opts   []pipeline.Option
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Map      string          `json:"map"`
	Brushes  int             `json:"brushes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App previewing with the exact polytope kernel.
func NewApp(opts ...pipeline.Option) *App {
	return NewAppWithKernel(polytope.New(), opts...)
}

// NewAppWithKernel creates an App previewing with k.
func NewAppWithKernel(k kernel.Kernel, opts ...pipeline.Option) *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: k,
		opts:   opts,
	}
}

// Evaluate runs a curve script and returns the map text, one preview mesh
// per part, and any errors. This is the primary binding called by the
// frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into jobs.
	res, err := a.engine.EvaluateResult(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Line:    w.Line,
			Col:     w.Col,
			Message: w.Message,
		})
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	if len(res.Jobs) == 0 {
		return result
	}

	// Step 2: Build brushes and the map document.
	built, err := pipeline.RunAll(res.Jobs, a.opts...)
	if err != nil {
		log.Printf("Pipeline error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "brush generation failed: " + err.Error()})
		return result
	}
	result.Map = built.Map
	result.Brushes = len(built.Brushes())

	// Step 3: Tessellate every part into a preview mesh.
	meshes, err := tessellate.Parts(built.Parts, a.kernel)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return result
	}

	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}

	return result
}
