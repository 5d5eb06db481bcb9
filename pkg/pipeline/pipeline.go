// Package pipeline runs the whole chain from profile and path, or a curve
// generator, to finished brushes and map text.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/chazu/curveball/pkg/brush"
	"github.com/chazu/curveball/pkg/qmap"
)

// Part is the output of one job.
type Part struct {
	Name    string
	Brushes []*brush.Brush
}

// Result is the output of a run.
type Result struct {
	Parts    []Part
	Document qmap.Document
	Map      string
}

// Brushes returns every brush of the run in job order.
func (r *Result) Brushes() []*brush.Brush {
	var out []*brush.Brush
	for _, p := range r.Parts {
		out = append(out, p.Brushes...)
	}
	return out
}

// Run executes a single job.
func Run(job Job, opts ...Option) (*Result, error) {
	return RunAll([]Job{job}, opts...)
}

// RunAll executes jobs in order and writes all their brushes into one map.
// Any failure aborts the run; there is no partial output.
func RunAll(jobs []Job, opts ...Option) (*Result, error) {
	cfg := newConfig(opts)
	if err := cfg.Tolerances.Validate(); err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: nothing to run", ErrInvalidJob)
	}
	log := Logger()
	start := time.Now()

	res := &Result{Parts: make([]Part, 0, len(jobs))}
	world := qmap.Worldspawn(nil)
	var groups []qmap.Entity
	for i, job := range jobs {
		label := job.Label(i)
		brushes, err := runJob(job, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		res.Parts = append(res.Parts, Part{Name: label, Brushes: brushes})
		if cfg.Grouped && job.Name != "" {
			groups = append(groups, qmap.Group(job.Name, len(groups)+1, brushes))
		} else {
			world.Brushes = append(world.Brushes, brushes...)
		}
	}

	res.Document = qmap.NewDocument(append([]qmap.Entity{world}, groups...)...).WithMetadata(cfg.Metadata...)
	var sb strings.Builder
	if err := qmap.Write(&sb, res.Document); err != nil {
		return nil, err
	}
	res.Map = sb.String()

	log.Info("run finished",
		"jobs", len(jobs),
		"brushes", res.Document.BrushCount(),
		"bytes", len(res.Map),
		"elapsed", time.Since(start))
	return res, nil
}

func runJob(job Job, cfg Config) ([]*brush.Brush, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	segs, err := job.segments(cfg)
	if err != nil {
		return nil, err
	}
	tex := cfg.Texture
	if job.Texture != nil {
		tex = *job.Texture
	}
	brushes, err := brush.Finalize(segs, tex, cfg.Tolerances)
	if err != nil {
		return nil, err
	}
	Logger().Debug("job finished",
		"job", job.Name,
		"segments", len(segs),
		"brushes", len(brushes),
		"elapsed", time.Since(start))
	return brushes, nil
}
