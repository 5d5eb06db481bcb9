package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chazu/curveball/pkg/brush"
	"github.com/chazu/curveball/pkg/curve"
	"github.com/chazu/curveball/pkg/engine"
	"github.com/chazu/curveball/pkg/extrude"
	"github.com/chazu/curveball/pkg/geom"
	"github.com/chazu/curveball/pkg/kernel"
	"github.com/chazu/curveball/pkg/kernel/polytope"
	"github.com/chazu/curveball/pkg/kernel/sdfx"
	"github.com/chazu/curveball/pkg/path"
	"github.com/chazu/curveball/pkg/pipeline"
	"github.com/chazu/curveball/pkg/profile"
	"github.com/chazu/curveball/pkg/qmap"
	"github.com/chazu/curveball/pkg/sampler"
	"github.com/chazu/curveball/pkg/tessellate"
)

// errUsage is returned after usage text has been printed.
var errUsage = errors.New("usage")

// options are the flags every command shares.
type options struct {
	file    string
	stl     string
	kernel  string
	cells   int
	texture string
	scale   float64
	name    string
	flat    bool
	verbose bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.file, "file", "", "write the map to `path` instead of stdout")
	fs.StringVar(&o.stl, "stl", "", "also write a preview mesh to `path`")
	fs.StringVar(&o.kernel, "kernel", "polytope", "preview kernel: polytope or sdfx")
	fs.IntVar(&o.cells, "cells", 200, "sdfx marching cubes cells along the longest side")
	fs.StringVar(&o.texture, "texture", brush.DefaultTextureName, "material for every face")
	fs.Float64Var(&o.scale, "scale", 0.5, "texture scale")
	fs.StringVar(&o.name, "name", "", "editor group `name` for unnamed geometry")
	fs.BoolVar(&o.flat, "flat", false, "put every brush in worldspawn, without groups")
	fs.BoolVar(&o.verbose, "v", false, "log pipeline stages to stderr")
}

func (o *options) previewKernel() (kernel.Kernel, error) {
	switch o.kernel {
	case "polytope":
		return polytope.New(), nil
	case "sdfx":
		if o.cells < 1 {
			return nil, fmt.Errorf("-cells %d must be positive", o.cells)
		}
		return sdfx.NewWithCells(o.cells), nil
	}
	return nil, fmt.Errorf("unknown kernel %q, expected polytope or sdfx", o.kernel)
}

// action runs a command on its positional arguments.
type action func(args []string, stdout io.Writer) error

// jobsFunc builds the jobs of a generating command.
type jobsFunc func(args []string) ([]pipeline.Job, error)

type command struct {
	name    string
	summary string
	setup   func(fs *flag.FlagSet, o *options) action
}

var commands = []command{
	{"curve-classic", "flat ring section with varying radii", generating(classicJobs)},
	{"curve-slope", "ring section climbing between two heights", generating(slopeJobs)},
	{"rayto", "fan of prisms from an arc to a point", generating(raytoJobs)},
	{"bank", "banked ring section", generating(bankJobs)},
	{"catenary", "plank hanging between two points", generating(catenaryJobs)},
	{"serpentine", "plank following S-bends", generating(serpentineJobs)},
	{"extrude", "any profile swept along any path", generating(extrudeJobs)},
	{"script", "evaluate curve scripts", generating(scriptJobs)},
	{"preview", "tessellate an existing .map file into an STL", previewCmd},
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: curveball <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-14s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, `run "curveball <command> -h" for the flags of a command`)
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errUsage
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stdout)
		return nil
	}
	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return errUsage
	}

	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var o options
	o.register(fs)
	act := cmd.setup(fs, &o)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	if o.verbose {
		pipeline.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer pipeline.SetLogger(nil)
	}
	return act(fs.Args(), stdout)
}

// generating turns a job builder into a command that runs the pipeline and
// writes the map.
func generating(setup func(fs *flag.FlagSet) jobsFunc) func(*flag.FlagSet, *options) action {
	return func(fs *flag.FlagSet, o *options) action {
		build := setup(fs)
		return func(args []string, stdout io.Writer) error {
			jobs, err := build(args)
			if err != nil {
				return err
			}
			return generate(jobs, o, stdout)
		}
	}
}

func generate(jobs []pipeline.Job, o *options, stdout io.Writer) error {
	for i := range jobs {
		if jobs[i].Name == "" {
			jobs[i].Name = o.name
		}
	}
	tex := brush.DefaultTexture()
	tex.Name = o.texture
	tex.ScaleX, tex.ScaleY = o.scale, o.scale

	res, err := pipeline.RunAll(jobs,
		pipeline.WithTexture(brush.TextureParams{Default: tex}),
		pipeline.WithGroups(!o.flat),
	)
	if err != nil {
		return err
	}

	if o.file == "" {
		if _, err := io.WriteString(stdout, res.Map); err != nil {
			return err
		}
	} else if err := os.WriteFile(o.file, []byte(res.Map), 0o644); err != nil {
		return err
	}
	pipeline.Logger().Info("wrote map", "file", o.file, "brushes", len(res.Brushes()))

	if o.stl == "" {
		return nil
	}
	k, err := o.previewKernel()
	if err != nil {
		return err
	}
	meshes, err := tessellate.Parts(res.Parts, k)
	if err != nil {
		return err
	}
	if err := sdfx.SaveSTL(o.stl, meshes...); err != nil {
		return err
	}
	pipeline.Logger().Info("wrote preview", "file", o.stl, "kernel", o.kernel, "meshes", len(meshes))
	return nil
}

// noArgs wraps a job constructor for commands without positional arguments.
func noArgs(name string, build func() ([]pipeline.Job, error)) jobsFunc {
	return func(args []string) ([]pipeline.Job, error) {
		if len(args) > 0 {
			return nil, fmt.Errorf("%s takes no arguments, got %q", name, args)
		}
		return build()
	}
}

func classicJobs(fs *flag.FlagSet) jobsFunc {
	g := curve.DefaultCurveClassic()
	fs.IntVar(&g.N, "n", g.N, "segment count")
	fs.Float64Var(&g.InnerRadius0, "ri0", g.InnerRadius0, "inner radius at the start")
	fs.Float64Var(&g.OuterRadius0, "ro0", g.OuterRadius0, "outer radius at the start")
	fs.Float64Var(&g.InnerRadius1, "ri1", g.InnerRadius1, "inner radius at the end")
	fs.Float64Var(&g.OuterRadius1, "ro1", g.OuterRadius1, "outer radius at the end")
	fs.Float64Var(&g.StartAngle, "start", g.StartAngle, "start angle in degrees")
	fs.Float64Var(&g.EndAngle, "end", g.EndAngle, "end angle in degrees")
	fs.Float64Var(&g.Thickness, "thickness", g.Thickness, "slab thickness")
	return noArgs("curve-classic", func() ([]pipeline.Job, error) {
		return []pipeline.Job{pipeline.Generate("", g)}, nil
	})
}

func slopeJobs(fs *flag.FlagSet) jobsFunc {
	g := curve.DefaultCurveSlope()
	fs.IntVar(&g.N, "n", g.N, "segment count")
	fs.Float64Var(&g.InnerRadius0, "ri0", g.InnerRadius0, "inner radius at the start")
	fs.Float64Var(&g.OuterRadius0, "ro0", g.OuterRadius0, "outer radius at the start")
	fs.Float64Var(&g.InnerRadius1, "ri1", g.InnerRadius1, "inner radius at the end")
	fs.Float64Var(&g.OuterRadius1, "ro1", g.OuterRadius1, "outer radius at the end")
	fs.Float64Var(&g.StartAngle, "start", g.StartAngle, "start angle in degrees")
	fs.Float64Var(&g.EndAngle, "end", g.EndAngle, "end angle in degrees")
	ib0 := fs.Float64("ib0", g.Start.InnerBottom, "inner bottom height at the start")
	ob0 := fs.Float64("ob0", g.Start.OuterBottom, "outer bottom height at the start")
	ib1 := fs.Float64("ib1", g.End.InnerBottom, "inner bottom height at the end")
	ob1 := fs.Float64("ob1", g.End.OuterBottom, "outer bottom height at the end")
	thickness := fs.Float64("thickness", g.Start.InnerTop-g.Start.InnerBottom, "slab thickness")
	hill := fs.Float64("hill", 0, "extra height halfway along the arc")
	return noArgs("curve-slope", func() ([]pipeline.Job, error) {
		g.Start = curve.ConstantThickness(*ib0, *ob0, *thickness)
		g.End = curve.ConstantThickness(*ib1, *ob1, *thickness)
		g.Hill = curve.Heights{InnerTop: *hill, InnerBottom: *hill, OuterTop: *hill, OuterBottom: *hill}
		return []pipeline.Job{pipeline.Generate("", g)}, nil
	})
}

func raytoJobs(fs *flag.FlagSet) jobsFunc {
	g := curve.DefaultRayto()
	fs.IntVar(&g.N, "n", g.N, "segment count")
	fs.Float64Var(&g.StartRadius, "r0", g.StartRadius, "arc radius at the start")
	fs.Float64Var(&g.EndRadius, "r1", g.EndRadius, "arc radius at the end")
	fs.Float64Var(&g.StartAngle, "start", g.StartAngle, "start angle in degrees")
	fs.Float64Var(&g.EndAngle, "end", g.EndAngle, "end angle in degrees")
	fs.Float64Var(&g.X, "x", g.X, "target point x")
	fs.Float64Var(&g.Y, "y", g.Y, "target point y")
	fs.Float64Var(&g.Height, "height", g.Height, "prism height")
	return noArgs("rayto", func() ([]pipeline.Job, error) {
		return []pipeline.Job{pipeline.Generate("", g)}, nil
	})
}

func bankJobs(fs *flag.FlagSet) jobsFunc {
	g := curve.DefaultBank()
	fs.IntVar(&g.N, "n", g.N, "segment count")
	fs.Float64Var(&g.InnerRadius, "ri", g.InnerRadius, "inner radius")
	fs.Float64Var(&g.OuterRadius, "ro", g.OuterRadius, "outer radius")
	fs.Float64Var(&g.StartAngle, "start", g.StartAngle, "start angle in degrees")
	fs.Float64Var(&g.EndAngle, "end", g.EndAngle, "end angle in degrees")
	fs.Float64Var(&g.Height, "height", g.Height, "rise of the outer edge")
	fs.Float64Var(&g.Thickness, "thickness", g.Thickness, "slab thickness")
	fs.BoolVar(&g.Fill, "fill", g.Fill, "fill the space under the bank")
	return noArgs("bank", func() ([]pipeline.Job, error) {
		return []pipeline.Job{pipeline.Generate("", g)}, nil
	})
}

// plank is the cross-section of the catenary and serpentine commands: w
// wide across Y and t deep, hanging below the path.
func plank(w, t float64) (profile.Profile, error) {
	return profile.NewRectangle(w, t, profile.TopCenter)
}

func plankJob(n int, w, t float64, p path.Path) ([]pipeline.Job, error) {
	prof, err := plank(w, t)
	if err != nil {
		return nil, err
	}
	job := pipeline.Sweep("", prof, p, sampler.Steps(n))
	job.Orientation = extrude.FixedYZ
	return []pipeline.Job{job}, nil
}

func catenaryJobs(fs *flag.FlagSet) jobsFunc {
	n := fs.Int("n", 24, "segment count")
	span := fs.Float64("span", 128, "horizontal distance between the ends")
	rise := fs.Float64("rise", 0, "height of the far end above the near end")
	length := fs.Float64("length", 132, "rope length")
	w := fs.Float64("w", 32, "plank width")
	t := fs.Float64("t", 4, "plank thickness")
	return noArgs("catenary", func() ([]pipeline.Job, error) {
		p, err := path.NewCatenary(*span, *rise, *length)
		if err != nil {
			return nil, err
		}
		return plankJob(*n, *w, *t, p)
	})
}

func serpentineJobs(fs *flag.FlagSet) jobsFunc {
	n := fs.Int("n", 24, "segment count")
	length := fs.Float64("x", 128, "run along x")
	height := fs.Float64("z", 64, "rise of each bend")
	count := fs.Int("count", 1, "number of bends")
	w := fs.Float64("w", 32, "plank width")
	t := fs.Float64("t", 8, "plank thickness")
	return noArgs("serpentine", func() ([]pipeline.Job, error) {
		p, err := path.NewSerpentine(*length, *height, *count)
		if err != nil {
			return nil, err
		}
		return plankJob(*n, *w, *t, p)
	})
}

func extrudeJobs(fs *flag.FlagSet) jobsFunc {
	kind := fs.String("profile", "circle", "profile kind: circle, circle-sector, rectangle, parallelogram or annulus")
	var pp profile.Params
	fs.IntVar(&pp.Sides, "sides", 8, "profile sides")
	fs.Float64Var(&pp.Radius, "radius", 16, "circle and sector radius")
	fs.Float64Var(&pp.InnerRadius, "inner", 8, "annulus inner radius")
	fs.Float64Var(&pp.OuterRadius, "outer", 16, "annulus outer radius")
	fs.Float64Var(&pp.StartAngle, "profile-start", 0, "sector and annulus start angle")
	fs.Float64Var(&pp.EndAngle, "profile-end", 90, "sector and annulus end angle; an annulus with equal angles is a full ring")
	fs.Float64Var(&pp.Width, "width", 32, "rectangle and parallelogram width")
	fs.Float64Var(&pp.Height, "height", 8, "rectangle and parallelogram height")
	fs.Float64Var(&pp.OffsetX, "offset-x", 8, "parallelogram side edge x")
	fs.Float64Var(&pp.OffsetY, "offset-y", 8, "parallelogram side edge y")
	anchor := fs.String("anchor", "center", "rectangle and parallelogram anchor")
	scale := fs.Float64("taper", 1, "profile scale at the end of the path")
	twist := fs.Float64("twist", 0, "profile twist at the end of the path, in degrees")

	pathKind := fs.String("path", "line", "path kind: line, revolve, sinusoid, catenary or serpentine")
	length := fs.Float64("length", 256, "line, sinusoid and serpentine run along x; catenary rope length")
	radius := fs.Float64("path-radius", 128, "revolve radius")
	start := fs.Float64("path-start", 0, "revolve start angle")
	end := fs.Float64("path-end", 360, "revolve end angle")
	amplitude := fs.Float64("amplitude", 32, "sinusoid amplitude")
	period := fs.Float64("period", 256, "sinusoid period")
	span := fs.Float64("span", 128, "catenary span")
	rise := fs.Float64("rise", 0, "catenary end height; serpentine bend height")
	count := fs.Int("count", 1, "serpentine bends")

	steps := fs.Int("steps", 24, "segment count")
	tolerance := fs.Float64("tolerance", 0, "chord tolerance; replaces -steps when positive")
	orientation := fs.String("orientation", "follow", "profile orientation: follow, xz, yz or xy")

	return noArgs("extrude", func() ([]pipeline.Job, error) {
		k, err := profile.ParseKind(*kind)
		if err != nil {
			return nil, err
		}
		if pp.Anchor, err = profile.ParseAnchor(*anchor); err != nil {
			return nil, err
		}
		base, err := profile.Build(k, pp)
		if err != nil {
			return nil, err
		}
		var src profile.Source = base
		if *scale != 1 || *twist != 0 {
			if src, err = profile.NewTaper(base, 1, *scale, 0, *twist); err != nil {
				return nil, err
			}
		}

		var p path.Path
		switch *pathKind {
		case "line":
			p, err = path.NewLine(geom.Vec3{}, geom.Vec3{X: *length})
		case "revolve":
			p, err = path.NewRevolve(geom.Vec3{}, *radius, *start, *end)
		case "sinusoid":
			p, err = path.NewSinusoid(*amplitude, *period, 0, 0, *length)
		case "catenary":
			p, err = path.NewCatenary(*span, *rise, *length)
		case "serpentine":
			p, err = path.NewSerpentine(*length, *rise, *count)
		default:
			err = fmt.Errorf("%w: unknown path kind %q", path.ErrInvalidPath, *pathKind)
		}
		if err != nil {
			return nil, err
		}

		res := sampler.Steps(*steps)
		if *tolerance > 0 {
			res = sampler.Tolerance(*tolerance)
		}
		job := pipeline.Sweep("", src, p, res)
		if job.Orientation, err = extrude.ParseOrientation(*orientation); err != nil {
			return nil, err
		}
		return []pipeline.Job{job}, nil
	})
}

// ScriptError reports the errors of a failed curve script.
type ScriptError struct {
	File   string
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.File, e.Errors[0].Error())
	if len(e.Errors) > 1 {
		msg += fmt.Sprintf(" (and %d more)", len(e.Errors)-1)
	}
	return msg
}

func scriptJobs(fs *flag.FlagSet) jobsFunc {
	return func(args []string) ([]pipeline.Job, error) {
		if len(args) == 0 {
			return nil, errors.New("script needs at least one file")
		}
		eng := engine.NewEngine()
		var jobs []pipeline.Job
		for _, file := range args {
			src, err := os.ReadFile(file)
			if err != nil {
				return nil, err
			}
			res, err := eng.EvaluateResult(string(src))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			for _, w := range res.Warnings {
				pipeline.Logger().Warn(w.Message, "file", file)
			}
			if len(res.Errors) > 0 {
				return nil, &ScriptError{File: file, Errors: res.Errors}
			}
			jobs = append(jobs, res.Jobs...)
		}
		return jobs, nil
	}
}

func previewCmd(fs *flag.FlagSet, o *options) action {
	return func(args []string, stdout io.Writer) error {
		if len(args) != 1 {
			return fmt.Errorf("preview needs exactly one .map file, got %d", len(args))
		}
		if o.stl == "" {
			return errors.New("preview needs -stl")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		m, err := qmap.Parse(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		k, err := o.previewKernel()
		if err != nil {
			return err
		}
		meshes, err := tessellate.Map(m, k)
		if err != nil {
			return err
		}
		if err := sdfx.SaveSTL(o.stl, meshes...); err != nil {
			return err
		}
		pipeline.Logger().Info("wrote preview", "file", o.stl, "brushes", m.BrushCount())
		return nil
	}
}
