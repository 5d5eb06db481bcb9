package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/curveball/pkg/qmap"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func parseMap(t *testing.T, text string) *qmap.ParsedMap {
	t.Helper()
	m, err := qmap.Parse(strings.NewReader(text))
	require.NoError(t, err)
	return m
}

func TestCLIUsage(t *testing.T) {
	out, _, err := runCLI(t, "help")
	require.NoError(t, err)
	for _, c := range commands {
		assert.Contains(t, out, c.name)
	}

	_, stderr, err := runCLI(t)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr, "usage:")

	_, stderr, err = runCLI(t, "spiral")
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr, `unknown command "spiral"`)

	_, _, err = runCLI(t, "rayto", "-bogus")
	assert.ErrorIs(t, err, errUsage)

	_, stderr, err = runCLI(t, "bank", "-h")
	require.NoError(t, err)
	assert.Contains(t, stderr, "-thickness")
}

func TestCLICurveClassic(t *testing.T) {
	out, _, err := runCLI(t, "curve-classic")
	require.NoError(t, err)

	m := parseMap(t, out)
	assert.Equal(t, 24, m.BrushCount())
	assert.Contains(t, m.Metadata, "Game: Neverball")
	require.Len(t, m.Entities, 1)
	class, _ := m.Entities[0].Get("classname")
	assert.Equal(t, "worldspawn", class)
	assert.Contains(t, out, "mtrl/invisible")
}

func TestCLIGroupsAndTexture(t *testing.T) {
	out, _, err := runCLI(t, "rayto", "-n", "6", "-name", "fan", "-texture", "mtrl/grass", "-scale", "1")
	require.NoError(t, err)

	m := parseMap(t, out)
	require.Len(t, m.Entities, 2)
	name, ok := m.Entities[1].Get("_tb_name")
	require.True(t, ok)
	assert.Equal(t, "fan", name)
	assert.Len(t, m.Entities[1].Brushes, 6)
	assert.Empty(t, m.Entities[0].Brushes)
	assert.Contains(t, out, "mtrl/grass")

	out, _, err = runCLI(t, "rayto", "-n", "6", "-name", "fan", "-flat")
	require.NoError(t, err)
	m = parseMap(t, out)
	require.Len(t, m.Entities, 1)
	assert.Len(t, m.Entities[0].Brushes, 6)
}

func TestCLIGenerators(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"slope", []string{"curve-slope", "-n", "8", "-ib1", "64", "-ob1", "64"}, 16},
		{"slope hill", []string{"curve-slope", "-n", "8", "-hill", "16"}, 16},
		{"bank", []string{"bank", "-n", "10", "-height", "32"}, 10},
		{"catenary", []string{"catenary", "-n", "16"}, 16},
		{"serpentine", []string{"serpentine", "-n", "12", "-count", "2", "-z", "32"}, 12},
		{"extrude line", []string{"extrude", "-profile", "rectangle", "-steps", "4"}, 4},
		{"extrude revolve", []string{"extrude", "-profile", "circle", "-path", "revolve", "-steps", "16"}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, parseMap(t, out).BrushCount())
		})
	}
}

func TestCLIErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"stray argument", []string{"rayto", "extra"}, "takes no arguments"},
		{"bad generator", []string{"curve-classic", "-n", "0"}, "at least 1 segment"},
		{"short rope", []string{"catenary", "-length", "100"}, "catenary"},
		{"bad profile", []string{"extrude", "-profile", "star"}, "star"},
		{"bad path", []string{"extrude", "-path", "spiral"}, "spiral"},
		{"bad orientation", []string{"extrude", "-orientation", "up"}, "up"},
		{"no script", []string{"script"}, "at least one file"},
		{"missing script", []string{"script", "no-such-file.curve"}, "no-such-file.curve"},
		{"preview without stl", []string{"preview", "x.map"}, "-stl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCLIFileAndSTL(t *testing.T) {
	dir := t.TempDir()
	mapFile := filepath.Join(dir, "ring.map")
	stlFile := filepath.Join(dir, "ring.stl")

	out, _, err := runCLI(t, "curve-classic", "-n", "8", "-file", mapFile, "-stl", stlFile)
	require.NoError(t, err)
	assert.Empty(t, out)

	text, err := os.ReadFile(mapFile)
	require.NoError(t, err)
	assert.Equal(t, 8, parseMap(t, string(text)).BrushCount())

	info, err := os.Stat(stlFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	// The written map previews with either kernel.
	preview := filepath.Join(dir, "preview.stl")
	_, _, err = runCLI(t, "preview", "-stl", preview, mapFile)
	require.NoError(t, err)
	_, err = os.Stat(preview)
	require.NoError(t, err)

	_, _, err = runCLI(t, "preview", "-stl", preview, "-kernel", "sdfx", "-cells", "40", mapFile)
	require.NoError(t, err)

	_, _, err = runCLI(t, "preview", "-stl", preview, "-kernel", "voxels", mapFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kernel")
}

func TestCLIScript(t *testing.T) {
	out, _, err := runCLI(t, "script", "examples/track.curve", "examples/pipe.curve")
	require.NoError(t, err)

	m := parseMap(t, out)
	// Worldspawn plus one group per named job of both scripts.
	assert.Len(t, m.Entities, 8)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.curve")
	require.NoError(t, os.WriteFile(bad, []byte("(rayto :n 4)\n(circle :sides 1)\n"), 0o644))

	_, _, err = runCLI(t, "script", bad)
	var se *ScriptError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, bad, se.File)
	assert.NotEmpty(t, se.Errors)
}

func TestCLIVerboseLogs(t *testing.T) {
	_, stderr, err := runCLI(t, "rayto", "-n", "2", "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "run finished")
}
