package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intob/moea/pkg/multiobjective/benchmarks"
	"github.com/intob/moea/pkg/multiobjective/framework"
)

func TestDumpStepRoundTrip(t *testing.T) {
	dir := t.TempDir()
	points := []framework.ObjectiveSpacePoint{{0.5, 0.25}, {0, 1}, {1e-9, 0.75}}

	path, err := DumpStep(dir, 7, points)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "step_0007.dat"), path)

	got, err := ReadPoints(path)
	require.NoError(t, err)
	assert.Equal(t, points, got)
}

func TestReadPointsErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.dat")

	require.NoError(t, os.WriteFile(path, []byte("# f1 f2\n0.5 0.5\n\n0.1 abc\n"), 0o644))
	_, err := ReadPoints(path)
	assert.ErrorContains(t, err, "bad.dat:4")

	require.NoError(t, os.WriteFile(path, []byte("0.5 0.5\n0.1 0.2 0.3\n"), 0o644))
	_, err = ReadPoints(path)
	assert.ErrorContains(t, err, "expected 2 coordinates")

	_, err = ReadPoints(filepath.Join(dir, "missing.dat"))
	assert.Error(t, err)
}

func TestPlotResults(t *testing.T) {
	dir := t.TempDir()
	problem := benchmarks.NewZDT1(3)

	path, err := PlotResults(dir, problem.TrueParetoFront(20), problem, "EMAS")
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = PlotResults(dir, nil, problem, "EMAS")
	assert.Error(t, err)
	_, err = PlotResults(dir, []framework.ObjectiveSpacePoint{{1, 2, 3}}, problem, "EMAS")
	assert.Error(t, err)
}

func TestPlotSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hv.html")
	err := PlotSeries(path, "Hypervolume", []int{0, 1, 2}, map[string][]float64{
		"hypervolume": {0.1, 0.2, 0.15},
		"max":         {0.1, 0.2, 0.2},
	}, "hypervolume", "max")
	require.NoError(t, err)
	assert.FileExists(t, path)

	assert.Error(t, PlotSeries(path, "Hypervolume", []int{0}, nil, "missing"))
	assert.Error(t, PlotSeries(path, "Hypervolume", nil, nil))
}
