package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2/ktesting"
	"sigs.k8s.io/yaml"

	configv1alpha1 "github.com/intob/moea/apis/config/v1alpha1"
	"github.com/intob/moea/pkg/multiobjective/emas"
	"github.com/intob/moea/pkg/multiobjective/framework"
	"github.com/intob/moea/pkg/multiobjective/report"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	_, ctx := ktesting.NewTestContext(t)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func readRun(t *testing.T, path string) *configv1alpha1.OptimizationRun {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	run := &configv1alpha1.OptimizationRun{}
	require.NoError(t, yaml.Unmarshal(data, run))
	return run
}

func TestEMASCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "emas",
		"--problem", "simple",
		"--steps", "5",
		"--seed", "7",
		"--set", "world_size=2",
		"--set", "population_size=10",
		"--dump-dir", filepath.Join(dir, "dump"),
		"--plot", "--plot-dir", filepath.Join(dir, "plots"),
		"--db", filepath.Join(dir, "runs.db"),
		"--output", filepath.Join(dir, "run.yaml"),
	)
	require.NoError(t, err)
	assert.Contains(t, out, "EMAS on SIMPLE")

	for step := range 6 {
		assert.FileExists(t, filepath.Join(dir, "dump", fmt.Sprintf("step_%04d.dat", step)))
	}
	assert.FileExists(t, filepath.Join(dir, "plots", "SIMPLE_EMAS_hypervolume.html"))

	run := readRun(t, filepath.Join(dir, "run.yaml"))
	assert.Equal(t, configv1alpha1.KindOptimizationRun, run.Kind)
	assert.Equal(t, configv1alpha1.OptimizationRunPhaseSucceeded, run.Status.Phase)
	require.NotNil(t, run.Spec.EMAS)
	assert.EqualValues(t, 2, *run.Spec.EMAS.WorldSize)
	assert.EqualValues(t, 7, *run.Spec.EMAS.Seed)
	assert.Equal(t, configv1alpha1.DefaultParameterSet, run.Spec.EMAS.ParameterSet)
	require.NotEmpty(t, run.Status.Solutions)
	assert.FileExists(t, filepath.Join(dir, "plots", "SIMPLE_EMAS_results.html"))

	recorder, err := report.Open(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	defer recorder.Close()
	runs, err := recorder.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, string(run.UID), runs[0].ID)
	samples, err := recorder.Samples(runs[0].ID)
	require.NoError(t, err)
	assert.Len(t, samples, 6)
	for i, s := range samples {
		assert.GreaterOrEqual(t, s.MaxHypervolume, s.Hypervolume)
		if i > 0 {
			assert.GreaterOrEqual(t, s.MaxHypervolume, samples[i-1].MaxHypervolume)
		}
	}
	solutions, err := recorder.Solutions(runs[0].ID)
	require.NoError(t, err)
	assert.Len(t, solutions, len(run.Status.Solutions))
}

func TestEMASCommandIsReproducible(t *testing.T) {
	dir := t.TempDir()
	args := []string{"emas", "--problem", "zdt1", "--steps", "3", "--seed", "11", "--set", "world_size=2", "--set", "population_size=8"}

	_, err := execute(t, append(args, "--output", filepath.Join(dir, "a.yaml"))...)
	require.NoError(t, err)
	_, err = execute(t, append(args, "--output", filepath.Join(dir, "b.yaml"))...)
	require.NoError(t, err)

	a, b := readRun(t, filepath.Join(dir, "a.yaml")), readRun(t, filepath.Join(dir, "b.yaml"))
	assert.Equal(t, a.Status.Solutions, b.Status.Solutions)
	assert.Equal(t, a.Status.Hypervolume, b.Status.Hypervolume)
}

func TestNSGA2Command(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "nsga2.yaml")
	require.NoError(t, os.WriteFile(config, []byte("populationSize: 12\ncrossover: interpolate\n"), 0o644))

	out, err := execute(t, "nsga2",
		"--problem", "simple",
		"--config", config,
		"--steps", "4",
		"--sample-every", "2",
		"--dump-dir", filepath.Join(dir, "dump"),
		"--output", filepath.Join(dir, "run.yaml"),
	)
	require.NoError(t, err)
	assert.Contains(t, out, "NSGA-II on SIMPLE")

	for _, step := range []int{0, 2, 4} {
		assert.FileExists(t, filepath.Join(dir, "dump", fmt.Sprintf("step_%04d.dat", step)))
	}
	assert.NoFileExists(t, filepath.Join(dir, "dump", "step_0001.dat"))

	run := readRun(t, filepath.Join(dir, "run.yaml"))
	require.NotNil(t, run.Spec.NSGA2)
	assert.EqualValues(t, 4, *run.Spec.NSGA2.MaxGenerations)
	assert.EqualValues(t, 12, *run.Spec.NSGA2.PopulationSize)
	assert.Equal(t, 4, run.Spec.Steps)
	assert.NotEmpty(t, run.Status.Solutions)
	assert.Positive(t, run.Status.Hypervolume)
}

func TestHypervolumeCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step_0000.dat")
	require.NoError(t, os.WriteFile(path, []byte("0.5 0.5\n"), 0o644))

	out, err := execute(t, "hypervolume", "--ref", "1,1", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\t0.25\n", out)

	out, err = execute(t, "hypervolume", "--problem", "simple", path)
	require.NoError(t, err)
	assert.Contains(t, out, path+"\t0.25\t0.5")

	_, err = execute(t, "hypervolume", path)
	assert.ErrorContains(t, err, "--ref or --problem")
	_, err = execute(t, "hypervolume", "--ref", "1,1,1", path)
	assert.ErrorContains(t, err, "the reference point has 3")
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown problem", []string{"emas", "--problem", "dtlz9"}, "unknown problem"},
		{"unknown override", []string{"emas", "--set", "gravity=1"}, "unknown parameter"},
		{"malformed override", []string{"emas", "--set", "world_size"}, "expected key=value"},
		{"unknown parameter set", []string{"emas", "--param-set", "best"}, "parameterSet"},
		{"invalid vars", []string{"nsga2", "--vars", "0"}, "--vars"},
		{"invalid nsga2 config", []string{"nsga2", "--steps", "-1"}, "--steps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestStatsRowFeedsHistoryFromStats(t *testing.T) {
	stats := emas.NewStats(framework.ObjectiveSpacePoint{1, 1}, 0.5)
	r := &runner{
		opts:    NewOptions(),
		logger:  logr.Discard(),
		run:     &configv1alpha1.OptimizationRun{},
		history: map[string][]float64{},
	}

	samples := []emas.Sample{
		{Step: 0, Islands: []emas.IslandSample{
			{ID: 0, Tier: emas.Ordinary, Population: 1, Values: []framework.ObjectiveSpacePoint{{0.5, 0.5}}},
		}},
		{Step: 1, Islands: []emas.IslandSample{
			{ID: 0, Tier: emas.Ordinary, Population: 1, Values: []framework.ObjectiveSpacePoint{{0.9, 0.9}}},
			{ID: 1, Tier: emas.Elite, Population: 2},
		}},
	}
	var last report.Sample
	for _, s := range samples {
		stats.Update(s)
		last = statsRow(stats, s)
		r.observe(last, s.Values())
	}

	assert.Equal(t, stats.MaxHypervolume, r.history[seriesMaxHypervolume])
	assert.Equal(t, stats.Hypervolume, r.history[seriesHypervolume])
	assert.Equal(t, []int{0, 1}, r.steps)
	assert.InDelta(t, 0.25, last.MaxHypervolume, 1e-12)
	assert.InDelta(t, 0.01, last.Hypervolume, 1e-12)
	assert.Equal(t, 1, last.Population)
	assert.Equal(t, 2, last.Elites)
}
