package app

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/intob/moea/pkg/multiobjective/benchmarks"
	"github.com/intob/moea/pkg/multiobjective/report"
)

// Options are the flags shared by the optimisation subcommands.
type Options struct {
	Problem string
	Vars    int
	Steps   int
	Seed    uint64
	Config  string

	// SampleEvery is the step distance between two samples
	SampleEvery int
	DumpDir     string
	Plot        bool
	PlotDir     string
	DB          string
	Output      string
}

// NewOptions returns Options with default values.
func NewOptions() *Options {
	return &Options{
		Problem:     "ZDT1",
		Vars:        benchmarks.DefaultNumVars,
		Steps:       100,
		SampleEvery: 1,
		PlotDir:     ".",
	}
}

// AddFlags adds the flags of o to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Problem, "problem", o.Problem, fmt.Sprintf("Benchmark problem, one of %s.", strings.Join(benchmarks.Names(), ", ")))
	fs.IntVar(&o.Vars, "vars", o.Vars, "Number of decision variables.")
	fs.IntVar(&o.Steps, "steps", o.Steps, "Number of simulation steps or generations.")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "Seed of the random source. Overrides the seed of the config file, 0 seeds from the clock.")
	fs.StringVar(&o.Config, "config", o.Config, "Path to a YAML file with the algorithm arguments.")
	fs.IntVar(&o.SampleEvery, "sample-every", o.SampleEvery, "Number of steps between two statistics samples.")
	fs.StringVar(&o.DumpDir, "dump-dir", o.DumpDir, "If set, the objective values of every sample are written to this directory.")
	fs.BoolVar(&o.Plot, "plot", o.Plot, "Write HTML plots of the final front and the hypervolume history.")
	fs.StringVar(&o.PlotDir, "plot-dir", o.PlotDir, "Directory the plots are written to.")
	fs.StringVar(&o.DB, "db", o.DB, "If set, the run is recorded in this SQLite database.")
	fs.StringVar(&o.Output, "output", o.Output, "If set, the finished run is written to this YAML file.")
}

// Validate checks the values that do not depend on the algorithm.
func (o *Options) Validate() error {
	if o.Vars < 1 {
		return fmt.Errorf("--vars must be positive, got %d", o.Vars)
	}
	if o.Steps < 0 {
		return fmt.Errorf("--steps must not be negative, got %d", o.Steps)
	}
	if o.SampleEvery < 1 {
		return fmt.Errorf("--sample-every must be positive, got %d", o.SampleEvery)
	}
	return nil
}

// prepare creates the output directories and opens the recorder, if any.
func (o *Options) prepare() (*report.Recorder, error) {
	for _, dir := range []string{o.DumpDir, o.plotDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	if o.Output != "" {
		if err := os.MkdirAll(filepath.Dir(o.Output), 0o755); err != nil {
			return nil, err
		}
	}
	if o.DB == "" {
		return nil, nil
	}
	return report.Open(o.DB)
}

func (o *Options) plotDir() string {
	if !o.Plot {
		return ""
	}
	return o.PlotDir
}

func (o *Options) sampled(step, last int) bool {
	return step%o.SampleEvery == 0 || step == last
}

func newRand(seed uint64) (*rand.Rand, uint64) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>32|seed<<32)), seed
}
