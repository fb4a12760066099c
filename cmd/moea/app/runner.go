package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	configv1alpha1 "github.com/intob/moea/apis/config/v1alpha1"
	"github.com/intob/moea/pkg/multiobjective/benchmarks"
	"github.com/intob/moea/pkg/multiobjective/framework"
	"github.com/intob/moea/pkg/multiobjective/report"
	"github.com/intob/moea/pkg/multiobjective/util"
)

const (
	seriesHypervolume    = "hypervolume"
	seriesMaxHypervolume = "max hypervolume"
	seriesRatio          = "hypervolume ratio"
)

// frontSamples is the resolution of the true front used for the volume
// of the hypervolume ratio.
const frontSamples = 1000

// runner owns the reporting side of a run: dumps, plots, the recorder and
// the exported OptimizationRun.
type runner struct {
	opts      *Options
	logger    logr.Logger
	out       io.Writer
	problem   framework.Problem
	algorithm string

	recorder *report.Recorder
	run      *configv1alpha1.OptimizationRun

	ref    framework.ObjectiveSpacePoint
	volume float64

	steps   []int
	history map[string][]float64
	err     error
}

func newRunner(opts *Options, logger logr.Logger, out io.Writer, problem framework.Problem, algorithm string) (*runner, error) {
	recorder, err := opts.prepare()
	if err != nil {
		return nil, err
	}
	return &runner{
		opts:      opts,
		logger:    logger,
		out:       out,
		problem:   problem,
		algorithm: algorithm,
		recorder:  recorder,
		run:       &configv1alpha1.OptimizationRun{},
		ref:       framework.ReferencePoint(problem.Ranges()),
		volume:    benchmarks.FrontVolume(problem, frontSamples),
		history:   map[string][]float64{},
	}, nil
}

func (r *runner) close() {
	if r.recorder != nil {
		if err := r.recorder.Close(); err != nil {
			r.logger.Error(err, "Closing recorder")
		}
	}
}

func (r *runner) start(spec configv1alpha1.OptimizationRunSpec) error {
	now := metav1.Now()
	r.run.UID = types.UID(uuid.NewString())
	r.run.Name = fmt.Sprintf("%s-%s-%s", spec.Algorithm, spec.Problem, r.run.UID[:8])
	r.run.Spec = spec
	r.run.Status.StartedAt = &now
	r.run.Status.Phase = configv1alpha1.OptimizationRunPhaseRunning

	r.logger.Info("Starting run", "run", r.run.Name, "problem", spec.Problem, "steps", spec.Steps)
	if r.recorder == nil {
		return nil
	}
	return r.recorder.StartRun(r.run)
}

func (r *runner) ratio(hv float64) float64 {
	if r.volume <= 0 {
		return 0
	}
	return hv / r.volume
}

// observe stores a sample. s carries the running maximum hypervolume of
// the algorithm. Failures are kept and reported by finish, the
// run itself goes on.
func (r *runner) observe(s report.Sample, values []framework.ObjectiveSpacePoint) {
	s.RunID = string(r.run.UID)

	r.steps = append(r.steps, s.Step)
	r.history[seriesHypervolume] = append(r.history[seriesHypervolume], s.Hypervolume)
	r.history[seriesMaxHypervolume] = append(r.history[seriesMaxHypervolume], s.MaxHypervolume)
	r.history[seriesRatio] = append(r.history[seriesRatio], s.HypervolumeRatio)

	r.logger.V(2).Info("Sample", "step", s.Step, "population", s.Population, "elites", s.Elites, "hypervolume", s.Hypervolume)

	if r.opts.DumpDir != "" {
		if _, err := util.DumpStep(r.opts.DumpDir, s.Step, values); err != nil {
			r.fail(fmt.Errorf("dumping step %d: %w", s.Step, err))
		}
	}
	if r.recorder != nil {
		if err := r.recorder.RecordSample(s); err != nil {
			r.fail(fmt.Errorf("recording step %d: %w", s.Step, err))
		}
	}
}

func (r *runner) fail(err error) {
	if r.err == nil {
		r.logger.Error(err, "Reporting failed, the run continues")
		r.err = err
	}
}

// finish completes the run with its final solutions. A cancelled run is
// still reported.
func (r *runner) finish(runErr error, solutions []configv1alpha1.OptimizationSolution, evaluations int64) error {
	switch {
	case runErr == nil:
		r.run.Status.Phase = configv1alpha1.OptimizationRunPhaseSucceeded
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		r.logger.Info("Run cancelled", "run", r.run.Name)
		r.run.Status.Phase = configv1alpha1.OptimizationRunPhaseCancelled
	default:
		return runErr
	}

	now := metav1.Now()
	points := make([]framework.ObjectiveSpacePoint, len(solutions))
	for i, s := range solutions {
		points[i] = s.Objectives
	}
	hv := framework.Hypervolume(r.ref, points)
	r.run.Status.CompletedAt = &now
	r.run.Status.Hypervolume = hv
	r.run.Status.HypervolumeRatio = r.ratio(hv)
	r.run.Status.Solutions = solutions

	if r.recorder != nil {
		if err := r.recorder.FinishRun(r.run); err != nil {
			return fmt.Errorf("recording run: %w", err)
		}
	}
	if r.opts.Plot {
		if err := r.plot(points); err != nil {
			return fmt.Errorf("plotting: %w", err)
		}
	}
	if r.opts.Output != "" {
		if err := configv1alpha1.WriteOptimizationRun(r.opts.Output, r.run); err != nil {
			return err
		}
	}

	fmt.Fprintf(r.out, "%s on %s: %s solutions, hypervolume %s", r.algorithm, r.problem.Name(),
		humanize.Comma(int64(len(solutions))), humanize.FtoaWithDigits(hv, 6))
	if r.volume > 0 {
		fmt.Fprintf(r.out, " (%s of the true front)", humanize.FtoaWithDigits(100*r.run.Status.HypervolumeRatio, 2)+"%")
	}
	fmt.Fprintf(r.out, ", %s evaluations in %s\n", humanize.Comma(evaluations),
		now.Sub(r.run.Status.StartedAt.Time).Round(time.Millisecond))

	return r.err
}

func (r *runner) plot(points []framework.ObjectiveSpacePoint) error {
	if len(points) > 0 && len(points[0]) == 2 {
		path, err := util.PlotResults(r.opts.PlotDir, points, r.problem, r.algorithm)
		if err != nil {
			return err
		}
		r.logger.V(2).Info("Wrote plot", "path", path)
	}
	if len(r.steps) == 0 {
		return nil
	}
	path := filepath.Join(r.opts.PlotDir, fmt.Sprintf("%s_%s_hypervolume.html", r.problem.Name(), r.algorithm))
	title := fmt.Sprintf("%s hypervolume on %s", r.algorithm, r.problem.Name())
	return util.PlotSeries(path, title, r.steps, r.history, seriesHypervolume, seriesMaxHypervolume, seriesRatio)
}
