// Package report stores optimisation runs, their per-step samples and
// final solutions in SQLite.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"k8s.io/apimachinery/pkg/types"
	_ "modernc.org/sqlite"

	configv1alpha1 "github.com/intob/moea/apis/config/v1alpha1"
)

// Recorder wraps a SQLite connection holding run history.
type Recorder struct {
	conn *sqlx.DB
}

// Sample is one row of a run's time series.
type Sample struct {
	RunID            string  `db:"run_id"`
	Step             int     `db:"step"`
	Population       int     `db:"population"`
	Elites           int     `db:"elites"`
	Energy           float64 `db:"energy"`
	FreeEnergy       float64 `db:"free_energy"`
	Reproductions    float64 `db:"reproductions"`
	Deaths           float64 `db:"deaths"`
	Encounters       float64 `db:"encounters"`
	Hypervolume      float64 `db:"hypervolume"`
	MaxHypervolume   float64 `db:"max_hypervolume"`
	HypervolumeRatio float64 `db:"hypervolume_ratio"`
}

// Run is the summary row of a recorded run.
type Run struct {
	ID               string  `db:"id"`
	Name             string  `db:"name"`
	Problem          string  `db:"problem"`
	Algorithm        string  `db:"algorithm"`
	Steps            int     `db:"steps"`
	Phase            string  `db:"phase"`
	StartedAt        int64   `db:"started_at"`
	CompletedAt      int64   `db:"completed_at"`
	Hypervolume      float64 `db:"hypervolume"`
	HypervolumeRatio float64 `db:"hypervolume_ratio"`
	Spec             string  `db:"spec"`
}

type solutionRow struct {
	Rank       int     `db:"rank"`
	Variables  string  `db:"variables"`
	Objectives string  `db:"objectives"`
	Energy     float64 `db:"energy"`
	Elite      bool    `db:"elite"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Recorder, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	r := &Recorder{conn: conn}
	if err := r.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return r, nil
}

// Close closes the database connection.
func (r *Recorder) Close() error {
	return r.conn.Close()
}

func (r *Recorder) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		problem TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		steps INTEGER NOT NULL,
		phase TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		completed_at INTEGER NOT NULL DEFAULT 0,
		hypervolume REAL NOT NULL DEFAULT 0,
		hypervolume_ratio REAL NOT NULL DEFAULT 0,
		spec TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		population INTEGER NOT NULL,
		elites INTEGER NOT NULL,
		energy REAL NOT NULL,
		free_energy REAL NOT NULL,
		reproductions REAL NOT NULL,
		deaths REAL NOT NULL,
		encounters REAL NOT NULL,
		hypervolume REAL NOT NULL,
		max_hypervolume REAL NOT NULL,
		hypervolume_ratio REAL NOT NULL,
		PRIMARY KEY (run_id, step)
	);

	CREATE TABLE IF NOT EXISTS solutions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		rank INTEGER NOT NULL,
		variables TEXT NOT NULL,
		objectives TEXT NOT NULL,
		energy REAL NOT NULL,
		elite INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_solutions_run ON solutions(run_id);
	`
	_, err := r.conn.Exec(schema)
	return err
}

// StartRun inserts a run in the Running phase. A run without a UID is
// assigned a fresh one.
func (r *Recorder) StartRun(run *configv1alpha1.OptimizationRun) error {
	if run.UID == "" {
		run.UID = types.UID(uuid.NewString())
	}
	if run.Name == "" {
		run.Name = fmt.Sprintf("%s-%s", run.Spec.Problem, run.UID)
	}
	run.Status.Phase = configv1alpha1.OptimizationRunPhaseRunning

	spec, err := json.Marshal(run.Spec)
	if err != nil {
		return err
	}
	started := time.Now()
	if run.Status.StartedAt != nil {
		started = run.Status.StartedAt.Time
	}

	_, err = r.conn.Exec(`INSERT INTO runs
		(id, name, problem, algorithm, steps, phase, started_at, spec)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(run.UID), run.Name, run.Spec.Problem, run.Spec.Algorithm, run.Spec.Steps,
		string(run.Status.Phase), started.UnixNano(), string(spec))
	return err
}

// RecordSample appends a time series row.
func (r *Recorder) RecordSample(s Sample) error {
	_, err := r.conn.NamedExec(`INSERT OR REPLACE INTO samples
		(run_id, step, population, elites, energy, free_energy, reproductions, deaths,
		 encounters, hypervolume, max_hypervolume, hypervolume_ratio)
		VALUES (:run_id, :step, :population, :elites, :energy, :free_energy, :reproductions,
		 :deaths, :encounters, :hypervolume, :max_hypervolume, :hypervolume_ratio)`, s)
	return err
}

// FinishRun stores the final status and replaces the run's solutions.
func (r *Recorder) FinishRun(run *configv1alpha1.OptimizationRun) error {
	tx, err := r.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	completed := time.Now()
	if run.Status.CompletedAt != nil {
		completed = run.Status.CompletedAt.Time
	}
	res, err := tx.Exec(`UPDATE runs SET phase = ?, completed_at = ?, hypervolume = ?, hypervolume_ratio = ?
		WHERE id = ?`,
		string(run.Status.Phase), completed.UnixNano(), run.Status.Hypervolume, run.Status.HypervolumeRatio,
		string(run.UID))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %q was not started", run.UID)
	}

	if _, err := tx.Exec("DELETE FROM solutions WHERE run_id = ?", string(run.UID)); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO solutions
		(run_id, rank, variables, objectives, energy, elite)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range run.Status.Solutions {
		variables, _ := json.Marshal(s.Variables)
		objectives, _ := json.Marshal(s.Objectives)
		if _, err := stmt.Exec(string(run.UID), s.Rank, string(variables), string(objectives), s.Energy, s.Elite); err != nil {
			return fmt.Errorf("insert solution: %w", err)
		}
	}

	return tx.Commit()
}

// Runs lists recorded runs, newest first.
func (r *Recorder) Runs() ([]Run, error) {
	var runs []Run
	err := r.conn.Select(&runs,
		`SELECT id, name, problem, algorithm, steps, phase, started_at, completed_at,
		 hypervolume, hypervolume_ratio, spec FROM runs ORDER BY started_at DESC`)
	return runs, err
}

// Samples returns the time series of a run ordered by step.
func (r *Recorder) Samples(runID string) ([]Sample, error) {
	var samples []Sample
	err := r.conn.Select(&samples,
		`SELECT run_id, step, population, elites, energy, free_energy, reproductions, deaths,
		 encounters, hypervolume, max_hypervolume, hypervolume_ratio FROM samples WHERE run_id = ? ORDER BY step`,
		runID,
	)
	return samples, err
}

// Solutions returns the final solutions of a run.
func (r *Recorder) Solutions(runID string) ([]configv1alpha1.OptimizationSolution, error) {
	var rows []solutionRow
	err := r.conn.Select(&rows,
		"SELECT rank, variables, objectives, energy, elite FROM solutions WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, err
	}

	solutions := make([]configv1alpha1.OptimizationSolution, len(rows))
	for i, row := range rows {
		s := configv1alpha1.OptimizationSolution{Rank: row.Rank, Energy: row.Energy, Elite: row.Elite}
		if err := json.Unmarshal([]byte(row.Variables), &s.Variables); err != nil {
			return nil, fmt.Errorf("decode variables: %w", err)
		}
		if err := json.Unmarshal([]byte(row.Objectives), &s.Objectives); err != nil {
			return nil, fmt.Errorf("decode objectives: %w", err)
		}
		solutions[i] = s
	}
	return solutions, nil
}
