/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// EMASArgs holds arguments used to configure an evolutionary multi-agent
// system run. Unset fields are filled from the named parameter set.
type EMASArgs struct {
	metav1.TypeMeta `json:",inline"`

	// ParameterSet names the parameter set used for defaulting.
	// Defaults to "newer_from_sga".
	ParameterSet string `json:"parameterSet,omitempty"`

	// WorldSize is the number of ordinary islands
	WorldSize *int32 `json:"worldSize,omitempty"`
	// PopulationSize is the number of agents seeded on every ordinary island
	PopulationSize *int32 `json:"populationSize,omitempty"`
	// InitEnergy is the energy of every newly created agent
	InitEnergy *float64 `json:"initEnergy,omitempty"`
	// FightTransfer is the energy the loser of an encounter pays the winner
	FightTransfer *float64 `json:"fightTransfer,omitempty"`
	// TravelThreshold is the energy an agent must keep after paying for travel
	TravelThreshold *float64 `json:"travelThreshold,omitempty"`
	// TravelCost is the cost of an edge between two islands of the same tier
	TravelCost *float64 `json:"travelCost,omitempty"`
	// ReproductionThreshold is the energy needed to mate
	ReproductionThreshold *float64 `json:"reproductionThreshold,omitempty"`
	// DeathThreshold is the energy below which an ordinary agent dies
	DeathThreshold *float64 `json:"deathThreshold,omitempty"`
	// MutationProbability is the per component mutation probability
	MutationProbability *float64 `json:"mutationProbability,omitempty"`
	// MutationScale is the largest mutation step as a fraction of the bounds width
	MutationScale *float64 `json:"mutationScale,omitempty"`

	// EliteThreshold is the number of won encounters after which an agent
	// may be promoted to an elite island
	EliteThreshold *int32 `json:"eliteThreshold,omitempty"`
	// EliteIslands is the number of elite islands, 0 disables elitism
	EliteIslands *int32 `json:"eliteIslands,omitempty"`
	// EliteTravelCost is the cost of an edge between an ordinary and an elite island
	EliteTravelCost *float64 `json:"eliteTravelCost,omitempty"`
	// EliteBidirectional adds edges from elite islands back to ordinary ones
	EliteBidirectional *bool `json:"eliteBidirectional,omitempty"`
	// ProximityEpsilon is the objective space distance below which an
	// encounter counts as a close one
	ProximityEpsilon *float64 `json:"proximityEpsilon,omitempty"`

	// MigrationFirstProbability is the chance that an agent tries to migrate
	// before it tries to reproduce
	MigrationFirstProbability *float64 `json:"migrationFirstProbability,omitempty"`
	// EncounterAttempts caps the number of rejected encounter offers per step
	EncounterAttempts *int32 `json:"encounterAttempts,omitempty"`
	// ParentSubsidy is the share of the child energy paid by the stronger parent
	ParentSubsidy *float64 `json:"parentSubsidy,omitempty"`

	// Seed of the random source, 0 seeds from the clock
	Seed *uint64 `json:"seed,omitempty"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// NSGA2Args holds arguments used to configure the NSGA-II algorithm
type NSGA2Args struct {
	metav1.TypeMeta `json:",inline"`

	// PopulationSize is the size of every generation
	PopulationSize *int32 `json:"populationSize,omitempty"`
	// MaxGenerations is the number of generations to run
	MaxGenerations *int32 `json:"maxGenerations,omitempty"`
	// CrossoverProbability is the chance that a selected pair is recombined
	CrossoverProbability *float64 `json:"crossoverProbability,omitempty"`
	// MutationProbability is the per component mutation probability
	MutationProbability *float64 `json:"mutationProbability,omitempty"`
	// MutationScale is the largest mutation step as a fraction of the bounds width
	MutationScale *float64 `json:"mutationScale,omitempty"`
	// SelectionPressure is the chance that the better tournament contestant wins
	SelectionPressure *float64 `json:"selectionPressure,omitempty"`
	// Crossover names the recombination operator, "interpolate" or "sbx"
	Crossover string `json:"crossover,omitempty"`

	// Seed of the random source, 0 seeds from the clock
	Seed *uint64 `json:"seed,omitempty"`
}

// OptimizationRun is the exported result of a finished run
type OptimizationRun struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   OptimizationRunSpec   `json:"spec,omitempty"`
	Status OptimizationRunStatus `json:"status,omitempty"`
}

// OptimizationRunSpec describes what was optimised and how
type OptimizationRunSpec struct {
	// Problem is the registered benchmark problem name
	Problem string `json:"problem"`

	// Algorithm is either "emas" or "nsga2"
	Algorithm string `json:"algorithm"`

	// Steps is the number of simulation steps or generations
	Steps int `json:"steps"`

	// EMAS holds the effective EMAS arguments, if the run used EMAS
	EMAS *EMASArgs `json:"emas,omitempty"`

	// NSGA2 holds the effective NSGA-II arguments, if the run used NSGA-II
	NSGA2 *NSGA2Args `json:"nsga2,omitempty"`
}

// OptimizationRunStatus holds the observed outcome of a run
type OptimizationRunStatus struct {
	// Phase represents the current phase of the run
	// +kubebuilder:validation:Enum=Running;Succeeded;Cancelled
	Phase OptimizationRunPhase `json:"phase,omitempty"`

	// StartedAt is when the first step ran
	StartedAt *metav1.Time `json:"startedAt,omitempty"`

	// CompletedAt is when the last step finished
	CompletedAt *metav1.Time `json:"completedAt,omitempty"`

	// Hypervolume of the final non-dominated set
	Hypervolume float64 `json:"hypervolume"`

	// HypervolumeRatio relates Hypervolume to the volume of the true front
	HypervolumeRatio float64 `json:"hypervolumeRatio,omitempty"`

	// Solutions is the final non-dominated set
	Solutions []OptimizationSolution `json:"solutions"`
}

// OptimizationRunPhase represents the phase of a run
type OptimizationRunPhase string

const (
	// OptimizationRunPhaseRunning indicates the run is still stepping
	OptimizationRunPhaseRunning OptimizationRunPhase = "Running"

	// OptimizationRunPhaseSucceeded indicates all steps were executed
	OptimizationRunPhaseSucceeded OptimizationRunPhase = "Succeeded"

	// OptimizationRunPhaseCancelled indicates the run stopped early
	OptimizationRunPhaseCancelled OptimizationRunPhase = "Cancelled"
)

// OptimizationSolution represents a single solution from multi-objective optimization
type OptimizationSolution struct {
	// Rank is the solution rank in Pareto front (0 = best)
	Rank int `json:"rank"`

	// Variables is the decision vector
	Variables []float64 `json:"variables"`

	// Objectives contains the individual objective values
	Objectives []float64 `json:"objectives"`

	// Energy is the agent energy, EMAS only
	Energy float64 `json:"energy,omitempty"`

	// Elite is set for agents living on an elite island
	Elite bool `json:"elite,omitempty"`
}
