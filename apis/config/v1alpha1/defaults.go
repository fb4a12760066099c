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
	"sort"

	"k8s.io/utils/ptr"
)

// DefaultParameterSet is used when EMASArgs names no parameter set.
const DefaultParameterSet = "newer_from_sga"

const (
	CrossoverInterpolate = "interpolate"
	CrossoverSBX         = "sbx"
)

var (
	defaultEliteThreshold            int32  = 5
	defaultEliteIslands              int32  = 1
	defaultEliteTravelCost                  = 0.1
	defaultEliteBidirectional               = false
	defaultProximityEpsilon                 = 0.01
	defaultMigrationFirstProbability        = 0.5
	defaultMutationScale                    = 0.1
	defaultEncounterAttempts         int32  = 10
	defaultParentSubsidy                    = 0.25
	defaultSeed                      uint64 = 0
	defaultNSGA2PopulationSize       int32  = 100
	defaultNSGA2MaxGenerations       int32  = 250
	defaultNSGA2CrossoverProbability        = 0.8
	defaultNSGA2MutationProbability         = 0.1
	defaultNSGA2SelectionPressure           = 0.9
)

// parameterSet carries the core EMAS parameters tuned together.
type parameterSet struct {
	worldSize             int32
	populationSize        int32
	initEnergy            float64
	fightTransfer         float64
	travelThreshold       float64
	travelCost            float64
	reproductionThreshold float64
	deathThreshold        float64
	mutationProbability   float64
}

var parameterSets = map[string]parameterSet{
	"mine": {
		worldSize:             5,
		populationSize:        100,
		initEnergy:            0.5,
		fightTransfer:         0.2,
		travelThreshold:       0.7,
		travelCost:            0.2,
		reproductionThreshold: 0.8,
		deathThreshold:        0.1,
		mutationProbability:   0.2,
	},
	"good_ones": {
		worldSize:             5,
		populationSize:        78,
		initEnergy:            0.461563571216,
		fightTransfer:         0.418199184707,
		travelThreshold:       0.192726328329,
		travelCost:            0.586091450093,
		reproductionThreshold: 0.659341936698,
		deathThreshold:        0.0510825638621,
		mutationProbability:   0.197766113987,
	},
	"new_from_sga": {
		worldSize:             4,
		populationSize:        99,
		initEnergy:            0.381605282857,
		fightTransfer:         0.760917133866,
		travelThreshold:       0.902169387786,
		travelCost:            0.691950681863,
		reproductionThreshold: 0.448027668345,
		deathThreshold:        0.0104923669029,
		mutationProbability:   0.164786736878,
	},
	"newer_from_sga": {
		worldSize:             5,
		populationSize:        100,
		initEnergy:            0.6582972962284862,
		fightTransfer:         0.8506909219471624,
		travelThreshold:       0.70666813463901,
		travelCost:            0.007917409195341008,
		reproductionThreshold: 0.9459264151196187,
		deathThreshold:        0.29038738847811035,
		mutationProbability:   0.33377661064522995,
	},
}

// ParameterSetNames returns the names of the known parameter sets.
func ParameterSetNames() []string {
	names := make([]string, 0, len(parameterSets))
	for name := range parameterSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetDefaults_EMASArgs sets the default parameters for an EMAS run.
// Fields from an unknown parameter set are left unset, validation reports them.
func SetDefaults_EMASArgs(obj *EMASArgs) {
	if obj.ParameterSet == "" {
		obj.ParameterSet = DefaultParameterSet
	}
	if set, ok := parameterSets[obj.ParameterSet]; ok {
		if obj.WorldSize == nil {
			obj.WorldSize = ptr.To(set.worldSize)
		}
		if obj.PopulationSize == nil {
			obj.PopulationSize = ptr.To(set.populationSize)
		}
		if obj.InitEnergy == nil {
			obj.InitEnergy = ptr.To(set.initEnergy)
		}
		if obj.FightTransfer == nil {
			obj.FightTransfer = ptr.To(set.fightTransfer)
		}
		if obj.TravelThreshold == nil {
			obj.TravelThreshold = ptr.To(set.travelThreshold)
		}
		if obj.TravelCost == nil {
			obj.TravelCost = ptr.To(set.travelCost)
		}
		if obj.ReproductionThreshold == nil {
			obj.ReproductionThreshold = ptr.To(set.reproductionThreshold)
		}
		if obj.DeathThreshold == nil {
			obj.DeathThreshold = ptr.To(set.deathThreshold)
		}
		if obj.MutationProbability == nil {
			obj.MutationProbability = ptr.To(set.mutationProbability)
		}
	}

	if obj.MutationScale == nil {
		obj.MutationScale = ptr.To(defaultMutationScale)
	}
	if obj.EliteThreshold == nil {
		obj.EliteThreshold = ptr.To(defaultEliteThreshold)
	}
	if obj.EliteIslands == nil {
		obj.EliteIslands = ptr.To(defaultEliteIslands)
	}
	if obj.EliteTravelCost == nil {
		obj.EliteTravelCost = ptr.To(defaultEliteTravelCost)
	}
	if obj.EliteBidirectional == nil {
		obj.EliteBidirectional = ptr.To(defaultEliteBidirectional)
	}
	if obj.ProximityEpsilon == nil {
		obj.ProximityEpsilon = ptr.To(defaultProximityEpsilon)
	}
	if obj.MigrationFirstProbability == nil {
		obj.MigrationFirstProbability = ptr.To(defaultMigrationFirstProbability)
	}
	if obj.EncounterAttempts == nil {
		obj.EncounterAttempts = ptr.To(defaultEncounterAttempts)
	}
	if obj.ParentSubsidy == nil {
		obj.ParentSubsidy = ptr.To(defaultParentSubsidy)
	}
	if obj.Seed == nil {
		obj.Seed = ptr.To(defaultSeed)
	}
}

// SetDefaults_NSGA2Args sets the default parameters for NSGA-II.
func SetDefaults_NSGA2Args(obj *NSGA2Args) {
	if obj.PopulationSize == nil {
		obj.PopulationSize = ptr.To(defaultNSGA2PopulationSize)
	}
	if obj.MaxGenerations == nil {
		obj.MaxGenerations = ptr.To(defaultNSGA2MaxGenerations)
	}
	if obj.CrossoverProbability == nil {
		obj.CrossoverProbability = ptr.To(defaultNSGA2CrossoverProbability)
	}
	if obj.MutationProbability == nil {
		obj.MutationProbability = ptr.To(defaultNSGA2MutationProbability)
	}
	if obj.MutationScale == nil {
		obj.MutationScale = ptr.To(defaultMutationScale)
	}
	if obj.SelectionPressure == nil {
		obj.SelectionPressure = ptr.To(defaultNSGA2SelectionPressure)
	}
	if obj.Crossover == "" {
		obj.Crossover = CrossoverSBX
	}
	if obj.Seed == nil {
		obj.Seed = ptr.To(defaultSeed)
	}
}
