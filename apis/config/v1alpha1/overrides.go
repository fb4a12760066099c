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
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"k8s.io/utils/ptr"
)

type override func(args *EMASArgs, v float64) error

func setFloat(field func(*EMASArgs) **float64) override {
	return func(args *EMASArgs, v float64) error {
		*field(args) = ptr.To(v)
		return nil
	}
}

func setInt(field func(*EMASArgs) **int32) override {
	return func(args *EMASArgs, v float64) error {
		if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
			return fmt.Errorf("%v is not an integer", v)
		}
		*field(args) = ptr.To(int32(v))
		return nil
	}
}

var overrides = map[string]override{
	"world_size":                  setInt(func(a *EMASArgs) **int32 { return &a.WorldSize }),
	"population_size":             setInt(func(a *EMASArgs) **int32 { return &a.PopulationSize }),
	"init_energy":                 setFloat(func(a *EMASArgs) **float64 { return &a.InitEnergy }),
	"fight_transfer":              setFloat(func(a *EMASArgs) **float64 { return &a.FightTransfer }),
	"travel_threshold":            setFloat(func(a *EMASArgs) **float64 { return &a.TravelThreshold }),
	"travel_cost":                 setFloat(func(a *EMASArgs) **float64 { return &a.TravelCost }),
	"reproduction_threshold":      setFloat(func(a *EMASArgs) **float64 { return &a.ReproductionThreshold }),
	"death_threshold":             setFloat(func(a *EMASArgs) **float64 { return &a.DeathThreshold }),
	"mutation_probability":        setFloat(func(a *EMASArgs) **float64 { return &a.MutationProbability }),
	"mutation_scale":              setFloat(func(a *EMASArgs) **float64 { return &a.MutationScale }),
	"elite_threshold":             setInt(func(a *EMASArgs) **int32 { return &a.EliteThreshold }),
	"elite_islands":               setInt(func(a *EMASArgs) **int32 { return &a.EliteIslands }),
	"elite_travel_cost":           setFloat(func(a *EMASArgs) **float64 { return &a.EliteTravelCost }),
	"proximity_epsilon":           setFloat(func(a *EMASArgs) **float64 { return &a.ProximityEpsilon }),
	"migration_first_probability": setFloat(func(a *EMASArgs) **float64 { return &a.MigrationFirstProbability }),
	"encounter_attempts":          setInt(func(a *EMASArgs) **int32 { return &a.EncounterAttempts }),
	"parent_subsidy":              setFloat(func(a *EMASArgs) **float64 { return &a.ParentSubsidy }),
	"elite_bidirectional": func(a *EMASArgs, v float64) error {
		a.EliteBidirectional = ptr.To(v != 0)
		return nil
	},
	"seed": func(a *EMASArgs, v float64) error {
		if v < 0 || v != math.Trunc(v) {
			return fmt.Errorf("%v is not a valid seed", v)
		}
		a.Seed = ptr.To(uint64(v))
		return nil
	},
}

// OverrideKeys returns the keys accepted by ApplyOverrides.
func OverrideKeys() []string {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApplyOverrides sets the fields named by snake_case keys, e.g.
// {"world_size": 3, "travel_cost": 0.1}. Unknown keys are an error.
func ApplyOverrides(args *EMASArgs, values map[string]float64) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		set, ok := overrides[k]
		if !ok {
			return fmt.Errorf("unknown parameter %q", k)
		}
		if err := set(args, values[k]); err != nil {
			return fmt.Errorf("parameter %q: %w", k, err)
		}
	}
	return nil
}

// ParseOverrides parses key=value pairs as given on the command line.
func ParseOverrides(pairs []string) (map[string]float64, error) {
	values := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed override %q, expected key=value", pair)
		}
		k = strings.TrimSpace(k)
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			values[k] = 1
			continue
		case "false":
			values[k] = 0
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("override %q: %w", pair, err)
		}
		values[k] = f
	}
	return values, nil
}
