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
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// ValidateEMASArgs validates defaulted EMAS arguments.
func ValidateEMASArgs(path *field.Path, args *EMASArgs) error {
	var allErrs field.ErrorList

	if _, ok := parameterSets[args.ParameterSet]; !ok {
		allErrs = append(allErrs, field.NotSupported(path.Child("parameterSet"), args.ParameterSet, ParameterSetNames()))
	}

	allErrs = append(allErrs, validatePositiveInt(path.Child("worldSize"), args.WorldSize)...)
	allErrs = append(allErrs, validatePositiveInt(path.Child("populationSize"), args.PopulationSize)...)
	allErrs = append(allErrs, validatePositiveInt(path.Child("encounterAttempts"), args.EncounterAttempts)...)
	allErrs = append(allErrs, validateNonNegativeInt(path.Child("eliteThreshold"), args.EliteThreshold)...)
	allErrs = append(allErrs, validateNonNegativeInt(path.Child("eliteIslands"), args.EliteIslands)...)

	allErrs = append(allErrs, validatePositive(path.Child("initEnergy"), args.InitEnergy)...)
	allErrs = append(allErrs, validateNonNegative(path.Child("fightTransfer"), args.FightTransfer)...)
	allErrs = append(allErrs, validateNonNegative(path.Child("travelThreshold"), args.TravelThreshold)...)
	allErrs = append(allErrs, validateNonNegative(path.Child("travelCost"), args.TravelCost)...)
	allErrs = append(allErrs, validateNonNegative(path.Child("reproductionThreshold"), args.ReproductionThreshold)...)
	allErrs = append(allErrs, validateNonNegative(path.Child("deathThreshold"), args.DeathThreshold)...)
	allErrs = append(allErrs, validateNonNegative(path.Child("eliteTravelCost"), args.EliteTravelCost)...)
	allErrs = append(allErrs, validateNonNegative(path.Child("proximityEpsilon"), args.ProximityEpsilon)...)
	allErrs = append(allErrs, validateFraction(path.Child("mutationProbability"), args.MutationProbability)...)
	allErrs = append(allErrs, validateFraction(path.Child("mutationScale"), args.MutationScale)...)
	allErrs = append(allErrs, validateFraction(path.Child("migrationFirstProbability"), args.MigrationFirstProbability)...)
	allErrs = append(allErrs, validateFraction(path.Child("parentSubsidy"), args.ParentSubsidy)...)
	if args.EliteBidirectional == nil {
		allErrs = append(allErrs, field.Required(path.Child("eliteBidirectional"), ""))
	}
	if args.Seed == nil {
		allErrs = append(allErrs, field.Required(path.Child("seed"), ""))
	}

	if len(allErrs) == 0 {
		return nil
	}
	return allErrs.ToAggregate()
}

// ValidateNSGA2Args validates defaulted NSGA-II arguments.
func ValidateNSGA2Args(path *field.Path, args *NSGA2Args) error {
	var allErrs field.ErrorList

	allErrs = append(allErrs, validatePositiveInt(path.Child("populationSize"), args.PopulationSize)...)
	allErrs = append(allErrs, validateNonNegativeInt(path.Child("maxGenerations"), args.MaxGenerations)...)
	allErrs = append(allErrs, validateFraction(path.Child("crossoverProbability"), args.CrossoverProbability)...)
	allErrs = append(allErrs, validateFraction(path.Child("mutationProbability"), args.MutationProbability)...)
	allErrs = append(allErrs, validateFraction(path.Child("mutationScale"), args.MutationScale)...)
	allErrs = append(allErrs, validateFraction(path.Child("selectionPressure"), args.SelectionPressure)...)
	if args.Crossover != CrossoverInterpolate && args.Crossover != CrossoverSBX {
		allErrs = append(allErrs, field.NotSupported(path.Child("crossover"), args.Crossover, []string{CrossoverInterpolate, CrossoverSBX}))
	}
	if args.Seed == nil {
		allErrs = append(allErrs, field.Required(path.Child("seed"), ""))
	}

	if len(allErrs) == 0 {
		return nil
	}
	return allErrs.ToAggregate()
}

func validatePositiveInt(path *field.Path, v *int32) field.ErrorList {
	if v == nil {
		return field.ErrorList{field.Required(path, "")}
	}
	if *v <= 0 {
		return field.ErrorList{field.Invalid(path, *v, "must be greater than 0")}
	}
	return nil
}

func validateNonNegativeInt(path *field.Path, v *int32) field.ErrorList {
	if v == nil {
		return field.ErrorList{field.Required(path, "")}
	}
	if *v < 0 {
		return field.ErrorList{field.Invalid(path, *v, "must not be negative")}
	}
	return nil
}

func validatePositive(path *field.Path, v *float64) field.ErrorList {
	if v == nil {
		return field.ErrorList{field.Required(path, "")}
	}
	if !(*v > 0) {
		return field.ErrorList{field.Invalid(path, *v, "must be greater than 0")}
	}
	return nil
}

func validateNonNegative(path *field.Path, v *float64) field.ErrorList {
	if v == nil {
		return field.ErrorList{field.Required(path, "")}
	}
	if !(*v >= 0) {
		return field.ErrorList{field.Invalid(path, *v, "must not be negative")}
	}
	return nil
}

func validateFraction(path *field.Path, v *float64) field.ErrorList {
	if v == nil {
		return field.ErrorList{field.Required(path, "")}
	}
	if !(*v >= 0 && *v <= 1) {
		return field.ErrorList{field.Invalid(path, *v, "must be in the range [0, 1]")}
	}
	return nil
}
