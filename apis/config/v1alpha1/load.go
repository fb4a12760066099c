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
	"os"

	"sigs.k8s.io/yaml"
)

const (
	GroupVersion = "moea.intob.io/v1alpha1"

	KindEMASArgs        = "EMASArgs"
	KindNSGA2Args       = "NSGA2Args"
	KindOptimizationRun = "OptimizationRun"
)

// LoadEMASArgs reads EMAS arguments from a YAML or JSON file. An empty path
// yields empty arguments. The result is not defaulted.
func LoadEMASArgs(path string) (*EMASArgs, error) {
	args := &EMASArgs{}
	if err := load(path, args); err != nil {
		return nil, err
	}
	return args, nil
}

// LoadNSGA2Args reads NSGA-II arguments from a YAML or JSON file.
func LoadNSGA2Args(path string) (*NSGA2Args, error) {
	args := &NSGA2Args{}
	if err := load(path, args); err != nil {
		return nil, err
	}
	return args, nil
}

func load(path string, into any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, into); err != nil {
		return fmt.Errorf("decoding config %s: %w", path, err)
	}
	return nil
}

// WriteOptimizationRun stores run as YAML.
func WriteOptimizationRun(path string, run *OptimizationRun) error {
	run.APIVersion = GroupVersion
	run.Kind = KindOptimizationRun
	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("encoding run: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
