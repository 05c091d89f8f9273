// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package graph

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/NVIDIA/fsmon/pkg/errors"
	"github.com/NVIDIA/fsmon/pkg/measurement"
)

// Spec describes a graph in configuration files.
type Spec struct {
	ID     int         `json:"id" yaml:"id"`
	Stages []StageSpec `json:"stages" yaml:"stages"`
}

// StageSpec describes one stage. Stages are listed top first.
type StageSpec struct {
	Type        string   `json:"type" yaml:"type"`
	Name        string   `json:"name" yaml:"name"`
	MemoryTypes []string `json:"memoryTypes,omitempty" yaml:"memory_types,omitempty"`
}

// Validate checks that every stage and category can be written as a
// snapshot line and read back. Types, names and category labels must not
// contain whitespace; names must not contain '.'; labels must not contain
// ','; neither types nor labels may start with the process memory prefix.
func (s *Spec) Validate() error {
	if s.ID < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("graph id must not be negative: %d", s.ID))
	}
	for i, st := range s.Stages {
		if err := checkToken("type", st.Type); err != nil {
			return stageError(i, err)
		}
		if strings.HasPrefix(st.Type, measurement.ProcessMemoryPrefix) {
			return stageError(i, fmt.Errorf("type %q must not start with %q", st.Type, measurement.ProcessMemoryPrefix))
		}
		if err := checkToken("name", st.Name); err != nil {
			return stageError(i, err)
		}
		if strings.Contains(st.Name, ".") {
			return stageError(i, fmt.Errorf("name %q must not contain '.'", st.Name))
		}
		for _, label := range st.MemoryTypes {
			if err := checkToken("memory type", label); err != nil {
				return stageError(i, err)
			}
			if strings.ContainsRune(label, ',') {
				return stageError(i, fmt.Errorf("memory type %q must not contain ','", label))
			}
			if strings.HasPrefix(label, measurement.ProcessMemoryPrefix) {
				return stageError(i, fmt.Errorf("memory type %q must not start with %q", label, measurement.ProcessMemoryPrefix))
			}
		}
	}
	return nil
}

func checkToken(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	if strings.IndexFunc(v, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%s %q must not contain whitespace", field, v)
	}
	return nil
}

func stageError(i int, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("stage %d", i), err)
}

// FromSpec builds a graph from its description.
func FromSpec(spec *Spec) (*Graph, error) {
	if spec == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "graph spec is nil")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	stages := make([]*Stage, 0, len(spec.Stages))
	for _, st := range spec.Stages {
		stages = append(stages, NewStage(st.Type, st.Name, st.MemoryTypes...))
	}

	g, err := New(spec.ID, stages...)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph %d: %w", spec.ID, err)
	}
	return g, nil
}
