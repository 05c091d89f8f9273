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
	"iter"

	"github.com/NVIDIA/fsmon/pkg/errors"
	"github.com/NVIDIA/fsmon/pkg/fop"
	"github.com/NVIDIA/fsmon/pkg/memacct"
)

const noStage = -1

// Stage is one unit of the request pipeline.
type Stage struct {
	// Type is the stage implementation, e.g. "performance/io-cache".
	Type string

	// Name is the instance name, unique within a graph.
	Name string

	// MemAcct is the stage's memory accounting record. Nil when accounting
	// is disabled for the stage.
	MemAcct *memacct.Record

	// Metrics holds the per-request-kind counters.
	Metrics *fop.Table

	graph *Graph
	next  int
}

// NewStage returns a detached stage. A memory accounting record is created
// only when memTypes is non-empty.
func NewStage(typ, name string, memTypes ...string) *Stage {
	s := &Stage{
		Type:    typ,
		Name:    name,
		Metrics: fop.NewTable(),
		next:    noStage,
	}
	if len(memTypes) > 0 {
		s.MemAcct = memacct.NewRecord(memTypes...)
	}
	return s
}

// Graph returns the owning graph, or nil for a detached stage.
func (s *Stage) Graph() *Graph {
	return s.graph
}

// GraphID returns the owning graph's id, or 0 for a detached stage.
func (s *Stage) GraphID() int {
	if s.graph == nil {
		return 0
	}
	return s.graph.id
}

// Graph is an ordered, immutable composition of stages. The order is fixed
// at construction, so every walk of the same graph yields the same sequence.
type Graph struct {
	id     int
	stages []*Stage
	top    int
}

// New builds a graph from stages given top first. Each stage may belong to
// only one graph and names must be unique.
func New(id int, stages ...*Stage) (*Graph, error) {
	g := &Graph{
		id:     id,
		stages: make([]*Stage, 0, len(stages)),
		top:    noStage,
	}

	seen := make(map[string]struct{}, len(stages))
	for i, s := range stages {
		if s == nil {
			return nil, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("stage %d is nil", i))
		}
		if s.graph != nil {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"stage already belongs to a graph", map[string]any{"stage": s.Name})
		}
		if _, dup := seen[s.Name]; dup {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"duplicate stage name", map[string]any{"stage": s.Name})
		}
		seen[s.Name] = struct{}{}
		g.stages = append(g.stages, s)
	}

	for i, s := range g.stages {
		s.graph = g
		s.next = i + 1
		if s.next == len(g.stages) {
			s.next = noStage
		}
	}
	if len(g.stages) > 0 {
		g.top = 0
	}
	return g, nil
}

// ID returns the graph identifier.
func (g *Graph) ID() int {
	return g.id
}

// Len returns the number of stages.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.stages)
}

// Top returns the first stage, or nil when the graph is empty or nil.
func (g *Graph) Top() *Stage {
	if g == nil || g.top == noStage {
		return nil
	}
	return g.stages[g.top]
}

// Next returns the stage after s, or nil at the end.
func (g *Graph) Next(s *Stage) *Stage {
	if g == nil || s == nil || s.graph != g || s.next == noStage {
		return nil
	}
	return g.stages[s.next]
}

// Lookup returns the stage with the given name.
func (g *Graph) Lookup(name string) (*Stage, bool) {
	for s := range g.Walk() {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Walk yields every stage from the top, following the next relation until
// it is absent. The sequence is restartable and safe on a nil graph.
func (g *Graph) Walk() iter.Seq[*Stage] {
	return func(yield func(*Stage) bool) {
		if g == nil {
			return
		}
		// Bounded by the stage count, so a walk always terminates.
		s := g.Top()
		for n := 0; s != nil && n < len(g.stages); n++ {
			if !yield(s) {
				return
			}
			s = g.Next(s)
		}
	}
}
