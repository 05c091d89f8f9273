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

package measurement

// Snapshot is the parsed content of one snapshot file.
type Snapshot struct {
	// Cmdline is the command line of the process that wrote the file.
	Cmdline string `json:"cmdline" yaml:"cmdline"`

	// Memory is nil when the process memory section was disabled.
	Memory *ProcessMemory `json:"memory,omitempty" yaml:"memory,omitempty"`

	// Stages lists the stages that carried a memory accounting record.
	Stages []StageMemory `json:"stages" yaml:"stages"`

	Stacks CallStacks `json:"stacks" yaml:"stacks"`

	// Operations lists every reported (stage, graph, op) triple in file order.
	Operations []Operation `json:"operations" yaml:"operations"`
}

// ProcessMemory holds the process-wide allocator counters.
type ProcessMemory struct {
	Calloc  uint64   `json:"calloc" yaml:"calloc"`
	Malloc  uint64   `json:"malloc" yaml:"malloc"`
	Realloc uint64   `json:"realloc" yaml:"realloc"`
	Free    uint64   `json:"free" yaml:"free"`
	InUse   uint64   `json:"inUse" yaml:"in-use"`
	Blocks  []uint64 `json:"blockSizes" yaml:"blk_size"`
}

// StageMemory is the memory accounting block of one stage.
type StageMemory struct {
	Type       string     `json:"type" yaml:"type"`
	Name       string     `json:"name" yaml:"name"`
	NumTypes   int        `json:"numTypes" yaml:"num_types"`
	Categories []Category `json:"categories" yaml:"categories"`
}

// Category is one reported allocation category.
type Category struct {
	Label       string `json:"type" yaml:"type"`
	Size        uint64 `json:"inUseSize" yaml:"in-use-size"`
	Units       uint64 `json:"inUseUnits" yaml:"in-use-units"`
	MaxSize     uint64 `json:"maxSize" yaml:"max-size"`
	MaxUnits    uint64 `json:"maxUnits" yaml:"max-units"`
	TotalAllocs uint64 `json:"totalAllocs" yaml:"total-allocs"`
}

// CallStacks holds the call-frame pool counters.
type CallStacks struct {
	Total    uint64 `json:"total" yaml:"total"`
	InFlight uint64 `json:"inFlight" yaml:"in-flight"`
}

// Operation gathers the lines reported for one request kind on one stage.
// A zero field means the line was omitted.
type Operation struct {
	Stage     string  `json:"stage" yaml:"stage"`
	GraphID   int     `json:"graphId" yaml:"graph-id"`
	Op        string  `json:"op" yaml:"op"`
	Count     uint64  `json:"count,omitempty" yaml:"count,omitempty"`
	FailCount uint64  `json:"failCount,omitempty" yaml:"fail_count,omitempty"`
	Latency   float64 `json:"latency,omitempty" yaml:"latency,omitempty"`

	// Lines is the number of lines that contributed to this entry.
	Lines int `json:"-" yaml:"-"`
}

// Stage returns the memory block of the named stage.
func (s *Snapshot) Stage(name string) (*StageMemory, bool) {
	for i := range s.Stages {
		if s.Stages[i].Name == name {
			return &s.Stages[i], true
		}
	}
	return nil, false
}

// Operation returns the entry for op on the named stage.
func (s *Snapshot) Operation(stage, op string) (*Operation, bool) {
	for i := range s.Operations {
		if s.Operations[i].Stage == stage && s.Operations[i].Op == op {
			return &s.Operations[i], true
		}
	}
	return nil, false
}

// Category returns the named category row.
func (sm *StageMemory) Category(label string) (*Category, bool) {
	for i := range sm.Categories {
		if sm.Categories[i].Label == label {
			return &sm.Categories[i], true
		}
	}
	return nil, false
}
