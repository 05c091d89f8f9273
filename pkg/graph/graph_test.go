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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/fsmon/pkg/errors"
)

func names(g *Graph) []string {
	var out []string
	for s := range g.Walk() {
		out = append(out, s.Name)
	}
	return out
}

func TestNew_OrderAndBackReference(t *testing.T) {
	a := NewStage("debug/io-stats", "vol0", "inode_ctx")
	b := NewStage("performance/io-cache", "vol0-io-cache")
	c := NewStage("protocol/client", "vol0-client-0")

	g, err := New(7, a, b, c)
	require.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 7, g.ID())
	assert.Same(t, a, g.Top())
	assert.Same(t, b, g.Next(a))
	assert.Same(t, c, g.Next(b))
	assert.Nil(t, g.Next(c))

	for s := range g.Walk() {
		assert.Same(t, g, s.Graph())
		assert.Equal(t, 7, s.GraphID())
	}

	assert.NotNil(t, a.MemAcct)
	assert.Nil(t, b.MemAcct, "no memory types, no record")
	assert.NotNil(t, b.Metrics)
}

func TestWalk_RestartableAndDeterministic(t *testing.T) {
	g, err := New(1,
		NewStage("t", "a"),
		NewStage("t", "b"),
		NewStage("t", "c"),
	)
	require.NoError(t, err)

	first := names(g)
	second := names(g)
	assert.Equal(t, []string{"a", "b", "c"}, first)
	assert.Equal(t, first, second)
}

func TestWalk_EarlyBreak(t *testing.T) {
	g, err := New(1, NewStage("t", "a"), NewStage("t", "b"))
	require.NoError(t, err)

	var seen []string
	for s := range g.Walk() {
		seen = append(seen, s.Name)
		break
	}
	assert.Equal(t, []string{"a"}, seen)
}

func TestWalk_EmptyAndNil(t *testing.T) {
	g, err := New(3)
	require.NoError(t, err)
	assert.Nil(t, g.Top())
	assert.Empty(t, names(g))

	var nilGraph *Graph
	assert.Nil(t, nilGraph.Top())
	assert.Zero(t, nilGraph.Len())
	assert.Empty(t, names(nilGraph))
}

func TestDetachedStage(t *testing.T) {
	s := NewStage("t", "alone")
	assert.Nil(t, s.Graph())
	assert.Zero(t, s.GraphID())
}

func TestNew_Errors(t *testing.T) {
	owned := NewStage("t", "owned")
	_, err := New(1, owned)
	require.NoError(t, err)

	tests := []struct {
		name   string
		stages []*Stage
	}{
		{"nil stage", []*Stage{nil}},
		{"already attached", []*Stage{owned}},
		{"duplicate name", []*Stage{NewStage("t", "x"), NewStage("u", "x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(2, tt.stages...)
			require.Error(t, err)
			assert.Nil(t, g)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
		})
	}
}

func TestNew_FailureLeavesStagesDetached(t *testing.T) {
	a := NewStage("t", "a")
	_, err := New(1, a, nil)
	require.Error(t, err)
	assert.Nil(t, a.Graph())

	g, err := New(2, a)
	require.NoError(t, err)
	assert.Equal(t, 2, a.GraphID())
	assert.Equal(t, 1, g.Len())
}

func TestLookup(t *testing.T) {
	g, err := New(1, NewStage("t", "a"), NewStage("t", "b"))
	require.NoError(t, err)

	s, ok := g.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "b", s.Name)

	_, ok = g.Lookup("z")
	assert.False(t, ok)
}

func TestFromSpec(t *testing.T) {
	spec := &Spec{
		ID: 4,
		Stages: []StageSpec{
			{Type: "debug/io-stats", Name: "vol0", MemoryTypes: []string{"a", "b"}},
			{Type: "protocol/client", Name: "vol0-client-0"},
		},
	}

	g, err := FromSpec(spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"vol0", "vol0-client-0"}, names(g))
	assert.Equal(t, 2, g.Top().MemAcct.Len())
	assert.Equal(t, "debug/io-stats", g.Top().Type)
}

func TestSpec_Validate(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"negative id", Spec{ID: -1}},
		{"missing type", Spec{Stages: []StageSpec{{Name: "a"}}}},
		{"missing name", Spec{Stages: []StageSpec{{Type: "t"}}}},
		{"dotted name", Spec{Stages: []StageSpec{{Type: "t", Name: "a.b"}}}},
		{"blank type", Spec{Stages: []StageSpec{{Type: "  ", Name: "a"}}}},
		{"type with space", Spec{Stages: []StageSpec{{Type: "storage posix", Name: "a"}}}},
		{"type with newline", Spec{Stages: []StageSpec{{Type: "t\nx", Name: "a"}}}},
		{"type in process memory namespace", Spec{Stages: []StageSpec{{Type: "memory.total.x", Name: "a"}}}},
		{"name with space", Spec{Stages: []StageSpec{{Type: "t", Name: "a b"}}}},
		{"name with tab", Spec{Stages: []StageSpec{{Type: "t", Name: "a\tb"}}}},
		{"empty memory type", Spec{Stages: []StageSpec{{Type: "t", Name: "a", MemoryTypes: []string{""}}}}},
		{"memory type with separator", Spec{Stages: []StageSpec{{Type: "t", Name: "a", MemoryTypes: []string{"gf_common_mt_char, x"}}}}},
		{"memory type with comma", Spec{Stages: []StageSpec{{Type: "t", Name: "a", MemoryTypes: []string{"a,b"}}}}},
		{"memory type with newline", Spec{Stages: []StageSpec{{Type: "t", Name: "a", MemoryTypes: []string{"a\nb"}}}}},
		{"memory type in process memory namespace", Spec{Stages: []StageSpec{{Type: "t", Name: "a", MemoryTypes: []string{"memory.total.calloc"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
		})
	}

	_, err := FromSpec(nil)
	assert.Error(t, err)

	valid := Spec{ID: 1, Stages: []StageSpec{
		{Type: "debug/io-stats", Name: "vol0", MemoryTypes: []string{"gf_common_mt_char", "gf_io_stats_mt_ios_stat"}},
		{Type: "features.locks", Name: "vol0-locks"},
	}}
	assert.NoError(t, valid.Validate())
}
