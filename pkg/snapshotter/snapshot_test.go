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

package snapshotter

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/fsmon/pkg/errors"
	"github.com/NVIDIA/fsmon/pkg/fop"
	"github.com/NVIDIA/fsmon/pkg/graph"
	"github.com/NVIDIA/fsmon/pkg/measurement"
	"github.com/NVIDIA/fsmon/pkg/memacct"
	"github.com/NVIDIA/fsmon/pkg/process"
)

func newTestSnapshotter(t *testing.T, processMemory bool) *Snapshotter {
	t.Helper()
	return New(Config{Dir: t.TempDir(), ProcessMemory: processMemory}, nil)
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "\n"), "file must be newline terminated")
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func parseFile(t *testing.T, path string) *measurement.Snapshot {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	snap, err := measurement.Parse(f)
	require.NoError(t, err)
	return snap
}

// scenarioContext builds stage A with one used and one unused category and
// stage B with a READ history of 3 successes, 1 failure and mean 1.25µs.
func scenarioContext(t *testing.T) *process.Context {
	t.Helper()

	a := graph.NewStage("debug.io-stats", "A", "gf_common_mt_char", "gf_common_mt_inode")
	used, ok := a.MemAcct.Lookup("gf_common_mt_char")
	require.True(t, ok)
	for range 5 {
		used.Alloc(16)
		used.Free(16)
	}

	b := graph.NewStage("storage.posix", "B")
	b.Metrics.Observe(fop.Read, 1000*time.Nanosecond, false)
	b.Metrics.Observe(fop.Read, 1500*time.Nanosecond, false)
	b.Metrics.Observe(fop.Read, 1000*time.Nanosecond, false)
	b.Metrics.Observe(fop.Read, 1500*time.Nanosecond, true)

	g, err := graph.New(7, a, b)
	require.NoError(t, err)

	return process.New(process.WithCmdline("glusterfsd -s host1"), process.WithGraph(g))
}

func TestDumpScenario(t *testing.T) {
	s := newTestSnapshotter(t, false)
	pc := scenarioContext(t)

	path, err := s.Dump(ReasonManual, pc)
	require.NoError(t, err)

	lines := readLines(t, path)
	assert.Equal(t, []string{
		"glusterfsd -s host1",
		"debug.io-stats.A.total.num_types 2",
		measurement.CategoryHeader,
		"gf_common_mt_char, 0, 0, 16, 1, 5",
		"-----",
		"total.stack_count 0",
		"in-flight.stack_count 0",
		"-----",
		"B.7.READ.count 3",
		"B.7.READ.fail_count 1",
		"B.7.READ.latency 1.250000",
	}, lines)

	for _, l := range lines {
		assert.False(t, strings.HasPrefix(l, "A.7."), "stage A has no operation history: %s", l)
		assert.NotContains(t, l, "gf_common_mt_inode")
	}
}

func TestDumpEmptyGraph(t *testing.T) {
	tests := []struct {
		name          string
		pc            *process.Context
		processMemory bool
		want          []string
	}{
		{
			name: "no active graph",
			pc:   process.New(process.WithCmdline("cmd")),
			want: []string{"cmd", "-----", "total.stack_count 0", "in-flight.stack_count 0", "-----"},
		},
		{
			name: "nil context",
			pc:   nil,
			want: []string{"", "-----", "total.stack_count 0", "in-flight.stack_count 0", "-----"},
		},
		{
			name:          "no active graph with process memory",
			pc:            process.New(process.WithCmdline("cmd")),
			processMemory: true,
			want: []string{
				"cmd",
				"memory.total.calloc 0",
				"memory.total.malloc 0",
				"memory.total.realloc 0",
				"memory.total.free 0",
				"memory.total.in-use 0",
				"memory.total.blk_size[0] 0",
				"memory.total.blk_size[1] 0",
				"memory.total.blk_size[2] 0",
				"memory.total.blk_size[3] 0",
				"memory.total.blk_size[4] 0",
				"memory.total.blk_size[5] 0",
				"memory.total.blk_size[6] 0",
				"memory.total.blk_size[7] 0",
				"----",
				"-----",
				"total.stack_count 0",
				"in-flight.stack_count 0",
				"-----",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSnapshotter(t, tt.processMemory)
			path, err := s.Dump(ReasonManual, tt.pc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, readLines(t, path))
		})
	}
}

func TestDumpGraphWithoutHistory(t *testing.T) {
	g, err := graph.New(1, graph.NewStage("cluster.dht", "dht", "dht_mt_layout"), graph.NewStage("storage.posix", "posix"))
	require.NoError(t, err)
	pc := process.New(process.WithCmdline("cmd"), process.WithGraph(g))

	path, err := newTestSnapshotter(t, false).Dump(ReasonManual, pc)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"cmd",
		"cluster.dht.dht.total.num_types 1",
		measurement.CategoryHeader,
		"-----",
		"total.stack_count 0",
		"in-flight.stack_count 0",
		"-----",
	}, readLines(t, path))
}

func TestDumpProcessMemory(t *testing.T) {
	mem := memacct.NewProcessStats()
	mem.Calloc(16)
	mem.Malloc(100)
	mem.Malloc(5000)
	mem.Realloc(100, 200)
	mem.Free(16)

	pc := process.New(process.WithCmdline("cmd"), process.WithMemoryStats(mem))
	path, err := newTestSnapshotter(t, true).Dump(ReasonManual, pc)
	require.NoError(t, err)

	snap := parseFile(t, path)
	require.NotNil(t, snap.Memory)
	assert.Equal(t, mem.TotalCalloc(), snap.Memory.Calloc)
	assert.Equal(t, mem.TotalMalloc(), snap.Memory.Malloc)
	assert.Equal(t, mem.TotalRealloc(), snap.Memory.Realloc)
	assert.Equal(t, mem.TotalFree(), snap.Memory.Free)
	assert.Equal(t, snap.Memory.Calloc+snap.Memory.Malloc-snap.Memory.Free, snap.Memory.InUse)
	require.Len(t, snap.Memory.Blocks, memacct.NumBuckets)
	for i, v := range snap.Memory.Blocks {
		assert.Equal(t, mem.Bucket(i), v, "bucket %d", i)
	}
}

func TestDumpCallStacks(t *testing.T) {
	pc := process.New(process.WithCmdline("cmd"))
	f1 := pc.Pool().Begin()
	f2 := pc.Pool().Begin()
	f1.End()

	path, err := newTestSnapshotter(t, false).Dump(ReasonManual, pc)
	require.NoError(t, err)
	assert.Equal(t, measurement.CallStacks{Total: 2, InFlight: 1}, parseFile(t, path).Stacks)
	f2.End()
}

func TestDumpInUseCategoryZeroStillReported(t *testing.T) {
	st := graph.NewStage("features.locks", "locks", "gf_locks_mt_lock")
	c := st.MemAcct.At(0)
	c.Alloc(64)
	c.Free(64)
	g, err := graph.New(0, st)
	require.NoError(t, err)

	path, err := newTestSnapshotter(t, false).Dump(ReasonManual, process.New(process.WithGraph(g)))
	require.NoError(t, err)

	sm, ok := parseFile(t, path).Stage("locks")
	require.True(t, ok)
	cat, ok := sm.Category("gf_locks_mt_lock")
	require.True(t, ok)
	assert.Zero(t, cat.Size)
	assert.Equal(t, uint64(1), cat.TotalAllocs)
}

func TestDumpSuccessiveSnapshots(t *testing.T) {
	s := newTestSnapshotter(t, true)
	pc := scenarioContext(t)
	b, ok := pc.Active().Lookup("B")
	require.True(t, ok)

	first, err := s.Dump(ReasonInterval, pc)
	require.NoError(t, err)

	b.Metrics.Observe(fop.Write, time.Microsecond, false)
	b.Metrics.Observe(fop.Read, 4*time.Microsecond, false)
	pc.Pool().Begin().End()
	pc.Memory().Malloc(8)

	second, err := s.Dump(ReasonInterval, pc)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	prev, cur := parseFile(t, first), parseFile(t, second)
	d, err := measurement.Compare(prev, cur)
	require.NoError(t, err)
	assert.Empty(t, d.Regressions)
	assert.Equal(t, int64(1), d.Stacks)

	read, ok := cur.Operation("B", "READ")
	require.True(t, ok)
	assert.Equal(t, uint64(4), read.Count)
	_, ok = cur.Operation("B", "WRITE")
	assert.True(t, ok)
	_, ok = prev.Operation("B", "WRITE")
	assert.False(t, ok)
}

func TestDumpConcurrent(t *testing.T) {
	s := newTestSnapshotter(t, true)
	pc := scenarioContext(t)
	b, _ := pc.Active().Lookup("B")

	const n = 16
	paths := make(chan string, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Metrics.Observe(fop.Stat, time.Microsecond, false)
			path, err := s.Dump(ReasonRequest, pc)
			assert.NoError(t, err)
			paths <- path
		}()
	}
	wg.Wait()
	close(paths)

	seen := make(map[string]bool)
	for p := range paths {
		assert.False(t, seen[p])
		seen[p] = true
		parseFile(t, p)
	}
	assert.Len(t, seen, n)
}

func TestDumpCreateFailure(t *testing.T) {
	s := New(Config{Dir: filepath.Join(t.TempDir(), "missing")}, nil)

	path, err := s.Dump(ReasonManual, scenarioContext(t))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIO))
	assert.Empty(t, path)

	assert.NotPanics(t, func() {
		s.Trigger(ReasonManual, scenarioContext(t))
	})
}

func TestTriggerWritesOneFile(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{Dir: dir, Prefix: "glusterfs."}, nil)

	s.Trigger(SignalReason(syscall.SIGUSR2), scenarioContext(t))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "glusterfs."))
}

func TestGraphSwapBetweenSnapshots(t *testing.T) {
	s := newTestSnapshotter(t, false)
	pc := scenarioContext(t)

	g2, err := graph.New(8, graph.NewStage("protocol.client", "client"))
	require.NoError(t, err)
	old := pc.SetActive(g2)
	require.NotNil(t, old)

	path, err := s.Dump(ReasonManual, pc)
	require.NoError(t, err)
	snap := parseFile(t, path)
	assert.Empty(t, snap.Stages)
	assert.Empty(t, snap.Operations)
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "manual", ReasonManual.String())
	assert.Equal(t, "interval", ReasonInterval.String())
	assert.Equal(t, "request", ReasonRequest.String())
	assert.Equal(t, syscall.SIGUSR2.String(), SignalReason(syscall.SIGUSR2).String())
	assert.Equal(t, "reason(-9)", Reason(-9).String())
}

func TestDumpParseRoundTripFromSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    graph.Spec
		wantErr bool
	}{
		{
			name: "dotted and slashed types",
			spec: graph.Spec{ID: 4, Stages: []graph.StageSpec{
				{Type: "debug/io-stats", Name: "vol0", MemoryTypes: []string{"gf_common_mt_char"}},
				{Type: "features.locks", Name: "vol0-locks", MemoryTypes: []string{"gf_locks_mt_pl_inode_t", "gf_common_mt_asprintf"}},
			}},
		},
		{
			name: "label with row separator",
			spec: graph.Spec{Stages: []graph.StageSpec{
				{Type: "t", Name: "a", MemoryTypes: []string{"gf_common_mt_char, x"}},
			}},
			wantErr: true,
		},
		{
			name: "label with newline",
			spec: graph.Spec{Stages: []graph.StageSpec{
				{Type: "t", Name: "a", MemoryTypes: []string{"gf_common\n-----"}},
			}},
			wantErr: true,
		},
		{
			name: "type in process memory namespace",
			spec: graph.Spec{Stages: []graph.StageSpec{
				{Type: "memory.total.calloc", Name: "a", MemoryTypes: []string{"x"}},
			}},
			wantErr: true,
		},
		{
			name: "name with whitespace",
			spec: graph.Spec{Stages: []graph.StageSpec{
				{Type: "t", Name: "a 1"},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := graph.FromSpec(&tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
				return
			}
			require.NoError(t, err)

			for st := range g.Walk() {
				for i := range st.MemAcct.Len() {
					st.MemAcct.At(i).Alloc(8)
				}
				st.Metrics.Observe(fop.Lookup, 2*time.Microsecond, false)
			}

			s := newTestSnapshotter(t, true)
			path, err := s.Dump(ReasonManual, process.New(process.WithCmdline("glusterfsd"), process.WithGraph(g)))
			require.NoError(t, err)

			snap := parseFile(t, path)
			require.Len(t, snap.Stages, len(tt.spec.Stages))
			for i, st := range tt.spec.Stages {
				got := snap.Stages[i]
				assert.Equal(t, st.Type, got.Type)
				assert.Equal(t, st.Name, got.Name)
				require.Len(t, got.Categories, len(st.MemoryTypes))
				for j, label := range st.MemoryTypes {
					assert.Equal(t, label, got.Categories[j].Label)
					assert.Equal(t, uint64(1), got.Categories[j].TotalAllocs)
				}
				op, ok := snap.Operation(st.Name, "LOOKUP")
				require.True(t, ok)
				assert.Equal(t, tt.spec.ID, op.GraphID)
				assert.Equal(t, uint64(1), op.Count)
			}
		})
	}
}
