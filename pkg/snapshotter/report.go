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
	"io"

	"github.com/NVIDIA/fsmon/pkg/callpool"
	"github.com/NVIDIA/fsmon/pkg/fop"
	"github.com/NVIDIA/fsmon/pkg/graph"
	"github.com/NVIDIA/fsmon/pkg/measurement"
	"github.com/NVIDIA/fsmon/pkg/memacct"
)

const sectionSeparator = measurement.SectionSeparator

// lineWriter encodes lines into a reused buffer and hands each to out.
// After the first failed write further lines are dropped.
type lineWriter struct {
	out io.Writer
	buf []byte
	err error
}

func (w *lineWriter) flush() {
	if w.err == nil {
		_, w.err = w.out.Write(w.buf)
	}
	w.buf = w.buf[:0]
}

func (w *lineWriter) line(s string) {
	w.buf = measurement.AppendLine(w.buf, s)
	w.flush()
}

func (w *lineWriter) counter(key string, v uint64) {
	w.buf = measurement.AppendCounter(w.buf, key, v)
	w.flush()
}

// reportMemAcct writes the accounting block of one stage. Categories that
// were never allocated from are skipped even when listed.
func reportMemAcct(w *lineWriter, st *graph.Stage) {
	rec := st.MemAcct
	if rec == nil {
		return
	}

	w.buf = measurement.AppendNumTypes(w.buf, st.Type, st.Name, rec.Len())
	w.flush()
	w.line(measurement.CategoryHeader)

	for i := 0; i < rec.Len(); i++ {
		c := rec.At(i)
		total := c.TotalAllocs()
		if total == 0 {
			continue
		}
		w.buf = measurement.AppendCategory(w.buf, c.Label(),
			c.Size(), c.Units(), c.MaxSize(), c.MaxUnits(), total)
		w.flush()
	}
}

// reportProcessMemory writes the allocator totals. In-use is derived from
// the same three loads that are printed.
func reportProcessMemory(w *lineWriter, ps *memacct.ProcessStats) {
	var calloc, malloc, realloc, free uint64
	if ps != nil {
		calloc = ps.TotalCalloc()
		malloc = ps.TotalMalloc()
		realloc = ps.TotalRealloc()
		free = ps.TotalFree()
	}

	w.counter(measurement.KeyCalloc, calloc)
	w.counter(measurement.KeyMalloc, malloc)
	w.counter(measurement.KeyRealloc, realloc)
	w.counter(measurement.KeyFree, free)
	w.counter(measurement.KeyInUse, memacct.InUse(calloc, malloc, free))

	for i := range memacct.NumBuckets {
		var v uint64
		if ps != nil {
			v = ps.Bucket(i)
		}
		w.buf = measurement.AppendBlockSize(w.buf, i, v)
		w.flush()
	}
	w.line(measurement.MemorySeparator)
}

func reportCallStacks(w *lineWriter, p *callpool.Pool) {
	var total, inFlight uint64
	if p != nil {
		total = p.TotalCount()
		inFlight = p.InFlight()
	}
	w.counter(measurement.KeyStackTotal, total)
	w.counter(measurement.KeyStackInFlight, inFlight)
}

// reportLatencyAndCount writes the non-zero counters of every operation
// kind on one stage.
func reportLatencyAndCount(w *lineWriter, st *graph.Stage) {
	if st.Metrics == nil {
		return
	}
	id := st.GraphID()

	for _, t := range fop.Types {
		m := st.Metrics.Get(t)
		if m == nil {
			continue
		}
		op := t.String()

		if n := m.Count(); n > 0 {
			w.buf = measurement.AppendOpCounter(w.buf, st.Name, id, op, measurement.SuffixCount, n)
			w.flush()
		}
		if n := m.FailCount(); n > 0 {
			w.buf = measurement.AppendOpCounter(w.buf, st.Name, id, op, measurement.SuffixFailCount, n)
			w.flush()
		}
		if mean := m.MeanLatency(); mean != 0 {
			w.buf = measurement.AppendOpLatency(w.buf, st.Name, id, op, mean)
			w.flush()
		}
	}
}
