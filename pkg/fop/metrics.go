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

package fop

import (
	"math"
	"sync/atomic"
	"time"
)

// Metric holds the counters of one request kind on one stage.
// All methods are safe for concurrent use and never block.
type Metric struct {
	count    atomic.Uint64
	failures atomic.Uint64
	samples  atomic.Uint64
	mean     atomic.Uint64 // float64 bits, microseconds
}

// Count returns the number of successful calls.
func (m *Metric) Count() uint64 { return m.count.Load() }

// FailCount returns the number of failed calls.
func (m *Metric) FailCount() uint64 { return m.failures.Load() }

// MeanLatency returns the running mean latency in microseconds.
func (m *Metric) MeanLatency() float64 {
	return math.Float64frombits(m.mean.Load())
}

// IsZero reports whether nothing was ever recorded.
func (m *Metric) IsZero() bool {
	return m.Count() == 0 && m.FailCount() == 0 && m.MeanLatency() == 0
}

// Succeeded counts one successful call.
func (m *Metric) Succeeded() { m.count.Add(1) }

// Failed counts one failed call.
func (m *Metric) Failed() { m.failures.Add(1) }

// AddLatency folds one latency sample into the running mean.
func (m *Metric) AddLatency(d time.Duration) {
	x := float64(d) / float64(time.Microsecond)
	n := float64(m.samples.Add(1))
	for {
		old := m.mean.Load()
		cur := math.Float64frombits(old)
		next := cur + (x-cur)/n
		if m.mean.CompareAndSwap(old, math.Float64bits(next)) {
			return
		}
	}
}

// Table holds one Metric per request kind.
type Table struct {
	metrics [MaxValue]Metric
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Get returns the metric for t, or nil for an invalid kind.
func (tb *Table) Get(t Type) *Metric {
	if tb == nil || !t.IsValid() {
		return nil
	}
	return &tb.metrics[t]
}

// Observe records the outcome and duration of one call.
func (tb *Table) Observe(t Type, elapsed time.Duration, failed bool) {
	m := tb.Get(t)
	if m == nil {
		return
	}
	if failed {
		m.Failed()
	} else {
		m.Succeeded()
	}
	m.AddLatency(elapsed)
}
