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

import (
	"fmt"

	"github.com/NVIDIA/fsmon/pkg/errors"
)

// OperationDelta is the change of one operation entry between two snapshots.
type OperationDelta struct {
	Key       string  `json:"key" yaml:"key"`
	Count     int64   `json:"count" yaml:"count"`
	FailCount int64   `json:"failCount" yaml:"fail_count"`
	Latency   float64 `json:"latency" yaml:"latency"`
}

// Diff is the result of comparing two snapshots of the same process.
type Diff struct {
	Stacks     int64            `json:"stacks" yaml:"stacks"`
	Operations []OperationDelta `json:"operations" yaml:"operations"`

	// Regressions lists lifetime counters that went backwards. A non-empty
	// list means the snapshots are out of order or from different processes.
	Regressions []string `json:"regressions,omitempty" yaml:"regressions,omitempty"`
}

// Key returns the "<stage>.<graph-id>.<op>" identifier of the entry.
func (o *Operation) Key() string {
	return fmt.Sprintf("%s.%d.%s", o.Stage, o.GraphID, o.Op)
}

// Compare returns what changed from prev to cur. Operations absent from
// prev are treated as zero. Entries without any change are omitted.
func Compare(prev, cur *Snapshot) (*Diff, error) {
	if prev == nil || cur == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "cannot compare nil snapshots")
	}
	if prev.Cmdline != cur.Cmdline {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"cannot compare snapshots of different processes",
			map[string]any{"prev": prev.Cmdline, "cur": cur.Cmdline})
	}

	d := &Diff{
		Stacks:     int64(cur.Stacks.Total) - int64(prev.Stacks.Total),
		Operations: []OperationDelta{},
	}
	if d.Stacks < 0 {
		d.Regressions = append(d.Regressions, KeyStackTotal)
	}

	before := make(map[string]*Operation, len(prev.Operations))
	for i := range prev.Operations {
		before[prev.Operations[i].Key()] = &prev.Operations[i]
	}

	for i := range cur.Operations {
		op := &cur.Operations[i]
		key := op.Key()
		var old Operation
		if p, ok := before[key]; ok {
			old = *p
		}

		delta := OperationDelta{
			Key:       key,
			Count:     int64(op.Count) - int64(old.Count),
			FailCount: int64(op.FailCount) - int64(old.FailCount),
			Latency:   op.Latency,
		}
		if delta.Count < 0 {
			d.Regressions = append(d.Regressions, key+"."+SuffixCount)
		}
		if delta.FailCount < 0 {
			d.Regressions = append(d.Regressions, key+"."+SuffixFailCount)
		}
		if delta.Count == 0 && delta.FailCount == 0 && op.Latency == old.Latency {
			continue
		}
		d.Operations = append(d.Operations, delta)
	}

	if prev.Memory != nil && cur.Memory != nil {
		for _, c := range []struct {
			key       string
			prev, cur uint64
		}{
			{KeyCalloc, prev.Memory.Calloc, cur.Memory.Calloc},
			{KeyMalloc, prev.Memory.Malloc, cur.Memory.Malloc},
			{KeyRealloc, prev.Memory.Realloc, cur.Memory.Realloc},
			{KeyFree, prev.Memory.Free, cur.Memory.Free},
		} {
			if c.cur < c.prev {
				d.Regressions = append(d.Regressions, c.key)
			}
		}
	}

	return d, nil
}
