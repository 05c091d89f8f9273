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

package memacct

import "sync/atomic"

// NumBuckets is the number of allocation size classes.
const NumBuckets = 8

// bucketLimits holds the inclusive upper bound of each size class but the
// last, which takes everything larger.
var bucketLimits = [NumBuckets - 1]uint64{32, 64, 128, 256, 512, 1024, 4096}

// BucketIndex returns the size class of an allocation of size bytes.
func BucketIndex(size uint64) int {
	for i, limit := range bucketLimits {
		if size <= limit {
			return i
		}
	}
	return NumBuckets - 1
}

// ProcessStats holds process-wide allocator counters.
type ProcessStats struct {
	calloc  atomic.Uint64
	malloc  atomic.Uint64
	realloc atomic.Uint64
	free    atomic.Uint64
	blocks  [NumBuckets]atomic.Uint64
}

// NewProcessStats returns zeroed counters.
func NewProcessStats() *ProcessStats {
	return &ProcessStats{}
}

// Calloc accounts one zeroed allocation.
func (p *ProcessStats) Calloc(size uint64) {
	p.calloc.Add(1)
	p.blocks[BucketIndex(size)].Add(1)
}

// Malloc accounts one allocation.
func (p *ProcessStats) Malloc(size uint64) {
	p.malloc.Add(1)
	p.blocks[BucketIndex(size)].Add(1)
}

// Realloc accounts a resize from oldSize to newSize bytes.
func (p *ProcessStats) Realloc(oldSize, newSize uint64) {
	p.realloc.Add(1)
	from, to := BucketIndex(oldSize), BucketIndex(newSize)
	if from != to {
		p.blocks[from].Add(^uint64(0))
		p.blocks[to].Add(1)
	}
}

// Free accounts the release of an allocation of size bytes.
func (p *ProcessStats) Free(size uint64) {
	p.free.Add(1)
	p.blocks[BucketIndex(size)].Add(^uint64(0))
}

// TotalCalloc returns the lifetime calloc count.
func (p *ProcessStats) TotalCalloc() uint64 { return p.calloc.Load() }

// TotalMalloc returns the lifetime malloc count.
func (p *ProcessStats) TotalMalloc() uint64 { return p.malloc.Load() }

// TotalRealloc returns the lifetime realloc count.
func (p *ProcessStats) TotalRealloc() uint64 { return p.realloc.Load() }

// TotalFree returns the lifetime free count.
func (p *ProcessStats) TotalFree() uint64 { return p.free.Load() }

// Bucket returns the outstanding allocation count of size class i.
func (p *ProcessStats) Bucket(i int) uint64 { return p.blocks[i].Load() }

// InUse derives the outstanding allocation count from independently read
// totals as (calloc+malloc)-free. Reads are not coordinated, so a free
// counted after the other two loads can exceed their sum. In that case the
// result is 0 rather than the wrapped unsigned difference, so the reported
// value does not equal (calloc+malloc)-free for that one snapshot.
func InUse(calloc, malloc, free uint64) uint64 {
	allocated := calloc + malloc
	if free > allocated {
		return 0
	}
	return allocated - free
}
