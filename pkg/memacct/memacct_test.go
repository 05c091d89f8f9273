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

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_AllocFree(t *testing.T) {
	r := NewRecord("gf_common_mt_inode_ctx", "gf_common_mt_fd_ctx")
	require.Equal(t, 2, r.Len())

	c := r.At(0)
	assert.Equal(t, "gf_common_mt_inode_ctx", c.Label())

	c.Alloc(100)
	c.Alloc(50)
	c.Free(100)

	assert.Equal(t, uint64(50), c.Size())
	assert.Equal(t, uint64(1), c.Units())
	assert.Equal(t, uint64(150), c.MaxSize())
	assert.Equal(t, uint64(2), c.MaxUnits())
	assert.Equal(t, uint64(2), c.TotalAllocs())

	c.Free(50)
	assert.Zero(t, c.Size())
	assert.Zero(t, c.Units())
	assert.Equal(t, uint64(2), c.TotalAllocs(), "lifetime total never decreases")

	assert.Zero(t, r.At(1).TotalAllocs())
}

func TestRecord_Lookup(t *testing.T) {
	r := NewRecord("a", "b")

	c, ok := r.Lookup("b")
	require.True(t, ok)
	assert.Same(t, r.At(1), c)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)

	var nilRecord *Record
	assert.Zero(t, nilRecord.Len())
	_, ok = nilRecord.Lookup("a")
	assert.False(t, ok)
}

func TestCategory_ConcurrentPeaks(t *testing.T) {
	r := NewRecord("buf")
	c := r.At(0)
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Alloc(8)
				c.Free(8)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, c.Size())
	assert.Zero(t, c.Units())
	assert.Equal(t, uint64(3200), c.TotalAllocs())
	assert.GreaterOrEqual(t, c.MaxUnits(), uint64(1))
	assert.LessOrEqual(t, c.MaxUnits(), uint64(32))
	assert.LessOrEqual(t, c.MaxSize(), uint64(32*8))
}

func TestBucketIndex(t *testing.T) {
	tests := []struct {
		size uint64
		want int
	}{
		{0, 0},
		{32, 0},
		{33, 1},
		{64, 1},
		{128, 2},
		{1024, 5},
		{4096, 6},
		{4097, 7},
		{1 << 30, NumBuckets - 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketIndex(tt.size), "size %d", tt.size)
	}
}

func TestProcessStats(t *testing.T) {
	p := NewProcessStats()

	p.Malloc(16)
	p.Malloc(2048)
	p.Calloc(100)
	p.Realloc(16, 5000)
	p.Free(2048)

	assert.Equal(t, uint64(1), p.TotalCalloc())
	assert.Equal(t, uint64(2), p.TotalMalloc())
	assert.Equal(t, uint64(1), p.TotalRealloc())
	assert.Equal(t, uint64(1), p.TotalFree())

	assert.Zero(t, p.Bucket(0), "realloc moved the 16 byte block")
	assert.Equal(t, uint64(1), p.Bucket(2))
	assert.Zero(t, p.Bucket(6))
	assert.Equal(t, uint64(1), p.Bucket(7))

	assert.Equal(t, uint64(2), InUse(p.TotalCalloc(), p.TotalMalloc(), p.TotalFree()))
}

func TestInUse(t *testing.T) {
	assert.Equal(t, uint64(7), InUse(3, 5, 1))
	assert.Equal(t, uint64(0), InUse(3, 5, 8))
	assert.Equal(t, uint64(0), InUse(1, 1, 9), "saturates instead of wrapping")
}
