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

// Category tracks one named class of allocation on one stage.
type Category struct {
	label    string
	size     atomic.Uint64
	units    atomic.Uint64
	maxSize  atomic.Uint64
	maxUnits atomic.Uint64
	total    atomic.Uint64
}

// Label returns the category name.
func (c *Category) Label() string { return c.label }

// Size returns the bytes currently in use.
func (c *Category) Size() uint64 { return c.size.Load() }

// Units returns the number of allocations currently in use.
func (c *Category) Units() uint64 { return c.units.Load() }

// MaxSize returns the highest Size ever observed.
func (c *Category) MaxSize() uint64 { return c.maxSize.Load() }

// MaxUnits returns the highest Units ever observed.
func (c *Category) MaxUnits() uint64 { return c.maxUnits.Load() }

// TotalAllocs returns the lifetime number of allocations.
func (c *Category) TotalAllocs() uint64 { return c.total.Load() }

// Alloc accounts one allocation of size bytes.
func (c *Category) Alloc(size uint64) {
	storeMax(&c.maxSize, c.size.Add(size))
	storeMax(&c.maxUnits, c.units.Add(1))
	c.total.Add(1)
}

// Free releases one allocation of size bytes.
func (c *Category) Free(size uint64) {
	c.size.Add(^(size - 1))
	c.units.Add(^uint64(0))
}

func storeMax(dst *atomic.Uint64, v uint64) {
	for {
		cur := dst.Load()
		if v <= cur || dst.CompareAndSwap(cur, v) {
			return
		}
	}
}

// Record is the memory accounting record of one stage: a fixed, ordered set
// of categories created with the stage.
type Record struct {
	categories []Category
}

// NewRecord returns a record with one category per label, in order.
func NewRecord(labels ...string) *Record {
	r := &Record{categories: make([]Category, len(labels))}
	for i, l := range labels {
		r.categories[i].label = l
	}
	return r
}

// Len returns the number of categories, including never-used ones.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.categories)
}

// At returns the i-th category.
func (r *Record) At(i int) *Category {
	return &r.categories[i]
}

// Lookup returns the category with the given label.
func (r *Record) Lookup(label string) (*Category, bool) {
	for i := 0; i < r.Len(); i++ {
		if r.categories[i].label == label {
			return &r.categories[i], true
		}
	}
	return nil, false
}
