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

// Package callpool tracks the call frames of requests travelling through the
// pipeline, end to end.
package callpool

import "sync/atomic"

// Pool counts call frames. The zero value is ready to use.
type Pool struct {
	total    atomic.Uint64
	inFlight atomic.Int64
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{}
}

// Frame is one in-flight request. End must be called exactly once;
// extra calls are ignored.
type Frame struct {
	pool  *Pool
	ended atomic.Bool
}

// Begin opens a frame for a new request.
func (p *Pool) Begin() *Frame {
	p.total.Add(1)
	p.inFlight.Add(1)
	return &Frame{pool: p}
}

// End closes the frame.
func (f *Frame) End() {
	if f.ended.CompareAndSwap(false, true) {
		f.pool.inFlight.Add(-1)
	}
}

// TotalCount returns the lifetime number of frames.
func (p *Pool) TotalCount() uint64 {
	return p.total.Load()
}

// InFlight returns the number of frames not yet ended.
func (p *Pool) InFlight() uint64 {
	if n := p.inFlight.Load(); n > 0 {
		return uint64(n)
	}
	return 0
}
