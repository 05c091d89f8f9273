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

// Package process holds the per-process runtime state that snapshots read:
// the active graph, the call-frame pool, allocator statistics and the
// command line the process was started with.
package process

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/NVIDIA/fsmon/pkg/callpool"
	"github.com/NVIDIA/fsmon/pkg/graph"
	"github.com/NVIDIA/fsmon/pkg/memacct"
)

// Context is the process-wide runtime state. Readers never lock.
type Context struct {
	cmdline string
	active  atomic.Pointer[graph.Graph]
	pool    *callpool.Pool
	memory  *memacct.ProcessStats
}

// Option configures a Context.
type Option func(*Context)

// WithCmdline overrides the recorded command line.
func WithCmdline(cmdline string) Option {
	return func(c *Context) {
		c.cmdline = cmdline
	}
}

// WithGraph sets the initial active graph.
func WithGraph(g *graph.Graph) Option {
	return func(c *Context) {
		c.active.Store(g)
	}
}

// WithPool replaces the call-frame pool.
func WithPool(p *callpool.Pool) Option {
	return func(c *Context) {
		c.pool = p
	}
}

// WithMemoryStats replaces the allocator statistics.
func WithMemoryStats(m *memacct.ProcessStats) Option {
	return func(c *Context) {
		c.memory = m
	}
}

// New returns a Context. The command line defaults to os.Args joined by spaces.
func New(opts ...Option) *Context {
	c := &Context{
		cmdline: strings.Join(os.Args, " "),
		pool:    callpool.New(),
		memory:  memacct.NewProcessStats(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cmdline returns the command line of the process.
func (c *Context) Cmdline() string {
	return c.cmdline
}

// Active returns the active graph, or nil when none is installed.
func (c *Context) Active() *graph.Graph {
	return c.active.Load()
}

// SetActive installs g as the active graph and returns the previous one.
func (c *Context) SetActive(g *graph.Graph) *graph.Graph {
	return c.active.Swap(g)
}

// Pool returns the call-frame pool.
func (c *Context) Pool() *callpool.Pool {
	return c.pool
}

// Memory returns the process allocator statistics.
func (c *Context) Memory() *memacct.ProcessStats {
	return c.memory
}
