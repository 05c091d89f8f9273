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
	"log/slog"
	"time"

	"github.com/NVIDIA/fsmon/pkg/callpool"
	"github.com/NVIDIA/fsmon/pkg/graph"
	"github.com/NVIDIA/fsmon/pkg/memacct"
	"github.com/NVIDIA/fsmon/pkg/process"
	"github.com/NVIDIA/fsmon/pkg/serializer"
)

// lineBufferSize is the initial capacity of the per-pass line buffer. Lines
// longer than this grow it once.
const lineBufferSize = 512

// Snapshotter writes snapshot files of a process runtime context.
// It holds no mutable state and is safe for concurrent use.
type Snapshotter struct {
	cfg    Config
	logger *slog.Logger
}

// New returns a Snapshotter. A nil logger selects slog.Default.
func New(cfg Config, logger *slog.Logger) *Snapshotter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Snapshotter{
		cfg:    cfg,
		logger: logger.With("component", "snapshotter"),
	}
}

// Config returns the configuration the Snapshotter was built with.
func (s *Snapshotter) Config() Config {
	return s.cfg
}

// Trigger writes one snapshot of pc. Failures are logged, never returned.
func (s *Snapshotter) Trigger(reason Reason, pc *process.Context) {
	_, _ = s.Dump(reason, pc)
}

// Dump writes one snapshot of pc and returns the file path. The error is
// non-nil only when the file could not be created; in that case no file
// exists. Write, flush and sync failures after creation are logged and the
// partially written path is still returned.
func (s *Snapshotter) Dump(reason Reason, pc *process.Context) (string, error) {
	start := time.Now()

	f, err := serializer.NewScratchFile(s.cfg.Dir, s.cfg.Prefix)
	if err != nil {
		snapshotTotal.WithLabelValues(statusError).Inc()
		s.logger.Error("failed to open snapshot file",
			slog.String("reason", reason.String()),
			slog.String("error", err.Error()))
		return "", err
	}

	w := &lineWriter{out: f, buf: make([]byte, 0, lineBufferSize)}
	s.write(w, pc)

	closeErr := f.Close()
	path := f.Path()

	status := statusSuccess
	if w.err != nil || closeErr != nil {
		status = statusPartial
		s.logger.Warn("snapshot written partially",
			slog.String("path", path),
			slog.Any("writeError", w.err),
			slog.Any("closeError", closeErr))
	}
	snapshotTotal.WithLabelValues(status).Inc()
	snapshotDuration.Observe(time.Since(start).Seconds())
	snapshotBytes.Observe(float64(f.Written()))

	s.logger.Debug("snapshot written",
		slog.String("reason", reason.String()),
		slog.String("path", path),
		slog.Int64("bytes", f.Written()),
		slog.Duration("duration", time.Since(start)))

	return path, nil
}

func (s *Snapshotter) write(w *lineWriter, pc *process.Context) {
	var (
		cmdline string
		g       *graph.Graph
		mem     *memacct.ProcessStats
		pool    *callpool.Pool
	)
	if pc != nil {
		// The graph may be swapped concurrently; one pass uses one graph.
		cmdline, g, mem, pool = pc.Cmdline(), pc.Active(), pc.Memory(), pc.Pool()
	}

	w.line(cmdline)
	if s.cfg.ProcessMemory {
		reportProcessMemory(w, mem)
	}
	for st := range g.Walk() {
		reportMemAcct(w, st)
	}
	w.line(sectionSeparator)
	reportCallStacks(w, pool)
	w.line(sectionSeparator)
	for st := range g.Walk() {
		reportLatencyAndCount(w, st)
	}
}
