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
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/NVIDIA/fsmon/pkg/defaults"
	"github.com/NVIDIA/fsmon/pkg/errors"
	"github.com/NVIDIA/fsmon/pkg/process"
	"github.com/NVIDIA/fsmon/pkg/serializer"
	"github.com/NVIDIA/fsmon/pkg/server"
)

var (
	// snapshotHandlerTimeout can be overridden for testing
	snapshotHandlerTimeout = defaults.SnapshotHandlerTimeout
)

// DumpResponse is the body of a successful POST /v1/snapshot.
type DumpResponse struct {
	Path      string    `json:"path" yaml:"path"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Handler exposes snapshots of one process over HTTP.
type Handler struct {
	Snapshotter *Snapshotter
	Process     *process.Context
}

// NewHandler returns a Handler for pc.
func NewHandler(s *Snapshotter, pc *process.Context) *Handler {
	return &Handler{Snapshotter: s, Process: pc}
}

type dumpResult struct {
	path string
	err  error
}

// HandleSnapshot writes a snapshot and answers with its path.
// Only POST is accepted.
func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{http.MethodPost},
			})
		return
	}

	if h.Snapshotter == nil {
		server.WriteError(w, r, http.StatusServiceUnavailable, errors.ErrCodeUnavailable,
			"Snapshotter not configured", true, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), snapshotHandlerTimeout)
	defer cancel()

	// The pass itself is not cancellable; a timeout only stops waiting for it.
	done := make(chan dumpResult, 1)
	go func() {
		path, err := h.Snapshotter.Dump(ReasonRequest, h.Process)
		done <- dumpResult{path: path, err: err}
	}()

	select {
	case <-ctx.Done():
		slog.Warn("snapshot request timed out",
			"requestID", server.RequestID(r.Context()),
			"timeout", snapshotHandlerTimeout)
		server.WriteErrorFromErr(w, r,
			errors.Wrap(errors.ErrCodeTimeout, "snapshot did not complete in time", ctx.Err()),
			"Snapshot timed out", nil)
	case res := <-done:
		if res.err != nil {
			server.WriteErrorFromErr(w, r, res.err, "Failed to write snapshot", nil)
			return
		}
		serializer.RespondJSON(w, http.StatusOK, DumpResponse{
			Path:      res.path,
			Timestamp: time.Now().UTC(),
		})
	}
}
