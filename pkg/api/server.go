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

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/fsmon/pkg/config"
	"github.com/NVIDIA/fsmon/pkg/graph"
	"github.com/NVIDIA/fsmon/pkg/process"
	"github.com/NVIDIA/fsmon/pkg/server"
	"github.com/NVIDIA/fsmon/pkg/snapshotter"
	"github.com/NVIDIA/fsmon/pkg/trigger"
)

const (
	name           = "fsmond"
	versionDefault = "dev"

	// SnapshotPath is the route of the snapshot request handler.
	SnapshotPath = "/v1/snapshot"
)

type options struct {
	version string
	process *process.Context
	notify  func(state string) (bool, error)
}

// Option configures Serve.
type Option func(*options)

// WithVersion sets the version reported by the server and the logs.
func WithVersion(v string) Option {
	return func(o *options) {
		if v != "" {
			o.version = v
		}
	}
}

// WithProcess serves an existing runtime context instead of building one
// from the configuration.
func WithProcess(pc *process.Context) Option {
	return func(o *options) {
		o.process = pc
	}
}

func sdNotify(state string) (bool, error) {
	return daemon.SdNotify(false, state)
}

// NewProcess builds the runtime context described by cfg. Without a graph
// the context has no active graph and snapshots carry empty stage sections.
func NewProcess(cfg *config.Config) (*process.Context, error) {
	var opts []process.Option
	if cfg.Cmdline != "" {
		opts = append(opts, process.WithCmdline(cfg.Cmdline))
	}
	if cfg.Graph != nil {
		g, err := graph.FromSpec(cfg.Graph)
		if err != nil {
			return nil, err
		}
		opts = append(opts, process.WithGraph(g))
	}
	return process.New(opts...), nil
}

// Dump writes one snapshot of the runtime described by cfg and returns the
// file path.
func Dump(cfg *config.Config) (string, error) {
	pc, err := NewProcess(cfg)
	if err != nil {
		return "", err
	}
	return snapshotter.New(cfg.Snapshotter(), slog.Default()).Dump(snapshotter.ReasonManual, pc)
}

// Serve runs the daemon until ctx is done or one of its parts fails.
func Serve(ctx context.Context, cfg *config.Config, opts ...Option) error {
	o := &options{version: versionDefault, notify: sdNotify}
	for _, opt := range opts {
		opt(o)
	}

	pc := o.process
	if pc == nil {
		var err error
		if pc, err = NewProcess(cfg); err != nil {
			return err
		}
	}

	sig, err := cfg.Signal()
	if err != nil {
		return err
	}

	snap := snapshotter.New(cfg.Snapshotter(), slog.Default())
	handle := func(r snapshotter.Reason) {
		snap.Trigger(r, pc)
	}

	slog.Info("starting",
		"name", name,
		"version", o.version,
		"scratchDir", cfg.ScratchDir,
		"signal", cfg.Trigger.Signal,
		"interval", cfg.Trigger.Interval,
		"server", cfg.Server.Enabled,
	)

	g, gctx := errgroup.WithContext(ctx)

	var started []<-chan struct{}
	if sig != 0 {
		st := trigger.NewSignal(sig, handle)
		started = append(started, st.Ready())
		g.Go(func() error {
			return st.Run(gctx)
		})
	}

	if it := trigger.NewInterval(cfg.Trigger.Interval, handle); it.Enabled() {
		g.Go(func() error {
			return it.Run(gctx)
		})
	}

	if cfg.Server.Enabled {
		h := snapshotter.NewHandler(snap, pc)
		s := server.New(
			server.WithConfig(cfg.ServerConfig(name, o.version)),
			server.WithHandler(map[string]http.HandlerFunc{
				SnapshotPath: h.HandleSnapshot,
			}),
		)
		g.Go(func() error {
			return s.Run(gctx)
		})
	}

	g.Go(func() error {
		for _, ch := range started {
			select {
			case <-ch:
			case <-gctx.Done():
				return nil
			}
		}
		notify(o, daemon.SdNotifyReady)
		watchdog(gctx, o)
		<-gctx.Done()
		return nil
	})

	err = g.Wait()
	notify(o, daemon.SdNotifyStopping)
	if err != nil {
		slog.Error("daemon exited with error", "error", err)
		return err
	}

	slog.Info("stopped", "name", name)
	return nil
}

func notify(o *options, state string) {
	sent, err := o.notify(state)
	if err != nil {
		slog.Warn("failed to notify service manager", "state", state, "error", err)
		return
	}
	slog.Debug("service manager notified", "state", state, "sent", sent)
}

// watchdog pings the service manager at half the configured watchdog
// interval until ctx is done. It returns at once when the watchdog is off.
func watchdog(ctx context.Context, o *options) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			notify(o, daemon.SdNotifyWatchdog)
		case <-ctx.Done():
			return
		}
	}
}
