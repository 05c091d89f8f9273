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

package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/fsmon/pkg/errors"
	"github.com/NVIDIA/fsmon/pkg/snapshotter"
)

// Handler is invoked once per trigger. Calls from one source are serialized.
type Handler func(reason snapshotter.Reason)

// Signal invokes a Handler for every delivery of one signal.
type Signal struct {
	sig     syscall.Signal
	handler Handler
	ready   chan struct{}
}

// NewSignal returns a Signal trigger for sig.
func NewSignal(sig syscall.Signal, h Handler) *Signal {
	return &Signal{sig: sig, handler: h, ready: make(chan struct{})}
}

// Ready is closed once Run has registered for the signal.
func (s *Signal) Ready() <-chan struct{} {
	return s.ready
}

// Run listens until ctx is done. Deliveries that arrive while the handler
// is still running are coalesced by the runtime into at most one pending one.
func (s *Signal) Run(ctx context.Context) error {
	if s.handler == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "signal trigger has no handler")
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, s.sig)
	defer signal.Stop(ch)
	close(s.ready)

	slog.Debug("signal trigger started", "signal", unix.SignalName(s.sig))

	for {
		select {
		case <-ctx.Done():
			slog.Debug("signal trigger stopped", "signal", unix.SignalName(s.sig))
			return nil
		case got := <-ch:
			sig, ok := got.(syscall.Signal)
			if !ok {
				continue
			}
			s.handler(snapshotter.SignalReason(sig))
		}
	}
}

// Interval invokes a Handler on a fixed period.
type Interval struct {
	every   time.Duration
	handler Handler
}

// NewInterval returns an Interval trigger. A non-positive period disables it.
func NewInterval(every time.Duration, h Handler) *Interval {
	return &Interval{every: every, handler: h}
}

// Enabled reports whether the trigger fires at all.
func (i *Interval) Enabled() bool {
	return i.every > 0
}

// Run fires until ctx is done. A disabled trigger returns immediately.
func (i *Interval) Run(ctx context.Context) error {
	if !i.Enabled() {
		return nil
	}
	if i.handler == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "interval trigger has no handler")
	}

	ticker := time.NewTicker(i.every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			i.handler(snapshotter.ReasonInterval)
		case <-ctx.Done():
			slog.Debug("interval trigger stopped", "interval", i.every)
			return nil
		}
	}
}

// ParseSignal resolves a signal name such as "SIGUSR2" or "usr2".
func ParseSignal(name string) (syscall.Signal, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return 0, errors.New(errors.ErrCodeInvalidRequest, "signal name is empty")
	}
	if !strings.HasPrefix(n, "SIG") {
		n = "SIG" + n
	}
	sig := unix.SignalNum(n)
	if sig == 0 {
		return 0, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("unknown signal: %q", name))
	}
	switch sig {
	case syscall.SIGKILL, syscall.SIGSTOP:
		return 0, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("signal %s cannot be caught", n))
	}
	return sig, nil
}
