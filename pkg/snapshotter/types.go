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
	"strconv"
	"syscall"
)

// Config controls where snapshots go and what they contain.
type Config struct {
	// Dir is the scratch directory. Empty selects defaults.ScratchDir.
	Dir string

	// Prefix is the fixed part of the file name. Empty selects defaults.FilePrefix.
	Prefix string

	// ProcessMemory enables the process allocator section.
	ProcessMemory bool
}

// Reason identifies what requested a snapshot. Positive values are signal
// numbers. It is logged but never written to the snapshot.
type Reason int

const (
	ReasonManual   Reason = 0
	ReasonInterval Reason = -1
	ReasonRequest  Reason = -2
)

// SignalReason returns the reason for a delivered signal.
func SignalReason(sig syscall.Signal) Reason {
	return Reason(sig)
}

func (r Reason) String() string {
	switch {
	case r == ReasonManual:
		return "manual"
	case r == ReasonInterval:
		return "interval"
	case r == ReasonRequest:
		return "request"
	case r > 0:
		return syscall.Signal(r).String()
	default:
		return "reason(" + strconv.Itoa(int(r)) + ")"
	}
}
