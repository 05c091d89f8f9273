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

package defaults

import (
	"syscall"
	"time"
)

// Snapshot output location.
const (
	// ScratchDir is the directory snapshot files are created in.
	ScratchDir = "/tmp"

	// FilePrefix is the fixed part of every snapshot file name. A random
	// suffix is appended at creation time.
	FilePrefix = "glusterfs."

	// WriteBufferSize bounds the memory a single snapshot pass buffers
	// before handing bytes to the file.
	WriteBufferSize = 32 * 1024
)

// Trigger settings.
const (
	// TriggerSignal is the signal that requests a snapshot.
	TriggerSignal = syscall.SIGUSR2

	// TriggerInterval is the default period of the interval trigger.
	// Zero disables periodic snapshots.
	TriggerInterval time.Duration = 0
)

// Server timeouts for the administrative HTTP endpoint.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second

	// SnapshotHandlerTimeout caps a single POST /v1/snapshot request.
	SnapshotHandlerTimeout = 15 * time.Second
)

// Server limits for the administrative HTTP endpoint.
const (
	// ServerPort is the default listening port.
	ServerPort = 9287

	// ServerRateLimit is the sustained request rate (requests per second).
	ServerRateLimit = 5

	// ServerRateLimitBurst is the request burst size.
	ServerRateLimitBurst = 10
)
