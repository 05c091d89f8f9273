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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusPartial = "partial"
	statusError   = "error"
)

var (
	snapshotTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fsmon_snapshot_total",
			Help: "Total number of snapshot attempts",
		},
		[]string{"status"}, // success, partial or error
	)

	snapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fsmon_snapshot_duration_seconds",
			Help:    "Time taken to write a complete snapshot file",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	snapshotBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fsmon_snapshot_bytes",
			Help:    "Size of written snapshot files",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
	)
)
