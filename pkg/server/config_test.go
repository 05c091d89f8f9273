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

package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/NVIDIA/fsmon/pkg/defaults"
)

func TestParseConfig(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		cfg := parseConfig()

		assert.Empty(t, cfg.Address)
		assert.Equal(t, defaults.ServerPort, cfg.Port)
		assert.Equal(t, float64(defaults.ServerRateLimit), float64(cfg.RateLimit))
		assert.Equal(t, defaults.ServerRateLimitBurst, cfg.RateLimitBurst)
		assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
		assert.Equal(t, 5*time.Second, cfg.ReadHeaderTimeout)
		assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
		assert.Equal(t, 120*time.Second, cfg.IdleTimeout)
		assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, ":9287", cfg.Addr())
	})

	t.Run("custom port from environment", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		assert.Equal(t, 9090, parseConfig().Port)
	})

	t.Run("invalid port from environment uses default", func(t *testing.T) {
		t.Setenv("PORT", "invalid")
		assert.Equal(t, defaults.ServerPort, parseConfig().Port)
	})

	t.Run("out of range port uses default", func(t *testing.T) {
		t.Setenv("PORT", "70000")
		assert.Equal(t, defaults.ServerPort, parseConfig().Port)
	})

	t.Run("shutdown timeout from environment", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "5")
		assert.Equal(t, 5*time.Second, parseConfig().ShutdownTimeout)
	})
}
