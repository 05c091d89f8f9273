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

// Package config loads the fsmond configuration file.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/fsmon/pkg/defaults"
	"github.com/NVIDIA/fsmon/pkg/errors"
	"github.com/NVIDIA/fsmon/pkg/graph"
	"github.com/NVIDIA/fsmon/pkg/logging"
	"github.com/NVIDIA/fsmon/pkg/serializer"
	"github.com/NVIDIA/fsmon/pkg/server"
	"github.com/NVIDIA/fsmon/pkg/snapshotter"
	"github.com/NVIDIA/fsmon/pkg/trigger"
)

// Environment overrides, applied after the file.
const (
	EnvScratchDir = "FSMON_SCRATCH_DIR"
	EnvPort       = "PORT"
	EnvLogLevel   = logging.EnvLogLevel
)

// Config is the daemon configuration.
type Config struct {
	ScratchDir    string        `json:"scratchDir" yaml:"scratch_dir"`
	FilePrefix    string        `json:"filePrefix" yaml:"file_prefix"`
	ProcessMemory bool          `json:"processMemory" yaml:"process_memory"`
	Cmdline       string        `json:"cmdline,omitempty" yaml:"cmdline,omitempty"`
	LogLevel      string        `json:"logLevel,omitempty" yaml:"log_level,omitempty"`
	Trigger       TriggerConfig `json:"trigger" yaml:"trigger"`
	Server        ServerConfig  `json:"server" yaml:"server"`
	Graph         *graph.Spec   `json:"graph,omitempty" yaml:"graph,omitempty"`
}

// TriggerConfig selects the out-of-band trigger sources.
type TriggerConfig struct {
	// Signal is the signal name, e.g. SIGUSR2. Empty disables the signal trigger.
	Signal string `json:"signal" yaml:"signal"`
	// Interval is the period of the interval trigger. Zero disables it.
	// Both YAML and JSON take a duration string such as "30s"; JSON also
	// accepts an integer number of nanoseconds.
	Interval time.Duration `json:"interval" yaml:"interval"`
}

// ServerConfig controls the administrative endpoint.
type ServerConfig struct {
	Enabled         bool          `json:"enabled" yaml:"enabled"`
	Address         string        `json:"address" yaml:"address"`
	Port            int           `json:"port" yaml:"port"`
	RateLimit       float64       `json:"rateLimit" yaml:"rate_limit"`
	RateLimitBurst  int           `json:"rateLimitBurst" yaml:"rate_limit_burst"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdown_timeout"`
}

// UnmarshalJSON decodes interval as a duration string or nanoseconds.
func (t *TriggerConfig) UnmarshalJSON(data []byte) error {
	type plain TriggerConfig
	aux := struct {
		*plain
		Interval json.RawMessage `json:"interval"`
	}{plain: (*plain)(t)}

	if err := decodeStrict(data, &aux); err != nil {
		return err
	}
	return decodeDuration("trigger.interval", aux.Interval, &t.Interval)
}

// UnmarshalJSON decodes shutdownTimeout as a duration string or nanoseconds.
func (c *ServerConfig) UnmarshalJSON(data []byte) error {
	type plain ServerConfig
	aux := struct {
		*plain
		ShutdownTimeout json.RawMessage `json:"shutdownTimeout"`
	}{plain: (*plain)(c)}

	if err := decodeStrict(data, &aux); err != nil {
		return err
	}
	return decodeDuration("server.shutdownTimeout", aux.ShutdownTimeout, &c.ShutdownTimeout)
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeDuration leaves dst unchanged when raw is absent or null.
func decodeDuration(field string, raw json.RawMessage, dst *time.Duration) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		*dst = d
		return nil
	}

	var ns int64
	if err := json.Unmarshal(raw, &ns); err != nil {
		return fmt.Errorf("%s: expected a duration string or nanoseconds, got %s", field, raw)
	}
	*dst = time.Duration(ns)
	return nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ScratchDir: defaults.ScratchDir,
		FilePrefix: defaults.FilePrefix,
		Trigger: TriggerConfig{
			Signal:   unix.SignalName(defaults.TriggerSignal),
			Interval: defaults.TriggerInterval,
		},
		Server: ServerConfig{
			Enabled:         true,
			Port:            defaults.ServerPort,
			RateLimit:       defaults.ServerRateLimit,
			RateLimitBurst:  defaults.ServerRateLimitBurst,
			ShutdownTimeout: defaults.ServerShutdownTimeout,
		},
	}
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result. An empty path loads only defaults
// and environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := serializer.FromFile(path, cfg); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
				"failed to load config", err, map[string]any{"path": path})
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvScratchDir); v != "" {
		c.ScratchDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.WrapWithContext(errors.ErrCodeInvalidRequest,
				"invalid port in environment", err, map[string]any{"env": EnvPort, "value": v})
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks value ranges and the graph description.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ScratchDir) == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "scratch_dir is required")
	}
	if strings.ContainsRune(c.FilePrefix, os.PathSeparator) {
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("file_prefix must not contain a path separator: %q", c.FilePrefix))
	}
	if c.Trigger.Interval < 0 {
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("trigger.interval must not be negative: %s", c.Trigger.Interval))
	}
	if c.Trigger.Signal != "" {
		if _, err := trigger.ParseSignal(c.Trigger.Signal); err != nil {
			return fmt.Errorf("trigger.signal: %w", err)
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("server.port out of range: %d", c.Server.Port))
	}
	if c.Server.RateLimit <= 0 || c.Server.RateLimitBurst <= 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "server.rate_limit and server.rate_limit_burst must be positive")
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "server.shutdown_timeout must not be negative")
	}
	if c.Graph != nil {
		if err := c.Graph.Validate(); err != nil {
			return fmt.Errorf("graph: %w", err)
		}
	}
	return nil
}

// Snapshotter returns the snapshotter settings.
func (c *Config) Snapshotter() snapshotter.Config {
	return snapshotter.Config{
		Dir:           c.ScratchDir,
		Prefix:        c.FilePrefix,
		ProcessMemory: c.ProcessMemory,
	}
}

// Signal returns the trigger signal, or 0 when the signal trigger is disabled.
func (c *Config) Signal() (syscall.Signal, error) {
	if c.Trigger.Signal == "" {
		return 0, nil
	}
	return trigger.ParseSignal(c.Trigger.Signal)
}

// ServerConfig returns the administrative server settings layered over
// server.NewConfig.
func (c *Config) ServerConfig(name, version string) *server.Config {
	sc := server.NewConfig()
	sc.Name = name
	sc.Version = version
	sc.Address = c.Server.Address
	sc.Port = c.Server.Port
	sc.RateLimit = rate.Limit(c.Server.RateLimit)
	sc.RateLimitBurst = c.Server.RateLimitBurst
	if c.Server.ShutdownTimeout > 0 {
		sc.ShutdownTimeout = c.Server.ShutdownTimeout
	}
	return sc
}
