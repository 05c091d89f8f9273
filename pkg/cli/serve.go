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

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/fsmon/pkg/api"
	"github.com/NVIDIA/fsmon/pkg/config"
	"github.com/NVIDIA/fsmon/pkg/logging"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the snapshot daemon",
		Description: `Builds the runtime from the configured graph, installs the signal and
interval triggers and starts the administrative endpoint:

  GET  /health       liveness
  GET  /ready        readiness
  GET  /metrics      Prometheus metrics
  POST /v1/snapshot  write a snapshot and return its path

Runs until interrupted.`,
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return api.Serve(ctx, cfg, api.WithVersion(version))
		},
	}
}

func dumpCmd() *cli.Command {
	return &cli.Command{
		Name:  "dump",
		Usage: "Write one snapshot of the configured runtime and print its path",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path, err := api.Dump(cfg)
			if err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}
			_, err = fmt.Fprintln(commandWriter(cmd), path)
			return err
		},
	}
}

// loadConfig loads the file named by the config flag. A log_level from the
// file applies unless --log-level or LOG_LEVEL was given.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", path, err)
	}
	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	}
	return cfg, nil
}
