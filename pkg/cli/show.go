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
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/fsmon/pkg/measurement"
)

func showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Render a snapshot file as YAML, JSON or a table",
		ArgsUsage: "<snapshot-file>",
		Description: `Parses a snapshot file written by fsmond and renders it.

Operation entries can be narrowed with --filter and --exclude, which take
wildcard patterns matched against "<stage>.<graph-id>.<op>":

  fsmond show /tmp/glusterfs.x1Yz9Q --filter 'vol0-posix.*' --exclude '*.STAT'`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "filter",
				Usage: "keep only operations matching any pattern",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "drop operations matching any pattern",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one snapshot file, got %d", cmd.Args().Len())
			}

			snap, err := readSnapshot(cmd.Args().First())
			if err != nil {
				return err
			}

			if patterns := cmd.StringSlice("filter"); len(patterns) > 0 {
				snap.Operations = measurement.FilterIn(snap.Operations, patterns)
			}
			if patterns := cmd.StringSlice("exclude"); len(patterns) > 0 {
				snap.Operations = measurement.FilterOut(snap.Operations, patterns)
			}

			return writeValue(ctx, cmd, snap)
		},
	}
}

func diffCmd() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Show what changed between two snapshots of the same process",
		ArgsUsage: "<older-file> <newer-file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fail-on-regression",
				Usage: "exit with an error when a lifetime counter went backwards",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("expected two snapshot files, got %d", cmd.Args().Len())
			}

			prev, err := readSnapshot(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			cur, err := readSnapshot(cmd.Args().Get(1))
			if err != nil {
				return err
			}

			d, err := measurement.Compare(prev, cur)
			if err != nil {
				return fmt.Errorf("failed to compare snapshots: %w", err)
			}

			if err := writeValue(ctx, cmd, d); err != nil {
				return err
			}

			if cmd.Bool("fail-on-regression") && len(d.Regressions) > 0 {
				return fmt.Errorf("%d counter(s) went backwards: %v", len(d.Regressions), d.Regressions)
			}
			return nil
		},
	}
}

func readSnapshot(path string) (*measurement.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %q: %w", path, err)
	}
	defer f.Close()

	snap, err := measurement.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %q: %w", path, err)
	}
	return snap, nil
}
