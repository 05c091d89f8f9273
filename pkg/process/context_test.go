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

package process

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/fsmon/pkg/callpool"
	"github.com/NVIDIA/fsmon/pkg/graph"
	"github.com/NVIDIA/fsmon/pkg/memacct"
)

func TestNew_Defaults(t *testing.T) {
	c := New()

	assert.Equal(t, strings.Join(os.Args, " "), c.Cmdline())
	assert.Nil(t, c.Active())
	assert.NotNil(t, c.Pool())
	assert.NotNil(t, c.Memory())
}

func TestNew_Options(t *testing.T) {
	g, err := graph.New(9, graph.NewStage("t", "a"))
	require.NoError(t, err)
	pool := callpool.New()
	mem := memacct.NewProcessStats()

	c := New(
		WithCmdline("/usr/sbin/glusterfsd -s host --volfile-id vol0"),
		WithGraph(g),
		WithPool(pool),
		WithMemoryStats(mem),
	)

	assert.Equal(t, "/usr/sbin/glusterfsd -s host --volfile-id vol0", c.Cmdline())
	assert.Same(t, g, c.Active())
	assert.Same(t, pool, c.Pool())
	assert.Same(t, mem, c.Memory())
}

func TestSetActive(t *testing.T) {
	c := New()
	g1, err := graph.New(1)
	require.NoError(t, err)
	g2, err := graph.New(2)
	require.NoError(t, err)

	assert.Nil(t, c.SetActive(g1))
	assert.Same(t, g1, c.SetActive(g2))
	assert.Equal(t, 2, c.Active().ID())
}
