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

package measurement

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/NVIDIA/fsmon/pkg/errors"
)

const maxLineSize = 1 << 20

type section int

const (
	sectionMemory section = iota
	sectionStacks
	sectionOperations
)

type parser struct {
	snap    *Snapshot
	section section
	stage   *StageMemory
	ops     map[string]int
	line    int
}

// Parse reads a snapshot file.
func Parse(r io.Reader) (*Snapshot, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	p := &parser{
		snap: &Snapshot{},
		ops:  make(map[string]int),
	}

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, "failed to read snapshot", err)
		}
		return nil, errors.New(errors.ErrCodeInvalidRequest, "empty snapshot")
	}
	p.line = 1
	p.snap.Cmdline = sc.Text()

	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, "failed to read snapshot", err)
	}
	if p.section != sectionOperations {
		return nil, p.fail("snapshot is truncated: missing section separators")
	}
	return p.snap, nil
}

func (p *parser) fail(msg string) error {
	return errors.NewWithContext(errors.ErrCodeInvalidRequest, msg, map[string]any{"line": p.line})
}

func (p *parser) failf(format string, args ...any) error {
	return p.fail(fmt.Sprintf(format, args...))
}

func (p *parser) parseLine(line string) error {
	if line == SectionSeparator {
		if p.section == sectionOperations {
			return p.fail("unexpected section separator")
		}
		p.section++
		p.stage = nil
		return nil
	}

	switch p.section {
	case sectionMemory:
		return p.parseMemory(line)
	case sectionStacks:
		return p.parseStacks(line)
	default:
		return p.parseOperation(line)
	}
}

func (p *parser) parseMemory(line string) error {
	switch {
	case line == MemorySeparator:
		if p.snap.Memory == nil {
			return p.fail("memory separator without memory section")
		}
		return nil
	case line == CategoryHeader:
		if p.stage == nil {
			return p.fail("category header outside a stage")
		}
		return nil
	case strings.HasPrefix(line, ProcessMemoryPrefix):
		return p.parseProcessMemory(line)
	}

	key, value, ok := splitKeyValue(line)
	if ok && strings.HasSuffix(key, SuffixNumTypes) {
		return p.parseStageHeader(strings.TrimSuffix(key, SuffixNumTypes), value)
	}
	return p.parseCategory(line)
}

func (p *parser) parseProcessMemory(line string) error {
	if len(p.snap.Stages) > 0 {
		return p.fail("process memory after stage memory")
	}
	if p.snap.Memory == nil {
		p.snap.Memory = &ProcessMemory{}
	}
	m := p.snap.Memory

	key, value, ok := splitKeyValue(line)
	if !ok {
		return p.failf("malformed line %q", line)
	}
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return p.failf("invalid value for %s: %q", key, value)
	}

	switch key {
	case KeyCalloc:
		m.Calloc = v
	case KeyMalloc:
		m.Malloc = v
	case KeyRealloc:
		m.Realloc = v
	case KeyFree:
		m.Free = v
	case KeyInUse:
		m.InUse = v
	default:
		idx, ok := parseBlockIndex(key)
		if !ok || idx != len(m.Blocks) {
			return p.failf("unexpected key %q", key)
		}
		m.Blocks = append(m.Blocks, v)
	}
	return nil
}

func parseBlockIndex(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, KeyBlockSize+"[")
	if !ok {
		return 0, false
	}
	num, ok := strings.CutSuffix(rest, "]")
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(num)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

func (p *parser) parseStageHeader(id, value string) error {
	// Stage names never contain '.', stage types may.
	dot := strings.LastIndexByte(id, '.')
	if dot <= 0 || dot == len(id)-1 {
		return p.failf("malformed stage identifier %q", id)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return p.failf("invalid num_types %q", value)
	}
	p.snap.Stages = append(p.snap.Stages, StageMemory{
		Type:       id[:dot],
		Name:       id[dot+1:],
		NumTypes:   n,
		Categories: []Category{},
	})
	p.stage = &p.snap.Stages[len(p.snap.Stages)-1]
	return nil
}

func (p *parser) parseCategory(line string) error {
	if p.stage == nil {
		return p.failf("unexpected line %q", line)
	}
	fields := strings.Split(line, CategorySeparator)
	if len(fields) != 6 {
		return p.failf("category row needs 6 fields, got %d", len(fields))
	}
	var nums [5]uint64
	for i, f := range fields[1:] {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return p.failf("invalid category value %q", f)
		}
		nums[i] = v
	}
	p.stage.Categories = append(p.stage.Categories, Category{
		Label:       fields[0],
		Size:        nums[0],
		Units:       nums[1],
		MaxSize:     nums[2],
		MaxUnits:    nums[3],
		TotalAllocs: nums[4],
	})
	return nil
}

func (p *parser) parseStacks(line string) error {
	key, value, ok := splitKeyValue(line)
	if !ok {
		return p.failf("malformed line %q", line)
	}
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return p.failf("invalid value for %s: %q", key, value)
	}
	switch key {
	case KeyStackTotal:
		p.snap.Stacks.Total = v
	case KeyStackInFlight:
		p.snap.Stacks.InFlight = v
	default:
		return p.failf("unexpected key %q", key)
	}
	return nil
}

func (p *parser) parseOperation(line string) error {
	key, value, ok := splitKeyValue(line)
	if !ok {
		return p.failf("malformed line %q", line)
	}

	// <stage>.<graph-id>.<op>.<suffix>
	parts := strings.Split(key, ".")
	if len(parts) != 4 {
		return p.failf("malformed operation key %q", key)
	}
	stage, op, suffix := parts[0], parts[2], parts[3]
	graphID, err := strconv.Atoi(parts[1])
	if err != nil {
		return p.failf("invalid graph id in %q", key)
	}

	id := stage + "." + parts[1] + "." + op
	idx, seen := p.ops[id]
	if !seen {
		p.snap.Operations = append(p.snap.Operations, Operation{Stage: stage, GraphID: graphID, Op: op})
		idx = len(p.snap.Operations) - 1
		p.ops[id] = idx
	}
	entry := &p.snap.Operations[idx]

	switch suffix {
	case SuffixCount, SuffixFailCount:
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return p.failf("invalid value for %s: %q", key, value)
		}
		if suffix == SuffixCount {
			entry.Count = v
		} else {
			entry.FailCount = v
		}
	case SuffixLatency:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return p.failf("invalid latency for %s: %q", key, value)
		}
		entry.Latency = v
	default:
		return p.failf("unknown operation suffix %q", suffix)
	}
	entry.Lines++
	return nil
}

func splitKeyValue(line string) (string, string, bool) {
	i := strings.LastIndexByte(line, ' ')
	if i <= 0 || i == len(line)-1 {
		return "", "", false
	}
	return line[:i], line[i+1:], true
}
