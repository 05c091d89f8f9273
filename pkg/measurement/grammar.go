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

import "strconv"

// Fixed lines and key fragments of the snapshot format.
const (
	// SectionSeparator ends the memory section and the call stack section.
	SectionSeparator = "-----"

	// MemorySeparator ends the process memory section.
	MemorySeparator = "----"

	// CategoryHeader precedes the category rows of a stage.
	CategoryHeader = "type, in-use-size, in-use-units, max-size, max-units, total-allocs"

	// ProcessMemoryPrefix starts every process memory key.
	ProcessMemoryPrefix = "memory.total."

	KeyCalloc    = "memory.total.calloc"
	KeyMalloc    = "memory.total.malloc"
	KeyRealloc   = "memory.total.realloc"
	KeyFree      = "memory.total.free"
	KeyInUse     = "memory.total.in-use"
	KeyBlockSize = "memory.total.blk_size"

	KeyStackTotal    = "total.stack_count"
	KeyStackInFlight = "in-flight.stack_count"

	// SuffixNumTypes ends the "<type>.<name>" line opening a stage.
	SuffixNumTypes = ".total.num_types"

	SuffixCount     = "count"
	SuffixFailCount = "fail_count"
	SuffixLatency   = "latency"

	// CategorySeparator separates the fields of a category row.
	CategorySeparator = ", "
)

// The Append functions encode one newline-terminated line into dst and
// return the extended buffer. They allocate only when dst must grow.

// AppendLine appends s as a line.
func AppendLine(dst []byte, s string) []byte {
	dst = append(dst, s...)
	return append(dst, '\n')
}

// AppendCounter appends "<key> <v>".
func AppendCounter(dst []byte, key string, v uint64) []byte {
	dst = append(dst, key...)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, v, 10)
	return append(dst, '\n')
}

// AppendBlockSize appends "memory.total.blk_size[<i>] <v>".
func AppendBlockSize(dst []byte, i int, v uint64) []byte {
	dst = append(dst, KeyBlockSize...)
	dst = append(dst, '[')
	dst = strconv.AppendInt(dst, int64(i), 10)
	dst = append(dst, "] "...)
	dst = strconv.AppendUint(dst, v, 10)
	return append(dst, '\n')
}

// AppendNumTypes appends "<type>.<name>.total.num_types <n>".
func AppendNumTypes(dst []byte, typ, name string, n int) []byte {
	dst = append(dst, typ...)
	dst = append(dst, '.')
	dst = append(dst, name...)
	dst = append(dst, SuffixNumTypes...)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(n), 10)
	return append(dst, '\n')
}

// AppendCategory appends one category row.
func AppendCategory(dst []byte, label string, size, units, maxSize, maxUnits, total uint64) []byte {
	dst = append(dst, label...)
	for _, v := range [...]uint64{size, units, maxSize, maxUnits, total} {
		dst = append(dst, CategorySeparator...)
		dst = strconv.AppendUint(dst, v, 10)
	}
	return append(dst, '\n')
}

func appendOpKey(dst []byte, stage string, graphID int, op, suffix string) []byte {
	dst = append(dst, stage...)
	dst = append(dst, '.')
	dst = strconv.AppendInt(dst, int64(graphID), 10)
	dst = append(dst, '.')
	dst = append(dst, op...)
	dst = append(dst, '.')
	dst = append(dst, suffix...)
	return append(dst, ' ')
}

// AppendOpCounter appends "<stage>.<graph-id>.<op>.<suffix> <v>".
func AppendOpCounter(dst []byte, stage string, graphID int, op, suffix string, v uint64) []byte {
	dst = appendOpKey(dst, stage, graphID, op, suffix)
	dst = strconv.AppendUint(dst, v, 10)
	return append(dst, '\n')
}

// AppendOpLatency appends "<stage>.<graph-id>.<op>.latency <v>" with six decimals.
func AppendOpLatency(dst []byte, stage string, graphID int, op string, v float64) []byte {
	dst = appendOpKey(dst, stage, graphID, op, SuffixLatency)
	dst = strconv.AppendFloat(dst, v, 'f', 6, 64)
	return append(dst, '\n')
}
