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

import "strings"

// FilterOut returns the operations whose key matches none of the patterns.
// Patterns match "<stage>.<graph-id>.<op>" and may contain '*' wildcards.
func FilterOut(ops []Operation, patterns []string) []Operation {
	result := make([]Operation, 0, len(ops))
	for _, op := range ops {
		if !matchesAny(op.Key(), patterns) {
			result = append(result, op)
		}
	}
	return result
}

// FilterIn returns the operations whose key matches at least one pattern.
func FilterIn(ops []Operation, patterns []string) []Operation {
	result := make([]Operation, 0, len(ops))
	for _, op := range ops {
		if matchesAny(op.Key(), patterns) {
			result = append(result, op)
		}
	}
	return result
}

func matchesAny(key string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchesPattern(key, pattern) {
			return true
		}
	}
	return false
}

func matchesPattern(key, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return key == pattern
	}

	segments := strings.Split(pattern, "*")
	pos := 0
	for i, segment := range segments {
		if segment == "" {
			continue
		}

		if i == 0 {
			if !strings.HasPrefix(key, segment) {
				return false
			}
			pos = len(segment)
			continue
		}

		if i == len(segments)-1 {
			return len(key)-pos >= len(segment) && strings.HasSuffix(key[pos:], segment)
		}

		idx := strings.Index(key[pos:], segment)
		if idx == -1 {
			return false
		}
		pos += idx + len(segment)
	}

	return true
}
