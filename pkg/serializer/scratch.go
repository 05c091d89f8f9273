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

package serializer

import (
	"bufio"
	"os"

	"github.com/NVIDIA/fsmon/pkg/defaults"
	"github.com/NVIDIA/fsmon/pkg/errors"
)

// ScratchFile is a uniquely named output file behind a fixed size write
// buffer. It is owned by a single writer and must be closed exactly once.
type ScratchFile struct {
	file *os.File
	buf  *bufio.Writer
	n    int64
}

// NewScratchFile exclusively creates <dir>/<prefix><random>. An empty dir
// or prefix selects the defaults.
func NewScratchFile(dir, prefix string) (*ScratchFile, error) {
	if dir == "" {
		dir = defaults.ScratchDir
	}
	if prefix == "" {
		prefix = defaults.FilePrefix
	}

	// CreateTemp opens with O_EXCL and retries on collision.
	f, err := os.CreateTemp(dir, prefix+"*")
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to create scratch file", err,
			map[string]any{"dir": dir, "prefix": prefix})
	}

	return &ScratchFile{
		file: f,
		buf:  bufio.NewWriterSize(f, defaults.WriteBufferSize),
	}, nil
}

// Path returns the absolute name of the file.
func (s *ScratchFile) Path() string {
	return s.file.Name()
}

// Write implements io.Writer on the buffer. Errors are sticky: once a
// flush fails every later Write returns the same error.
func (s *ScratchFile) Write(p []byte) (int, error) {
	n, err := s.buf.Write(p)
	s.n += int64(n)
	return n, err
}

// Written returns the number of bytes accepted by Write.
func (s *ScratchFile) Written() int64 {
	return s.n
}

// Close flushes the buffer, syncs and closes the file. Every step runs
// even when an earlier one failed; the first failure is returned.
func (s *ScratchFile) Close() error {
	var first error
	if err := s.buf.Flush(); err != nil {
		first = errors.Wrap(errors.ErrCodeIO, "failed to flush scratch file", err)
	}
	if err := s.file.Sync(); err != nil && first == nil {
		first = errors.Wrap(errors.ErrCodeIO, "failed to sync scratch file", err)
	}
	if err := s.file.Close(); err != nil && first == nil {
		first = errors.Wrap(errors.ErrCodeIO, "failed to close scratch file", err)
	}
	return first
}
