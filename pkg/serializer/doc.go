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

// Package serializer handles the files and encodings used around snapshots.
//
// ScratchFile is the snapshot sink. It exclusively creates a uniquely
// named file and buffers writes in a fixed size buffer:
//
//	f, err := serializer.NewScratchFile("/tmp", "glusterfs.")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	f.Write(line)
//
// Close always runs flush, sync and close in order, so a partially
// written file is still persisted.
//
// Writer renders values as JSON, YAML or a flattened table:
//
//	w := serializer.NewWriter(serializer.FormatTable, os.Stdout)
//	if err := w.Serialize(ctx, snap); err != nil {
//	    return err
//	}
//
// Reader and FromFile decode JSON and YAML documents, such as the daemon
// configuration. RespondJSON is the JSON helper for HTTP handlers.
package serializer
