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

package fop

// Type identifies one kind of filesystem request.
type Type uint8

// Request kinds in wire order. Null is the invalid zero value and is never reported.
const (
	Null Type = iota
	Stat
	Readlink
	Mknod
	Mkdir
	Unlink
	Rmdir
	Symlink
	Rename
	Link
	Truncate
	Open
	Read
	Write
	Statfs
	Flush
	Fsync
	Setxattr
	Getxattr
	Removexattr
	Opendir
	Fsyncdir
	Access
	Create
	Ftruncate
	Fstat
	Lk
	Lookup
	Readdir
	Inodelk
	Finodelk
	Entrylk
	Fentrylk
	Xattrop
	Fxattrop
	Fgetxattr
	Fsetxattr
	Rchecksum
	Setattr
	Fsetattr
	Readdirp
	Forget
	Release
	Releasedir
	Getspec
	Fremovexattr
	Fallocate
	Discard
	Zerofill
	Ipc
	Seek
	Lease
	Compound
	Getactivelk
	Setactivelk
	Put
	Icreate
	Namelink

	// MaxValue is one past the last valid Type.
	MaxValue
)

var names = [MaxValue]string{
	Null:         "NULL",
	Stat:         "STAT",
	Readlink:     "READLINK",
	Mknod:        "MKNOD",
	Mkdir:        "MKDIR",
	Unlink:       "UNLINK",
	Rmdir:        "RMDIR",
	Symlink:      "SYMLINK",
	Rename:       "RENAME",
	Link:         "LINK",
	Truncate:     "TRUNCATE",
	Open:         "OPEN",
	Read:         "READ",
	Write:        "WRITE",
	Statfs:       "STATFS",
	Flush:        "FLUSH",
	Fsync:        "FSYNC",
	Setxattr:     "SETXATTR",
	Getxattr:     "GETXATTR",
	Removexattr:  "REMOVEXATTR",
	Opendir:      "OPENDIR",
	Fsyncdir:     "FSYNCDIR",
	Access:       "ACCESS",
	Create:       "CREATE",
	Ftruncate:    "FTRUNCATE",
	Fstat:        "FSTAT",
	Lk:           "LK",
	Lookup:       "LOOKUP",
	Readdir:      "READDIR",
	Inodelk:      "INODELK",
	Finodelk:     "FINODELK",
	Entrylk:      "ENTRYLK",
	Fentrylk:     "FENTRYLK",
	Xattrop:      "XATTROP",
	Fxattrop:     "FXATTROP",
	Fgetxattr:    "FGETXATTR",
	Fsetxattr:    "FSETXATTR",
	Rchecksum:    "RCHECKSUM",
	Setattr:      "SETATTR",
	Fsetattr:     "FSETATTR",
	Readdirp:     "READDIRP",
	Forget:       "FORGET",
	Release:      "RELEASE",
	Releasedir:   "RELEASEDIR",
	Getspec:      "GETSPEC",
	Fremovexattr: "FREMOVEXATTR",
	Fallocate:    "FALLOCATE",
	Discard:      "DISCARD",
	Zerofill:     "ZEROFILL",
	Ipc:          "IPC",
	Seek:         "SEEK",
	Lease:        "LEASE",
	Compound:     "COMPOUND",
	Getactivelk:  "GETACTIVELK",
	Setactivelk:  "SETACTIVELK",
	Put:          "PUT",
	Icreate:      "ICREATE",
	Namelink:     "NAMELINK",
}

// Types is every reportable request kind, in wire order.
var Types = func() []Type {
	out := make([]Type, 0, MaxValue-1)
	for t := Stat; t < MaxValue; t++ {
		out = append(out, t)
	}
	return out
}()

// String returns the wire name of the request kind, e.g. "READ".
func (t Type) String() string {
	if t >= MaxValue {
		return "INVALID"
	}
	return names[t]
}

// IsValid reports whether t is a reportable request kind.
func (t Type) IsValid() bool {
	return t > Null && t < MaxValue
}

// ParseType parses a wire name into a Type.
// Returns the Type and true if parsing succeeds, or Null and false otherwise.
func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if names[t] == s {
			return t, true
		}
	}
	return Null, false
}
