// Package defaults centralizes the fixed values fsmon relies on.
//
// # Categories
//
//   - Snapshot output: scratch directory, file prefix, write buffer size
//   - Triggers: the snapshot signal and the default interval
//   - Server: timeouts, port and rate limits for the administrative endpoint
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/NVIDIA/fsmon/pkg/defaults"
//
//	f, err := serializer.NewScratchFile(defaults.ScratchDir, defaults.FilePrefix)
//
// Values that operators may want to change are also exposed through pkg/config,
// which falls back to these constants.
package defaults
