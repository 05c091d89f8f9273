// Package snapshotter writes point-in-time snapshots of a process's
// operational counters to uniquely named scratch files.
//
// A pass reads the active graph, the call-frame pool and, when enabled,
// the process allocator statistics of a process.Context. Every value is a
// single atomic load, so a snapshot is current-at-read-time per counter and
// not consistent across counters. Nothing is locked and nothing is cached
// between passes.
//
// The file layout is, in order:
//
//   - the process command line
//   - the process memory section ending in "----" (Config.ProcessMemory)
//   - per stage memory accounting blocks
//   - "-----"
//   - call stack pool counters
//   - "-----"
//   - per stage, per operation count, fail_count and latency lines
//
// Zero counters are omitted from the operation section and categories that
// were never allocated from are omitted from accounting blocks.
//
// # Usage
//
//	s := snapshotter.New(snapshotter.Config{Dir: "/tmp", ProcessMemory: true}, nil)
//
//	// fire and forget, e.g. from a signal handler goroutine
//	s.Trigger(snapshotter.SignalReason(syscall.SIGUSR2), pc)
//
//	// or when the caller needs the result
//	path, err := s.Dump(snapshotter.ReasonRequest, pc)
//
// Trigger never returns an error. A file that cannot be created is logged
// and the pass is abandoned. Write and sync failures after creation are
// logged and leave a truncated file behind.
//
// # Metrics
//
//   - fsmon_snapshot_total{status}: attempts by success, partial or error
//   - fsmon_snapshot_duration_seconds: time to write one file
//   - fsmon_snapshot_bytes: size of written files
package snapshotter
