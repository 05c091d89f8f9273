// Package cli implements the fsmond command line.
//
// # Commands
//
// serve - Run the daemon:
//
//	fsmond serve --config /etc/fsmon/fsmond.yaml
//
// Installs the signal and interval triggers, starts the administrative
// endpoint and notifies systemd once ready.
//
// dump - Write one snapshot and print its path:
//
//	fsmond dump --config /etc/fsmon/fsmond.yaml
//
// show - Render a snapshot file:
//
//	fsmond show /tmp/glusterfs.x1Yz9Q --format table
//	fsmond show /tmp/glusterfs.x1Yz9Q --filter 'vol0-posix.*' --format json
//
// diff - Compare two snapshots of the same process:
//
//	fsmond diff /tmp/glusterfs.a /tmp/glusterfs.b --fail-on-regression
//
// # Global Flags
//
//	--log-level    debug, info, warn, error (env LOG_LEVEL)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// show and diff accept --output/-o (default stdout) and --format/-t
// (yaml, json, table; default yaml).
package cli
