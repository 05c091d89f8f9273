// Package measurement defines the textual snapshot format.
//
// A snapshot is a line oriented dump of process counters:
//
//	<cmdline>
//	memory.total.calloc <uint>
//	...
//	----
//	<stage-type>.<stage-name>.total.num_types <int>
//	type, in-use-size, in-use-units, max-size, max-units, total-allocs
//	<category>, <size>, <units>, <maxsize>, <maxunits>, <total>
//	-----
//	total.stack_count <uint>
//	in-flight.stack_count <uint>
//	-----
//	<stage-name>.<graph-id>.<op-name>.count <uint>
//	<stage-name>.<graph-id>.<op-name>.fail_count <uint>
//	<stage-name>.<graph-id>.<op-name>.latency <float>
//
// The Append functions encode single lines into a caller owned buffer and
// are used by the snapshotter. Parse reads a whole file back into a
// Snapshot:
//
//	f, err := os.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	snap, err := measurement.Parse(f)
//	if err != nil {
//	    return err
//	}
//	op, ok := snap.Operation("posix", "WRITE")
//
// Compare reports counter deltas between two snapshots of the same
// process, and FilterIn/FilterOut select operations by wildcard key.
package measurement
