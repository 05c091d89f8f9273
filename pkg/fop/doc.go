// Package fop enumerates the filesystem request kinds a pipeline stage can
// serve and keeps per-kind call counters for one stage.
//
// Counters are plain atomics so request paths can update them while a
// snapshot reads them. The mean latency is a running mean kept in
// microseconds; it is updated with a compare-and-swap loop over the float
// bits.
//
//	tbl := fop.NewTable()
//	start := time.Now()
//	err := serve(req)
//	tbl.Observe(fop.Read, time.Since(start), err != nil)
package fop
