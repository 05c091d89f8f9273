// Package graph models the active request pipeline of a process: an ordered
// chain of stages, each carrying its own counters.
//
// A Graph is built once and never changes. Stages are stored in an indexed
// slice and "next" is an index into it, so walks are cheap and always
// terminate:
//
//	for s := range g.Walk() {
//	    fmt.Println(s.Type, s.Name)
//	}
//
// Graphs can be described in YAML and built with FromSpec:
//
//	id: 1
//	stages:
//	  - type: debug/io-stats
//	    name: vol0
//	    memory_types: [gf_common_mt_inode_ctx]
//	  - type: protocol/client
//	    name: vol0-client-0
package graph
