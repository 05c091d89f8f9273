// Package memacct keeps allocation accounting for pipeline stages and for
// the process as a whole.
//
// A Record belongs to one stage and holds a fixed list of categories, each
// with current and peak usage plus a lifetime allocation count. ProcessStats
// counts allocator calls for the whole process and tracks outstanding
// allocations per size class.
//
// Every counter is an atomic; readers never block writers.
package memacct
