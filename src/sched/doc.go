// Package sched is a single-core task scheduler: a fixed-capacity table
// of cooperatively- and preemptively-scheduled tasks, intrusive wait
// lists for blocking primitives, and round-robin selection with
// amortized compaction.
//
// Architecture-specific collaborators a bare-metal target would hand it
// — the register frame an IRQ stub saves and restores, the clock
// source's tick counter, interrupt masking — are small Go types here
// (the RegisterFrame struct, the Clock interface, critical.Section)
// rather than ARM assembly, so
// the state machine runs under `go test` without a cross-compiled
// target.
package sched
