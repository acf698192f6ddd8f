// Package sim provides the discrete-event simulation engine for callcenter-sim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - process.go: Process lifecycle (ready → running → suspended → finished) and the Behavior interface
//   - simulator.go: the (timestamp, sequence) EventQueue and the Scheduler loop
//   - resource.go: capacity-limited Resource with a FIFO wait queue
//
// # Execution Model
//
// Everything runs on one goroutine. A Behavior's Resume runs until it calls
// Process.Hold, makes a Request that cannot be granted at once, or returns
// (which completes the process). The Scheduler then resumes the next due
// process. Events due at the same instant resume in the order they were
// scheduled.
//
// Every grant a process holds is released when the process is torn down,
// including when Scheduler.Shutdown abandons it.
//
// # Sub-packages
//
//   - sim/callcenter/: the call-center model (arrival generator, callers,
//     queue sampler), per-run statistics, and metric reduction
//   - sim/trace/: optional grant-trace recording
package sim
