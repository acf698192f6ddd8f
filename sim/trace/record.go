// Package trace provides grant-trace recording for resource contention analysis.
// It has no dependencies on sim/ and stores plain data types.
package trace

// GrantRecord captures a single grant of resource capacity to a process.
type GrantRecord struct {
	Resource    string
	ProcessID   uint64
	ProcessName string
	Clock       float64 // virtual time of the grant
	Waited      float64 // time spent in the wait queue (0 for immediate grants)
	Queued      bool    // true if the request waited in the queue before the grant
	QueueDepth  int     // wait queue length right after the grant
}
