package sim

// Event is a scheduled resumption of a process at a virtual time.
// Events are ordered by (Timestamp, Sequence); the sequence is assigned by the
// owning Scheduler when the event is scheduled, so events due at the same
// instant resume in the order they were scheduled.
type Event struct {
	due  float64  // virtual time at which the process resumes
	seq  uint64   // scheduling order, strictly increasing per Scheduler
	proc *Process // process to resume
}

// Timestamp returns the virtual time the event is due.
func (e *Event) Timestamp() float64 {
	return e.due
}

// Sequence returns the insertion counter used as the tie-breaker.
func (e *Event) Sequence() uint64 {
	return e.seq
}

// Process returns the process this event resumes.
func (e *Event) Process() *Process {
	return e.proc
}

// before reports whether e orders strictly before other.
func (e *Event) before(other *Event) bool {
	if e.due != other.due {
		return e.due < other.due
	}
	return e.seq < other.seq
}
