// Defines the Process type: a suspendable unit of simulated behavior that the
// Scheduler resumes at scheduled times or on resource grants.

package sim

import "fmt"

// ProcessState represents the lifecycle state of a process.
type ProcessState int

const (
	Ready     ProcessState = iota // created, first resumption scheduled
	Suspended                     // waiting on a timed wake-up or a resource grant
	Running                       // inside its behavior's Resume
	Finished                      // completed or cancelled; never resumed again
)

func (s ProcessState) String() string {
	switch s {
	case Ready:
		return "ready"
	case Suspended:
		return "suspended"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("ProcessState(%d)", int(s))
	}
}

// Behavior is the single capability every process variant implements:
// being resumable at a scheduled time or on a resource grant.
//
// Resume runs until the behavior suspends (Hold, or a Request that is not
// granted immediately) or returns without suspending, which completes the
// process. Behaviors keep their own state between resumptions.
type Behavior interface {
	Resume(p *Process) error
}

// BehaviorFunc adapts an ordinary function to the Behavior interface.
type BehaviorFunc func(p *Process) error

// Resume calls f(p).
func (f BehaviorFunc) Resume(p *Process) error {
	return f(p)
}

// Process is a simulated actor owned by a Scheduler for its whole lifetime.
type Process struct {
	id       uint64
	name     string
	state    ProcessState
	behavior Behavior
	sched    *Scheduler

	held    []*Resource // one entry per outstanding grant
	pending *Resource   // resource whose wait queue holds this process, if any
}

// ID returns the process identifier, unique per Scheduler and increasing in creation order.
func (p *Process) ID() uint64 { return p.id }

// Name returns the process name.
func (p *Process) Name() string { return p.name }

// State returns the current lifecycle state.
func (p *Process) State() ProcessState { return p.state }

// Now returns the owning scheduler's virtual time.
func (p *Process) Now() float64 { return p.sched.Clock }

// Holds reports how many grants of r the process currently holds.
func (p *Process) Holds(r *Resource) int {
	n := 0
	for _, h := range p.held {
		if h == r {
			n++
		}
	}
	return n
}

func (p *Process) String() string {
	return fmt.Sprintf("%s(pid=%d, %s)", p.name, p.id, p.state)
}

// Hold suspends the process for duration units of virtual time.
// Must be called from within the process's own Resume.
func (p *Process) Hold(duration float64) error {
	if p.state != Running {
		return fmt.Errorf("%w: %s is %s", ErrNotRunning, p.name, p.state)
	}
	if err := p.sched.Schedule(p, duration); err != nil {
		return err
	}
	p.state = Suspended
	return nil
}

// Request asks r for one unit of capacity. It returns true when the grant is
// immediate and the process keeps running. Otherwise the process is
// suspended in r's wait queue and Resume is called again once the grant is
// made; the caller must return from Resume without further suspension.
func (p *Process) Request(r *Resource) bool {
	if p.state != Running {
		panic(fmt.Sprintf("Request: %s is %s, want running", p.name, p.state))
	}
	if r.request(p) {
		return true
	}
	p.state = Suspended
	return false
}

// Release returns one unit of r's capacity held by the process.
func (p *Process) Release(r *Resource) error {
	return r.release(p)
}

// Spawn creates and starts a new process on the same scheduler.
func (p *Process) Spawn(name string, b Behavior) (*Process, error) {
	return p.sched.Spawn(name, b)
}

// Cancel abandons the process without running the rest of its behavior.
// Held capacity is released and a pending request is withdrawn.
// Cancelling a finished process is a no-op.
func (p *Process) Cancel() {
	p.teardown()
}

// teardown is the single exit path of every process: it pairs each
// outstanding grant with exactly one release.
func (p *Process) teardown() {
	if p.state == Finished {
		return
	}
	p.state = Finished
	if p.pending != nil {
		p.pending.withdraw(p)
		p.pending = nil
	}
	for len(p.held) > 0 {
		r := p.held[len(p.held)-1]
		if err := r.release(p); err != nil {
			panic(fmt.Sprintf("teardown: %s: %v", p.name, err))
		}
	}
	delete(p.sched.live, p.id)
}
