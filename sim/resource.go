package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/callcenter-sim/sim/trace"
)

// Resource is a capacity-limited pool shared by processes, such as a pool of
// call-center agents. Requests beyond capacity wait in FIFO order.
//
// Invariants: 0 <= InUse() <= Capacity(), and the wait queue is non-empty
// only while InUse() == Capacity().
type Resource struct {
	name     string
	capacity int
	inUse    int
	waitQ    WaitQueue
	sched    *Scheduler
	trace    *trace.GrantTrace

	// Integral of inUse over virtual time, up to lastChange.
	busyArea   float64
	lastChange float64
}

// NewResource creates a resource with the given capacity on scheduler s.
func NewResource(s *Scheduler, name string, capacity int) (*Resource, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %s capacity %d", ErrInvalidCapacity, name, capacity)
	}
	return &Resource{name: name, capacity: capacity, sched: s}, nil
}

// SetTrace attaches a grant trace. A nil trace disables recording.
func (r *Resource) SetTrace(t *trace.GrantTrace) {
	r.trace = t
}

// Name returns the resource name.
func (r *Resource) Name() string { return r.name }

// Capacity returns the total number of units.
func (r *Resource) Capacity() int { return r.capacity }

// InUse returns the number of granted units.
func (r *Resource) InUse() int { return r.inUse }

// QueueLen returns the number of processes waiting for a grant.
func (r *Resource) QueueLen() int { return r.waitQ.Len() }

// BusyTime returns the integral of InUse() over virtual time from zero to
// now, in unit-time. now must not precede the last capacity change.
func (r *Resource) BusyTime(now float64) float64 {
	return r.busyArea + float64(r.inUse)*(now-r.lastChange)
}

// accrue folds the current inUse level into busyArea before it changes.
func (r *Resource) accrue() {
	now := r.sched.Clock
	r.busyArea += float64(r.inUse) * (now - r.lastChange)
	r.lastChange = now
}

// Queue returns the pending requests in grant order.
func (r *Resource) Queue() []PendingRequest { return r.waitQ.Items() }

func (r *Resource) request(p *Process) bool {
	now := r.sched.Clock
	if r.inUse < r.capacity {
		r.accrue()
		r.inUse++
		r.grant(p, now, false)
		return true
	}
	r.waitQ.Enqueue(PendingRequest{Requester: p, EnqueueTime: now})
	p.pending = r
	logrus.Debugf("[t=%.4f] %s queued for %s (queue=%d)", now, p.name, r.name, r.waitQ.Len())
	return false
}

// release frees one unit held by p and hands it to the head of the wait
// queue, if any. A hand-over leaves inUse unchanged.
func (r *Resource) release(p *Process) error {
	idx := -1
	for i := len(p.held) - 1; i >= 0; i-- {
		if p.held[i] == r {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s by %s", ErrNotHeld, r.name, p.name)
	}
	p.held = append(p.held[:idx], p.held[idx+1:]...)
	r.accrue()
	r.inUse--

	head, ok := r.waitQ.Dequeue()
	if !ok {
		return nil
	}
	next := head.Requester
	next.pending = nil
	r.inUse++
	r.grant(next, head.EnqueueTime, true)
	r.sched.push(next, 0)
	return nil
}

func (r *Resource) grant(p *Process, requestedAt float64, queued bool) {
	p.held = append(p.held, r)
	if r.trace == nil || !r.trace.Enabled() {
		return
	}
	r.trace.RecordGrant(trace.GrantRecord{
		Resource:    r.name,
		ProcessID:   p.id,
		ProcessName: p.name,
		Clock:       r.sched.Clock,
		Waited:      r.sched.Clock - requestedAt,
		Queued:      queued,
		QueueDepth:  r.waitQ.Len(),
	})
}

// withdraw drops p's pending request without granting it.
func (r *Resource) withdraw(p *Process) {
	if r.waitQ.Remove(p) {
		logrus.Debugf("[t=%.4f] %s withdrew from %s", r.sched.Clock, p.name, r.name)
	}
}
