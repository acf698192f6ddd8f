// sim/simulator.go
package sim

import (
	"container/heap"
	"fmt"
	"math"
	"slices"

	"github.com/sirupsen/logrus"
)

// EventQueue implements heap.Interface and orders events by (timestamp, sequence).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue struct {
	events []*Event
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{events: make([]*Event, 0)}
	heap.Init(q)
	return q
}

func (q *EventQueue) Len() int           { return len(q.events) }
func (q *EventQueue) Less(i, j int) bool { return q.events[i].before(q.events[j]) }
func (q *EventQueue) Swap(i, j int)      { q.events[i], q.events[j] = q.events[j], q.events[i] }

func (q *EventQueue) Push(x any) {
	q.events = append(q.events, x.(*Event))
}

func (q *EventQueue) Pop() any {
	old := q.events
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	q.events = old[0 : n-1]
	return item
}

// Schedule adds an event to the queue.
func (q *EventQueue) Schedule(e *Event) {
	heap.Push(q, e)
}

// PopNext removes and returns the earliest event, or nil if the queue is empty.
func (q *EventQueue) PopNext() *Event {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(*Event)
}

// Peek returns the earliest event without removing it, or nil if the queue is empty.
func (q *EventQueue) Peek() *Event {
	if q.Len() == 0 {
		return nil
	}
	return q.events[0]
}

// Scheduler owns the virtual clock and the event queue, and multiplexes every
// live process onto a single timeline.
//
// Thread-safety: NOT thread-safe. A Scheduler and everything attached to it
// (processes, resources, random streams) must be driven from one goroutine.
type Scheduler struct {
	Clock float64 // current virtual time

	// StepCount is the number of events executed so far.
	StepCount int

	// AfterStep, when set, is called after every resumption with the clock
	// and the process that just ran. Used to instrument invariants.
	AfterStep func(now float64, p *Process)

	queue   *EventQueue
	nextSeq uint64
	nextPID uint64
	live    map[uint64]*Process
}

// NewScheduler creates a scheduler at virtual time zero with no processes.
func NewScheduler() *Scheduler {
	return &Scheduler{
		queue: NewEventQueue(),
		live:  make(map[uint64]*Process),
	}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() float64 {
	return s.Clock
}

// Pending returns the number of scheduled, not yet executed events.
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// Live returns the number of processes that have not finished.
func (s *Scheduler) Live() int {
	return len(s.live)
}

// NewProcess registers a process in the Ready state. It does not run until
// started with Start.
func (s *Scheduler) NewProcess(name string, b Behavior) *Process {
	if b == nil {
		panic("NewProcess: behavior must not be nil")
	}
	s.nextPID++
	p := &Process{
		id:       s.nextPID,
		name:     name,
		state:    Ready,
		behavior: b,
		sched:    s,
	}
	s.live[p.id] = p
	return p
}

// Start schedules the first resumption of a Ready process at the current time.
func (s *Scheduler) Start(p *Process) error {
	return s.Schedule(p, 0)
}

// Spawn creates a process and starts it at the current time.
func (s *Scheduler) Spawn(name string, b Behavior) (*Process, error) {
	p := s.NewProcess(name, b)
	if err := s.Start(p); err != nil {
		return nil, err
	}
	logrus.Debugf("[t=%.4f] spawned %s (pid %d)", s.Clock, name, p.id)
	return p, nil
}

// Schedule inserts a wake-up for p at Clock+delay.
// Note, the sequence number is taken here, not when p was created.
func (s *Scheduler) Schedule(p *Process, delay float64) error {
	if delay < 0 || math.IsNaN(delay) {
		return fmt.Errorf("%w: %v for %s", ErrInvalidDelay, delay, p.name)
	}
	if p.state == Finished {
		return fmt.Errorf("%w: %s", ErrProcessFinished, p.name)
	}
	s.push(p, delay)
	return nil
}

func (s *Scheduler) push(p *Process, delay float64) {
	s.nextSeq++
	s.queue.Schedule(&Event{due: s.Clock + delay, seq: s.nextSeq, proc: p})
}

// RunUntil executes events in (timestamp, sequence) order until the queue is
// empty or the next event is due after horizon. Events due exactly at the
// horizon are executed. Unexecuted events stay queued; processes waiting on
// them are left Suspended or Ready.
func (s *Scheduler) RunUntil(horizon float64) error {
	for s.queue.Len() > 0 {
		if s.queue.Peek().due > horizon {
			break
		}
		ev := s.queue.PopNext()
		if ev.due < s.Clock {
			return fmt.Errorf("%w: event for %s due at %v, clock at %v",
				ErrClockRegression, ev.proc.name, ev.due, s.Clock)
		}
		s.Clock = ev.due
		if ev.proc.state == Finished {
			continue
		}
		logrus.Tracef("[t=%10.4f] resuming %s", s.Clock, ev.proc.name)
		if err := s.resume(ev.proc); err != nil {
			return err
		}
		s.StepCount++
		if s.AfterStep != nil {
			s.AfterStep(s.Clock, ev.proc)
		}
	}
	logrus.Debugf("[t=%10.4f] run stopped at horizon %v with %d pending events", s.Clock, horizon, s.queue.Len())
	return nil
}

// resume runs one activation of p. A behavior that returns without
// suspending has completed and the process is torn down.
func (s *Scheduler) resume(p *Process) error {
	p.state = Running
	if err := p.behavior.Resume(p); err != nil {
		p.teardown()
		return fmt.Errorf("process %s: %w", p.name, err)
	}
	if p.state == Running {
		p.teardown()
	}
	return nil
}

// Shutdown abandons every live process in creation order without running
// any more of its behavior. Held resource capacity is released and pending
// resource requests are withdrawn. The event queue is emptied.
// Returns the number of processes abandoned.
func (s *Scheduler) Shutdown() int {
	ids := make([]uint64, 0, len(s.live))
	for id := range s.live {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	abandoned := 0
	for _, id := range ids {
		p, ok := s.live[id]
		if !ok {
			continue
		}
		p.teardown()
		abandoned++
	}
	s.queue = NewEventQueue()
	logrus.Debugf("[t=%10.4f] shutdown abandoned %d processes", s.Clock, abandoned)
	return abandoned
}
