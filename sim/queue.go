// Implements the WaitQueue, which holds the requests blocked on a Resource.
// Requests are enqueued when no capacity is free and granted strictly in order.

package sim

import (
	"fmt"
	"strings"
)

// PendingRequest is a capacity request that could not be granted immediately.
// It is owned by the Resource until granted or withdrawn.
type PendingRequest struct {
	Requester   *Process
	EnqueueTime float64
}

// WaitQueue represents a FIFO queue of pending requests. There is no
// priority and no preemption: the head is always the oldest request.
type WaitQueue struct {
	queue []PendingRequest
}

// Enqueue adds a request to the back of the wait queue.
func (wq *WaitQueue) Enqueue(pr PendingRequest) {
	wq.queue = append(wq.queue, pr)
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, pr := range wq.queue {
		sb.WriteString(fmt.Sprintf("%s@%.2f", pr.Requester.Name(), pr.EnqueueTime))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of pending requests.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

// Peek returns the request at the front of the queue without removing it.
// The boolean is false if the queue is empty.
func (wq *WaitQueue) Peek() (PendingRequest, bool) {
	if len(wq.queue) == 0 {
		return PendingRequest{}, false
	}
	return wq.queue[0], true
}

// Dequeue removes and returns the request at the front of the queue.
func (wq *WaitQueue) Dequeue() (PendingRequest, bool) {
	if len(wq.queue) == 0 {
		return PendingRequest{}, false
	}
	head := wq.queue[0]
	wq.queue[0] = PendingRequest{}
	wq.queue = wq.queue[1:]
	return head, true
}

// Remove deletes the pending request of p, preserving the order of the rest.
// Returns false if p is not queued.
func (wq *WaitQueue) Remove(p *Process) bool {
	for i, pr := range wq.queue {
		if pr.Requester == p {
			wq.queue = append(wq.queue[:i], wq.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage; callers MUST NOT modify it.
func (wq *WaitQueue) Items() []PendingRequest {
	return wq.queue
}
