package sim

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/callcenter-sim/sim/trace"
)

// holder requests r, logs name@grant-time, holds for d, then releases.
func holder(r *Resource, d float64, log *[]string) Behavior {
	requested, holding := false, false
	return BehaviorFunc(func(p *Process) error {
		if !requested {
			requested = true
			if !p.Request(r) {
				return nil
			}
		}
		if !holding {
			holding = true
			*log = append(*log, fmt.Sprintf("%s@%g", p.Name(), p.Now()))
			return p.Hold(d)
		}
		return p.Release(r)
	})
}

func TestNewResource_NonPositiveCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		_, err := NewResource(NewScheduler(), "agents", c)
		assert.True(t, errors.Is(err, ErrInvalidCapacity), "capacity %d: got %v", c, err)
	}
}

func TestResource_Request_GrantsImmediatelyWhileCapacityFree(t *testing.T) {
	// GIVEN a resource with capacity 2 and three requesters at t=0
	s := NewScheduler()
	r, err := NewResource(s, "agents", 2)
	require.NoError(t, err)
	var log []string
	for _, name := range []string{"a", "b", "c"} {
		_, err := s.Spawn(name, holder(r, 10, &log))
		require.NoError(t, err)
	}

	// WHEN run to t=1
	require.NoError(t, s.RunUntil(1))

	// THEN two hold capacity and the third waits
	assert.Equal(t, []string{"a@0", "b@0"}, log)
	assert.Equal(t, 2, r.InUse())
	assert.Equal(t, 1, r.QueueLen())
	head, ok := r.waitQ.Peek()
	require.True(t, ok)
	assert.Equal(t, "c", head.Requester.Name())
	assert.Equal(t, 0.0, head.EnqueueTime)
}

func TestResource_SimultaneousReleases_GrantWaitersInFIFOOrder(t *testing.T) {
	// GIVEN two holders releasing at t=5 and two waiters queued in order w1, w2
	s := NewScheduler()
	r, err := NewResource(s, "agents", 2)
	require.NoError(t, err)
	var log []string
	for _, name := range []string{"h1", "h2", "w1", "w2"} {
		_, err := s.Spawn(name, holder(r, 5, &log))
		require.NoError(t, err)
	}

	// WHEN both releases and both resulting grants happen at the same instant
	require.NoError(t, s.RunUntil(5))

	// THEN waiters are granted and resumed in the order they queued
	assert.Equal(t, []string{"h1@0", "h2@0", "w1@5", "w2@5"}, log)
	assert.Equal(t, 2, r.InUse())
	assert.Equal(t, 0, r.QueueLen())
}

func TestResource_QueueOrderFollowsRequestOrderNotCreationOrder(t *testing.T) {
	// GIVEN waiters created w1 then w2 but started w2 first
	s := NewScheduler()
	r, err := NewResource(s, "agents", 1)
	require.NoError(t, err)
	var log []string
	_, err = s.Spawn("h", holder(r, 3, &log))
	require.NoError(t, err)
	w1 := s.NewProcess("w1", holder(r, 1, &log))
	w2 := s.NewProcess("w2", holder(r, 1, &log))
	require.NoError(t, s.Start(w2))
	require.NoError(t, s.Start(w1))

	// WHEN run to completion
	require.NoError(t, s.RunUntil(100))

	// THEN w2 requested first and is served first
	assert.Equal(t, []string{"h@0", "w2@3", "w1@4"}, log)
	assert.Equal(t, 0, r.InUse())
}

func TestResource_InUseBoundsHoldAtEveryStep(t *testing.T) {
	// GIVEN heavy contention: 20 requesters with staggered holds on 3 units
	s := NewScheduler()
	r, err := NewResource(s, "agents", 3)
	require.NoError(t, err)
	s.AfterStep = func(now float64, p *Process) {
		if r.InUse() < 0 || r.InUse() > r.Capacity() {
			t.Fatalf("t=%v: in_use=%d outside [0,%d]", now, r.InUse(), r.Capacity())
		}
		if r.QueueLen() > 0 && r.InUse() != r.Capacity() {
			t.Fatalf("t=%v: %d waiting while only %d/%d in use", now, r.QueueLen(), r.InUse(), r.Capacity())
		}
	}
	var log []string
	for i := 0; i < 20; i++ {
		_, err := s.Spawn(fmt.Sprintf("p%d", i), holder(r, float64(1+i%4), &log))
		require.NoError(t, err)
	}

	// WHEN run to completion
	require.NoError(t, s.RunUntil(1000))

	// THEN every requester was served and all capacity returned
	assert.Len(t, log, 20)
	assert.Equal(t, 0, r.InUse())
	assert.Equal(t, 0, r.QueueLen())
}

func TestResource_Release_NotHeld(t *testing.T) {
	s := NewScheduler()
	r, err := NewResource(s, "agents", 1)
	require.NoError(t, err)
	var releaseErr error
	_, err = s.Spawn("thief", BehaviorFunc(func(p *Process) error {
		releaseErr = p.Release(r)
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, s.RunUntil(1))

	assert.True(t, errors.Is(releaseErr, ErrNotHeld), "got %v", releaseErr)
	assert.Equal(t, 0, r.InUse())
}

func TestResource_FinishWithoutRelease_CapacityReturnedOnTeardown(t *testing.T) {
	// GIVEN a holder whose behavior completes while still holding a grant
	s := NewScheduler()
	r, err := NewResource(s, "agents", 1)
	require.NoError(t, err)
	forgetful, err := s.Spawn("forgetful", BehaviorFunc(func(p *Process) error {
		p.Request(r)
		return nil
	}))
	require.NoError(t, err)
	var log []string
	_, err = s.Spawn("next", holder(r, 1, &log))
	require.NoError(t, err)

	// WHEN run
	require.NoError(t, s.RunUntil(10))

	// THEN teardown released the grant and the waiter was served at once
	assert.Equal(t, Finished, forgetful.State())
	assert.Equal(t, 0, forgetful.Holds(r))
	assert.Equal(t, []string{"next@0"}, log)
	assert.Equal(t, 0, r.InUse())
}

func TestResource_AbnormalTermination_ReleasesCapacity(t *testing.T) {
	// GIVEN a holder that fails while holding capacity
	s := NewScheduler()
	r, err := NewResource(s, "agents", 1)
	require.NoError(t, err)
	boom := errors.New("boom")
	_, err = s.Spawn("crasher", BehaviorFunc(func(p *Process) error {
		p.Request(r)
		return boom
	}))
	require.NoError(t, err)

	// WHEN the run aborts
	err = s.RunUntil(10)

	// THEN the error surfaces and the capacity is not leaked
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 0, r.InUse())
}

func TestResource_CancelWaiter_WithdrawsPendingRequest(t *testing.T) {
	s := NewScheduler()
	r, err := NewResource(s, "agents", 1)
	require.NoError(t, err)
	var log []string
	_, err = s.Spawn("h", holder(r, 5, &log))
	require.NoError(t, err)
	w1, err := s.Spawn("w1", holder(r, 1, &log))
	require.NoError(t, err)
	_, err = s.Spawn("w2", holder(r, 1, &log))
	require.NoError(t, err)
	require.NoError(t, s.RunUntil(1))
	require.Equal(t, 2, r.QueueLen())

	// WHEN the first waiter is cancelled
	w1.Cancel()

	// THEN it leaves the queue and the next waiter is served in its place
	assert.Equal(t, 1, r.QueueLen())
	require.NoError(t, s.RunUntil(100))
	assert.Equal(t, []string{"h@0", "w2@5"}, log)
}

func TestResource_Shutdown_ReleasesHeldCapacity(t *testing.T) {
	// GIVEN holders mid-service and waiters queued at the horizon
	s := NewScheduler()
	r, err := NewResource(s, "agents", 2)
	require.NoError(t, err)
	var log []string
	for i := 0; i < 5; i++ {
		_, err := s.Spawn(fmt.Sprintf("p%d", i), holder(r, 50, &log))
		require.NoError(t, err)
	}
	require.NoError(t, s.RunUntil(10))
	require.Equal(t, 2, r.InUse())
	require.Equal(t, 3, r.QueueLen())

	// WHEN the run is abandoned
	s.Shutdown()

	// THEN no capacity is held, no one waits, and no abandoned logic ran
	assert.Equal(t, 0, r.InUse())
	assert.Equal(t, 0, r.QueueLen())
	assert.Equal(t, []string{"p0@0", "p1@0"}, log)
}

func TestResource_GrantTrace_RecordsImmediateAndQueuedGrants(t *testing.T) {
	s := NewScheduler()
	r, err := NewResource(s, "agents", 1)
	require.NoError(t, err)
	gt := trace.NewGrantTrace(trace.TraceLevelGrants)
	r.SetTrace(gt)
	var log []string
	_, err = s.Spawn("a", holder(r, 4, &log))
	require.NoError(t, err)
	_, err = s.Spawn("b", holder(r, 1, &log))
	require.NoError(t, err)

	require.NoError(t, s.RunUntil(100))

	require.Len(t, gt.Grants, 2)
	assert.Equal(t, "a", gt.Grants[0].ProcessName)
	assert.False(t, gt.Grants[0].Queued)
	assert.Equal(t, "b", gt.Grants[1].ProcessName)
	assert.True(t, gt.Grants[1].Queued)
	assert.Equal(t, 4.0, gt.Grants[1].Clock)
	assert.Equal(t, 4.0, gt.Grants[1].Waited)
}

func TestResource_BusyTime_IntegratesInUse(t *testing.T) {
	// GIVEN capacity 2: a holds [0,4), b holds [1,3)
	s := NewScheduler()
	r, err := NewResource(s, "agents", 2)
	require.NoError(t, err)
	var log []string
	_, err = s.Spawn("a", holder(r, 4, &log))
	require.NoError(t, err)
	late := s.NewProcess("b", holder(r, 2, &log))
	require.NoError(t, s.Schedule(late, 1))

	// WHEN run to completion
	require.NoError(t, s.RunUntil(10))

	// THEN busy time is 4 + 2 and stays flat once idle
	assert.InDelta(t, 6.0, r.BusyTime(4), 1e-12)
	assert.InDelta(t, 6.0, r.BusyTime(10), 1e-12)
}
