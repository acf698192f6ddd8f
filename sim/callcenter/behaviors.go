package callcenter

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/callcenter-sim/sim"
)

// callCenter holds the collaborators shared by every process of one run.
type callCenter struct {
	scenario     Scenario
	samplePeriod float64
	rng          *sim.RandomStream
	agents       *sim.Resource
	stats        *StatisticsCollector
}

// === ArrivalGenerator ===

type arrivalPhase int

const (
	arrivalIdle    arrivalPhase = iota // not yet started
	arrivalWaiting                     // holding for the next inter-arrival gap
)

// ArrivalGenerator creates callers separated by exponential gaps.
// It never completes; it is abandoned when the run reaches its horizon.
type ArrivalGenerator struct {
	cc      *callCenter
	phase   arrivalPhase
	spawned int
}

func (g *ArrivalGenerator) Resume(p *sim.Process) error {
	if g.phase == arrivalWaiting {
		g.spawned++
		if _, err := p.Spawn(fmt.Sprintf("Caller %d", g.spawned), &Caller{cc: g.cc}); err != nil {
			return err
		}
		g.cc.stats.RecordArrival()
	}
	gap, err := g.cc.rng.NextExponential(g.cc.scenario.MeanArrivalGap)
	if err != nil {
		return err
	}
	g.phase = arrivalWaiting
	return p.Hold(gap)
}

// === Caller ===

type callerPhase int

const (
	callerArrived callerPhase = iota
	callerRequesting
	callerInService
	callerDeparted
)

// Caller is one customer: it queues for an agent, talks for an exponential
// service time, hangs up and leaves.
type Caller struct {
	cc          *callCenter
	phase       callerPhase
	arrivalTime float64
}

func (c *Caller) Resume(p *sim.Process) error {
	for {
		switch c.phase {
		case callerArrived:
			c.arrivalTime = p.Now()
			logrus.Debugf("%s arrives at time %.2f", p.Name(), c.arrivalTime)
			c.phase = callerRequesting
			if !p.Request(c.cc.agents) {
				return nil
			}

		case callerRequesting:
			wait := p.Now() - c.arrivalTime
			c.cc.stats.RecordWait(wait)
			logrus.Debugf("%s starts call at %.2f (waited %.2f)", p.Name(), p.Now(), wait)
			service, err := c.cc.rng.NextExponential(c.cc.scenario.MeanServiceTime)
			if err != nil {
				return err
			}
			c.phase = callerInService
			return p.Hold(service)

		case callerInService:
			logrus.Debugf("%s ends call at %.2f", p.Name(), p.Now())
			if err := p.Release(c.cc.agents); err != nil {
				return err
			}
			c.cc.stats.RecordFinish()
			c.phase = callerDeparted
			return nil

		default:
			return nil
		}
	}
}

// === QueueSampler ===

// QueueSampler records the agent wait-queue length at start and then every
// sample period. Like the ArrivalGenerator it is abandoned at the horizon.
type QueueSampler struct {
	cc *callCenter
}

func (q *QueueSampler) Resume(p *sim.Process) error {
	q.cc.stats.RecordQueueSize(q.cc.agents.QueueLen())
	return p.Hold(q.cc.samplePeriod)
}
