package callcenter

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/callcenter-sim/sim"
	"github.com/inference-sim/callcenter-sim/sim/trace"
)

// runOptions configures a SimulationRun beyond its Scenario.
type runOptions struct {
	samplePeriod float64
	traceLevel   trace.TraceLevel
	observer     func(now float64, agents *sim.Resource)
}

// RunOption customizes a SimulationRun.
type RunOption func(*runOptions)

// WithSamplePeriod sets the interval between queue-length samples (default 1).
func WithSamplePeriod(period float64) RunOption {
	return func(o *runOptions) { o.samplePeriod = period }
}

// WithTraceLevel enables grant tracing; the summary lands in RunResult.Grants.
func WithTraceLevel(level trace.TraceLevel) RunOption {
	return func(o *runOptions) { o.traceLevel = level }
}

// WithObserver registers a callback invoked after every executed event with
// the current clock and the agent pool.
func WithObserver(fn func(now float64, agents *sim.Resource)) RunOption {
	return func(o *runOptions) { o.observer = fn }
}

// SimulationRun owns every component of one run: scheduler, random stream,
// agent pool and statistics. Nothing is shared between runs.
type SimulationRun struct {
	Scenario  Scenario
	Scheduler *sim.Scheduler
	Agents    *sim.Resource

	rng   *sim.RandomStream
	stats *StatisticsCollector
	trace *trace.GrantTrace
	cc    *callCenter
	done  bool
}

// NewSimulationRun validates sc and the options, then builds the run.
// A rejected configuration returns ErrInvalidConfiguration and no run.
func NewSimulationRun(sc Scenario, opts ...RunOption) (*SimulationRun, error) {
	o := runOptions{samplePeriod: DefaultSamplePeriod, traceLevel: trace.TraceLevelNone}
	for _, opt := range opts {
		opt(&o)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if !positiveFinite(o.samplePeriod) {
		return nil, fmt.Errorf("%w: sample period must be > 0, got %v", ErrInvalidConfiguration, o.samplePeriod)
	}
	if !trace.IsValidTraceLevel(string(o.traceLevel)) {
		return nil, fmt.Errorf("%w: unknown trace level %q", ErrInvalidConfiguration, o.traceLevel)
	}

	sched := sim.NewScheduler()
	agents, err := sim.NewResource(sched, "agents", sc.Agents)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	r := &SimulationRun{
		Scenario:  sc,
		Scheduler: sched,
		Agents:    agents,
		rng:       sim.NewRandomStream(sim.NewSimulationKey(sc.Seed)),
		stats:     NewStatisticsCollector(),
	}
	if o.traceLevel == trace.TraceLevelGrants {
		r.trace = trace.NewGrantTrace(o.traceLevel)
		agents.SetTrace(r.trace)
	}
	if o.observer != nil {
		sched.AfterStep = func(now float64, _ *sim.Process) { o.observer(now, agents) }
	}
	r.cc = &callCenter{
		scenario:     sc,
		samplePeriod: o.samplePeriod,
		rng:          r.rng,
		agents:       agents,
		stats:        r.stats,
	}
	return r, nil
}

// Run starts the arrival generator and the queue sampler, runs to the
// horizon, abandons whatever is still in flight, and reduces the statistics.
// A SimulationRun can only be run once.
func (r *SimulationRun) Run() (RunResult, error) {
	if r.done {
		return RunResult{}, fmt.Errorf("scenario %q: run already executed", r.Scenario.Label)
	}
	r.done = true

	logrus.WithFields(logrus.Fields{
		"scenario": r.Scenario.Label,
		"agents":   r.Scenario.Agents,
		"gap":      r.Scenario.MeanArrivalGap,
		"service":  r.Scenario.MeanServiceTime,
		"seed":     r.Scenario.Seed,
		"horizon":  r.Scenario.Horizon,
	}).Info("Starting simulation run")

	if _, err := r.Scheduler.Spawn("arrivals", &ArrivalGenerator{cc: r.cc}); err != nil {
		return RunResult{}, err
	}
	if _, err := r.Scheduler.Spawn("queue-sampler", &QueueSampler{cc: r.cc}); err != nil {
		return RunResult{}, err
	}
	if err := r.Scheduler.RunUntil(r.Scenario.Horizon); err != nil {
		return RunResult{}, fmt.Errorf("scenario %q: %w", r.Scenario.Label, err)
	}
	// Busy time must be read before Shutdown releases the agents still in service,
	// and hand-overs made during Shutdown are not real grants.
	r.stats.RecordBusyTime(r.Agents.BusyTime(r.Scenario.Horizon))
	r.Agents.SetTrace(nil)
	abandoned := r.Scheduler.Shutdown()

	res := Reduce(r.Scenario, r.stats.Snapshot())
	if r.trace != nil {
		res.Grants = trace.Summarize(r.trace)
	}
	logrus.WithFields(logrus.Fields{
		"scenario":  r.Scenario.Label,
		"steps":     r.Scheduler.StepCount,
		"draws":     r.rng.Draws(),
		"abandoned": abandoned,
		"arrived":   res.ArrivedCalls,
		"finished":  res.FinishedCalls,
	}).Info("Simulation run complete")
	return res, nil
}

// Statistics returns a copy of the raw observations collected so far.
func (r *SimulationRun) Statistics() RunStatistics {
	return r.stats.Snapshot()
}

// Run simulates one scenario.
func Run(sc Scenario, opts ...RunOption) (RunResult, error) {
	r, err := NewSimulationRun(sc, opts...)
	if err != nil {
		return RunResult{}, err
	}
	return r.Run()
}
