package callcenter

// RunStatistics holds the raw observations of one run. It is append-only
// while the run is in progress and read-only afterwards.
type RunStatistics struct {
	ArrivedCount     int
	FinishedCount    int
	WaitSamples      []float64 // per caller, time from arrival to grant, in grant order
	QueueSizeSamples []int     // wait-queue length at each sampling instant

	// AgentBusyTime is the integral of busy agents over [0, horizon].
	AgentBusyTime float64
}

// StatisticsCollector accumulates RunStatistics fed by the processes of a run.
type StatisticsCollector struct {
	stats RunStatistics
}

// NewStatisticsCollector creates an empty collector.
func NewStatisticsCollector() *StatisticsCollector {
	return &StatisticsCollector{
		stats: RunStatistics{
			WaitSamples:      make([]float64, 0),
			QueueSizeSamples: make([]int, 0),
		},
	}
}

func (c *StatisticsCollector) RecordArrival() { c.stats.ArrivedCount++ }

func (c *StatisticsCollector) RecordFinish() { c.stats.FinishedCount++ }

func (c *StatisticsCollector) RecordWait(wait float64) {
	c.stats.WaitSamples = append(c.stats.WaitSamples, wait)
}

func (c *StatisticsCollector) RecordQueueSize(n int) {
	c.stats.QueueSizeSamples = append(c.stats.QueueSizeSamples, n)
}

func (c *StatisticsCollector) RecordBusyTime(area float64) {
	c.stats.AgentBusyTime = area
}

// Snapshot returns a copy of the statistics collected so far.
func (c *StatisticsCollector) Snapshot() RunStatistics {
	out := c.stats
	out.WaitSamples = append([]float64(nil), c.stats.WaitSamples...)
	out.QueueSizeSamples = append([]int(nil), c.stats.QueueSizeSamples...)
	return out
}
