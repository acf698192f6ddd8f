// Reduces the raw observations of a run into the reported metrics.
// Every function here is pure: the output depends only on the arguments.

package callcenter

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/callcenter-sim/sim/trace"
)

// RunResult is the summary record of one scenario. Values are unrounded;
// rounding for display is the presentation layer's job.
type RunResult struct {
	Label              string
	Agents             int
	AverageWait        float64
	AverageQueueLength float64
	Throughput         float64 // finished calls per unit of virtual time
	Utilization        float64
	ArrivedCalls       int
	FinishedCalls      int

	WaitP50        float64
	WaitP90        float64
	WaitP99        float64
	MaxQueueLength int

	// BusyUtilization is the time-averaged fraction of agents busy over the
	// horizon. Unlike Utilization it never exceeds 1.
	BusyUtilization float64

	// Grants is nil unless grant tracing was enabled for the run.
	Grants *trace.GrantSummary
}

type IntOrFloat64 interface {
	int | int64 | float64
}

// CalculateMean is a util function that calculates the mean of a data list.
// Returns 0 for an empty list.
func CalculateMean[T IntOrFloat64](numbers []T) float64 {
	if len(numbers) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, number := range numbers {
		sum += float64(number)
	}

	return sum / float64(len(numbers))
}

// CalculatePercentile returns the p-th percentile (0..100) of data using the
// empirical distribution. Returns 0 for an empty list. data is not modified.
func CalculatePercentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	return stat.Quantile(p/100.0, stat.Empirical, sorted, nil)
}

// AverageWait is the mean of the wait samples, or 0 if there are none.
func AverageWait(st RunStatistics) float64 {
	return CalculateMean(st.WaitSamples)
}

// AverageQueueLength is the mean of the queue-size samples, or 0 if there are none.
func AverageQueueLength(st RunStatistics) float64 {
	return CalculateMean(st.QueueSizeSamples)
}

// Throughput is finished calls per unit of virtual time over the horizon.
func Throughput(finished int, horizon float64) float64 {
	if horizon <= 0 {
		return 0
	}
	return float64(finished) / horizon
}

// Utilization approximates the busy fraction of the agent pool as
// throughput × mean service time / agents. It is not a busy-time integral.
func Utilization(throughput, meanServiceTime float64, agents int) float64 {
	if agents <= 0 {
		return 0
	}
	return throughput * meanServiceTime / float64(agents)
}

// BusyUtilization divides integrated agent busy time by the agent-time available.
func BusyUtilization(busyTime, horizon float64, agents int) float64 {
	if horizon <= 0 || agents <= 0 {
		return 0
	}
	return busyTime / (horizon * float64(agents))
}

// MaxQueueLength is the largest queue-size sample, or 0 if there are none.
func MaxQueueLength(st RunStatistics) int {
	if len(st.QueueSizeSamples) == 0 {
		return 0
	}
	return slices.Max(st.QueueSizeSamples)
}

// Reduce computes the RunResult of scenario sc from its statistics.
func Reduce(sc Scenario, st RunStatistics) RunResult {
	throughput := Throughput(st.FinishedCount, sc.Horizon)
	return RunResult{
		Label:              sc.Label,
		Agents:             sc.Agents,
		AverageWait:        AverageWait(st),
		AverageQueueLength: AverageQueueLength(st),
		Throughput:         throughput,
		Utilization:        Utilization(throughput, sc.MeanServiceTime, sc.Agents),
		ArrivedCalls:       st.ArrivedCount,
		FinishedCalls:      st.FinishedCount,
		WaitP50:            CalculatePercentile(st.WaitSamples, 50),
		WaitP90:            CalculatePercentile(st.WaitSamples, 90),
		WaitP99:            CalculatePercentile(st.WaitSamples, 99),
		MaxQueueLength:     MaxQueueLength(st),
		BusyUtilization:    BusyUtilization(st.AgentBusyTime, sc.Horizon, sc.Agents),
	}
}
