package trace

// GrantSummary aggregates statistics from a GrantTrace.
type GrantSummary struct {
	TotalGrants     int
	ImmediateGrants int
	QueuedGrants    int
	MeanQueuedWait  float64 // mean wait over queued grants only
	MaxWait         float64
	MaxQueueDepth   int
}

// Summarize computes aggregate statistics from a GrantTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(gt *GrantTrace) *GrantSummary {
	summary := &GrantSummary{}
	if gt == nil {
		return summary
	}

	summary.TotalGrants = len(gt.Grants)
	totalWait := 0.0
	for _, g := range gt.Grants {
		if g.Queued {
			summary.QueuedGrants++
			totalWait += g.Waited
		} else {
			summary.ImmediateGrants++
		}
		if g.Waited > summary.MaxWait {
			summary.MaxWait = g.Waited
		}
		if g.QueueDepth > summary.MaxQueueDepth {
			summary.MaxQueueDepth = g.QueueDepth
		}
	}
	if summary.QueuedGrants > 0 {
		summary.MeanQueuedWait = totalWait / float64(summary.QueuedGrants)
	}

	return summary
}
