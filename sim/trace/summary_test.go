package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	// GIVEN no trace at all
	// WHEN summarized
	summary := Summarize(nil)

	// THEN every field is zero
	if *summary != (GrantSummary{}) {
		t.Errorf("expected zero summary, got %+v", *summary)
	}
}

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	gt := NewGrantTrace(TraceLevelGrants)

	// WHEN summarized
	summary := Summarize(gt)

	// THEN all counts are zero
	if summary.TotalGrants != 0 || summary.ImmediateGrants != 0 || summary.QueuedGrants != 0 {
		t.Errorf("expected 0 grants, got %+v", *summary)
	}
	if summary.MeanQueuedWait != 0 || summary.MaxWait != 0 {
		t.Error("expected 0 wait values")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with immediate and queued grants
	gt := NewGrantTrace(TraceLevelGrants)
	gt.RecordGrant(GrantRecord{ProcessName: "Caller 1", Clock: 1})
	gt.RecordGrant(GrantRecord{ProcessName: "Caller 2", Clock: 2})
	gt.RecordGrant(GrantRecord{ProcessName: "Caller 3", Clock: 5, Queued: true, Waited: 1.5, QueueDepth: 2})
	gt.RecordGrant(GrantRecord{ProcessName: "Caller 4", Clock: 6, Queued: true, Waited: 4.5, QueueDepth: 1})

	// WHEN summarized
	summary := Summarize(gt)

	// THEN counts and wait statistics match
	if summary.TotalGrants != 4 {
		t.Errorf("expected 4 grants, got %d", summary.TotalGrants)
	}
	if summary.ImmediateGrants != 2 {
		t.Errorf("expected 2 immediate grants, got %d", summary.ImmediateGrants)
	}
	if summary.QueuedGrants != 2 {
		t.Errorf("expected 2 queued grants, got %d", summary.QueuedGrants)
	}
	if summary.MeanQueuedWait != 3.0 {
		t.Errorf("expected mean queued wait 3.0, got %v", summary.MeanQueuedWait)
	}
	if summary.MaxWait != 4.5 {
		t.Errorf("expected max wait 4.5, got %v", summary.MaxWait)
	}
	if summary.MaxQueueDepth != 2 {
		t.Errorf("expected max queue depth 2, got %d", summary.MaxQueueDepth)
	}
}
