package trace

// TraceLevel controls the verbosity of grant tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelGrants captures every resource grant.
	TraceLevelGrants TraceLevel = "grants"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelGrants: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// GrantTrace collects grant records during one simulation run.
type GrantTrace struct {
	Level  TraceLevel
	Grants []GrantRecord
}

// NewGrantTrace creates a GrantTrace ready for recording.
func NewGrantTrace(level TraceLevel) *GrantTrace {
	return &GrantTrace{
		Level:  level,
		Grants: make([]GrantRecord, 0),
	}
}

// Enabled reports whether records are kept. Safe on a nil trace.
func (gt *GrantTrace) Enabled() bool {
	return gt != nil && gt.Level == TraceLevelGrants
}

// RecordGrant appends a grant record.
func (gt *GrantTrace) RecordGrant(record GrantRecord) {
	gt.Grants = append(gt.Grants, record)
}
