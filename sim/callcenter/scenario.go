package callcenter

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned when a Scenario is rejected before a run starts.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// DefaultSamplePeriod is the interval between queue-length samples.
const DefaultSamplePeriod = 1.0

// Scenario is one staffing configuration to simulate.
// Durations are in the same virtual time unit (minutes in the reference scenarios).
type Scenario struct {
	Label           string  `yaml:"label"`
	Agents          int     `yaml:"agents"`            // size of the agent pool (> 0)
	MeanArrivalGap  float64 `yaml:"mean_arrival_gap"`  // mean time between callers (> 0)
	MeanServiceTime float64 `yaml:"mean_service_time"` // mean call duration (> 0)
	Seed            int64   `yaml:"seed"`
	Horizon         float64 `yaml:"horizon"` // virtual time at which the run stops (> 0)
}

// Validate checks every numeric field. It runs before any engine state is built.
func (s Scenario) Validate() error {
	if s.Agents <= 0 {
		return fmt.Errorf("%w: scenario %q: agents must be > 0, got %d", ErrInvalidConfiguration, s.Label, s.Agents)
	}
	if !positiveFinite(s.MeanArrivalGap) {
		return fmt.Errorf("%w: scenario %q: mean_arrival_gap must be > 0, got %v", ErrInvalidConfiguration, s.Label, s.MeanArrivalGap)
	}
	if !positiveFinite(s.MeanServiceTime) {
		return fmt.Errorf("%w: scenario %q: mean_service_time must be > 0, got %v", ErrInvalidConfiguration, s.Label, s.MeanServiceTime)
	}
	if !positiveFinite(s.Horizon) {
		return fmt.Errorf("%w: scenario %q: horizon must be > 0, got %v", ErrInvalidConfiguration, s.Label, s.Horizon)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ReferenceScenarios returns the three staffing scenarios of the reference
// study. All share one seed so differences come from the parameters alone.
func ReferenceScenarios(horizon float64, seed int64) []Scenario {
	return []Scenario{
		{Label: "Scenario A", Agents: 2, MeanArrivalGap: 5, MeanServiceTime: 8, Seed: seed, Horizon: horizon},
		{Label: "Scenario B", Agents: 3, MeanArrivalGap: 5, MeanServiceTime: 7, Seed: seed, Horizon: horizon},
		{Label: "Scenario C", Agents: 5, MeanArrivalGap: 5, MeanServiceTime: 9, Seed: seed, Horizon: horizon},
	}
}
