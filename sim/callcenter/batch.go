package callcenter

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// RunBatch simulates scenarios in order and returns one result per scenario,
// in input order. Every scenario is validated before any of them runs, so a
// bad entry rejects the whole batch without partial results.
func RunBatch(scenarios []Scenario, opts ...RunOption) ([]RunResult, error) {
	for i, sc := range scenarios {
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i, err)
		}
	}

	results := make([]RunResult, 0, len(scenarios))
	for i, sc := range scenarios {
		logrus.Infof("Running %s (%d/%d)", sc.Label, i+1, len(scenarios))
		res, err := Run(sc, opts...)
		if err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i, err)
		}
		results = append(results, res)
	}
	return results, nil
}
