package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/callcenter-sim/sim/callcenter"
)

// ScenarioFile is the layout of a --scenarios YAML file.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type ScenarioFile struct {
	Version   string                `yaml:"version"`
	Scenarios []callcenter.Scenario `yaml:"scenarios"`
}

// loadScenarioFile parses path with strict field checking so a misspelled
// key fails instead of silently leaving a field at zero. Entries without a
// horizon inherit defaultHorizon; unlabeled entries are numbered.
func loadScenarioFile(path string, defaultHorizon float64) ([]callcenter.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios file: %w", err)
	}
	return parseScenarios(data, defaultHorizon)
}

func parseScenarios(data []byte, defaultHorizon float64) ([]callcenter.Scenario, error) {
	var f ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse scenarios YAML: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, fmt.Errorf("%w: no scenarios listed", callcenter.ErrInvalidConfiguration)
	}
	for i := range f.Scenarios {
		sc := &f.Scenarios[i]
		if sc.Label == "" {
			sc.Label = fmt.Sprintf("Scenario %d", i+1)
		}
		if sc.Horizon == 0 {
			sc.Horizon = defaultHorizon
		}
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i, err)
		}
	}
	return f.Scenarios, nil
}
