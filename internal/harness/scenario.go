package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes a simulated aggregation run.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// StepSize is the discretization grid step. Must be positive.
	StepSize float64 `yaml:"step_size"`

	// Distortion enables the summed-squared-error measurement.
	Distortion bool `yaml:"distortion,omitempty"`

	// Rounds lists the aggregation rounds to simulate.
	Rounds []Round `yaml:"rounds"`

	// RunToken is an optional fixed run token. If empty, each run gets a
	// fresh one; golden scenarios should pin it for determinism.
	RunToken string `yaml:"run_token,omitempty"`
}

// Round holds one vector per participating client. All vectors in a
// scenario must have the same width.
type Round struct {
	ClientValues [][]float64 `yaml:"client_values"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("harness: read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("harness: parse scenario %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("harness: scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks structural invariants: a name, a positive step, at least
// one round, at least one client per round, and a uniform vector width.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !(s.StepSize > 0) {
		return fmt.Errorf("step_size must be positive, got %v", s.StepSize)
	}
	if len(s.Rounds) == 0 {
		return fmt.Errorf("at least one round is required")
	}
	width := -1
	for i, round := range s.Rounds {
		if len(round.ClientValues) == 0 {
			return fmt.Errorf("round %d has no clients", i+1)
		}
		for j, client := range round.ClientValues {
			if len(client) == 0 {
				return fmt.Errorf("round %d client %d has an empty vector", i+1, j+1)
			}
			if width < 0 {
				width = len(client)
			}
			if len(client) != width {
				return fmt.Errorf("round %d client %d has width %d, want %d",
					i+1, j+1, len(client), width)
			}
		}
	}
	return nil
}

// Width returns the client vector width. The scenario must be valid.
func (s *Scenario) Width() int {
	return len(s.Rounds[0].ClientValues[0])
}
