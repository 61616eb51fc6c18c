package harness

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/weft-fl/weft/internal/aggregators"
	"github.com/weft-fl/weft/internal/types"
)

// Result is the trace of one simulated run.
type Result struct {
	// RunToken identifies the run: the scenario's fixed token, or a fresh
	// uuid.
	RunToken string

	// Process is the aggregation process the scenario corresponds to. The
	// simulation follows its pipeline; the process itself is never
	// executed.
	Process *aggregators.AggregationProcess

	Rounds []RoundResult
}

// RoundResult is the outcome of one aggregation round.
type RoundResult struct {
	Round int

	// Quantized holds each client's vector after discretization.
	Quantized [][]int64

	// Sum is the coordinate-wise sum of the quantized vectors.
	Sum []int64

	// Value is the undiscretized aggregate the server reports.
	Value []float64

	// Distortion is the summed squared quantization error across all
	// clients. Populated only when the scenario enables distortion.
	Distortion float64
}

// Run simulates every round of a scenario. The aggregation process is built
// through the real factory first, so a scenario that the factory would
// reject fails here too.
func Run(scenario *Scenario) (*Result, error) {
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("harness: %w", err)
	}

	token := scenario.RunToken
	if token == "" {
		token = uuid.NewString()
	}

	width := scenario.Width()
	factory := &aggregators.DeterministicDiscretizationFactory{
		Inner:    aggregators.SumFactory{},
		StepSize: scenario.StepSize,
	}
	if scenario.Distortion {
		factory.Distortion = aggregators.BuildDistortionComputation
	}
	process, err := factory.Create(types.TensorWithShape(types.Float64, int64(width)))
	if err != nil {
		return nil, fmt.Errorf("harness: %w", err)
	}

	result := &Result{RunToken: token, Process: process}
	for i, round := range scenario.Rounds {
		rr := RoundResult{Round: i + 1, Sum: make([]int64, width)}
		for _, client := range round.ClientValues {
			q := make([]int64, width)
			for j, x := range client {
				q[j] = aggregators.Discretize(x, scenario.StepSize)
				rr.Sum[j] += q[j]
				if scenario.Distortion {
					d := x - aggregators.Undiscretize(q[j], scenario.StepSize)
					rr.Distortion += d * d
				}
			}
			rr.Quantized = append(rr.Quantized, q)
		}
		rr.Value = make([]float64, width)
		for j, q := range rr.Sum {
			rr.Value[j] = aggregators.Undiscretize(q, scenario.StepSize)
		}
		result.Rounds = append(result.Rounds, rr)
	}
	return result, nil
}
