package harness

import (
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/weft-fl/weft/internal/wire"
)

// Snapshot renders the run trace as canonical JSON for golden comparison.
// Floats are formatted as strings so the trace bytes never depend on JSON
// number formatting.
func (r *Result) Snapshot(scenario *Scenario) ([]byte, error) {
	rounds := make([]any, len(r.Rounds))
	for i, rr := range r.Rounds {
		round := map[string]any{
			"round":     rr.Round,
			"quantized": rr.Quantized,
			"sum":       rr.Sum,
			"value":     formatFloats(rr.Value),
		}
		if scenario.Distortion {
			round["distortion"] = formatFloat(rr.Distortion)
		}
		rounds[i] = round
	}
	return wire.MarshalCanonical(map[string]any{
		"scenario":        scenario.Name,
		"run_token":       r.RunToken,
		"step_size":       formatFloat(scenario.StepSize),
		"initialize_type": r.Process.Initialize.Block.TypeSignature().String(),
		"next_type":       r.Process.Next.Block.TypeSignature().String(),
		"rounds":          rounds,
	})
}

// RunWithGolden simulates a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden. Regenerate with go test -update.
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}
	snapshot, err := result.Snapshot(scenario)
	if err != nil {
		t.Fatalf("snapshot scenario %s: %v", scenario.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)
	return result
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloats(vs []float64) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = formatFloat(v)
	}
	return out
}
