package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/weft-fl/weft/internal/compiler/analysis"
)

// AnalyzeResult is the success payload for the analyze command.
type AnalyzeResult struct {
	ComputationSummary
	Ops       int            `json:"ops"`
	Variables int            `json:"variables"`
	Devices   map[string]int `json:"devices"`
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <computation>",
		Short: "Run structural analysis over a packed computation",
		Long: `Run the structural analysis passes over a packed computation: count
its operations and variables and report how its operations are placed
across devices. Only compiled tensorflow computations are analyzable.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runAnalyze(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	proto, block, err := loadPacked(path)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeDecode, err.Error())
	}
	summary, err := summarize(proto, block)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeDecode, err.Error())
	}

	ops, err := analysis.CountTensorFlowOpsIn(block)
	if err != nil {
		// A well-formed but non-compiled computation is an analysis
		// failure, not a command error.
		return fail(formatter, ExitFailure, ErrCodeAnalysis, err.Error())
	}
	variables, err := analysis.CountTensorFlowVariablesIn(block)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeAnalysis, err.Error())
	}
	devices, err := analysis.GetDevicePlacementIn(block)
	if err != nil {
		return fail(formatter, ExitFailure, ErrCodeAnalysis, err.Error())
	}

	result := AnalyzeResult{
		ComputationSummary: summary,
		Ops:                ops,
		Variables:          variables,
		Devices:            devices,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "id:        %s\n", result.ID)
	fmt.Fprintf(formatter.Writer, "type:      %s\n", result.Type)
	fmt.Fprintf(formatter.Writer, "ops:       %d\n", result.Ops)
	fmt.Fprintf(formatter.Writer, "variables: %d\n", result.Variables)
	fmt.Fprintln(formatter.Writer, "devices:")
	for _, device := range sortedDevices(result.Devices) {
		label := device
		if label == "" {
			label = "(unplaced)"
		}
		fmt.Fprintf(formatter.Writer, "  %s: %d\n", label, result.Devices[device])
	}
	return nil
}

func sortedDevices(devices map[string]int) []string {
	out := make([]string, 0, len(devices))
	for device := range devices {
		out = append(out, device)
	}
	sort.Strings(out)
	return out
}
