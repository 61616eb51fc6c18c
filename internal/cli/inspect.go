package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InspectResult is the success payload for the inspect command.
type InspectResult struct {
	ComputationSummary
	Form string `json:"form"` // compact textual rendering of the block
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <computation>",
		Short: "Show the contents of a packed computation",
		Long: `Decode a packed computation file and show its content address, kind,
type signature, and compact textual form.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	proto, block, err := loadPacked(path)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeDecode, err.Error())
	}
	summary, err := summarize(proto, block)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeDecode, err.Error())
	}
	result := InspectResult{ComputationSummary: summary, Form: block.String()}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "id:   %s\n", result.ID)
	fmt.Fprintf(formatter.Writer, "kind: %s\n", result.Kind)
	fmt.Fprintf(formatter.Writer, "type: %s\n", result.Type)
	fmt.Fprintf(formatter.Writer, "form: %s\n", result.Form)
	return nil
}
