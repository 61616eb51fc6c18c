package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weft-fl/weft/internal/compiler"
	"github.com/weft-fl/weft/internal/graphspec"
	"github.com/weft-fl/weft/internal/wire"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <spec.cue>",
		Short: "Compile a CUE graph spec to a packed computation",
		Long: `Compile a CUE graph spec into a packed computation.

The compiler lowers the CUE struct at path "computation" into an operation
graph, validates the bindings against the declared type, and emits the
canonical packed payload.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, specPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	source, err := os.ReadFile(specPath)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeRead, err.Error())
	}

	formatter.VerboseLog("Compiling %s (%d bytes)", specPath, len(source))

	proto, err := graphspec.Compile(source, specPath)
	if err != nil {
		return outputCompileError(formatter, err)
	}

	block, err := compiler.FromProto(proto)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeCompile, err.Error())
	}
	summary, err := summarize(proto, block)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeCompile, err.Error())
	}

	if opts.Output != "" {
		data, err := wire.Marshal(proto)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWrite, err.Error())
		}
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWrite,
				fmt.Sprintf("writing output file: %v", err))
		}
		formatter.VerboseLog("Wrote packed computation to %s", opts.Output)
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %s\n", specPath)
	fmt.Fprintf(formatter.Writer, "  id:   %s\n", summary.ID)
	fmt.Fprintf(formatter.Writer, "  kind: %s\n", summary.Kind)
	fmt.Fprintf(formatter.Writer, "  type: %s\n", summary.Type)
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote packed computation to %s\n", opts.Output)
	}
	return nil
}

// outputCompileError renders a graphspec compile failure, including the
// source position when the error carries one.
func outputCompileError(formatter *OutputFormatter, err error) error {
	var ce *graphspec.CompileError
	if errors.As(err, &ce) {
		if formatter.Format != "json" && ce.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				ce.Pos.Filename(), ce.Pos.Line(), ce.Pos.Column())
		}
		return fail(formatter, ExitCommandError, ErrCodeCompile,
			fmt.Sprintf("%s: %s", ce.Field, ce.Message))
	}
	return fail(formatter, ExitCommandError, ErrCodeCompile, err.Error())
}
