package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/weft-fl/weft/internal/compiler"
	"github.com/weft-fl/weft/internal/store"
	"github.com/weft-fl/weft/internal/wire"
)

// RegistryOptions holds flags shared by the registry subcommands.
type RegistryOptions struct {
	*RootOptions
	DB string // sqlite database path
}

// NewRegistryCommand creates the registry command group.
func NewRegistryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegistryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the content-addressed computation registry",
		Long: `Store, fetch, and list packed computations in a sqlite registry.
Computations are keyed by content address, so putting the same
computation twice is a no-op.`,
	}

	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "sqlite database path (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newRegistryPutCommand(opts))
	cmd.AddCommand(newRegistryGetCommand(opts))
	cmd.AddCommand(newRegistryListCommand(opts))

	return cmd
}

func newRegistryPutCommand(opts *RegistryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "put <computation>",
		Short:         "Store a packed computation, printing its id",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryPut(opts, args[0], cmd)
		},
	}
}

func newRegistryGetCommand(opts *RegistryOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:           "get <id>",
		Short:         "Fetch a computation by id",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryGet(opts, args[0], output, cmd)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the packed computation to this file")
	return cmd
}

func newRegistryListCommand(opts *RegistryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored computations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegistryList(opts, cmd)
		},
	}
}

func runRegistryPut(opts *RegistryOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	proto, _, err := loadPacked(path)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeDecode, err.Error())
	}

	s, err := store.Open(opts.DB)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}
	defer s.Close()

	id, err := s.Put(cmd.Context(), proto)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"id": id})
	}
	fmt.Fprintln(formatter.Writer, id)
	return nil
}

func runRegistryGet(opts *RegistryOptions, id, output string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	s, err := store.Open(opts.DB)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}
	defer s.Close()

	proto, err := s.Get(cmd.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return fail(formatter, ExitFailure, ErrCodeStore, err.Error())
	}
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}

	if output != "" {
		data, err := wire.Marshal(proto)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWrite, err.Error())
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fail(formatter, ExitCommandError, ErrCodeWrite, err.Error())
		}
		formatter.VerboseLog("Wrote packed computation to %s", output)
	}

	block, err := compiler.FromProto(proto)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}
	summary, err := summarize(proto, block)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "id:   %s\n", summary.ID)
	fmt.Fprintf(formatter.Writer, "kind: %s\n", summary.Kind)
	fmt.Fprintf(formatter.Writer, "type: %s\n", summary.Type)
	return nil
}

func runRegistryList(opts *RegistryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	s, err := store.Open(opts.DB)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}
	defer s.Close()

	rows, err := s.List(cmd.Context())
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, err.Error())
	}

	if formatter.Format == "json" {
		summaries := make([]ComputationSummary, len(rows))
		for i, r := range rows {
			summaries[i] = ComputationSummary{ID: r.ID, Kind: r.Kind, Type: r.Type}
		}
		return formatter.Success(summaries)
	}

	if len(rows) == 0 {
		fmt.Fprintln(formatter.Writer, "registry is empty")
		return nil
	}
	w := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTYPE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Kind, r.Type)
	}
	return w.Flush()
}
