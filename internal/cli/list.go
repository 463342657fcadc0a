package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tracked files",
		Long: `List all files currently tracked by the ledger, in lexicographic
path order.

With --verbose, prints the database location first. With
--format json, each entry includes the recorded digest and
attributes.

Examples:
  fimbl list
  fimbl list -v
  fimbl list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}

	return cmd
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, led, err := openLedger(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := led.List(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "ledger store failure", err)
	}

	return renderRecords(formatter(opts, cmd), opts.Database, records)
}
