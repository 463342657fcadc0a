package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <file>...",
		Short: "Stop tracking files",
		Long: `Stop tracking files, deleting their ledger records.

Removing an untracked file is an error unless --tolerant is set. The
removal is journaled, so the path's history survives in the events
table even though its record is gone.

Examples:
  fimbl remove ~/.netrc
  fimbl remove --tolerant /etc/passwd`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(rootOpts, cmd, args)
		},
	}

	return cmd
}

func runRemove(opts *RootOptions, cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, led, err := openLedger(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	f := formatter(opts, cmd)
	outcomes, storeErr := led.Remove(ctx, expandPaths(opts, args), opts.Tolerant)
	return report(f, outcomes, storeErr)
}
