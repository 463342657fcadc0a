package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <file>...",
		Short: "Fingerprint files and begin tracking them",
		Long: `Fingerprint files and begin tracking them.

Each file's content digest and attributes are captured at this
instant and written to the ledger as its baseline.

Adding an already-tracked file is an error unless --tolerant is set,
in which case it is reported and the stored baseline is left
untouched.

Examples:
  fimbl add ~/.ssh/authorized_keys
  fimbl add --follow-symlinks /etc/resolv.conf
  fimbl add --tolerant /etc/passwd /etc/group`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, cmd, args)
		},
	}

	return cmd
}

func runAdd(opts *RootOptions, cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, led, err := openLedger(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	f := formatter(opts, cmd)
	f.VerboseLog("run %s: adding %d path(s)", led.RunID(), len(args))

	outcomes, storeErr := led.Add(ctx, expandPaths(opts, args), opts.Tolerant)
	return report(f, outcomes, storeErr)
}
