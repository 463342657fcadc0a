package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewAcceptCommand creates the accept command.
func NewAcceptCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept <file>...",
		Short: "Accept modifications, resetting the baseline",
		Long: `Accept modifications to files, resetting their baselines.

Overwrites each file's record with its current digest and attributes.
Use after an expected change (e.g. you edited the file yourself) so
the next verify reports it unchanged.

Accepting an untracked file is an error unless --tolerant is set, in
which case it is added instead.

Examples:
  fimbl accept /etc/resolv.conf
  fimbl accept --tolerant ~/.gitconfig`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccept(rootOpts, cmd, args)
		},
	}

	return cmd
}

func runAccept(opts *RootOptions, cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, led, err := openLedger(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	f := formatter(opts, cmd)
	outcomes, storeErr := led.Accept(ctx, expandPaths(opts, args), opts.Tolerant)
	return report(f, outcomes, storeErr)
}
