package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <file>...",
		Short: "Check files against their recorded baselines",
		Long: `Check files against their recorded baselines.

Recomputes each file's content digest and compares it bit-for-bit to
the stored one. The ledger is never mutated. A vanished or unreadable
tracked file is reported, never silently skipped.

Exit status is nonzero if any file changed, failed to read, or is not
tracked.

Examples:
  fimbl verify ~/.ssh/authorized_keys
  fimbl verify --format json /etc/passwd /etc/group`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, cmd, args)
		},
	}

	return cmd
}

// NewVerifyAllCommand creates the verify-all command.
func NewVerifyAllCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-all",
		Short: "Check every tracked file",
		Long: `Check every tracked file against its recorded baseline.

Files are verified in lexicographic path order. Untracked paths are
never touched. An empty ledger verifies clean.

Intended for cron: zero exit means nothing changed.

Examples:
  fimbl verify-all
  fimbl verify-all --format json --jobs 8`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerifyAll(rootOpts, cmd)
		},
	}

	return cmd
}

func runVerify(opts *RootOptions, cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, led, err := openLedger(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	f := formatter(opts, cmd)
	outcomes, storeErr := led.Verify(ctx, expandPaths(opts, args))
	return report(f, outcomes, storeErr)
}

func runVerifyAll(opts *RootOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, led, err := openLedger(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	f := formatter(opts, cmd)
	outcomes, storeErr := led.VerifyAll(ctx)
	f.VerboseLog("verified %d tracked path(s)", len(outcomes))
	return report(f, outcomes, storeErr)
}
