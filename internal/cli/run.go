package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fimbl/internal/ledger"
	"github.com/roach88/fimbl/internal/pathkey"
	"github.com/roach88/fimbl/internal/store"
)

// openLedger opens the store and builds a Ledger over it. The caller
// owns closing the returned store on all exit paths.
func openLedger(opts *RootOptions) (*store.Store, *ledger.Ledger, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open ledger database", err)
	}
	return st, ledger.New(st, ledger.Options{Jobs: opts.Jobs}), nil
}

// formatter builds the OutputFormatter for a command invocation.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// expandPaths optionally expands each symlink argument into its
// reference chain so both the link and its ultimate target are
// operated on. Exact duplicates are dropped, preserving first
// occurrence order; aliased spellings of the same file are collapsed
// later by canonicalization.
//
// Chain errors are deliberately swallowed here: the bare argument
// stays in the batch and per-path processing reports the failure as
// that path's own outcome.
func expandPaths(opts *RootOptions, args []string) []string {
	if !opts.FollowSymlinks {
		return args
	}

	seen := make(map[string]bool)
	var paths []string
	for _, arg := range args {
		chain, err := pathkey.Chain(arg)
		if err != nil {
			chain = []string{arg}
		}
		for _, p := range chain {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	return paths
}

// finish maps the outcome list to the command's error result: nil on
// a clean batch, ExitFailure if anything changed, failed, or violated
// a strict-mode precondition.
func finish(outcomes []ledger.Outcome) error {
	flagged := 0
	for _, o := range outcomes {
		if o.Failed() {
			flagged++
		}
	}
	if flagged == 0 {
		return nil
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d of %d path(s) flagged", flagged, len(outcomes)))
}

// report renders outcomes and derives the command result. A fatal
// store error takes precedence over the per-path summary: once the
// store's integrity is in doubt, the invocation is a command error.
func report(f *OutputFormatter, outcomes []ledger.Outcome, storeErr error) error {
	if err := renderOutcomes(f, outcomes); err != nil {
		return err
	}
	if storeErr != nil {
		return WrapExitError(ExitCommandError, "ledger store failure", storeErr)
	}
	return finish(outcomes)
}
