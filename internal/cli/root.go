package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fimbl/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose        bool
	Format         string // "json" | "text"
	Tolerant       bool
	Database       string
	FollowSymlinks bool
	Jobs           int

	// configErr defers a config-file failure until a command actually
	// runs, so `fimbl --help` still works with a broken config.
	configErr error
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the fimbl CLI.
//
// Flag defaults come from the config file (if present), so the
// precedence is: flags over config file over compiled-in defaults.
func NewRootCommand() *cobra.Command {
	cfg, cfgErr := config.LoadDefault()
	opts := &RootOptions{configErr: cfgErr}

	cmd := &cobra.Command{
		Use:   "fimbl",
		Short: "fimbl - file integrity ledger",
		Long: `fimbl records a content fingerprint for files you choose and later
reports whether any of them have changed.

Typical use: add rarely-changing sensitive files (configuration,
dotfiles, credentials) to the ledger, then run verify-all from cron
and alert on a nonzero exit.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configErr != nil {
				return WrapExitError(ExitCommandError, "failed to load config", opts.configErr)
			}
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Tolerant, "tolerant", "t", cfg.Tolerant, "tolerate pre-existing files on add and absent files on accept/remove")
	cmd.PersistentFlags().StringVarP(&opts.Database, "database", "d", cfg.Database, "path to the ledger database")
	cmd.PersistentFlags().BoolVarP(&opts.FollowSymlinks, "follow-symlinks", "s", cfg.FollowSymlinks, "also operate on symlink targets (in addition to the links)")
	cmd.PersistentFlags().IntVarP(&opts.Jobs, "jobs", "j", cfg.Jobs, "fingerprinting workers (0 = one per CPU)")

	// Add subcommands
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewVerifyAllCommand(opts))
	cmd.AddCommand(NewAcceptCommand(opts))
	cmd.AddCommand(NewListCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
