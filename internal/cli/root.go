package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/garnizeh/rentals/internal/app"
	"github.com/garnizeh/rentals/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DBPath     string
	Format     string // "json" | "text"
	Verbose    bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of propctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "propctl",
		Short:         "Manage rental property listings",
		Long:          "propctl reads and edits the rental listings database directly, without the HTTP server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config YAML file")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "database file (overrides the config)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log store operations to stderr")

	// Add subcommands
	cmd.AddCommand(NewDBCommand(opts))
	cmd.AddCommand(NewPropertyCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))

	return cmd
}

// open loads the config and opens the database for one command.
func (o *RootOptions) open(cmd *cobra.Command, migrate bool) (*app.App, error) {
	cfg, err := config.LoadConfig(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if o.DBPath != "" {
		cfg.Database.Path = o.DBPath
	}
	if migrate {
		cfg.Database.MigrateOnStart = true
	}
	if err := cfg.ValidateLocal(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if o.Verbose {
		cfg.LogLevel = "debug"
		logger = cfg.Logger(cmd.ErrOrStderr())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}
	return a, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}
