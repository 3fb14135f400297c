package cli

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/menucart/internal/config"
	"github.com/roach88/menucart/internal/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	DBPath      string
	CatalogPath string
	SessionID   string
	MetricsPath string

	LogLevel  string
	LogPretty bool

	// Logger is built from the log flags before any subcommand runs.
	Logger zerolog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the menucart CLI.
// Flag defaults come from the environment (see config.Load).
func NewRootCommand() *cobra.Command {
	cfg := config.Load()
	opts := &RootOptions{Logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "menucart",
		Short: "menucart - configurable menu cart",
		Long:  "Configure menu items, manage a persisted cart and run cart scenarios.",

		// main reports errors that commands have not already written.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", msg)
				return NewExitError(ExitCommandError, msg)
			}
			opts.Logger = logger.New(cmd.ErrOrStderr(), opts.LogLevel, opts.LogPretty)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.DBPath, "db", cfg.Store.DBPath, "session database path ($MENUCART_DB)")
	flags.StringVar(&opts.CatalogPath, "catalog", cfg.Store.CatalogPath, "catalog file, .yaml or .cue ($MENUCART_CATALOG)")
	flags.StringVarP(&opts.SessionID, "session", "s", cfg.Store.SessionID, "session id ($MENUCART_SESSION)")
	flags.StringVar(&opts.MetricsPath, "metrics-file", cfg.Store.MetricsPath, "write Prometheus metrics to this textfile ($MENUCART_METRICS_FILE)")
	flags.StringVar(&opts.LogLevel, "log-level", cfg.Log.Level, "log level: debug, info, warn, error, disabled ($LOG_LEVEL)")
	flags.BoolVar(&opts.LogPretty, "log-pretty", cfg.Log.Pretty, "human-readable logs ($LOG_PRETTY)")

	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// formatter builds the output formatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
