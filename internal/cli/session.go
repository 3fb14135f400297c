package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/menucart/internal/cart"
	"github.com/roach88/menucart/internal/session"
)

// SessionList is the result of session list.
type SessionList struct {
	Sessions []session.Info `json:"sessions"`
}

// NewSessionCommand creates the session command group.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Create, list and delete cart sessions",
	}

	cmd.AddCommand(newSessionNewCommand(rootOpts, session.UUIDv7Generator{}))
	cmd.AddCommand(newSessionListCommand(rootOpts))
	cmd.AddCommand(newSessionDeleteCommand(rootOpts))

	return cmd
}

// withSessionDB opens the session database for fn.
func withSessionDB(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, db *session.DB, f *OutputFormatter) error) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := session.Open(opts.DBPath)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeSession, err.Error(), map[string]string{"db": opts.DBPath})
	}
	defer db.Close()

	return fn(ctx, db, f)
}

func newSessionNewCommand(opts *RootOptions, ids session.IDGenerator) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create a session with an empty cart",
		Long: `Create a session with an empty cart and print its id.

Use the id with --session or MENUCART_SESSION:

  export MENUCART_SESSION=$(menucart session new)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSessionDB(opts, cmd, func(ctx context.Context, db *session.DB, f *OutputFormatter) error {
				id := ids.Generate()
				if err := db.Session(id).Set(ctx, cart.StorageKey, []byte("[]")); err != nil {
					return f.Fail(ExitCommandError, ErrCodeSession, err.Error(), nil)
				}
				opts.Logger.Info().Str("session", id).Msg("cli: session created")
				return f.Success(map[string]string{"session": id}, id)
			})
		},
	}
}

func newSessionListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List sessions, most recently used first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSessionDB(opts, cmd, func(ctx context.Context, db *session.DB, f *OutputFormatter) error {
				infos, err := db.Sessions(ctx)
				if err != nil {
					return f.Fail(ExitCommandError, ErrCodeSession, err.Error(), nil)
				}
				if infos == nil {
					infos = []session.Info{}
				}

				if f.IsJSON() {
					return f.Success(SessionList{Sessions: infos}, "")
				}
				if len(infos) == 0 {
					fmt.Fprintln(f.Writer, "No sessions.")
					return nil
				}
				for _, info := range infos {
					fmt.Fprintf(f.Writer, "%s  keys=%d  seq=%d\n", info.ID, info.Keys, info.LastSeq)
				}
				return nil
			})
		},
	}
}

func newSessionDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <session-id>",
		Short:         "Delete a session and its cart",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSessionDB(opts, cmd, func(ctx context.Context, db *session.DB, f *OutputFormatter) error {
				if err := db.DeleteSession(ctx, args[0]); err != nil {
					return f.Fail(ExitCommandError, ErrCodeSession, err.Error(), nil)
				}
				return f.Success(map[string]string{"deleted": args[0]}, "✓ Deleted session "+args[0])
			})
		},
	}
}
