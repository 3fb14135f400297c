package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/menucart/internal/cart"
	"github.com/roach88/menucart/internal/catalog"
	"github.com/roach88/menucart/internal/metrics"
	"github.com/roach88/menucart/internal/session"
)

// cartEnv is everything a cart command works against: the session
// database, the selected session's store and the metrics that observe it.
type cartEnv struct {
	opts     *RootOptions
	db       *session.DB
	sess     *session.SQLiteSession
	store    *cart.Store
	registry *prometheus.Registry
	metrics  *metrics.CartMetrics
}

// openCartEnv opens the session database and loads the selected session's
// cart. Failures are reported through f and returned as ExitErrors.
func openCartEnv(ctx context.Context, opts *RootOptions, f *OutputFormatter) (*cartEnv, error) {
	if opts.SessionID == "" {
		return nil, f.Fail(ExitCommandError, ErrCodeNoSession,
			"no session selected: pass --session or set MENUCART_SESSION (create one with 'menucart session new')", nil)
	}

	db, err := session.Open(opts.DBPath)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeSession, err.Error(), map[string]string{"db": opts.DBPath})
	}
	f.VerboseLog("Opened session database %s", opts.DBPath)

	registry := prometheus.NewRegistry()
	env := &cartEnv{
		opts:     opts,
		db:       db,
		sess:     db.Session(opts.SessionID),
		registry: registry,
		metrics:  metrics.New(registry),
	}

	env.store = cart.NewStore(ctx, env.sess, cart.WithLogger(
		opts.Logger.With().Str("session", opts.SessionID).Logger(),
	))
	env.store.Subscribe(env.metrics.Observe)
	return env, nil
}

// loadCatalog loads the catalog named by --catalog.
func loadCatalog(opts *RootOptions, f *OutputFormatter) (*catalog.Catalog, error) {
	cat, err := catalog.Load(opts.CatalogPath)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeCatalog, err.Error(), map[string]string{"catalog": opts.CatalogPath})
	}
	f.VerboseLog("Loaded %d product(s) from %s", len(cat.Products), opts.CatalogPath)
	return cat, nil
}

// Close exports metrics when a textfile is configured and closes the
// database. A failed export is logged; it never fails the command.
func (e *cartEnv) Close() error {
	if e.opts.MetricsPath != "" {
		if err := metrics.WriteTextfile(e.opts.MetricsPath, e.registry); err != nil {
			e.opts.Logger.Warn().Err(err).Str("path", e.opts.MetricsPath).Msg("cli: failed to write metrics textfile")
		}
	}
	return e.db.Close()
}
