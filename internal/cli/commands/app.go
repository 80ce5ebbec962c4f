package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/conduit-lang/jsonres/internal/api"
	"github.com/conduit-lang/jsonres/internal/catalog"
	"github.com/conduit-lang/jsonres/internal/cli/config"
	"github.com/conduit-lang/jsonres/internal/cli/ui"
	"github.com/conduit-lang/jsonres/internal/logging"
	"github.com/conduit-lang/jsonres/internal/store"
	"github.com/conduit-lang/jsonres/internal/web/cache"
	"github.com/conduit-lang/jsonres/internal/web/middleware"
	"github.com/conduit-lang/jsonres/internal/web/router"
	"go.uber.org/zap"

	// database/sql drivers named by database.driver; lib/pq registers
	// "postgres" through the store package
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// app wires the configured catalog, store, cache and router together
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *catalog.Catalog
	store   store.Store
	db      *sql.DB
	cache   cache.Cache
	router  *router.Router
	handler *api.Handler
}

type appOptions struct {
	// fixture replaces the configured database with a fixture file
	fixture string
	// cache opens the configured cache backend
	cache bool
	// middleware installs request ID, recovery and request logging
	middleware bool
}

func newApp(opts appOptions) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, &displayError{message: ui.ConfigError(err.Error(), noColor), err: err}
	}
	if opts.fixture != "" {
		cfg.Database.Driver = "fixture"
		cfg.Database.Fixture = opts.fixture
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	a.catalog, err = catalog.New(cfg.Resources)
	if err != nil {
		err = fmt.Errorf("invalid resources: %w", err)
		return nil, &displayError{message: ui.ConfigError(err.Error(), noColor), err: err}
	}

	if err := a.openStore(); err != nil {
		return nil, err
	}

	if opts.cache {
		a.cache, err = cache.New(cfg.Cache)
		if err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
	}

	a.router = router.NewRouter(router.WithBaseURL(cfg.Server.BaseURL))
	if opts.middleware {
		a.router.Use(
			middleware.RequestID(),
			middleware.Recovery(logger),
			middleware.Logging(logger),
		)
	}

	a.handler = api.New(a.catalog, a.store, a.router,
		api.WithBaseURL(cfg.Server.BaseURL),
		api.WithLogger(logger),
		api.WithCache(a.cache),
		api.WithPageSize(cfg.Pagination.DefaultSize, cfg.Pagination.MaxSize),
	)
	if err := a.handler.Register(); err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	return a, nil
}

func (a *app) openStore() error {
	db := a.cfg.Database
	if db.Driver == "fixture" {
		if db.Fixture == "" {
			// Without a fixture there is nothing to read; routes still resolve.
			fixture, err := store.ParseFixture(nil, a.catalog.Schemas())
			if err != nil {
				return err
			}
			a.store = fixture
			return nil
		}
		fixture, err := store.LoadFixture(db.Fixture, a.catalog.Schemas())
		if err != nil {
			return err
		}
		a.store = fixture
		return nil
	}

	dialect, err := store.DialectFor(db.Driver)
	if err != nil {
		return err
	}
	conn, err := sql.Open(db.Driver, db.DSN)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", db.Driver, err)
	}
	a.db = conn
	a.store = store.NewLoader(conn, dialect, a.catalog.Schemas(), store.WithLogger(a.logger))
	return nil
}

// Close releases the cache and the database. It has the ShutdownHook
// signature so serve can register it.
func (a *app) Close(context.Context) error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
