package bootstrap

import (
	"context"
	"errors"
	"fmt"

	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/internal/classifier"
	"github.com/jonesrussell/trendboard/internal/config"
	"github.com/jonesrussell/trendboard/internal/ingest"
	"github.com/jonesrussell/trendboard/internal/relevance"
	"github.com/jonesrussell/trendboard/internal/service"
	"github.com/jonesrussell/trendboard/internal/storage"
	"github.com/jonesrussell/trendboard/internal/telemetry"
	"github.com/jonesrussell/trendboard/internal/watcher"
)

// Components holds everything the server and CLI commands share.
type Components struct {
	Config     *config.Config
	Logger     infralogger.Logger
	Telemetry  *telemetry.Provider
	Dashboard  *service.Dashboard
	Storage    *storage.ElasticsearchStorage
	Database   *DatabaseComponents
	watchFiles []string
	closers    []func() error
}

// NewComponents builds the sources, the optional memo cache and the dashboard,
// then loads the first snapshot.
func NewComponents(ctx context.Context, cfg *config.Config, logger infralogger.Logger) (*Components, error) {
	c := &Components{
		Config:    cfg,
		Logger:    logger,
		Telemetry: telemetry.NewProvider(),
	}

	docs, err := c.documentSource(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	categories, err := c.categorySource(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	opts := service.Options{
		Documents:  docs,
		Categories: categories,
		Scorer:     relevance.NewScorer(cfg.Engine.Weights, nil),
		Trend:      cfg.Engine.Trend,
		Telemetry:  c.Telemetry,
		Logger:     logger,
	}
	if memo, client := SetupMemo(ctx, cfg, logger); memo != nil {
		opts.Memo = memo
		c.closers = append(c.closers, client.Close)
	}

	c.Dashboard = service.New(opts)
	if err = c.Dashboard.Reload(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Components) documentSource(ctx context.Context) (service.DocumentSource, error) {
	switch c.Config.Documents.Source {
	case config.SourceElasticsearch:
		store, err := c.elasticsearch(ctx)
		if err != nil {
			return nil, fmt.Errorf("setup elasticsearch: %w", err)
		}
		return store, nil
	default:
		c.watchFiles = append(c.watchFiles, c.Config.Documents.Path)
		return ingest.NewFileSource(c.Config.Documents.Path, c.Logger), nil
	}
}

func (c *Components) categorySource(ctx context.Context) (service.CategorySource, error) {
	switch c.Config.Categories.Source {
	case config.SourceFile:
		c.watchFiles = append(c.watchFiles, c.Config.Categories.Path)
		return classifier.NewFileCategories(c.Config.Categories.Path), nil
	case config.SourceDatabase:
		db, err := c.database(ctx)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}
		return db.CategoryRepo, nil
	default:
		return classifier.Builtin(c.Config.Categories.Set)
	}
}

func (c *Components) elasticsearch(ctx context.Context) (*storage.ElasticsearchStorage, error) {
	if c.Storage != nil {
		return c.Storage, nil
	}
	store, err := SetupElasticsearch(ctx, c.Config, c.Logger)
	if err != nil {
		return nil, err
	}
	c.Storage = store
	return store, nil
}

func (c *Components) database(ctx context.Context) (*DatabaseComponents, error) {
	if c.Database != nil {
		return c.Database, nil
	}
	db, err := SetupDatabase(ctx, c.Config, c.Logger)
	if err != nil {
		return nil, err
	}
	c.Database = db
	c.closers = append(c.closers, db.Close)
	return db, nil
}

// ElasticsearchStorage returns the Elasticsearch store, connecting on first use.
func (c *Components) ElasticsearchStorage(ctx context.Context) (*storage.ElasticsearchStorage, error) {
	return c.elasticsearch(ctx)
}

// CategoryRepository returns the Postgres category repository, connecting on first use.
func (c *Components) CategoryRepository(ctx context.Context) (*DatabaseComponents, error) {
	return c.database(ctx)
}

// StartWatcher reloads the dashboard when the file-backed sources change. It
// returns nil when watching is disabled or nothing is file-backed.
func (c *Components) StartWatcher(ctx context.Context) (*watcher.Watcher, error) {
	if !c.Config.Documents.Watch || len(c.watchFiles) == 0 {
		return nil, nil
	}

	w, err := watcher.New(c.Config.Documents.Debounce, c.Logger)
	if err != nil {
		return nil, err
	}
	err = w.Watch(c.watchFiles, func(paths []string) {
		c.Logger.Info("Source files changed, reloading", infralogger.Strings("paths", paths))
		if reloadErr := c.Dashboard.Reload(ctx); reloadErr != nil {
			c.Logger.Error("Reload after file change failed", infralogger.Error(reloadErr))
		}
	})
	if err != nil {
		_ = w.Stop()
		return nil, err
	}

	c.closers = append(c.closers, w.Stop)
	c.Logger.Info("Watching source files", infralogger.Strings("paths", c.watchFiles))
	return w, nil
}

// Close releases every connection in reverse order of creation.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
