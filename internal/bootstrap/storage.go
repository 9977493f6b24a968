package bootstrap

import (
	"context"
	"fmt"
	"time"

	esclient "github.com/jonesrussell/trendboard/infrastructure/elasticsearch"
	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/infrastructure/retry"
	"github.com/jonesrussell/trendboard/internal/config"
	"github.com/jonesrussell/trendboard/internal/storage"
)

const (
	esMaxAttempts  = 3
	esInitialDelay = 1 * time.Second
	esMaxDelay     = 5 * time.Second
	esMultiplier   = 2.0
)

// SetupElasticsearch connects to Elasticsearch and makes sure the article index exists.
func SetupElasticsearch(ctx context.Context, cfg *config.Config, logger infralogger.Logger) (*storage.ElasticsearchStorage, error) {
	client, err := esclient.NewClient(ctx, esclient.Config{
		URL:      cfg.Elasticsearch.URL,
		Username: cfg.Elasticsearch.Username,
		Password: cfg.Elasticsearch.Password,
		RetryConfig: &retry.Config{
			MaxAttempts:  esMaxAttempts,
			InitialDelay: esInitialDelay,
			MaxDelay:     esMaxDelay,
			Multiplier:   esMultiplier,
		},
	}, logger)
	if err != nil {
		return nil, err
	}

	store := storage.NewElasticsearchStorage(client, cfg.Elasticsearch.Index, cfg.Elasticsearch.LoadSize)
	if err = store.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensure index %s: %w", store.Index(), err)
	}

	logger.Info("Elasticsearch storage ready", infralogger.String("index", store.Index()))
	return store, nil
}
