package bootstrap

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/internal/config"
	"github.com/jonesrussell/trendboard/internal/database"
)

// DatabaseComponents holds database connection and repositories.
type DatabaseComponents struct {
	DB           *sqlx.DB
	CategoryRepo *database.CategoryRepository
}

// Close releases the connection pool.
func (d *DatabaseComponents) Close() error {
	return d.DB.Close()
}

// SetupDatabase connects to PostgreSQL and applies pending migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, logger infralogger.Logger) (*DatabaseComponents, error) {
	dbConfig := database.Config{
		Host:     cfg.Database.Host,
		Port:     strconv.Itoa(cfg.Database.Port),
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	}

	logger.Info("Connecting to PostgreSQL database",
		infralogger.String("host", dbConfig.Host),
		infralogger.String("port", dbConfig.Port),
		infralogger.String("database", dbConfig.DBName),
	)

	db, err := database.NewPostgresConnection(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	if err = database.RunMigrations(dbConfig, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate category schema: %w", err)
	}

	repo := database.NewCategoryRepository(db)

	logger.Info("Database connected successfully")
	return &DatabaseComponents{DB: db, CategoryRepo: repo}, nil
}
