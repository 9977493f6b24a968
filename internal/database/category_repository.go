package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/trendboard/internal/domain"
)

// ErrCategoryNotFound is returned when a named category does not exist.
var ErrCategoryNotFound = errors.New("category not found")

const upsertQuery = `
	INSERT INTO categories (name, description, terms, suggestions, position, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (name) DO UPDATE SET
		description = EXCLUDED.description,
		terms       = EXCLUDED.terms,
		suggestions = EXCLUDED.suggestions,
		position    = EXCLUDED.position,
		updated_at  = NOW()
`

// CategoryRepository stores category definitions in PostgreSQL.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories ordered by position, then name.
func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT name, description, terms, suggestions
		FROM categories
		ORDER BY position ASC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if scanErr := rows.Scan(
			&c.Name,
			&c.Description,
			pq.Array(&c.Terms),
			pq.Array(&c.Suggestions),
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan category: %w", scanErr)
		}
		categories = append(categories, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// Upsert inserts or replaces a category at the given display position.
func (r *CategoryRepository) Upsert(ctx context.Context, category domain.Category, position int) error {
	_, err := r.db.ExecContext(
		ctx,
		upsertQuery,
		category.Name,
		category.Description,
		pq.Array(category.Terms),
		pq.Array(category.Suggestions),
		position,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}

	return nil
}

// Seed upserts categories in order inside one transaction.
func (r *CategoryRepository) Seed(ctx context.Context, categories []domain.Category) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, c := range categories {
		if _, execErr := tx.ExecContext(ctx, upsertQuery, c.Name, c.Description,
			pq.Array(c.Terms), pq.Array(c.Suggestions), i); execErr != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.Name, execErr)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit categories: %w", err)
	}
	return nil
}

// Delete removes a category by name.
func (r *CategoryRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}
	return nil
}
