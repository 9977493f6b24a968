package classifier

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/trendboard/internal/domain"
)

// ErrUnknownCategorySet is returned for an unrecognized built-in set name.
var ErrUnknownCategorySet = errors.New("unknown category set")

// Built-in category set names.
const (
	SetGifts    = "gifts"
	SetTrending = "trending"
	SetThemes   = "themes"
)

// StaticCategories serves a fixed category list.
type StaticCategories []domain.Category

// List returns a copy of the categories.
func (s StaticCategories) List(_ context.Context) ([]domain.Category, error) {
	return append([]domain.Category(nil), s...), nil
}

// Builtin returns the named built-in category set.
func Builtin(name string) (StaticCategories, error) {
	switch name {
	case SetGifts, "":
		return GiftCategories(), nil
	case SetTrending:
		return TrendingTopics(), nil
	case SetThemes:
		return Themes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategorySet, name)
	}
}

// categoryFile is the on-disk layout of a categories file.
type categoryFile struct {
	Categories []domain.Category `yaml:"categories"`
}

// FileCategories loads categories from a YAML file on every List call so edits
// are picked up on reload.
type FileCategories struct {
	Path string
}

// NewFileCategories creates a YAML-backed category source.
func NewFileCategories(path string) *FileCategories {
	return &FileCategories{Path: path}
}

// List reads and parses the categories file.
func (f *FileCategories) List(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file %s: %w", f.Path, err)
	}

	var file categoryFile
	if err = yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse categories file %s: %w", f.Path, err)
	}

	categories := make([]domain.Category, 0, len(file.Categories))
	for _, c := range file.Categories {
		if c.Name == "" {
			continue
		}
		categories = append(categories, c)
	}
	return categories, nil
}
