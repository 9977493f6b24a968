package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/trendboard/internal/filter"
	"github.com/jonesrussell/trendboard/internal/ranker"
	"github.com/jonesrussell/trendboard/internal/service"
)

// queryFlags are the filter panel and sort selections shared by rank and export.
type queryFlags struct {
	sort      string
	terms     []string
	search    string
	source    string
	dateRange string
	keywords  []string
	limit     int
}

func (f *queryFlags) register(cmd *cobra.Command, defaultLimit int) {
	flags := cmd.Flags()
	flags.StringVar(&f.sort, "sort", string(ranker.ByDate), "sort criterion (date, date-asc, title, source, keywords, relevance or keyword-relevance)")
	flags.StringSliceVar(&f.terms, "terms", nil, "relevance terms, used by --sort relevance")
	flags.StringVar(&f.search, "q", "", "case-insensitive search over title and summary")
	flags.StringVar(&f.source, "source", "", "exact source name")
	flags.StringVar(&f.dateRange, "date-range", string(filter.RangeAll), "date range (all, 2025, 2024, last30, last90, last180)")
	flags.StringSliceVar(&f.keywords, "keywords", nil, "keywords every article must relate to")
	flags.IntVar(&f.limit, "limit", defaultLimit, "maximum number of articles (0 for all)")
}

func (f *queryFlags) query() (service.ArticleQuery, error) {
	criterion, err := ranker.ParseCriterion(f.sort)
	if err != nil {
		return service.ArticleQuery{}, err
	}
	dateRange, err := filter.ParseDateRange(f.dateRange)
	if err != nil {
		return service.ArticleQuery{}, err
	}
	if f.limit < 0 {
		return service.ArticleQuery{}, fmt.Errorf("limit must be non-negative, got %d", f.limit)
	}
	return service.ArticleQuery{
		Filter: filter.Criteria{
			Search:    f.search,
			Source:    f.source,
			DateRange: dateRange,
			Keywords:  f.keywords,
		},
		Sort:  criterion,
		Terms: f.terms,
		Limit: f.limit,
	}, nil
}
