package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/trendboard/internal/ingest"
)

const dataJSON = `[
  {
    "source_file": "ppai_articles.csv",
    "data": [
      {
        "Heading": "Sustainable Corporate Gifts",
        "Content": "Bamboo and recycled options lead the list.",
        "Date": "Published March 3, 2025",
        "Article URL": "www.ppai.org/sustainable",
        "Extracted Topics": "sustainable, corporate, , ok"
      },
      {
        "Title": "Old news",
        "Content": "Archive entry",
        "Date": "sometime last year",
        "URL": "http://example.com/old"
      }
    ]
  },
  {
    "source_file": "holiday_market_watch.xlsx",
    "data": [
      {
        "Content": "No heading here",
        "Date": "2024-12-01"
      },
      {
        "Heading": "Sustainable Corporate Gifts",
        "Content": "Duplicate listing",
        "Date": "2024-06-01",
        "Article URL": "www.ppai.org/sustainable"
      }
    ]
  }
]`

func TestParse(t *testing.T) {
	t.Parallel()

	docs, err := ingest.Parse(strings.NewReader(dataJSON))
	require.NoError(t, err)
	require.Len(t, docs, 4)

	first := docs[0]
	assert.Equal(t, "Sustainable Corporate Gifts", first.Title)
	assert.Equal(t, "PPAI", first.Source)
	assert.Equal(t, "https://www.ppai.org/sustainable", first.URL)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, "2025-03-03", first.PublishedAt.Format("2006-01-02"))
	assert.Equal(t, []string{"sustainable", "corporate"}, first.Keywords)
	assert.Equal(t, "Bamboo and recycled options lead the list.", first.Summary)

	assert.Equal(t, "Untitled", docs[1].Title)
	assert.Equal(t, "Holiday Market Watch", docs[1].Source)
	assert.Equal(t, "#", docs[1].URL)

	assert.Equal(t, "Sustainable Corporate Gifts", docs[2].Title)
	assert.NotEqual(t, first.ID, docs[2].ID, "duplicate title and URL get distinct ids")

	undated := docs[3]
	assert.Equal(t, "Old news", undated.Title)
	assert.Nil(t, undated.PublishedAt)
	assert.Equal(t, "http://example.com/old", undated.URL)

	ids := make(map[string]struct{})
	for _, d := range docs {
		ids[d.ID] = struct{}{}
	}
	assert.Len(t, ids, len(docs))
}

func TestParse_DeterministicIDs(t *testing.T) {
	t.Parallel()

	a, err := ingest.Parse(strings.NewReader(dataJSON))
	require.NoError(t, err)
	b, err := ingest.Parse(strings.NewReader(dataJSON))
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := ingest.Parse(strings.NewReader(`{"not": "an array"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode data file")
}

func TestFileSource_Load(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(dataJSON), 0o600))

	src := ingest.NewFileSource(path, nil)
	docs, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 4)
	assert.Equal(t, path, src.Path())

	_, err = ingest.NewFileSource(filepath.Join(t.TempDir(), "missing.json"), nil).Load(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSourceName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file string
		want string
	}{
		{file: "bundledgifting_2025.csv", want: "Bundled Gifting"},
		{file: "BigImpex.xlsx", want: "Big Impex"},
		{file: "corporategift.csv", want: "Corporate Gift"},
		{file: "ppai.csv", want: "PPAI"},
		{file: "woodanytime_blog.csv", want: "Wood Anytime"},
		{file: "consortiumgifts.xlsx", want: "Consortium Gifts"},
		{file: "swag_weekly.csv", want: "Swag Weekly"},
		{file: "gift_NEWS.xlsx", want: "Gift NEWS"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ingest.SourceName(tt.file))
		})
	}
}
