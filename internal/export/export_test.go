package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/trendboard/internal/domain"
	"github.com/jonesrussell/trendboard/internal/export"
)

func at(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func documents() []domain.Document {
	return []domain.Document{
		{
			ID: "1", Title: "Eco swag guide", Summary: "Bamboo everything.", Source: "PPAI",
			URL: "https://ppai.org/eco", PublishedAt: at("2025-03-01"), Keywords: []string{"eco", "swag"},
		},
		{
			ID: "2", Title: "Tech gifts", Summary: "Gadgets.", Source: "Big Impex",
			URL: "https://bigimpex.com/tech", PublishedAt: at("2024-11-15"), Keywords: []string{"tech", "eco"},
		},
		{ID: "3", Title: "Undated", Source: "PPAI", URL: "#"},
	}
}

var generated = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func TestWrite_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, documents(), generated))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{export.ArticlesSheet, export.SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(export.ArticlesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"No.", "Title", "Source", "Published Date", "URL", "Summary", "Keywords", "Scraped On"}, rows[0])
	assert.Equal(t, []string{
		"1", "Eco swag guide", "PPAI", "2025-03-01", "https://ppai.org/eco", "Bamboo everything.", "eco, swag", "2025-06-30",
	}, rows[1])
	assert.Equal(t, "Not available", rows[3][3])
	assert.Empty(t, rows[3][6])

	summary, err := f.GetRows(export.SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Metric", "Value"},
		{"Total Articles", "3"},
		{"Sources", "PPAI, Big Impex"},
		{"Date Range", "2024-11-15 to 2025-03-01"},
		{"Generated On", "2025-06-30"},
		{"Top Keywords", "eco (2), swag (1), tech (1)"},
	}, summary)
}

func TestWorkbook_Layout(t *testing.T) {
	t.Parallel()

	f, err := export.Workbook(documents(), generated)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	widths := map[string]float64{"A": 5, "B": 50, "C": 20, "D": 15, "E": 50, "F": 60, "G": 30, "H": 15}
	for col, want := range widths {
		got, err := f.GetColWidth(export.ArticlesSheet, col)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 0.01, "column %s", col)
	}

	header, err := f.GetCellStyle(export.ArticlesSheet, "A1")
	require.NoError(t, err)
	body, err := f.GetCellStyle(export.ArticlesSheet, "A2")
	require.NoError(t, err)
	assert.NotEqual(t, header, body)

	style, err := f.GetStyle(header)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestWorkbook_Empty(t *testing.T) {
	t.Parallel()

	f, err := export.Workbook(nil, generated)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(export.ArticlesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	summary, err := f.GetRows(export.SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date Range", "No dates available"}, summary[3])
	assert.Equal(t, []string{"Top Keywords", "None"}, summary[5])
}

func TestDateRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		docs []domain.Document
		want string
	}{
		{"none", []domain.Document{{ID: "a"}}, "No dates available"},
		{"single", []domain.Document{{ID: "a", PublishedAt: at("2025-01-02")}}, "2025-01-02"},
		{"span", documents(), "2024-11-15 to 2025-03-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, export.DateRange(tt.docs))
		})
	}
}
