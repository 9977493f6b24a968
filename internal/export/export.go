// Package export writes document collections as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/trendboard/internal/analytics"
	"github.com/jonesrussell/trendboard/internal/domain"
)

const (
	// ArticlesSheet lists one row per document.
	ArticlesSheet = "Gifting Trends Articles"
	// SummarySheet holds collection-level metrics.
	SummarySheet = "Summary"
	// ContentType is the MIME type of the workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// FileName is the default download name.
	FileName = "gifting-trends-articles.xlsx"

	dateLayout       = "2006-01-02"
	summaryKeywords  = 5
	noDate           = "Not available"
	noDatesAvailable = "No dates available"
	defaultSheet     = "Sheet1"
)

type column struct {
	header string
	width  float64
}

var articleColumns = []column{
	{"No.", 5},
	{"Title", 50},
	{"Source", 20},
	{"Published Date", 15},
	{"URL", 50},
	{"Summary", 60},
	{"Keywords", 30},
	{"Scraped On", 15},
}

var summaryColumns = []column{
	{"Metric", 20},
	{"Value", 50},
}

// Workbook builds the two-sheet workbook for docs. generated stamps the
// "Scraped On" column and the summary.
func Workbook(docs []domain.Document, generated time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(defaultSheet, ArticlesSheet); err != nil {
		return nil, fmt.Errorf("rename articles sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err = writeHeader(f, ArticlesSheet, articleColumns, bold); err != nil {
		return nil, err
	}
	stamp := generated.Format(dateLayout)
	for i := range docs {
		if err = writeRow(f, ArticlesSheet, i+2, articleRow(i, &docs[i], stamp)); err != nil {
			return nil, err
		}
	}

	if err = writeHeader(f, SummarySheet, summaryColumns, bold); err != nil {
		return nil, err
	}
	for i, row := range summaryRows(docs, stamp) {
		if err = writeRow(f, SummarySheet, i+2, row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Write streams the workbook for docs to w.
func Write(w io.Writer, docs []domain.Document, generated time.Time) error {
	f, err := Workbook(docs, generated)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err = f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, cols []column, style int) error {
	headers := make([]any, len(cols))
	for i, c := range cols {
		headers[i] = c.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err = f.SetColWidth(sheet, name, name, c.width); err != nil {
			return fmt.Errorf("set width of %s!%s: %w", sheet, name, err)
		}
	}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err = f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err = f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func articleRow(i int, d *domain.Document, stamp string) []any {
	published := noDate
	if d.HasDate() {
		published = d.PublishedAt.Format(dateLayout)
	}
	return []any{
		i + 1,
		d.Title,
		d.Source,
		published,
		d.URL,
		d.Summary,
		strings.Join(d.Keywords, ", "),
		stamp,
	}
}

func summaryRows(docs []domain.Document, stamp string) [][]any {
	return [][]any{
		{"Total Articles", len(docs)},
		{"Sources", strings.Join(sourceNames(docs), ", ")},
		{"Date Range", DateRange(docs)},
		{"Generated On", stamp},
		{"Top Keywords", topKeywords(docs)},
	}
}

func sourceNames(docs []domain.Document) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for i := range docs {
		s := docs[i].Source
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		names = append(names, s)
	}
	return names
}

// DateRange describes the span of publish dates in docs.
func DateRange(docs []domain.Document) string {
	s := analytics.Summarize(docs)
	switch {
	case s.Earliest == nil:
		return noDatesAvailable
	case s.Earliest.Equal(*s.Latest):
		return s.Earliest.Format(dateLayout)
	default:
		return s.Earliest.Format(dateLayout) + " to " + s.Latest.Format(dateLayout)
	}
}

func topKeywords(docs []domain.Document) string {
	top := analytics.RankKeywords(docs, summaryKeywords)
	if len(top) == 0 {
		return "None"
	}
	parts := make([]string, len(top))
	for i, c := range top {
		parts[i] = fmt.Sprintf("%s (%d)", c.Name, c.Count)
	}
	return strings.Join(parts, ", ")
}
