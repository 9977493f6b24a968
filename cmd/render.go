package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/trendboard/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	noDate     = "-"
)

// scoredRow is one document and its weighted relevance score.
type scoredRow struct {
	doc   domain.Document
	score int
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func renderArticles(w io.Writer, rows []scoredRow, total int) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Title", "Source", "Published", "Score", "Keywords"})
	for i, r := range rows {
		t.AppendRow(table.Row{
			i + 1,
			r.doc.Title,
			r.doc.Source,
			publishedDate(&r.doc),
			r.score,
			strings.Join(r.doc.Keywords, ", "),
		})
	}
	t.Render()
	fmt.Fprintf(w, "Showing %d of %d articles\n", len(rows), total)
}

func renderMetrics(w io.Writer, metrics []domain.CategoryMetrics) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Articles", "Trend", "Popularity", "Sample"})
	for i := range metrics {
		m := &metrics[i]
		titles := make([]string, 0, len(m.Sample))
		for j := range m.Sample {
			titles = append(titles, m.Sample[j].Title)
		}
		t.AppendRow(table.Row{
			m.Category.Name,
			fmt.Sprintf("%d/%d", m.Count, m.Total),
			m.TrendScore,
			m.Popularity,
			strings.Join(titles, "; "),
		})
	}
	t.Render()
}

func renderCategories(w io.Writer, categories []domain.Category) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Terms", "Description"})
	for i := range categories {
		c := &categories[i]
		t.AppendRow(table.Row{c.Name, strings.Join(c.Terms, ", "), c.Description})
	}
	t.Render()
}

func publishedDate(doc *domain.Document) string {
	if !doc.HasDate() {
		return noDate
	}
	return doc.PublishedTime().Format(dateLayout)
}
