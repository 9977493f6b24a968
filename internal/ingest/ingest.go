// Package ingest loads scraped gifting articles from the static data.json export
// and turns them into documents.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/internal/domain"
)

const (
	untitled   = "Untitled"
	missingURL = "#"
)

// documentNamespace scopes document IDs derived from title and URL.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://trendboard/documents"))

// rawArticle is one scraped row. Field names vary by scraper.
type rawArticle struct {
	Heading         string `json:"Heading"`
	Title           string `json:"Title"`
	Content         string `json:"Content"`
	Date            string `json:"Date"`
	ArticleURL      string `json:"Article URL"`
	URL             string `json:"URL"`
	Source          string `json:"Source"`
	ExtractedTopics string `json:"Extracted Topics"`
}

// rawSource groups the rows scraped from one site export.
type rawSource struct {
	SourceFile string       `json:"source_file"`
	Data       []rawArticle `json:"data"`
}

// FileSource reads documents from a data.json file.
type FileSource struct {
	path   string
	logger infralogger.Logger
}

// NewFileSource creates a file-backed document source.
func NewFileSource(path string, logger infralogger.Logger) *FileSource {
	if logger == nil {
		logger = infralogger.NewNop()
	}
	return &FileSource{path: path, logger: logger}
}

// Path returns the data file path.
func (s *FileSource) Path() string {
	return s.path
}

// Load reads and transforms the data file.
func (s *FileSource) Load(ctx context.Context) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file %s: %w", s.path, err)
	}
	defer f.Close()

	docs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents from %s: %w", s.path, err)
	}

	s.logger.Debug("Loaded documents from file",
		infralogger.String("path", s.path),
		infralogger.Int("documents", len(docs)),
	)
	return docs, nil
}

// Parse decodes a data.json stream into documents sorted newest first.
func Parse(r io.Reader) ([]domain.Document, error) {
	var sources []rawSource
	if err := json.NewDecoder(r).Decode(&sources); err != nil {
		return nil, fmt.Errorf("failed to decode data file: %w", err)
	}
	return transform(sources), nil
}

// transform converts raw sources into documents with unique IDs, newest first.
// Undated documents sort last.
func transform(sources []rawSource) []domain.Document {
	var docs []domain.Document
	seen := make(map[string]int)

	for _, src := range sources {
		sourceName := SourceName(src.SourceFile)
		for i := range src.Data {
			doc := transformArticle(&src.Data[i], sourceName)

			base := doc.ID
			if n := seen[base]; n > 0 {
				doc.ID = uuid.NewSHA1(documentNamespace, []byte(base+"#"+strconv.Itoa(n))).String()
			}
			seen[base]++

			docs = append(docs, doc)
		}
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].PublishedTime().After(docs[j].PublishedTime())
	})
	return docs
}

func transformArticle(a *rawArticle, sourceName string) domain.Document {
	title := firstNonEmpty(a.Heading, a.Title, untitled)
	url := normalizeURL(firstNonEmpty(a.ArticleURL, a.URL, missingURL))

	return domain.Document{
		ID:          uuid.NewSHA1(documentNamespace, []byte(title+url)).String(),
		Title:       title,
		Summary:     Summarize(a.Content, title),
		Source:      sourceName,
		URL:         url,
		PublishedAt: ParseDate(a.Date),
		Keywords:    ExtractKeywords(title, a.Content, a.ExtractedTopics),
	}
}

func normalizeURL(url string) string {
	if url == missingURL {
		return url
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "https://" + url
	}
	return url
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// knownSources maps scraper file stems to display names.
var knownSources = []struct {
	stem string
	name string
}{
	{"bundledgifting", "Bundled Gifting"},
	{"bigimpex", "Big Impex"},
	{"corporategift", "Corporate Gift"},
	{"ppai", "PPAI"},
	{"woodanytime", "Wood Anytime"},
	{"consortiumgifts", "Consortium Gifts"},
}

// SourceName derives a display name from a scraper export file name.
func SourceName(file string) string {
	lower := strings.ToLower(file)
	for _, ks := range knownSources {
		if strings.Contains(lower, ks.stem) {
			return ks.name
		}
	}

	name := strings.TrimSuffix(strings.TrimSuffix(file, ".csv"), ".xlsx")
	name = strings.ReplaceAll(name, "_", " ")
	return cases.Title(language.English, cases.NoLower).String(name)
}
