package storage

// Field is a single Elasticsearch field mapping.
type Field struct {
	Type   string           `json:"type"`
	Format string           `json:"format,omitempty"`
	Fields map[string]Field `json:"fields,omitempty"`
}

// DocumentMapping is the index body for the articles index.
type DocumentMapping struct {
	Settings DocumentSettings `json:"settings"`
	Mappings DocumentMappings `json:"mappings"`
}

// DocumentSettings are index-level settings.
type DocumentSettings struct {
	NumberOfShards   int `json:"number_of_shards"`
	NumberOfReplicas int `json:"number_of_replicas"`
}

// DocumentMappings holds the field properties.
type DocumentMappings struct {
	Properties DocumentProperties `json:"properties"`
}

// DocumentProperties mirrors domain.Document.
type DocumentProperties struct {
	ID          Field `json:"id"`
	Title       Field `json:"title"`
	Summary     Field `json:"summary"`
	Source      Field `json:"source"`
	URL         Field `json:"url"`
	PublishedAt Field `json:"published_at"`
	Keywords    Field `json:"keywords"`
}

// NewDocumentMapping returns the articles index mapping. Titles keep a keyword
// subfield for exact sorting.
func NewDocumentMapping() *DocumentMapping {
	keyword := Field{Type: "keyword"}
	text := Field{Type: "text"}

	return &DocumentMapping{
		Settings: DocumentSettings{NumberOfShards: 1, NumberOfReplicas: 0},
		Mappings: DocumentMappings{
			Properties: DocumentProperties{
				ID:          keyword,
				Title:       Field{Type: "text", Fields: map[string]Field{"raw": keyword}},
				Summary:     text,
				Source:      keyword,
				URL:         keyword,
				PublishedAt: Field{Type: "date", Format: "strict_date_optional_time"},
				Keywords:    keyword,
			},
		},
	}
}
