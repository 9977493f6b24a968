// Package storage persists and loads documents in Elasticsearch.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/trendboard/internal/domain"
)

const defaultLoadSize = 1000

// ElasticsearchStorage loads and indexes documents in a single index.
type ElasticsearchStorage struct {
	client   *es.Client
	index    string
	loadSize int
}

// NewElasticsearchStorage creates a new Elasticsearch storage instance.
// loadSize <= 0 uses 1000.
func NewElasticsearchStorage(client *es.Client, index string, loadSize int) *ElasticsearchStorage {
	if loadSize <= 0 {
		loadSize = defaultLoadSize
	}
	return &ElasticsearchStorage{
		client:   client,
		index:    index,
		loadSize: loadSize,
	}
}

// Index returns the index name.
func (s *ElasticsearchStorage) Index() string {
	return s.index
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (s *ElasticsearchStorage) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists(
		[]string{s.index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error checking index: %s", res.String())
	}

	body, err := json.Marshal(NewDocumentMapping())
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	res, err = s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index: %s", res.String())
	}
	return nil
}

// Load returns up to loadSize documents, newest first.
func (s *ElasticsearchStorage) Load(ctx context.Context) ([]domain.Document, error) {
	query := map[string]any{
		"query": map[string]any{
			"match_all": map[string]any{},
		},
		"size": s.loadSize,
		"sort": []map[string]any{
			{
				"published_at": map[string]any{
					"order":         "desc",
					"missing":       "_last",
					"unmapped_type": "date",
				},
			},
		},
	}

	queryBytes, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(queryBytes)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				ID     string          `json:"_id"`
				Source domain.Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err = json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	docs := make([]domain.Document, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		doc := hit.Source
		if doc.ID == "" {
			doc.ID = hit.ID
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// BulkIndex indexes docs by ID in one bulk request.
func (s *ElasticsearchStorage) BulkIndex(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range docs {
		meta := map[string]any{
			"index": map[string]any{
				"_index": s.index,
				"_id":    docs[i].ID,
			},
		}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("failed to encode meta: %w", err)
		}
		if err := enc.Encode(&docs[i]); err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
	}

	res, err := s.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		s.client.Bulk.WithContext(ctx),
		s.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("bulk request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk indexing error: %s", res.String())
	}

	var bulkResult struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
		} `json:"items"`
	}
	if err = json.NewDecoder(res.Body).Decode(&bulkResult); err != nil {
		return fmt.Errorf("error decoding bulk response: %w", err)
	}
	if bulkResult.Errors {
		failed := 0
		for _, item := range bulkResult.Items {
			for _, op := range item {
				if op.Status >= http.StatusBadRequest {
					failed++
				}
			}
		}
		return fmt.Errorf("bulk indexing error: %d of %d documents failed", failed, len(docs))
	}
	return nil
}

// TestConnection tests the connection to Elasticsearch.
func (s *ElasticsearchStorage) TestConnection(ctx context.Context) error {
	res, err := s.client.Info(s.client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response from Elasticsearch: %s", res.String())
	}
	return nil
}
