// Package search keeps an Elasticsearch index of events for full-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog"
)

// DefaultIndex is the event index name
const DefaultIndex = "events_v1"

const eventMapping = `{"settings":{"number_of_shards":1},"mappings":{"dynamic":"strict","properties":{
	"title":{"type":"text"},"description":{"type":"text"},"theme":{"type":"text"},
	"tracks":{"type":"text","fields":{"raw":{"type":"keyword"}}},"mode":{"type":"keyword"},
	"start_at":{"type":"date"},"updated_at":{"type":"date"}
}}}`

// EventDocument is the indexed form of an event
type EventDocument struct {
	ID          string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Theme       string    `json:"theme,omitempty"`
	Tracks      []string  `json:"tracks,omitempty"`
	Mode        string    `json:"mode"`
	StartAt     time.Time `json:"start_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Index is the event search index
type Index interface {
	Enabled() bool
	IndexEvent(ctx context.Context, doc EventDocument) error
	DeleteEvent(ctx context.Context, id string) error
	// SearchEvents returns matching event ids, best match first
	SearchEvents(ctx context.Context, query string, limit int) ([]string, error)
}

// NewClient creates an Elasticsearch client for the given addresses
func NewClient(addresses []string) (*es.Client, error) {
	client, err := es.NewClient(es.Config{Addresses: addresses})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return client, nil
}

// ElasticIndex implements Index on Elasticsearch
type ElasticIndex struct {
	client *es.Client
	index  string
	logger zerolog.Logger
}

// NewElasticIndex creates an index wrapper. An empty name uses DefaultIndex.
func NewElasticIndex(client *es.Client, index string, logger zerolog.Logger) *ElasticIndex {
	if index == "" {
		index = DefaultIndex
	}
	return &ElasticIndex{client: client, index: index, logger: logger}
}

// Enabled implements Index
func (i *ElasticIndex) Enabled() bool { return true }

// EnsureIndex creates the index with its mapping when missing
func (i *ElasticIndex) EnsureIndex(ctx context.Context) error {
	exists, err := i.client.Indices.Exists([]string{i.index}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", i.index, err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	res, err := i.client.Indices.Create(i.index,
		i.client.Indices.Create.WithBody(bytes.NewBufferString(eventMapping)),
		i.client.Indices.Create.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("create index %s: %w", i.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", i.index, res.String())
	}

	i.logger.Info().Str("index", i.index).Msg("Created search index")
	return nil
}

// IndexEvent upserts the event document
func (i *ElasticIndex) IndexEvent(ctx context.Context, doc EventDocument) error {
	res, err := i.client.Index(i.index, esutil.NewJSONReader(doc),
		i.client.Index.WithDocumentID(doc.ID),
		i.client.Index.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("index event %s: %w", doc.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index event %s: %s", doc.ID, res.String())
	}
	return nil
}

// DeleteEvent removes the event document. A missing document is not an error.
func (i *ElasticIndex) DeleteEvent(ctx context.Context, id string) error {
	res, err := i.client.Delete(i.index, id, i.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete event %s: %s", id, res.String())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchEvents runs a multi_match query over title, description, theme and tracks
func (i *ElasticIndex) SearchEvents(ctx context.Context, query string, limit int) ([]string, error) {
	body := map[string]any{
		"size":    limit,
		"_source": false,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^3", "theme^2", "tracks^2", "description"},
				"fuzziness": "AUTO",
			},
		},
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(esutil.NewJSONReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search events: %s", res.String())
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Disabled is the Index used when search is not configured
type Disabled struct{}

// Enabled implements Index
func (Disabled) Enabled() bool { return false }

// IndexEvent implements Index
func (Disabled) IndexEvent(context.Context, EventDocument) error { return nil }

// DeleteEvent implements Index
func (Disabled) DeleteEvent(context.Context, string) error { return nil }

// SearchEvents implements Index
func (Disabled) SearchEvents(context.Context, string, int) ([]string, error) { return nil, nil }
