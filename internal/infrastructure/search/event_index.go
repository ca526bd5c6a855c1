// Package search keeps an Elasticsearch index of events for free-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const requestTimeout = 3 * time.Second

// EventDocument is the indexed shape of an event.
type EventDocument struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	Datetime      time.Time `json:"datetime"`
	Capacity      int       `json:"capacity"`
	Registrations int       `json:"registrations"`
}

type EventIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewEventIndex(es *elasticsearch.Client, index string) *EventIndex {
	return &EventIndex{ES: es, Index: index}
}

// IndexEvent creates or replaces the document for doc.ID.
func (x *EventIndex) IndexEvent(ctx context.Context, doc EventDocument) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.Index,
		DocumentID: strconv.FormatInt(doc.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index event %d: %s", doc.ID, res.Status())
	}
	return nil
}

// Search runs a multi_match over title and location.
func (x *EventIndex) Search(ctx context.Context, q string, size int) ([]EventDocument, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "location"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search events: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source EventDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]EventDocument, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
