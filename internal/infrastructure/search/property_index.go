package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/bienesraices/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// PropertyIndex keeps published properties searchable. A nil client turns
// every call into a no-op; Enabled tells callers to fall back to SQL.
type PropertyIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewPropertyIndex(es *elasticsearch.Client, index string) *PropertyIndex {
	return &PropertyIndex{es: es, index: index}
}

func (x *PropertyIndex) Enabled() bool {
	return x != nil && x.es != nil && x.index != ""
}

type propertyDoc struct {
	ID          string `json:"id"`
	Title       string `json:"titulo"`
	Description string `json:"descripcion"`
	Street      string `json:"calle"`
	Category    string `json:"categoria"`
	Price       string `json:"precio"`
	CategoryID  int    `json:"categoria_id"`
	PriceID     int    `json:"precio_id"`
	CreatedAt   string `json:"created_at"`
}

func (x *PropertyIndex) Index(ctx context.Context, p *entity.Property) error {
	if !x.Enabled() {
		return nil
	}
	b, err := json.Marshal(propertyDoc{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Street:      p.Street,
		Category:    p.CategoryName,
		Price:       p.PriceName,
		CategoryID:  p.CategoryID,
		PriceID:     p.PriceID,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (x *PropertyIndex) Remove(ctx context.Context, id string) error {
	if !x.Enabled() {
		return nil
	}
	req := esapi.DeleteRequest{Index: x.index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return fmt.Errorf("es delete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search returns the ids of matching properties, best match first.
func (x *PropertyIndex) Search(ctx context.Context, term string, size int) ([]string, error) {
	if !x.Enabled() {
		return []string{}, nil
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     term,
				"fields":    []string{"titulo^3", "descripcion", "calle", "categoria"},
				"fuzziness": "AUTO",
			},
		},
		"_source": false,
		"size":    size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
