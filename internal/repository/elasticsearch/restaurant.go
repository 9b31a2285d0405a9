package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/hamdiboyraz/restaurant-review/internal/domain"
	"github.com/hamdiboyraz/restaurant-review/internal/repository"
	apperrors "github.com/hamdiboyraz/restaurant-review/pkg/errors"
)

// Repository is an Elasticsearch-backed implementation of
// repository.RestaurantRepository. Each restaurant is one document keyed by
// its id; writes replace the whole document.
type Repository struct {
	client    *elasticsearch.Client
	indexName string
	logger    *slog.Logger
}

var _ repository.RestaurantRepository = (*Repository)(nil)

// esGetResponse decodes a document-get response.
type esGetResponse struct {
	Found  bool              `json:"found"`
	Source domain.Restaurant `json:"_source"`
}

// esSearchResponse decodes a search response.
type esSearchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source domain.Restaurant `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// esErrorResponse decodes an Elasticsearch error body.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// New creates a repository connected to the given Elasticsearch URL and
// ensures the restaurant index exists. An empty indexName selects
// DefaultIndexName.
func New(esURL string, indexName string, logger *slog.Logger) (*Repository, error) {
	if indexName == "" {
		indexName = DefaultIndexName
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esURL},
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	r := &Repository{
		client:    client,
		indexName: indexName,
		logger:    logger,
	}

	if err := r.ensureIndex(); err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to ensure index: %w", err)
	}

	return r, nil
}

// Ping checks whether the Elasticsearch cluster is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	res, err := r.client.Ping(r.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

func (r *Repository) ensureIndex() error {
	res, err := r.client.Indices.Exists([]string{r.indexName})
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 200 {
		r.logger.Info("elasticsearch index already exists", "index", r.indexName)
		return nil
	}

	mapping := buildIndexMapping()
	res, err = r.client.Indices.Create(
		r.indexName,
		r.client.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("create index: %s — %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("create index: unexpected status %s", res.Status())
	}

	r.logger.Info("elasticsearch index created", "index", r.indexName)
	return nil
}

// GetByID loads a restaurant document by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	res, err := r.client.Get(
		r.indexName,
		id,
		r.client.Get.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch get: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 404 {
		return nil, apperrors.NotFound("restaurant", id)
	}
	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return nil, fmt.Errorf("elasticsearch get: %s — %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("elasticsearch get: unexpected status %s", res.Status())
	}

	var getResp esGetResponse
	if err := json.NewDecoder(res.Body).Decode(&getResp); err != nil {
		return nil, fmt.Errorf("elasticsearch get: decode response: %w", err)
	}
	if !getResp.Found {
		return nil, apperrors.NotFound("restaurant", id)
	}

	restaurant := getResp.Source
	return &restaurant, nil
}

// Save indexes the whole restaurant document, creating or replacing it. The
// write is refreshed so subsequent reads and searches observe it.
func (r *Repository) Save(ctx context.Context, restaurant *domain.Restaurant) error {
	data, err := json.Marshal(restaurant)
	if err != nil {
		return fmt.Errorf("elasticsearch index: marshal restaurant: %w", err)
	}

	res, err := r.client.Index(
		r.indexName,
		bytes.NewReader(data),
		r.client.Index.WithDocumentID(restaurant.ID),
		r.client.Index.WithRefresh("true"),
		r.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("elasticsearch index: %s — %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch index: unexpected status %s", res.Status())
	}

	r.logger.Debug("indexed restaurant", "id", restaurant.ID, "name", restaurant.Name)
	return nil
}

// Delete removes a restaurant document. A 404 is ignored.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.client.Delete(
		r.indexName,
		id,
		r.client.Delete.WithRefresh("true"),
		r.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("elasticsearch delete: %s — %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch delete: unexpected status %s", res.Status())
	}

	r.logger.Debug("deleted restaurant", "id", id)
	return nil
}

// SearchByText runs a fuzzy query over name and cuisine type, optionally
// filtered by minimum average rating. With no query text the rating filter
// alone applies, and with neither the query matches everything.
func (r *Repository) SearchByText(ctx context.Context, q repository.TextQuery) (*domain.Page[domain.Restaurant], error) {
	boolQuery := map[string]interface{}{}

	if q.Query != "" {
		boolQuery["should"] = []interface{}{
			map[string]interface{}{
				"fuzzy": map[string]interface{}{
					"name": map[string]interface{}{
						"value":     q.Query,
						"fuzziness": "AUTO",
					},
				},
			},
			map[string]interface{}{
				"fuzzy": map[string]interface{}{
					"cuisine_type": map[string]interface{}{
						"value":     q.Query,
						"fuzziness": "AUTO",
					},
				},
			},
		}
		boolQuery["minimum_should_match"] = 1
	} else {
		boolQuery["must"] = []interface{}{
			map[string]interface{}{"match_all": map[string]interface{}{}},
		}
	}

	if q.MinRating != nil {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{
				"range": map[string]interface{}{
					"average_rating": map[string]interface{}{"gte": *q.MinRating},
				},
			},
		}
	}

	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	return r.search(ctx, esQuery, q.Page, q.Size)
}

// SearchByGeo finds restaurants within radiusKm of the given point using a
// geo_distance filter.
func (r *Repository) SearchByGeo(ctx context.Context, q repository.GeoQuery) (*domain.Page[domain.Restaurant], error) {
	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{"match_all": map[string]interface{}{}},
				},
				"filter": []interface{}{
					map[string]interface{}{
						"geo_distance": map[string]interface{}{
							"distance": fmt.Sprintf("%fkm", q.RadiusKm),
							"geo_location": map[string]interface{}{
								"lat": q.Lat,
								"lon": q.Lon,
							},
						},
					},
				},
			},
		},
	}

	return r.search(ctx, esQuery, q.Page, q.Size)
}

func (r *Repository) search(ctx context.Context, esQuery map[string]interface{}, page, size int) (*domain.Page[domain.Restaurant], error) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	esQuery["from"] = page * size
	esQuery["size"] = size

	data, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: marshal query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithIndex(r.indexName),
		r.client.Search.WithBody(bytes.NewReader(data)),
		r.client.Search.WithContext(ctx),
		r.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return nil, fmt.Errorf("elasticsearch search: %s — %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("elasticsearch search: unexpected status %s", res.Status())
	}

	var esResp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch search: decode response: %w", err)
	}

	items := make([]domain.Restaurant, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		items = append(items, hit.Source)
	}

	return &domain.Page[domain.Restaurant]{
		Items: items,
		Total: esResp.Hits.Total.Value,
		Page:  page,
		Size:  size,
	}, nil
}

// DeleteIndex removes the whole index. Intended for tests and administrative
// use; a 404 is treated as success.
func (r *Repository) DeleteIndex(ctx context.Context) error {
	res, err := r.client.Indices.Delete(
		[]string{r.indexName},
		r.client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("elasticsearch delete index: %s — %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch delete index: unexpected status %s", res.Status())
	}

	r.logger.Info("elasticsearch index deleted", "index", r.indexName)
	return nil
}
