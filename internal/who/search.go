package who

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/InQaaaaGit/icd_search/internal/config"
	"github.com/InQaaaaGit/icd_search/internal/models"
	"go.uber.org/zap"
)

const (
	searchPath    = "/search"
	apiVersion    = "v2"
	acceptLangEN  = "en"
	bearerPrefix  = "Bearer "
	headerVersion = "API-Version"
)

// Searcher выполняет поиск сущностей ICD-11
type Searcher interface {
	Search(ctx context.Context, token, query string) (*models.SearchPayload, error)
}

// SearchClient клиент поиска ICD-11 API
type SearchClient struct {
	httpClient    *http.Client
	searchURL     string
	linearization string
	logger        *zap.Logger
}

// NewSearchClient создает клиента поиска
func NewSearchClient(httpClient *http.Client, cfg *config.Config, logger *zap.Logger) *SearchClient {
	return &SearchClient{
		httpClient:    httpClient,
		searchURL:     strings.TrimRight(cfg.APIBaseURL, "/") + searchPath,
		linearization: cfg.Linearization,
		logger:        logger,
	}
}

// Search выполняет GET /search с bearer токеном.
// Отсутствующий destinationEntities даёт пустой список.
func (c *SearchClient) Search(ctx context.Context, token, query string) (*models.SearchPayload, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("linearization", c.linearization)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrUpstreamSearch, err)
	}
	req.Header.Set("Authorization", bearerPrefix+token)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Accept-Language", acceptLangEN)
	req.Header.Set(headerVersion, apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamSearch, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("Error closing search response body", zap.Error(err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := newStatusError(resp)
		c.logger.Warn("Search endpoint returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("query", query))
		return nil, fmt.Errorf("%w: %w", ErrUpstreamSearch, statusErr)
	}

	var payload models.SearchPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %w", ErrUpstreamSearch, err)
	}
	if payload.DestinationEntities == nil {
		payload.DestinationEntities = []models.Entity{}
	}

	c.logger.Debug("Search completed",
		zap.String("query", query),
		zap.Int("entities", len(payload.DestinationEntities)))

	return &payload, nil
}
