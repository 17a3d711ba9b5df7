// Package who содержит клиентов внешних сервисов ВОЗ: OAuth2 token endpoint
// и поиск ICD-11.
package who

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/InQaaaaGit/icd_search/internal/config"
	"github.com/InQaaaaGit/icd_search/internal/models"
	"go.uber.org/zap"
)

const (
	grantTypeClientCredentials = "client_credentials"
	contentTypeForm            = "application/x-www-form-urlencoded"
	contentTypeJSON            = "application/json"

	// Сколько байт тела ошибочного ответа попадает в текст ошибки
	maxErrorBodySize = 512
	// Ограничение на размер тела ответа внешнего сервиса
	maxResponseSize = 4 << 20
)

// TokenProvider выдаёт bearer токен для запросов к ICD API
type TokenProvider interface {
	AcquireToken(ctx context.Context) (string, error)
}

// TokenClient получает токен через client-credentials grant.
// Каждый вызов AcquireToken выполняет новый обмен, без повторов и кэша.
type TokenClient struct {
	httpClient  *http.Client
	tokenURL    string
	scope       string
	credentials config.Credentials
	logger      *zap.Logger
}

// NewHTTPClient создает HTTP клиент с таймаутом для исходящих запросов
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// NewTokenClient создает клиента token endpoint
func NewTokenClient(httpClient *http.Client, cfg *config.Config, logger *zap.Logger) *TokenClient {
	return &TokenClient{
		httpClient:  httpClient,
		tokenURL:    cfg.TokenURL,
		scope:       cfg.Scope,
		credentials: cfg.Credentials(),
		logger:      logger,
	}
}

// AcquireToken возвращает access_token
func (c *TokenClient) AcquireToken(ctx context.Context) (string, error) {
	resp, err := c.RequestToken(ctx)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// RequestToken выполняет обмен учётных данных на токен и возвращает ответ целиком
func (c *TokenClient) RequestToken(ctx context.Context) (*models.TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", grantTypeClientCredentials)
	form.Set("client_id", c.credentials.ClientID)
	form.Set("client_secret", c.credentials.ClientSecret)
	form.Set("scope", c.scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrUpstreamAuth, err)
	}
	req.Header.Set("Content-Type", contentTypeForm)
	req.Header.Set("Accept", contentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamAuth, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("Error closing token response body", zap.Error(err))
		}
	}()

	c.logger.Debug("Token response received", zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := newStatusError(resp)
		c.logger.Warn("Token endpoint rejected request", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %w", ErrUpstreamAuth, statusErr)
	}

	var token models.TokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&token); err != nil {
		return nil, fmt.Errorf("%w: decode token response: %w", ErrUpstreamAuth, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: response has no access_token", ErrUpstreamAuth)
	}

	return &token, nil
}

// newStatusError читает начало тела ответа для диагностики
func newStatusError(resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
