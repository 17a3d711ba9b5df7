package who

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/InQaaaaGit/icd_search/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(tokenURL, apiURL string) *config.Config {
	return &config.Config{
		ClientID:        "test-client",
		ClientSecret:    "test-secret",
		TokenURL:        tokenURL,
		APIBaseURL:      apiURL,
		Scope:           config.DefaultScope,
		Linearization:   config.DefaultLinearization,
		BrowseURL:       config.DefaultBrowseURL,
		ResultLimit:     config.DefaultResultLimit,
		UpstreamTimeout: time.Second,
	}
}

func TestTokenClientAcquireToken(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "test-client", r.PostForm.Get("client_id"))
		assert.Equal(t, "test-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "icdapi_access", r.PostForm.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL, "")
	client := NewTokenClient(NewHTTPClient(cfg.UpstreamTimeout), cfg, zap.NewNop())

	token, err := client.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
	assert.Equal(t, int32(1), calls.Load())

	// Без кэша каждый вызов делает новый обмен
	_, err = client.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"invalid_client"}`, wantStatus: http.StatusUnauthorized},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantStatus: http.StatusInternalServerError},
		{name: "missing access_token", status: http.StatusOK, body: `{"token_type":"Bearer"}`},
		{name: "malformed json", status: http.StatusOK, body: `{"access_token":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			cfg := testConfig(srv.URL, "")
			client := NewTokenClient(NewHTTPClient(cfg.UpstreamTimeout), cfg, zap.NewNop())

			token, err := client.AcquireToken(context.Background())
			require.Error(t, err)
			assert.Empty(t, token)
			assert.ErrorIs(t, err, ErrUpstreamAuth)

			var statusErr *StatusError
			if tt.wantStatus != 0 {
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, tt.wantStatus, statusErr.StatusCode)
			} else {
				assert.False(t, errors.As(err, &statusErr))
			}
		})
	}
}

func TestTokenClientContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"abc"}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL, "")
	client := NewTokenClient(NewHTTPClient(cfg.UpstreamTimeout), cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.AcquireToken(ctx)
	assert.ErrorIs(t, err, ErrUpstreamAuth)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := testConfig(url, "")
	client := NewTokenClient(NewHTTPClient(cfg.UpstreamTimeout), cfg, zap.NewNop())

	_, err := client.AcquireToken(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamAuth)
}

func TestStatusErrorMessage(t *testing.T) {
	assert.Equal(t, "unexpected status 401", (&StatusError{StatusCode: 401}).Error())
	assert.Equal(t, "unexpected status 500: boom", (&StatusError{StatusCode: 500, Body: "boom"}).Error())
}
