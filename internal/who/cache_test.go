package who

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/InQaaaaGit/icd_search/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubRequester возвращает заранее заданные ответы и считает вызовы
type stubRequester struct {
	responses []*models.TokenResponse
	err       error
	calls     int
}

func (s *stubRequester) RequestToken(ctx context.Context) (*models.TokenResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func TestCachingTokenProviderUsesExpiresIn(t *testing.T) {
	source := &stubRequester{responses: []*models.TokenResponse{
		{AccessToken: "first", ExpiresIn: 3600},
		{AccessToken: "second", ExpiresIn: 3600},
	}}
	provider := NewCachingTokenProvider(source, "client", zap.NewNop())

	token, err := provider.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", token)

	token, err = provider.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", token)
	assert.Equal(t, 1, source.calls)

	provider.Invalidate()
	token, err = provider.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", token)
	assert.Equal(t, 2, source.calls)
}

func TestCachingTokenProviderFallsBackToJWTExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	jwtToken := signedToken(t, now.Add(time.Hour))

	source := &stubRequester{responses: []*models.TokenResponse{{AccessToken: jwtToken}}}
	provider := NewCachingTokenProvider(source, "client", zap.NewNop())
	provider.now = func() time.Time { return now }

	ttl := provider.tokenTTL(&models.TokenResponse{AccessToken: jwtToken})
	assert.Equal(t, time.Hour-tokenExpiryMargin, ttl)
}

func TestCachingTokenProviderSkipsUnknownExpiry(t *testing.T) {
	source := &stubRequester{responses: []*models.TokenResponse{
		{AccessToken: "opaque-1"},
		{AccessToken: "opaque-2"},
	}}
	provider := NewCachingTokenProvider(source, "client", zap.NewNop())

	first, err := provider.AcquireToken(context.Background())
	require.NoError(t, err)
	second, err := provider.AcquireToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "opaque-1", first)
	assert.Equal(t, "opaque-2", second)
	assert.Equal(t, 2, source.calls)
}

func TestCachingTokenProviderSkipsExpiredJWT(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	provider := NewCachingTokenProvider(&stubRequester{}, "client", zap.NewNop())
	provider.now = func() time.Time { return now }

	ttl := provider.tokenTTL(&models.TokenResponse{AccessToken: signedToken(t, now.Add(10*time.Second))})
	assert.LessOrEqual(t, ttl, time.Duration(0))
}

func TestCachingTokenProviderPropagatesError(t *testing.T) {
	source := &stubRequester{err: ErrUpstreamAuth}
	provider := NewCachingTokenProvider(source, "client", zap.NewNop())

	_, err := provider.AcquireToken(context.Background())
	assert.True(t, errors.Is(err, ErrUpstreamAuth))
}
