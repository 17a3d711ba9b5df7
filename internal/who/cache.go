package who

import (
	"context"
	"time"

	"github.com/InQaaaaGit/icd_search/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Токен считается просроченным раньше фактического срока на эту величину
const tokenExpiryMargin = 30 * time.Second

// tokenRequester источник токенов с информацией о сроке действия
type tokenRequester interface {
	RequestToken(ctx context.Context) (*models.TokenResponse, error)
}

// CachingTokenProvider переиспользует токен до истечения его срока действия.
// Токены без известного срока не кэшируются.
type CachingTokenProvider struct {
	source tokenRequester
	cache  *cache.Cache
	key    string
	logger *zap.Logger
	now    func() time.Time
}

// NewCachingTokenProvider оборачивает source кэшем токенов.
// key различает токены разных клиентов, обычно это client_id.
func NewCachingTokenProvider(source tokenRequester, key string, logger *zap.Logger) *CachingTokenProvider {
	return &CachingTokenProvider{
		source: source,
		cache:  cache.New(cache.NoExpiration, 10*time.Minute),
		key:    key,
		logger: logger,
		now:    time.Now,
	}
}

// AcquireToken возвращает токен из кэша или запрашивает новый
func (p *CachingTokenProvider) AcquireToken(ctx context.Context) (string, error) {
	if cached, ok := p.cache.Get(p.key); ok {
		if token, ok := cached.(string); ok {
			return token, nil
		}
	}

	resp, err := p.source.RequestToken(ctx)
	if err != nil {
		return "", err
	}

	ttl := p.tokenTTL(resp)
	if ttl > 0 {
		p.cache.Set(p.key, resp.AccessToken, ttl)
		p.logger.Debug("Access token cached", zap.Duration("ttl", ttl))
	}

	return resp.AccessToken, nil
}

// tokenTTL вычисляет время жизни записи в кэше по expires_in,
// а при его отсутствии по claim exp из JWT
func (p *CachingTokenProvider) tokenTTL(resp *models.TokenResponse) time.Duration {
	if resp.ExpiresIn > 0 {
		return time.Duration(resp.ExpiresIn)*time.Second - tokenExpiryMargin
	}

	// Подпись не проверяется, нужен только exp
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.AccessToken, claims); err != nil {
		p.logger.Debug("Access token is not a JWT, skipping cache", zap.Error(err))
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return exp.Sub(p.now()) - tokenExpiryMargin
}

// Invalidate удаляет токен из кэша
func (p *CachingTokenProvider) Invalidate() {
	p.cache.Delete(p.key)
}
