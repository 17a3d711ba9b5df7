// Package config собирает конфигурацию прокси из значений по умолчанию,
// .env файла, флагов командной строки и переменных окружения.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Значения по умолчанию для внешних сервисов ВОЗ.
const (
	DefaultServerAddress   = ":8080"
	DefaultTokenURL        = "https://icdaccessmanagement.who.int/connect/token"
	DefaultAPIBaseURL      = "https://id.who.int/icd/release/11"
	DefaultScope           = "icdapi_access"
	DefaultLinearization   = "mms"
	DefaultBrowseURL       = "https://icd.who.int/browse11/l-m/en#/http://id.who.int/icd/entity/"
	DefaultResultLimit     = 5
	DefaultUpstreamTimeout = 10 * time.Second
	DefaultEnvFile         = ".env"
)

// ErrMissingCredentials возвращается, если CLIENT_ID или CLIENT_SECRET не заданы.
// Сервер с такой конфигурацией запускаться не должен.
var ErrMissingCredentials = errors.New("CLIENT_ID and CLIENT_SECRET must be set")

// ErrInvalidConfig возвращается при некорректных параметрах сервера.
var ErrInvalidConfig = errors.New("invalid configuration")

// Credentials пара идентификатор/секрет клиента для client-credentials grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Config хранит конфигурацию приложения.
type Config struct {
	ServerAddress     string        `env:"SERVER_ADDRESS"`      // Адрес для запуска HTTP-сервера
	ClientID          string        `env:"CLIENT_ID"`           // Идентификатор клиента ICD API
	ClientSecret      string        `env:"CLIENT_SECRET"`       // Секрет клиента ICD API
	TokenURL          string        `env:"TOKEN_URL"`           // OAuth2 token endpoint
	APIBaseURL        string        `env:"API_BASE_URL"`        // Базовый адрес ICD-11 API
	Scope             string        `env:"TOKEN_SCOPE"`         // Запрашиваемый scope токена
	Linearization     string        `env:"LINEARIZATION"`       // Линеаризация для поиска
	BrowseURL         string        `env:"BROWSE_URL"`          // Префикс ссылки на браузер ICD
	ResultLimit       int           `env:"RESULT_LIMIT"`        // Максимум результатов в ответе
	UpstreamTimeout   time.Duration `env:"UPSTREAM_TIMEOUT"`    // Таймаут исходящих запросов
	TokenCacheEnabled bool          `env:"TOKEN_CACHE_ENABLED"` // Переиспользовать токен до истечения
	EnableHTTPS       bool          `env:"ENABLE_HTTPS"`
	TLSCertFile       string        `env:"TLS_CERT_FILE"`
	TLSKeyFile        string        `env:"TLS_KEY_FILE"`
	EnablePprof       bool          `env:"ENABLE_PPROF"`
	EnvFile           string        // Путь к .env файлу, задается только флагом
}

// NewConfig инициализирует конфигурацию, читая флаги, .env файл и переменные окружения.
// Возвращает ErrMissingCredentials, если учётные данные не заданы.
func NewConfig() (*Config, error) {
	cfg := defaultConfig()

	// 1. Определение флагов командной строки
	flag.StringVar(&cfg.ServerAddress, "a", cfg.ServerAddress, "Адрес запуска HTTP-сервера (env: SERVER_ADDRESS)")
	flag.StringVar(&cfg.TokenURL, "token-url", cfg.TokenURL, "OAuth2 token endpoint (env: TOKEN_URL)")
	flag.StringVar(&cfg.APIBaseURL, "api-url", cfg.APIBaseURL, "Базовый адрес ICD-11 API (env: API_BASE_URL)")
	flag.IntVar(&cfg.ResultLimit, "limit", cfg.ResultLimit, "Максимум результатов поиска (env: RESULT_LIMIT)")
	flag.DurationVar(&cfg.UpstreamTimeout, "timeout", cfg.UpstreamTimeout, "Таймаут запросов к ICD API (env: UPSTREAM_TIMEOUT)")
	flag.BoolVar(&cfg.TokenCacheEnabled, "cache-token", cfg.TokenCacheEnabled, "Кэшировать токен доступа (env: TOKEN_CACHE_ENABLED)")
	flag.BoolVar(&cfg.EnableHTTPS, "s", cfg.EnableHTTPS, "Включить HTTPS (env: ENABLE_HTTPS)")
	flag.StringVar(&cfg.TLSCertFile, "cert", cfg.TLSCertFile, "Путь к TLS сертификату (env: TLS_CERT_FILE)")
	flag.StringVar(&cfg.TLSKeyFile, "key", cfg.TLSKeyFile, "Путь к TLS ключу (env: TLS_KEY_FILE)")
	flag.BoolVar(&cfg.EnablePprof, "pprof", cfg.EnablePprof, "Подключить /debug/pprof (env: ENABLE_PPROF)")
	flag.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Путь к .env файлу")

	// 2. Парсинг флагов командной строки
	flag.Parse()

	// 3. .env дополняет окружение, но не перетирает уже заданные переменные
	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return nil, err
	}

	// 4. Парсинг переменных окружения (имеет наивысший приоритет)
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ServerAddress:   DefaultServerAddress,
		TokenURL:        DefaultTokenURL,
		APIBaseURL:      DefaultAPIBaseURL,
		Scope:           DefaultScope,
		Linearization:   DefaultLinearization,
		BrowseURL:       DefaultBrowseURL,
		ResultLimit:     DefaultResultLimit,
		UpstreamTimeout: DefaultUpstreamTimeout,
		EnvFile:         DefaultEnvFile,
	}
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading env file %s: %w", path, err)
	}
	return nil
}

// Validate проверяет обязательные параметры.
func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrMissingCredentials
	}
	if c.ResultLimit <= 0 {
		return fmt.Errorf("%w: result limit must be positive, got %d", ErrInvalidConfig, c.ResultLimit)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("%w: upstream timeout must be positive, got %s", ErrInvalidConfig, c.UpstreamTimeout)
	}
	if c.EnableHTTPS && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return fmt.Errorf("%w: HTTPS requires TLS_CERT_FILE and TLS_KEY_FILE", ErrInvalidConfig)
	}
	return nil
}

// Credentials возвращает учётные данные клиента.
func (c *Config) Credentials() Credentials {
	return Credentials{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
	}
}

// IsHTTPSEnabled сообщает, нужно ли запускать сервер по HTTPS.
func (c *Config) IsHTTPSEnabled() bool {
	return c.EnableHTTPS
}
