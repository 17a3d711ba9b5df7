// Package app содержит основную структуру приложения и логику инициализации.
// Связывает конфигурацию, клиентов ICD API, сервис поиска и HTTP маршруты.
package app

import (
	"net/http"
	"time"

	"github.com/InQaaaaGit/icd_search/internal/buildinfo"
	"github.com/InQaaaaGit/icd_search/internal/config"
	"github.com/InQaaaaGit/icd_search/internal/handler"
	"github.com/InQaaaaGit/icd_search/internal/middleware"
	"github.com/InQaaaaGit/icd_search/internal/service"
	"github.com/InQaaaaGit/icd_search/internal/who"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App представляет прокси поиска ICD-11.
// Инкапсулирует конфигурацию, HTTP роутер, логгер и обработчики запросов.
type App struct {
	config  *config.Config   // Конфигурация приложения
	router  *chi.Mux         // HTTP роутер для обработки запросов
	logger  *zap.Logger      // Логгер для записи событий приложения
	handler *handler.Handler // Обработчики HTTP запросов
}

// NewApp создает приложение и регистрирует маршруты.
//
// Параметры:
//   - cfg: проверенная конфигурация с учётными данными ICD API
//   - build: информация о сборке для /version, может быть nil
//   - logger: логгер приложения
func NewApp(cfg *config.Config, build *buildinfo.Info, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := who.NewHTTPClient(cfg.UpstreamTimeout)
	tokenClient := who.NewTokenClient(httpClient, cfg, logger)

	var tokens who.TokenProvider = tokenClient
	if cfg.TokenCacheEnabled {
		tokens = who.NewCachingTokenProvider(tokenClient, cfg.ClientID, logger)
	}

	searchClient := who.NewSearchClient(httpClient, cfg, logger)
	icdService := service.NewICDService(tokens, searchClient, cfg, logger)

	a := &App{
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		handler: handler.NewHandler(icdService, build, logger),
	}
	a.setupRoutes()

	return a, nil
}

// setupRoutes настраивает HTTP маршруты и middleware для приложения
func (a *App) setupRoutes() {
	// Middleware
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.LoggerMiddleware(a.logger))
	a.router.Use(chimiddleware.Recoverer)
	a.router.Use(middleware.CORSMiddleware())
	a.router.Use(middleware.GzipMiddleware)

	// Routes
	a.router.Get("/", a.handler.HandleRoot)
	a.router.Get("/buscar_icd", a.handler.HandleSearch)
	a.router.Get("/version", a.handler.HandleVersion)

	// Профилирование (только если включено в конфигурации)
	if a.config.EnablePprof {
		a.router.Mount("/debug", chimiddleware.Profiler())
	}
}

// Router возвращает HTTP обработчик приложения
func (a *App) Router() http.Handler {
	return a.router
}

// GetServer создает и возвращает настроенный HTTP сервер.
// WriteTimeout покрывает два последовательных запроса к ICD API.
func (a *App) GetServer() *http.Server {
	return &http.Server{
		Addr:         a.config.ServerAddress,
		Handler:      a.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2*a.config.UpstreamTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
