// Package service реализует поиск ICD-11: получение токена, запрос к API
// и преобразование найденных сущностей в упрощённые результаты.
package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/InQaaaaGit/icd_search/internal/config"
	"github.com/InQaaaaGit/icd_search/internal/models"
	"github.com/InQaaaaGit/icd_search/internal/who"
	"go.uber.org/zap"
)

// ICDService определяет интерфейс сервиса поиска
type ICDService interface {
	Search(ctx context.Context, title string) ([]models.SimplifiedResult, error)
}

// invalidator реализуется провайдерами, которые кэшируют токен
type invalidator interface {
	Invalidate()
}

// ICDServiceImpl реализует ICDService поверх клиентов ВОЗ
type ICDServiceImpl struct {
	tokens    who.TokenProvider
	searcher  who.Searcher
	browseURL string
	limit     int
	logger    *zap.Logger
}

// NewICDService создает сервис поиска
func NewICDService(tokens who.TokenProvider, searcher who.Searcher, cfg *config.Config, logger *zap.Logger) *ICDServiceImpl {
	return &ICDServiceImpl{
		tokens:    tokens,
		searcher:  searcher,
		browseURL: cfg.BrowseURL,
		limit:     cfg.ResultLimit,
		logger:    logger,
	}
}

// Search ищет сущности по заголовку и возвращает не более limit результатов
// в порядке, полученном от ICD API. Ошибка получения токена прерывает поиск
// до обращения к поисковому endpoint.
func (s *ICDServiceImpl) Search(ctx context.Context, title string) ([]models.SimplifiedResult, error) {
	token, err := s.tokens.AcquireToken(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := s.searcher.Search(ctx, token, title)
	if err != nil {
		s.dropRejectedToken(err)
		return nil, err
	}

	if payload.Error && payload.ErrorMessage != nil {
		s.logger.Warn("ICD API reported search error", zap.String("message", *payload.ErrorMessage))
	}

	entities := payload.DestinationEntities
	if len(entities) > s.limit {
		entities = entities[:s.limit]
	}

	results := make([]models.SimplifiedResult, 0, len(entities))
	for _, entity := range entities {
		results = append(results, s.simplify(entity))
	}

	return results, nil
}

// simplify проецирует сущность на {codigo, titulo, url}.
// Сущность без id получает ссылку, равную префиксу браузера.
func (s *ICDServiceImpl) simplify(entity models.Entity) models.SimplifiedResult {
	return models.SimplifiedResult{
		Codigo: entity.Code,
		Titulo: entity.TitleValue(),
		URL:    s.browseURL + entity.ID,
	}
}

// dropRejectedToken сбрасывает закэшированный токен, если API его отклонил.
// Текущий запрос не повторяется, новый токен получит следующий.
func (s *ICDServiceImpl) dropRejectedToken(err error) {
	var statusErr *who.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		return
	}
	if inv, ok := s.tokens.(invalidator); ok {
		s.logger.Info("Search rejected token, invalidating cache")
		inv.Invalidate()
	}
}
