package handler

import (
	"encoding/json"
	"net/http"

	"github.com/InQaaaaGit/icd_search/internal/buildinfo"
	"github.com/InQaaaaGit/icd_search/internal/middleware"
	"github.com/InQaaaaGit/icd_search/internal/models"
	"github.com/InQaaaaGit/icd_search/internal/service"
	"go.uber.org/zap"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"

	titleParam          = "titulo"
	onlineMessage       = "API ICD está online 🚀"
	missingTitleMessage = "parâmetro 'titulo' é obrigatório"
)

type Handler struct {
	service service.ICDService
	build   *buildinfo.Info
	logger  *zap.Logger
}

func NewHandler(service service.ICDService, build *buildinfo.Info, logger *zap.Logger) *Handler {
	if build == nil {
		build = buildinfo.DefaultInfo()
	}
	return &Handler{
		service: service,
		build:   build,
		logger:  logger,
	}
}

// HandleSearch обрабатывает GET /buscar_icd?titulo=...
// Ошибки внешних сервисов возвращаются со статусом 200 и полем "erro".
// Отсутствие titulo отклоняется с 422 до любых внешних запросов.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	// При повторе параметра используется последнее значение
	values := r.URL.Query()[titleParam]
	if len(values) == 0 || values[len(values)-1] == "" {
		h.writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Erro: missingTitleMessage})
		return
	}
	title := values[len(values)-1]

	results, err := h.service.Search(r.Context(), title)
	if err != nil {
		h.logger.Error("ICD search failed",
			zap.String("titulo", title),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		h.writeJSON(w, http.StatusOK, models.ErrorResponse{Erro: err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, models.SearchResponse{Resultados: results})
}

// HandleRoot возвращает статус доступности, не обращаясь к внешним сервисам
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.StatusResponse{Status: onlineMessage})
}

// HandleVersion возвращает информацию о сборке
func (h *Handler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.VersionResponse{
		Version: h.build.Version,
		Date:    h.build.Date,
		Commit:  h.build.Commit,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Error writing JSON response", zap.Error(err))
	}
}
