package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey используется как ключ для значений в контексте
type contextKey string

const (
	// RequestIDKey ключ идентификатора запроса в контексте
	RequestIDKey contextKey = "request_id"
	// RequestIDHeader заголовок с идентификатором запроса
	RequestIDHeader = "X-Request-ID"
)

// GenerateRequestID генерирует уникальный ID запроса
func GenerateRequestID() string {
	return uuid.New().String()
}

// RequestID берет идентификатор из X-Request-ID или создает новый,
// кладет его в контекст и возвращает клиенту
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = GenerateRequestID()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID возвращает ID запроса из контекста или пустую строку
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
