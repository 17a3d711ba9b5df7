package who

import (
	"errors"
	"fmt"
)

// ErrUpstreamAuth возвращается, когда token endpoint отклонил учётные данные
// или вернул ответ без access_token
var ErrUpstreamAuth = errors.New("upstream auth error")

// ErrUpstreamSearch возвращается при ошибке поиска в ICD API
var ErrUpstreamSearch = errors.New("upstream search error")

// StatusError описывает ответ внешнего сервиса с кодом не из диапазона 2xx
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
