package models

// SimplifiedResult одна запись ответа /buscar_icd.
// Codigo и Titulo остаются null, если ICD API их не вернул.
type SimplifiedResult struct {
	Codigo *string `json:"codigo"`
	Titulo *string `json:"titulo"`
	URL    string  `json:"url"`
}

// SearchResponse успешный ответ поиска
type SearchResponse struct {
	Resultados []SimplifiedResult `json:"resultados"`
}

// ErrorResponse ответ с описанием ошибки
type ErrorResponse struct {
	Erro string `json:"erro"`
}

// StatusResponse ответ проверки доступности
type StatusResponse struct {
	Status string `json:"status"`
}

// VersionResponse информация о сборке
type VersionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}
