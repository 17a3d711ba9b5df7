package models

import "encoding/json"

// TokenResponse ответ token endpoint на client-credentials grant
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// LanguageValue локализованная строка ICD API
type LanguageValue struct {
	Language string  `json:"@language,omitempty"`
	Value    *string `json:"value"`
}

// UnmarshalJSON читает текст из ключа value, а при его отсутствии
// из JSON-LD ключа @value, который отдаёт ICD-11 API.
func (v *LanguageValue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Language string  `json:"@language"`
		Value    *string `json:"value"`
		LDValue  *string `json:"@value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	v.Language = raw.Language
	v.Value = raw.Value
	if v.Value == nil {
		v.Value = raw.LDValue
	}
	return nil
}

// Entity найденная сущность (destination entity) ICD-11.
// Используются только id, code и title.value.
type Entity struct {
	ID    string         `json:"id"`
	Code  *string        `json:"code"`
	Title *LanguageValue `json:"title"`
}

// TitleValue возвращает title.value или nil.
func (e Entity) TitleValue() *string {
	if e.Title == nil {
		return nil
	}
	return e.Title.Value
}

// SearchPayload тело ответа /search
type SearchPayload struct {
	DestinationEntities []Entity `json:"destinationEntities"`
	Error               bool     `json:"error"`
	ErrorMessage        *string  `json:"errorMessage"`
}
