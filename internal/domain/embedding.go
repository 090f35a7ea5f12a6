package domain

import "time"

// Payload описывает дополнительную информацию вектора
type Payload map[string]any

// Embedding представляет вектор одного товара в индексе.
// Нативный идентификатор точки здесь не хранится: его детерминированно
// выводит из ExternalID сам векторный репозиторий.
type Embedding struct {
	ExternalID string
	Vector     []float32
	Payload    Payload
}

func NewEmbedding(externalID string, vector []float32, payload Payload) *Embedding {
	return &Embedding{
		ExternalID: externalID,
		Vector:     vector,
		Payload:    payload,
	}
}

// NewProductPayload собирает payload точки из товара.
// external_id всегда дублируется в payload: обратного преобразования
// нативного идентификатора не существует.
func NewProductPayload(p *Product, modelVersion string) Payload {
	return Payload{
		"external_id":   p.ExternalID,
		"title":         p.Title,
		"description":   p.Description,
		"price":         p.Price,
		"currency":      p.Currency,
		"sizes":         toAnyList(p.Sizes),
		"colors":        toAnyList(p.Colors),
		"tags":          toAnyList(p.Tags),
		"stock":         p.Stock,
		"url":           p.URL,
		"searchable":    p.Searchable(),
		"model_version": modelVersion,
		"indexed_at":    time.Now().UTC().UnixNano(),
	}
}

func toAnyList(values []string) []any {
	result := make([]any, len(values))
	for i, v := range values {
		result[i] = v
	}

	return result
}
