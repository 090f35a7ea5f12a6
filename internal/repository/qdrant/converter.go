package qdrant

import (
	"github.com/DRSN-tech/fashion-rag/internal/domain"
	"github.com/qdrant/go-client/qdrant"
)

// payloadToProduct восстанавливает товар из payload точки.
// Идентификатором служит сохранённый external_id; нативный идентификатор
// точки — односторонний хэш и для отображения не используется.
func payloadToProduct(payload map[string]*qdrant.Value) domain.Product {
	return domain.Product{
		ExternalID:  stringValue(payload, "external_id"),
		Title:       stringValue(payload, "title"),
		Description: stringValue(payload, "description"),
		Price:       intValue(payload, "price"),
		Currency:    stringValue(payload, "currency"),
		Sizes:       stringListValue(payload, "sizes"),
		Colors:      stringListValue(payload, "colors"),
		Tags:        stringListValue(payload, "tags"),
		Stock:       intValue(payload, "stock"),
		URL:         stringValue(payload, "url"),
	}
}

func stringValue(payload map[string]*qdrant.Value, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}

	return v.GetStringValue()
}

func intValue(payload map[string]*qdrant.Value, key string) int64 {
	v, ok := payload[key]
	if !ok {
		return 0
	}

	// числовые значения могут прийти и целым, и double в зависимости от того,
	// как payload был сериализован при записи
	if d := v.GetDoubleValue(); d != 0 {
		return int64(d)
	}

	return v.GetIntegerValue()
}

func stringListValue(payload map[string]*qdrant.Value, key string) []string {
	v, ok := payload[key]
	if !ok {
		return nil
	}

	list := v.GetListValue()
	if list == nil {
		return nil
	}

	result := make([]string, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		result = append(result, item.GetStringValue())
	}

	return result
}
