package qdrant

import (
	"github.com/DRSN-tech/fashion-rag/internal/domain"
	"github.com/qdrant/go-client/qdrant"
)

// Имена полей payload, по которым строятся фильтры.
const (
	fieldPrice  = "price"
	fieldSizes  = "sizes"
	fieldColors = "colors"
	fieldTags   = "tags"
)

// BuildFilter транслирует пользовательский фильтр в payload-фильтр Qdrant.
//
// Обязательные условия (must, логическое И): диапазон цены, размер, цвет,
// категория (категория хранится как тег). Необязательные (should, логическое
// ИЛИ): пересечение тегов со стилями и материалами — они расширяют выдачу
// внутри уже отфильтрованного множества, а не сужают её.
//
// Пустой фильтр компилируется в nil: отсутствие условий означает поиск без
// ограничений, а не предикат, отклоняющий всё.
func BuildFilter(f *domain.SearchFilter) *qdrant.Filter {
	if f.IsEmpty() {
		return nil
	}

	var must, should []*qdrant.Condition

	if f.PriceMin != nil || f.PriceMax != nil {
		priceRange := &qdrant.Range{}
		if f.PriceMin != nil {
			gte := float64(*f.PriceMin)
			priceRange.Gte = &gte
		}
		if f.PriceMax != nil {
			lte := float64(*f.PriceMax)
			priceRange.Lte = &lte
		}
		must = append(must, qdrant.NewRange(fieldPrice, priceRange))
	}

	if f.Size != "" {
		must = append(must, qdrant.NewMatchKeywords(fieldSizes, f.Size))
	}

	if f.Color != "" {
		must = append(must, qdrant.NewMatchKeywords(fieldColors, f.Color))
	}

	if f.Category != "" {
		must = append(must, qdrant.NewMatchKeywords(fieldTags, f.Category))
	}

	if len(f.StyleTags) > 0 {
		should = append(should, qdrant.NewMatchKeywords(fieldTags, f.StyleTags...))
	}

	if len(f.Materials) > 0 {
		should = append(should, qdrant.NewMatchKeywords(fieldTags, f.Materials...))
	}

	if len(must) == 0 && len(should) == 0 {
		return nil
	}

	return &qdrant.Filter{
		Must:   must,
		Should: should,
	}
}
