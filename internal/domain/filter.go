package domain

// SearchFilter описывает пользовательские ограничения поиска по каталогу.
// Противоречивые значения (PriceMin > PriceMax) не считаются ошибкой:
// такой фильтр передаётся в индекс как есть и может вернуть пустой результат.
type SearchFilter struct {
	PriceMin  *int64
	PriceMax  *int64
	Size      string
	Color     string
	Category  string
	StyleTags []string
	Materials []string
}

// IsEmpty сообщает, что фильтр не содержит ни одного ограничения.
func (f *SearchFilter) IsEmpty() bool {
	if f == nil {
		return true
	}

	return f.PriceMin == nil && f.PriceMax == nil &&
		f.Size == "" && f.Color == "" && f.Category == "" &&
		len(f.StyleTags) == 0 && len(f.Materials) == 0
}
