package qdrant

// PointID детерминированно выводит нативный идентификатор точки Qdrant
// из внешнего идентификатора товара. Каталожные идентификаторы — произвольные
// строки, а числовой идентификатор нужен, чтобы повторная индексация того же
// товара перезаписывала точку, а не создавала дубликат.
//
// Используется 32-битный rolling hash (h = h*31 + ch), свёрнутый в знаковое
// 32-битное значение и приведённый к положительному числу (+1, чтобы исключить
// ноль). Отображение одностороннее: payload точки обязан хранить external_id,
// обратного преобразования нет. Коллизии возможны, но статистически ничтожны;
// несовпадение external_id в payload после поиска — сигнал для мониторинга.
func PointID(externalID string) uint64 {
	var hash int32
	for _, ch := range externalID {
		hash = hash*31 + int32(ch)
	}

	// расширяем до int64 перед сменой знака: -MinInt32 не представим в int32
	h := int64(hash)
	if h < 0 {
		h = -h
	}

	return uint64(h) + 1
}
