package domain

// Hit — один результат поиска: товар и его схожесть с запросом.
// Результаты возвращаются по невозрастанию Score.
type Hit struct {
	Product Product
	Score   float32
}

// CollectionInfo — состояние векторной коллекции для диагностики.
type CollectionInfo struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	PointsCount uint64 `json:"points_count"`
}
