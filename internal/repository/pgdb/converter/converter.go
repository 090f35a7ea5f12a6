//go:generate goverter gen github.com/DRSN-tech/fashion-rag/internal/repository/pgdb/converter
package converter

import (
	"time"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
	"github.com/DRSN-tech/fashion-rag/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertStrings
type ProductConverter interface {
	// goverter:ignore ID
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []*ProductModel) []*domain.Product
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertOutboxStatus
// goverter:extend ConvertStatusString
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

func ConvertPointerTime(t *time.Time) *time.Time {
	return t
}

func ConvertTime(t time.Time) time.Time {
	return t
}

func ConvertStrings(s []string) []string {
	return s
}

func ConvertOutboxStatus(s usecase.OutboxStatus) string {
	return string(s)
}

func ConvertStatusString(s string) usecase.OutboxStatus {
	return usecase.OutboxStatus(s)
}
