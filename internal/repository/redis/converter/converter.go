//go:generate goverter gen github.com/DRSN-tech/fashion-rag/internal/repository/redis/converter

package converter

import (
	"time"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
)

// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertStrings
// goverter:ignoreMissing
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
	ToArrRedisModel(entities []*domain.Product) []*ProductRedisModel
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
