package usecase

import (
	"context"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
)

type ProductRepository interface {
	CreateBatch(ctx context.Context, products []*domain.Product) ([]*domain.Product, error)
	GetByExternalIDs(ctx context.Context, externalIDs []string) ([]*domain.Product, error)
	SoftDelete(ctx context.Context, externalID string) error
}

type VectorRepository interface {
	EnsureCollection(ctx context.Context) error
	Upsert(ctx context.Context, vectors []domain.Embedding) error
	Search(ctx context.Context, vector []float32, filter *domain.SearchFilter, limit uint64) ([]domain.Hit, error)
	Delete(ctx context.Context, externalIDs []string) error
	DropCollection(ctx context.Context) error
	Info(ctx context.Context) domain.CollectionInfo
}

type CacheRepository interface {
	GetProducts(ctx context.Context, externalIDs []string) (map[string]*domain.Product, error)
	SetProducts(ctx context.Context, products []*domain.Product) error
	DeleteProducts(ctx context.Context, externalIDs []string) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
