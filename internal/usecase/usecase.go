package usecase

import (
	"context"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
)

// RagUC — операции каталога и поиска: индексация, семантический поиск,
// чтение карточек, удаление, обслуживание коллекции.
type RagUC interface {
	IngestProducts(ctx context.Context, req *IngestProductsReq) (*IngestProductsRes, error)
	Search(ctx context.Context, req *SearchReq) ([]domain.Hit, error)
	GetProducts(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error)
	DeleteProduct(ctx context.Context, externalID string) error
	CollectionInfo(ctx context.Context) domain.CollectionInfo
	ResetCollection(ctx context.Context) error
}

// ChatUC — диалоговая надстройка над поиском: приветствия, текстовые
// и фото-запросы, заземлённый ответ модели.
type ChatUC interface {
	HandleMessage(ctx context.Context, req *ChatReq) (*ChatRes, error)
}
