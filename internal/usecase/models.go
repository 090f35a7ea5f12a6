package usecase

import (
	"time"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
)

// RAG USECASE

// IngestProductsReq — запрос на индексацию партии товаров.
type IngestProductsReq struct {
	Products []*domain.Product
}

// IngestProductsRes — результат индексации.
type IngestProductsRes struct {
	Indexed int
}

// SearchReq — поисковый запрос: свободный текст плюс структурные фильтры.
type SearchReq struct {
	Query  string
	Filter *domain.SearchFilter
	Limit  uint64
}

// GetProductsReq — запрос карточек товаров по внешним идентификаторам.
type GetProductsReq struct {
	ExternalIDs []string
}

// GetProductsRes — найденные карточки и список ненайденных идентификаторов.
type GetProductsRes struct {
	Products []*domain.Product
	NotFound []string
}

// CHAT USECASE

// ChatReq — входящее сообщение чата, опционально с фильтрами и фото.
type ChatReq struct {
	Message string
	Filter  *domain.SearchFilter
	Image   *ChatImage
}

// ChatImage представляет изображение, загруженное через multipart/form-data.
type ChatImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// ChatRes — ответ ассистента и товары, на которых он основан.
type ChatRes struct {
	Reply    string
	Products []*domain.Product
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

const (
	EventCatalogIngested = "catalog.ingested"
	EventCatalogDeleted  = "catalog.deleted"
)

// OutboxEvent — событие каталога, ожидающее публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   string
	ExternalID  string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	ExternalID string
	Payload    []byte
}

// MAPPERS

func NewIngestProductsReq(products []*domain.Product) *IngestProductsReq {
	return &IngestProductsReq{Products: products}
}

func NewIngestProductsRes(indexed int) *IngestProductsRes {
	return &IngestProductsRes{Indexed: indexed}
}

func NewSearchReq(query string, filter *domain.SearchFilter, limit uint64) *SearchReq {
	return &SearchReq{
		Query:  query,
		Filter: filter,
		Limit:  limit,
	}
}

func NewGetProductsReq(externalIDs []string) *GetProductsReq {
	return &GetProductsReq{externalIDs}
}

func NewGetProductsRes(products []*domain.Product, notFound []string) *GetProductsRes {
	return &GetProductsRes{
		Products: products,
		NotFound: notFound,
	}
}

func NewChatReq(message string, filter *domain.SearchFilter, image *ChatImage) *ChatReq {
	return &ChatReq{
		Message: message,
		Filter:  filter,
		Image:   image,
	}
}

func NewChatRes(reply string, products []*domain.Product) *ChatRes {
	return &ChatRes{
		Reply:    reply,
		Products: products,
	}
}

func NewChatImage(data []byte, mimeType string, size int64, name string) *ChatImage {
	return &ChatImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewOutboxEvent(eventID, eventType, externalID string, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:    eventID,
		EventType:  eventType,
		ExternalID: externalID,
		Payload:    payload,
		Status:     Pending,
		CreatedAt:  time.Now().UTC(),
	}
}

func NewWriteRawMessageReq(externalID string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ExternalID: externalID,
		Payload:    payload,
	}
}
