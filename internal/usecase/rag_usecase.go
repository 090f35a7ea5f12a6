package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
	"github.com/DRSN-tech/fashion-rag/pkg/logger"
	"github.com/DRSN-tech/fashion-rag/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const defaultSearchLimit = 5

// RagUseCase реализует конвейер retrieval-augmented поиска по каталогу:
// индексация товаров, семантический поиск с фильтрами, обслуживание коллекции.
type RagUseCase struct {
	productRepo   ProductRepository
	vectorRepo    VectorRepository
	cacheRepo     CacheRepository
	outboxRepo    OutboxRepository
	dbPool        transaction.Transactional
	embedder      Embedder
	logger        logger.Logger
	modelVersion  string
	maxConcurrent int
}

func NewRagUC(
	productRepo ProductRepository,
	vectorRepo VectorRepository,
	cacheRepo CacheRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	embedder Embedder,
	logger logger.Logger,
	modelVersion string,
	maxConcurrent int,
) *RagUseCase {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &RagUseCase{
		productRepo:   productRepo,
		vectorRepo:    vectorRepo,
		cacheRepo:     cacheRepo,
		outboxRepo:    outboxRepo,
		dbPool:        dbPool,
		embedder:      embedder,
		logger:        logger,
		modelVersion:  modelVersion,
		maxConcurrent: maxConcurrent,
	}
}

// IngestProducts индексирует партию товаров: запись в каталог, эмбеддинги,
// upsert в векторный индекс и outbox-событие — всё в одной транзакции каталога.
// Повторная индексация того же external_id перезаписывает вектор, а не дублирует его.
func (r *RagUseCase) IngestProducts(ctx context.Context, req *IngestProductsReq) (*IngestProductsRes, error) {
	const op = "RagUseCase.IngestProducts"

	var err error
	if err = r.validateProducts(req.Products); err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, r.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = tr.WithTx(ctx, tx.Transaction().(pgx.Tx))

	created, err := r.productRepo.CreateBatch(ctx, req.Products)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	vectors, err := r.embedBatch(ctx, created)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Wait=true у репозитория: после возврата точки видны поиску
	if err = r.vectorRepo.Upsert(ctx, vectors); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = r.createIngestEvents(ctx, created); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление из кэша устаревших карточек
	ids := externalIDs(created)
	if err := r.cacheRepo.DeleteProducts(ctx, ids); err != nil {
		r.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	return NewIngestProductsRes(len(created)), nil
}

// Search возвращает top-K товаров, семантически близких запросу
// и удовлетворяющих фильтрам. Пустой результат — штатный исход, не ошибка.
func (r *RagUseCase) Search(ctx context.Context, req *SearchReq) ([]domain.Hit, error) {
	const op = "RagUseCase.Search"

	if strings.TrimSpace(req.Query) == "" {
		return nil, e.Wrap(op, e.ErrEmptyMessage)
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}

	vector, err := r.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	hits, err := r.vectorRepo.Search(ctx, vector, req.Filter, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return hits, nil
}

// GetProducts возвращает карточки товаров, сначала заглядывая в кэш.
func (r *RagUseCase) GetProducts(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error) {
	const op = "RagUseCase.GetProducts"

	if len(req.ExternalIDs) == 0 {
		return nil, e.Wrap(op, e.ErrNoProducts)
	}

	cached, err := r.cacheRepo.GetProducts(ctx, req.ExternalIDs)
	var missed []string
	if err != nil {
		missed = req.ExternalIDs
		cached = nil
	} else {
		for _, id := range req.ExternalIDs {
			if _, ok := cached[id]; !ok {
				missed = append(missed, id)
			}
		}
	}

	var fromDB []*domain.Product
	if len(missed) > 0 {
		fromDB, err = r.productRepo.GetByExternalIDs(ctx, missed)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		// Фоновое пополнение кэша
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := r.cacheRepo.SetProducts(bgCtx, fromDB); err != nil {
				r.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
			}
		}()
	}

	dbMap := make(map[string]*domain.Product, len(fromDB))
	for _, product := range fromDB {
		dbMap[product.ExternalID] = product
	}

	result := make([]*domain.Product, 0, len(req.ExternalIDs))
	notFound := make([]string, 0)
	for _, id := range req.ExternalIDs {
		if product, ok := cached[id]; ok {
			result = append(result, product)
		} else if product, ok := dbMap[id]; ok {
			result = append(result, product)
		} else {
			notFound = append(notFound, id)
		}
	}

	return NewGetProductsRes(result, notFound), nil
}

// DeleteProduct помечает товар удалённым и убирает его вектор из индекса.
func (r *RagUseCase) DeleteProduct(ctx context.Context, externalID string) error {
	const op = "RagUseCase.DeleteProduct"

	if strings.TrimSpace(externalID) == "" {
		return e.Wrap(op, e.ErrExternalIDRequired)
	}

	var err error
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, r.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = tr.WithTx(ctx, tx.Transaction().(pgx.Tx))

	if err = r.productRepo.SoftDelete(ctx, externalID); err != nil {
		return e.Wrap(op, err)
	}

	if err = r.vectorRepo.Delete(ctx, []string{externalID}); err != nil {
		return e.Wrap(op, err)
	}

	payload, err := json.Marshal(map[string]string{"external_id": externalID})
	if err != nil {
		return e.Wrap(op, err)
	}

	if _, err = r.outboxRepo.Create(ctx, NewOutboxEvent(uuid.NewString(), EventCatalogDeleted, externalID, payload)); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	if err := r.cacheRepo.DeleteProducts(ctx, []string{externalID}); err != nil {
		r.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	return nil
}

// CollectionInfo отдаёт состояние коллекции для диагностики.
// Никогда не возвращает ошибку: репозиторий деградирует сам.
func (r *RagUseCase) CollectionInfo(ctx context.Context) domain.CollectionInfo {
	return r.vectorRepo.Info(ctx)
}

// ResetCollection полностью пересоздаёт векторный индекс.
// Каталог в Postgres не затрагивается.
func (r *RagUseCase) ResetCollection(ctx context.Context) error {
	const op = "RagUseCase.ResetCollection"

	if err := r.vectorRepo.DropCollection(ctx); err != nil {
		return e.Wrap(op, err)
	}

	if err := r.vectorRepo.EnsureCollection(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// embedBatch строит эмбеддинги партии товаров с ограниченным числом
// одновременных запросов к модели. Товары независимы, порядок сохраняется.
func (r *RagUseCase) embedBatch(ctx context.Context, products []*domain.Product) ([]domain.Embedding, error) {
	vectors := make([]domain.Embedding, len(products))
	errs := make([]error, len(products))

	sem := make(chan struct{}, r.maxConcurrent)
	var wg sync.WaitGroup

	for i, product := range products {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, product *domain.Product) {
			defer wg.Done()
			defer func() { <-sem }()

			vector, err := r.embedder.Embed(ctx, product.Searchable())
			if err != nil {
				errs[i] = err
				return
			}

			vectors[i] = *domain.NewEmbedding(product.ExternalID, vector, domain.NewProductPayload(product, r.modelVersion))
		}(i, product)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return vectors, nil
}

// createIngestEvents пишет outbox-событие на каждый проиндексированный товар.
// Ключ события — external_id, чтобы события одного товара шли по порядку.
func (r *RagUseCase) createIngestEvents(ctx context.Context, products []*domain.Product) error {
	for _, product := range products {
		payload, err := json.Marshal(map[string]any{
			"external_id": product.ExternalID,
			"title":       product.Title,
			"price":       product.Price,
			"currency":    product.Currency,
		})
		if err != nil {
			return err
		}

		if _, err := r.outboxRepo.Create(ctx, NewOutboxEvent(uuid.NewString(), EventCatalogIngested, product.ExternalID, payload)); err != nil {
			return err
		}
	}

	return nil
}

// validateProducts отклоняет партию целиком при первом некорректном товаре.
func (r *RagUseCase) validateProducts(products []*domain.Product) error {
	if len(products) == 0 {
		return e.ErrNoProducts
	}

	for _, product := range products {
		if strings.TrimSpace(product.ExternalID) == "" {
			return e.ErrExternalIDRequired
		}
		if strings.TrimSpace(product.Title) == "" {
			return e.ErrTitleRequired
		}
		if strings.TrimSpace(product.Description) == "" {
			return e.ErrDescriptionRequired
		}
		if product.Price < 0 {
			return e.ErrPriceNegative
		}
		if product.Currency == "" {
			product.Currency = domain.DefaultCurrency
		}
	}

	return nil
}

func externalIDs(products []*domain.Product) []string {
	ids := make([]string, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ExternalID)
	}

	return ids
}
