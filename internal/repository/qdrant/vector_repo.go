package qdrant

import (
	"context"
	"time"

	"github.com/DRSN-tech/fashion-rag/internal/cfg"
	"github.com/DRSN-tech/fashion-rag/internal/domain"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
	"github.com/DRSN-tech/fashion-rag/pkg/jitter"
	"github.com/DRSN-tech/fashion-rag/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const retryBackoffBase = 200 * time.Millisecond

// VectorRepo репозиторий для работы с векторным индексом товаров в Qdrant
type VectorRepo struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
	logger logger.Logger
}

func NewVectorRepo(client *qdrant.Client, cfg *cfg.QdrantCfg, logger logger.Logger) *VectorRepo {
	return &VectorRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Upsert сохраняет или обновляет векторы товаров в коллекции.
// Wait=true: запись подтверждается только после применения, чтобы
// последующий поиск сразу видел новые точки.
func (q *VectorRepo) Upsert(ctx context.Context, vectors []domain.Embedding) error {
	if len(vectors) == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrEmptyVectors)
	}

	points := make([]*qdrant.PointStruct, 0, len(vectors))
	for _, vector := range vectors {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(PointID(vector.ExternalID)),
			Vectors: qdrant.NewVectors(vector.Vector...),
			Payload: qdrant.NewValueMap(vector.Payload),
		})
	}

	wait := true

	err := q.withRetry(ctx, func(ctx context.Context) error {
		_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: q.cfg.CollectionName,
			Points:         points,
			Wait:           &wait,
		})

		return err
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Search ищет ближайшие по косинусной близости товары.
// Qdrant возвращает точки уже отсортированными по убыванию score,
// порядок сохраняется как есть.
func (q *VectorRepo) Search(ctx context.Context, vector []float32, filter *domain.SearchFilter, limit uint64) ([]domain.Hit, error) {
	if len(vector) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrVectorEmbeddingEmpty)
	}

	searchCtx, cancel := context.WithTimeout(ctx, q.cfg.SearchTimeout)
	defer cancel()

	var points []*qdrant.ScoredPoint

	err := q.withRetry(searchCtx, func(ctx context.Context) error {
		var err error
		points, err = q.client.Query(ctx, &qdrant.QueryPoints{
			CollectionName: q.cfg.CollectionName,
			Query:          qdrant.NewQuery(vector...),
			Limit:          &limit,
			Filter:         BuildFilter(filter),
			WithPayload:    qdrant.NewWithPayload(true),
		})

		return err
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	hits := make([]domain.Hit, 0, len(points))
	for _, point := range points {
		hits = append(hits, domain.Hit{
			Product: payloadToProduct(point.Payload),
			Score:   point.Score,
		})
	}

	return hits, nil
}

// Delete удаляет точки товаров по их внешним идентификаторам.
func (q *VectorRepo) Delete(ctx context.Context, externalIDs []string) error {
	if len(externalIDs) == 0 {
		return nil
	}

	ids := make([]*qdrant.PointId, 0, len(externalIDs))
	for _, externalID := range externalIDs {
		ids = append(ids, qdrant.NewIDNum(PointID(externalID)))
	}

	wait := true

	err := q.withRetry(ctx, func(ctx context.Context) error {
		_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
			CollectionName: q.cfg.CollectionName,
			Points:         qdrant.NewPointsSelector(ids...),
			Wait:           &wait,
		})

		return err
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DropCollection полностью удаляет коллекцию вместе с данными.
func (q *VectorRepo) DropCollection(ctx context.Context) error {
	if err := q.client.DeleteCollection(ctx, q.cfg.CollectionName); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// EnsureCollection идемпотентно создаёт коллекцию.
// Существующая коллекция не считается ошибкой.
func (q *VectorRepo) EnsureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.cfg.CollectionName)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if exists {
		return nil
	}

	if err := q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.cfg.CollectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.cfg.VectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Info возвращает состояние коллекции. Если коллекция недоступна,
// возвращается деградированное состояние вместо ошибки: endpoint
// диагностики не должен падать вместе с индексом.
func (q *VectorRepo) Info(ctx context.Context) domain.CollectionInfo {
	info, err := q.client.GetCollectionInfo(ctx, q.cfg.CollectionName)
	if err != nil {
		q.logger.Warnf("не удалось получить состояние коллекции %s: %v", q.cfg.CollectionName, err)

		return domain.CollectionInfo{Name: q.cfg.CollectionName, Status: "unavailable"}
	}

	var points uint64
	if info.PointsCount != nil {
		points = *info.PointsCount
	}

	return domain.CollectionInfo{
		Name:        q.cfg.CollectionName,
		Status:      info.Status.String(),
		PointsCount: points,
	}
}

// withRetry повторяет операцию при транзиентных gRPC-ошибках
// с экспоненциальной задержкой и джиттером.
func (q *VectorRepo) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= q.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := jitter.ExponentialBackoff(retryBackoffBase, 5*time.Second, attempt, jitter.DefaultJitter)
			q.logger.Warnf("повтор запроса к qdrant, попытка %d через %s: %v", attempt, backoff, lastErr)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !isTransient(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

// isTransient определяет, имеет ли смысл повторять запрос.
// Ошибки валидации (InvalidArgument, NotFound и т.п.) повторами не лечатся.
func isTransient(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted, codes.Internal:
		return true
	default:
		return false
	}
}
