package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
)

type fakeProductRepo struct {
	byID   map[string]*domain.Product
	getErr error
	gotIDs []string
}

func (f *fakeProductRepo) CreateBatch(_ context.Context, products []*domain.Product) ([]*domain.Product, error) {
	return products, nil
}

func (f *fakeProductRepo) GetByExternalIDs(_ context.Context, externalIDs []string) ([]*domain.Product, error) {
	f.gotIDs = externalIDs
	if f.getErr != nil {
		return nil, f.getErr
	}

	found := make([]*domain.Product, 0, len(externalIDs))
	for _, id := range externalIDs {
		if p, ok := f.byID[id]; ok {
			found = append(found, p)
		}
	}

	return found, nil
}

func (f *fakeProductRepo) SoftDelete(_ context.Context, _ string) error { return nil }

type fakeVectorRepo struct {
	hits      []domain.Hit
	searchErr error

	gotVector []float32
	gotFilter *domain.SearchFilter
	gotLimit  uint64

	info    domain.CollectionInfo
	dropped bool
	ensured bool
}

func (f *fakeVectorRepo) EnsureCollection(_ context.Context) error {
	f.ensured = true
	return nil
}

func (f *fakeVectorRepo) Upsert(_ context.Context, _ []domain.Embedding) error { return nil }

func (f *fakeVectorRepo) Search(_ context.Context, vector []float32, filter *domain.SearchFilter, limit uint64) ([]domain.Hit, error) {
	f.gotVector = vector
	f.gotFilter = filter
	f.gotLimit = limit

	return f.hits, f.searchErr
}

func (f *fakeVectorRepo) Delete(_ context.Context, _ []string) error { return nil }

func (f *fakeVectorRepo) DropCollection(_ context.Context) error {
	f.dropped = true
	return nil
}

func (f *fakeVectorRepo) Info(_ context.Context) domain.CollectionInfo { return f.info }

type fakeCacheRepo struct {
	mu sync.Mutex

	products map[string]*domain.Product
	getErr   error

	set     []*domain.Product
	deleted []string
}

func (f *fakeCacheRepo) GetProducts(_ context.Context, externalIDs []string) (map[string]*domain.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	found := make(map[string]*domain.Product)
	for _, id := range externalIDs {
		if p, ok := f.products[id]; ok {
			found[id] = p
		}
	}

	return found, nil
}

func (f *fakeCacheRepo) SetProducts(_ context.Context, products []*domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set = append(f.set, products...)

	return nil
}

func (f *fakeCacheRepo) DeleteProducts(_ context.Context, externalIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, externalIDs...)

	return nil
}

type fakeOutboxRepo struct {
	events []*OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, _ int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(_ context.Context, _ int64) error { return nil }

type fakeEmbedder struct {
	vector []float32
	err    error
	texts  []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}

	return f.vector, nil
}

func newRagFixture(products *fakeProductRepo, vectors *fakeVectorRepo, cache *fakeCacheRepo, embedder *fakeEmbedder) *RagUseCase {
	return NewRagUC(products, vectors, cache, &fakeOutboxRepo{}, nil, embedder, nopLogger{}, "text-embedding-3-small", 4)
}

func TestIngestProducts_Validation(t *testing.T) {
	uc := newRagFixture(&fakeProductRepo{}, &fakeVectorRepo{}, &fakeCacheRepo{}, &fakeEmbedder{})

	cases := []struct {
		name     string
		products []*domain.Product
		wantErr  error
	}{
		{"EmptyBatch", nil, e.ErrNoProducts},
		{"MissingExternalID", []*domain.Product{{Title: "Đầm", Description: "Mô tả", Price: 100}}, e.ErrExternalIDRequired},
		{"MissingTitle", []*domain.Product{{ExternalID: "d001", Description: "Mô tả", Price: 100}}, e.ErrTitleRequired},
		{"MissingDescription", []*domain.Product{{ExternalID: "d001", Title: "Đầm", Price: 100}}, e.ErrDescriptionRequired},
		{"NegativePrice", []*domain.Product{{ExternalID: "d001", Title: "Đầm", Description: "Mô tả", Price: -1}}, e.ErrPriceNegative},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.IngestProducts(context.Background(), NewIngestProductsReq(tc.products))
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	uc := newRagFixture(&fakeProductRepo{}, &fakeVectorRepo{}, &fakeCacheRepo{}, &fakeEmbedder{})

	_, err := uc.Search(context.Background(), NewSearchReq("  \t ", nil, 10))
	if !errors.Is(err, e.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSearch_DefaultLimit(t *testing.T) {
	vectors := &fakeVectorRepo{}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	uc := newRagFixture(&fakeProductRepo{}, vectors, &fakeCacheRepo{}, embedder)

	if _, err := uc.Search(context.Background(), NewSearchReq("đầm đen", nil, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if vectors.gotLimit != defaultSearchLimit {
		t.Errorf("zero limit must fall back to %d, got %d", defaultSearchLimit, vectors.gotLimit)
	}
	if len(embedder.texts) != 1 || embedder.texts[0] != "đầm đen" {
		t.Errorf("query must be embedded verbatim: %v", embedder.texts)
	}
}

func TestSearch_PassesHitsThrough(t *testing.T) {
	hits := []domain.Hit{
		{Product: domain.Product{ExternalID: "d001"}, Score: 0.95},
		{Product: domain.Product{ExternalID: "d002"}, Score: 0.80},
	}
	vectors := &fakeVectorRepo{hits: hits}
	filter := &domain.SearchFilter{Category: "đầm"}
	uc := newRagFixture(&fakeProductRepo{}, vectors, &fakeCacheRepo{}, &fakeEmbedder{vector: []float32{1}})

	got, err := uc.Search(context.Background(), NewSearchReq("đầm công sở", filter, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 || got[0].Score < got[1].Score {
		t.Errorf("hits must pass through in score order: %+v", got)
	}
	if vectors.gotFilter != filter {
		t.Errorf("filter must be forwarded untouched")
	}
	if vectors.gotLimit != 2 {
		t.Errorf("explicit limit must be forwarded, got %d", vectors.gotLimit)
	}
}

func TestSearch_EmbedderErrorPropagates(t *testing.T) {
	embedErr := errors.New("embedding api down")
	vectors := &fakeVectorRepo{}
	uc := newRagFixture(&fakeProductRepo{}, vectors, &fakeCacheRepo{}, &fakeEmbedder{err: embedErr})

	_, err := uc.Search(context.Background(), NewSearchReq("đầm đen", nil, 3))
	if !errors.Is(err, embedErr) {
		t.Fatalf("expected embedder error, got %v", err)
	}
	if vectors.gotVector != nil {
		t.Errorf("index must not be queried when embedding fails")
	}
}

func TestSearch_IndexErrorPropagates(t *testing.T) {
	indexErr := errors.New("qdrant unavailable")
	vectors := &fakeVectorRepo{searchErr: indexErr}
	uc := newRagFixture(&fakeProductRepo{}, vectors, &fakeCacheRepo{}, &fakeEmbedder{vector: []float32{0.5}})

	if _, err := uc.Search(context.Background(), NewSearchReq("đầm đen", nil, 3)); !errors.Is(err, indexErr) {
		t.Fatalf("expected index error, got %v", err)
	}
}

func TestSearch_ZeroHitsIsNotError(t *testing.T) {
	vectors := &fakeVectorRepo{}
	uc := newRagFixture(&fakeProductRepo{}, vectors, &fakeCacheRepo{}, &fakeEmbedder{vector: []float32{0.5}})

	hits, err := uc.Search(context.Background(), NewSearchReq("áo lông vũ phi hành gia", nil, 3))
	if err != nil {
		t.Fatalf("empty result must not be an error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %+v", hits)
	}
}

func TestGetProducts_CacheAndDBMerge(t *testing.T) {
	cachedProduct := &domain.Product{ExternalID: "d001", Title: "Из кэша"}
	dbProduct := &domain.Product{ExternalID: "d002", Title: "Из каталога"}

	cache := &fakeCacheRepo{products: map[string]*domain.Product{"d001": cachedProduct}}
	repo := &fakeProductRepo{byID: map[string]*domain.Product{"d002": dbProduct}}
	uc := newRagFixture(repo, &fakeVectorRepo{}, cache, &fakeEmbedder{})

	res, err := uc.GetProducts(context.Background(), NewGetProductsReq([]string{"d001", "d002", "d404"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Products) != 2 || res.Products[0] != cachedProduct || res.Products[1] != dbProduct {
		t.Errorf("result must preserve request order across cache and db: %+v", res.Products)
	}
	if len(res.NotFound) != 1 || res.NotFound[0] != "d404" {
		t.Errorf("missing ids must be reported: %v", res.NotFound)
	}
	if len(repo.gotIDs) != 2 {
		t.Errorf("only cache misses must hit the catalog, got %v", repo.gotIDs)
	}
}

func TestGetProducts_CacheFailureFallsBackToDB(t *testing.T) {
	dbProduct := &domain.Product{ExternalID: "d001", Title: "Đầm"}
	cache := &fakeCacheRepo{getErr: errors.New("redis down")}
	repo := &fakeProductRepo{byID: map[string]*domain.Product{"d001": dbProduct}}
	uc := newRagFixture(repo, &fakeVectorRepo{}, cache, &fakeEmbedder{})

	res, err := uc.GetProducts(context.Background(), NewGetProductsReq([]string{"d001"}))
	if err != nil {
		t.Fatalf("cache failure must not fail the read: %v", err)
	}

	if len(res.Products) != 1 || res.Products[0] != dbProduct {
		t.Errorf("product must come from the catalog: %+v", res.Products)
	}
}

func TestGetProducts_EmptyRequest(t *testing.T) {
	uc := newRagFixture(&fakeProductRepo{}, &fakeVectorRepo{}, &fakeCacheRepo{}, &fakeEmbedder{})

	if _, err := uc.GetProducts(context.Background(), NewGetProductsReq(nil)); !errors.Is(err, e.ErrNoProducts) {
		t.Fatalf("expected ErrNoProducts, got %v", err)
	}
}

func TestDeleteProduct_EmptyID(t *testing.T) {
	uc := newRagFixture(&fakeProductRepo{}, &fakeVectorRepo{}, &fakeCacheRepo{}, &fakeEmbedder{})

	if err := uc.DeleteProduct(context.Background(), "  "); !errors.Is(err, e.ErrExternalIDRequired) {
		t.Fatalf("expected ErrExternalIDRequired, got %v", err)
	}
}

func TestCollectionInfo_Delegates(t *testing.T) {
	info := domain.CollectionInfo{Name: "fashion_products", Status: "green", PointsCount: 42}
	vectors := &fakeVectorRepo{info: info}
	uc := newRagFixture(&fakeProductRepo{}, vectors, &fakeCacheRepo{}, &fakeEmbedder{})

	if got := uc.CollectionInfo(context.Background()); got != info {
		t.Errorf("expected %+v, got %+v", info, got)
	}
}

func TestResetCollection_DropThenEnsure(t *testing.T) {
	vectors := &fakeVectorRepo{}
	uc := newRagFixture(&fakeProductRepo{}, vectors, &fakeCacheRepo{}, &fakeEmbedder{})

	if err := uc.ResetCollection(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !vectors.dropped || !vectors.ensured {
		t.Errorf("reset must drop and recreate the collection")
	}
}
