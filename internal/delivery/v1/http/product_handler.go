package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
	"github.com/DRSN-tech/fashion-rag/internal/usecase"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
	"github.com/DRSN-tech/fashion-rag/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	ragUsecase usecase.RagUC
	logger     logger.Logger
}

func NewProductHandler(ragUsecase usecase.RagUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{ragUsecase: ragUsecase, logger: logger}
}

type ingestRequest struct {
	Items []productDTO `json:"items"`
}

type ingestResponse struct {
	Indexed int `json:"indexed"`
}

type getProductsResponse struct {
	Products []productView `json:"products"`
	NotFound []string      `json:"not_found"`
}

type searchRequest struct {
	Query   string     `json:"query"`
	Filters *filterDTO `json:"filters,omitempty"`
	Limit   uint64     `json:"limit,omitempty"`
}

type hitView struct {
	Product productView `json:"product"`
	Score   float32     `json:"score"`
}

// ingestProducts принимает партию товаров и индексирует её целиком.
func (p *ProductHandler) ingestProducts(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		p.logger.Warnf("%d failed to decode ingest request: %s", http.StatusBadRequest, err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	entries, err := toDomainProducts(req.Items)
	if err != nil {
		p.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := p.ragUsecase.IngestProducts(r.Context(), usecase.NewIngestProductsReq(entries))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, ingestResponse{Indexed: res.Indexed})
}

// getProducts возвращает карточки по списку идентификаторов: ?ids=a,b,c
func (p *ProductHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	rawIDs := r.URL.Query().Get("ids")
	ids := splitIDs(rawIDs)
	if len(ids) == 0 {
		p.logger.Warnf("%d ids query parameter is missing", http.StatusBadRequest)
		WriteError(w, e.ErrNoProducts)
		return
	}

	res, err := p.ragUsecase.GetProducts(r.Context(), usecase.NewGetProductsReq(ids))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, getProductsResponse{
		Products: toProductViews(res.Products),
		NotFound: res.NotFound,
	})
}

// deleteProduct мягко удаляет товар и убирает его из индекса.
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	if err := p.ragUsecase.DeleteProduct(r.Context(), externalID); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"external_id": externalID,
		"success":     true,
	})
}

// search — прямой доступ к retrieval-конвейеру без генерации ответа.
func (p *ProductHandler) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		p.logger.Warnf("%d failed to decode search request: %s", http.StatusBadRequest, err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	hits, err := p.ragUsecase.Search(r.Context(), usecase.NewSearchReq(req.Query, req.Filters.toDomain(), req.Limit))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	views := make([]hitView, 0, len(hits))
	for i := range hits {
		views = append(views, hitView{
			Product: toProductView(&hits[i].Product),
			Score:   hits[i].Score,
		})
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{"hits": views})
}

func toDomainProducts(items []productDTO) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(items))
	for i := range items {
		product, err := items[i].toDomain()
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	return products, nil
}

func splitIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}

	return ids
}
