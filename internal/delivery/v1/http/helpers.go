package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrEmptyMessage):
		return http.StatusBadRequest, e.ErrEmptyMessage.Error()
	case errors.Is(err, e.ErrNoProducts):
		return http.StatusBadRequest, e.ErrNoProducts.Error()
	case errors.Is(err, e.ErrExternalIDRequired):
		return http.StatusBadRequest, e.ErrExternalIDRequired.Error()
	case errors.Is(err, e.ErrTitleRequired):
		return http.StatusBadRequest, e.ErrTitleRequired.Error()
	case errors.Is(err, e.ErrDescriptionRequired):
		return http.StatusBadRequest, e.ErrDescriptionRequired.Error()
	case errors.Is(err, e.ErrPriceNegative):
		return http.StatusBadRequest, e.ErrPriceNegative.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusBadRequest, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrProductExists):
		return http.StatusConflict, e.ErrProductExists.Error()
	case errors.Is(err, e.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, e.ErrUpstreamUnavailable.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// filterDTO — пользовательские фильтры поиска, как их присылает клиент.
type filterDTO struct {
	PriceMin  *int64   `json:"price_min,omitempty"`
	PriceMax  *int64   `json:"price_max,omitempty"`
	Size      string   `json:"size,omitempty"`
	Color     string   `json:"color,omitempty"`
	Category  string   `json:"category,omitempty"`
	StyleTags []string `json:"style_tags,omitempty"`
	Materials []string `json:"materials,omitempty"`
}

func (f *filterDTO) toDomain() *domain.SearchFilter {
	if f == nil {
		return nil
	}

	return &domain.SearchFilter{
		PriceMin:  f.PriceMin,
		PriceMax:  f.PriceMax,
		Size:      f.Size,
		Color:     f.Color,
		Category:  f.Category,
		StyleTags: f.StyleTags,
		Materials: f.Materials,
	}
}

// productDTO — карточка товара во входящем JSON. Цена принимается числом
// или строкой и обязана быть целым количеством донгов.
type productDTO struct {
	ExternalID  string      `json:"external_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Currency    string      `json:"currency,omitempty"`
	Sizes       []string    `json:"sizes,omitempty"`
	Colors      []string    `json:"colors,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Stock       int64       `json:"stock,omitempty"`
	URL         string      `json:"url,omitempty"`
}

func (p *productDTO) toDomain() (*domain.Product, error) {
	price, err := parsePriceVND(p.Price.String())
	if err != nil {
		return nil, err
	}

	product := domain.NewProduct(p.ExternalID, p.Title, p.Description, price)
	if p.Currency != "" {
		product.Currency = p.Currency
	}
	product.Sizes = p.Sizes
	product.Colors = p.Colors
	product.Tags = p.Tags
	product.Stock = p.Stock
	product.URL = p.URL

	return product, nil
}

// productView — карточка товара в исходящем JSON.
type productView struct {
	ExternalID  string   `json:"external_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Currency    string   `json:"currency"`
	Sizes       []string `json:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Stock       int64    `json:"stock"`
	URL         string   `json:"url,omitempty"`
}

func toProductView(p *domain.Product) productView {
	return productView{
		ExternalID:  p.ExternalID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		Sizes:       p.Sizes,
		Colors:      p.Colors,
		Tags:        p.Tags,
		Stock:       p.Stock,
		URL:         p.URL,
	}
}

func toProductViews(products []*domain.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}

	return views
}

// parsePriceVND разбирает цену в целых донгах. Дробные цены отклоняются:
// донг не делится на копейки.
func parsePriceVND(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, e.ErrInvalidPrice
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrPriceNegative
	}

	if !d.IsInteger() {
		return 0, e.ErrPricePrecision
	}

	maxPrice := decimal.NewFromInt(1_000_000_000_000) // триллион донгов
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	return d.IntPart(), nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

func readImageFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", e.Wrap(fh.Filename, e.ErrUnsupportedMediaType)
	}

	return data, mimeType, nil
}
