package http

import (
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/DRSN-tech/fashion-rag/pkg/e"
)

func TestParsePriceVND(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{"Whole", "590000", 590000, nil},
		{"Zero", "0", 0, nil},
		{"WholeWithExponent", "5.9e5", 590000, nil},
		{"Fractional", "590000.50", 0, e.ErrPricePrecision},
		{"Negative", "-1000", 0, e.ErrPriceNegative},
		{"Garbage", "năm trăm nghìn", 0, e.ErrInvalidPrice},
		{"Empty", "", 0, e.ErrInvalidPrice},
		{"TooLarge", "1000000000001", 0, e.ErrInvalidPrice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePriceVND(tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestToHTTPResponse(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
	}{
		{e.ErrEmptyMessage, http.StatusBadRequest},
		{e.ErrNoProducts, http.StatusBadRequest},
		{e.ErrExternalIDRequired, http.StatusBadRequest},
		{e.ErrPriceNegative, http.StatusBadRequest},
		{e.ErrFileTooLarge, http.StatusBadRequest},
		{e.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{e.ErrProductNotFound, http.StatusNotFound},
		{e.ErrProductExists, http.StatusConflict},
		{e.ErrUpstreamUnavailable, http.StatusServiceUnavailable},
		{errors.New("pg: connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if code, _ := ToHTTPResponse(tc.err); code != tc.wantCode {
			t.Errorf("ToHTTPResponse(%v) = %d, want %d", tc.err, code, tc.wantCode)
		}
	}
}

func TestToHTTPResponse_WrappedError(t *testing.T) {
	wrapped := e.Wrap("ProductHandler.deleteProduct", e.ErrProductNotFound)

	code, msg := ToHTTPResponse(wrapped)
	if code != http.StatusNotFound {
		t.Errorf("wrapped sentinel must keep its status, got %d", code)
	}
	if msg != e.ErrProductNotFound.Error() {
		t.Errorf("message must come from the sentinel, got %q", msg)
	}
}

func TestSplitIDs(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"d001", []string{"d001"}},
		{"d001,d002,d003", []string{"d001", "d002", "d003"}},
		{" d001 , ,d002, ", []string{"d001", "d002"}},
	}

	for _, tc := range cases {
		if got := splitIDs(tc.raw); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitIDs(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestFilterDTO_ToDomain(t *testing.T) {
	var nilFilter *filterDTO
	if nilFilter.toDomain() != nil {
		t.Errorf("nil dto must map to nil filter")
	}

	min := int64(200000)
	dto := &filterDTO{PriceMin: &min, Color: "đen", StyleTags: []string{"công sở"}}
	filter := dto.toDomain()
	if filter.PriceMin == nil || *filter.PriceMin != 200000 || filter.Color != "đen" {
		t.Errorf("filter fields must map one to one: %+v", filter)
	}
}

func TestProductDTO_ToDomain(t *testing.T) {
	dto := &productDTO{
		ExternalID:  "d001",
		Title:       "Đầm đen ôm",
		Description: "Đầm công sở",
		Price:       "590000",
		Sizes:       []string{"S", "M"},
	}

	product, err := dto.toDomain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Price != 590000 {
		t.Errorf("price mismatch: %d", product.Price)
	}
	if product.Currency == "" {
		t.Errorf("currency must get a default")
	}

	dto.Price = "590000.99"
	if _, err := dto.toDomain(); !errors.Is(err, e.ErrPricePrecision) {
		t.Fatalf("fractional price must be rejected, got %v", err)
	}
}
