package qdrant

import (
	"testing"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestBuildFilter_NilFilter(t *testing.T) {
	result := BuildFilter(nil)
	if result != nil {
		t.Errorf("expected nil, got %v", result)
	}
}

func TestBuildFilter_EmptyFilter(t *testing.T) {
	result := BuildFilter(&domain.SearchFilter{})
	if result != nil {
		t.Errorf("expected nil, got %v", result)
	}
}

func TestBuildFilter_PriceMinOnly(t *testing.T) {
	result := BuildFilter(&domain.SearchFilter{PriceMin: int64Ptr(100000)})

	if result == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(result.Must) != 1 {
		t.Fatalf("expected 1 Must condition, got %d", len(result.Must))
	}

	field := result.Must[0].GetField()
	if field == nil {
		t.Fatal("expected field condition")
	}
	if field.Key != fieldPrice {
		t.Errorf("expected key %q, got %q", fieldPrice, field.Key)
	}
	if field.Range.Gte == nil || *field.Range.Gte != 100000 {
		t.Errorf("expected gte 100000, got %v", field.Range.Gte)
	}
	if field.Range.Lte != nil {
		t.Errorf("expected no lte bound, got %v", *field.Range.Lte)
	}
}

func TestBuildFilter_PriceRange(t *testing.T) {
	result := BuildFilter(&domain.SearchFilter{
		PriceMin: int64Ptr(100000),
		PriceMax: int64Ptr(500000),
	})

	if result == nil {
		t.Fatal("expected filter, got nil")
	}

	field := result.Must[0].GetField()
	if *field.Range.Gte != 100000 || *field.Range.Lte != 500000 {
		t.Errorf("unexpected range bounds: gte=%v lte=%v", field.Range.Gte, field.Range.Lte)
	}
}

// Противоречивый диапазон транслируется как есть: пустая выдача
// допустима, ошибка — нет.
func TestBuildFilter_ConflictingPriceRange(t *testing.T) {
	result := BuildFilter(&domain.SearchFilter{
		PriceMin: int64Ptr(500000),
		PriceMax: int64Ptr(300000),
	})

	if result == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(result.Must) != 1 {
		t.Errorf("expected 1 Must condition, got %d", len(result.Must))
	}
}

func TestBuildFilter_SizeColorCategory(t *testing.T) {
	result := BuildFilter(&domain.SearchFilter{
		Size:     "M",
		Color:    "đen",
		Category: "đầm",
	})

	if result == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(result.Must) != 3 {
		t.Fatalf("expected 3 Must conditions, got %d", len(result.Must))
	}
	if len(result.Should) != 0 {
		t.Errorf("expected 0 Should conditions, got %d", len(result.Should))
	}

	wantKeys := []string{fieldSizes, fieldColors, fieldTags}
	for i, cond := range result.Must {
		field := cond.GetField()
		if field == nil {
			t.Fatalf("condition %d: expected field condition", i)
		}
		if field.Key != wantKeys[i] {
			t.Errorf("condition %d: expected key %q, got %q", i, wantKeys[i], field.Key)
		}
	}
}

func TestBuildFilter_StyleTagsAndMaterialsAreShould(t *testing.T) {
	result := BuildFilter(&domain.SearchFilter{
		StyleTags: []string{"công sở", "dạo phố"},
		Materials: []string{"cotton"},
	})

	if result == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(result.Must) != 0 {
		t.Errorf("expected 0 Must conditions, got %d", len(result.Must))
	}
	if len(result.Should) != 2 {
		t.Fatalf("expected 2 Should conditions, got %d", len(result.Should))
	}

	for i, cond := range result.Should {
		field := cond.GetField()
		if field == nil {
			t.Fatalf("condition %d: expected field condition", i)
		}
		if field.Key != fieldTags {
			t.Errorf("condition %d: expected key %q, got %q", i, fieldTags, field.Key)
		}
	}
}

func TestBuildFilter_Combined(t *testing.T) {
	result := BuildFilter(&domain.SearchFilter{
		PriceMax:  int64Ptr(800000),
		Size:      "S",
		Category:  "váy",
		StyleTags: []string{"vintage"},
	})

	if result == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(result.Must) != 3 {
		t.Errorf("expected 3 Must conditions, got %d", len(result.Must))
	}
	if len(result.Should) != 1 {
		t.Errorf("expected 1 Should condition, got %d", len(result.Should))
	}
}
