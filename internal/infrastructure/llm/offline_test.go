package llm

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/DRSN-tech/fashion-rag/internal/cfg"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
)

func newOfflineEmbedder(size int) *OfflineEmbedder {
	return NewOfflineEmbedder(&cfg.LlmCfg{VectorSize: size})
}

func TestOfflineEmbedder_Deterministic(t *testing.T) {
	embedder := newOfflineEmbedder(256)

	first, err := embedder.Embed(context.Background(), "đầm đen công sở")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := embedder.Embed(context.Background(), "đầm đen công sở")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same text must give the same vector, differs at %d", i)
		}
	}
}

func TestOfflineEmbedder_Dimension(t *testing.T) {
	for _, size := range []int{16, 256, 1536} {
		embedder := newOfflineEmbedder(size)

		vector, err := embedder.Embed(context.Background(), "áo thun")
		if err != nil {
			t.Fatalf("size %d: unexpected error: %v", size, err)
		}
		if len(vector) != size {
			t.Errorf("size %d: got %d components", size, len(vector))
		}
	}
}

func TestOfflineEmbedder_UnitNorm(t *testing.T) {
	embedder := newOfflineEmbedder(512)

	vector, err := embedder.Embed(context.Background(), "chân váy dài màu be")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)

	if math.Abs(norm-1) > 1e-3 {
		t.Errorf("vector must be unit length, got norm %f", norm)
	}
}

func TestOfflineEmbedder_DistinctTexts(t *testing.T) {
	embedder := newOfflineEmbedder(128)

	a, _ := embedder.Embed(context.Background(), "đầm đen")
	b, _ := embedder.Embed(context.Background(), "áo khoác da")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Errorf("different texts must not map to the same vector")
	}
}

func TestOfflineEmbedder_EmptyText(t *testing.T) {
	embedder := newOfflineEmbedder(64)

	if _, err := embedder.Embed(context.Background(), ""); !errors.Is(err, e.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestOfflineChat_CompleteWithProducts(t *testing.T) {
	chat := NewOfflineChat()
	prompt := "Khách hỏi: đầm đen\n\nSản phẩm liên quan (chỉ dùng thông tin dưới đây, không bịa):\n[1] Đầm đen ôm — 590.000 VND\nMô tả: Đầm công sở\n\nYêu cầu phản hồi:\n- ..."

	reply, err := chat.Complete(context.Background(), prompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(reply, "Đầm đen ôm") {
		t.Errorf("reply must quote products from the prompt context: %q", reply)
	}
}

func TestOfflineChat_CompleteNoProducts(t *testing.T) {
	chat := NewOfflineChat()
	mandated := "Dạ chị có thể cho em xin hình mẫu của chị có để em tìm kiếm chính xác cho chị được không ạ"
	prompt := "Khách hỏi: áo lông vũ phi hành gia\n\n" +
		"Sản phẩm liên quan (chỉ dùng thông tin dưới đây, không bịa):\n" +
		"Không tìm thấy sản phẩm phù hợp.\n\n" +
		"Yêu cầu phản hồi:\n" +
		"- Nếu không có sản phẩm phù hợp: BẮT BUỘC trả lời chính xác câu này: \"" + mandated + "\""

	reply, err := chat.Complete(context.Background(), prompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply != mandated {
		t.Errorf("empty context must yield the mandated sentence verbatim, got %q", reply)
	}
	if strings.Contains(reply, "có những sản phẩm phù hợp") {
		t.Errorf("reply must not claim products exist: %q", reply)
	}
}

func TestOfflineChat_CompleteWithoutContext(t *testing.T) {
	chat := NewOfflineChat()

	reply, err := chat.Complete(context.Background(), "một câu hỏi tự do")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply == "" {
		t.Errorf("offline chat must always answer")
	}
}

func TestOfflineChat_DescribeImage(t *testing.T) {
	chat := NewOfflineChat()

	description, err := chat.DescribeImage(context.Background(), []byte{0x01}, "image/jpeg", "tìm mẫu này")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if description == "" {
		t.Errorf("description must not be empty")
	}
}
