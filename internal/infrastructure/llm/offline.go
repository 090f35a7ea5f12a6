package llm

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/DRSN-tech/fashion-rag/internal/cfg"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
	"github.com/jimlawless/whereami"
)

// OfflineEmbedder — детерминированные эмбеддинги без сети для dev-окружения
// и тестов. Одинаковый текст всегда даёт одинаковый вектор, близкие тексты
// близкими не будут — для проверки пайплайна этого достаточно.
type OfflineEmbedder struct {
	vectorSize int
}

func NewOfflineEmbedder(cfg *cfg.LlmCfg) *OfflineEmbedder {
	return &OfflineEmbedder{vectorSize: cfg.VectorSize}
}

func (o *OfflineEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrEmptyMessage)
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	// xorshift64 от seed, нормируем вектор к единичной длине,
	// чтобы косинусная близость вела себя как у настоящих эмбеддингов
	vector := make([]float32, o.vectorSize)

	var norm float64
	state := seed | 1
	for i := range vector {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		v := float64(int64(state))/math.MaxInt64 - 0.5
		vector[i] = float32(v)
		norm += v * v
	}

	norm = math.Sqrt(norm)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}

	return vector, nil
}

// OfflineChat — правило-ориентированная заглушка чат-модели.
// Отвечает строго по переданному контексту, ничего не придумывает.
type OfflineChat struct{}

func NewOfflineChat() *OfflineChat {
	return &OfflineChat{}
}

// Маркер пустого блока товаров в промпте ответа.
const noProductsMarker = "Không tìm thấy sản phẩm phù hợp."

func (o *OfflineChat) Complete(_ context.Context, prompt string) (string, error) {
	// промпт содержит блок товаров между заголовками; если товаров нет,
	// настоящая модель тоже должна вернуть отказ
	if !strings.Contains(prompt, "Sản phẩm liên quan") {
		return "Dạ em chưa rõ yêu cầu của chị, chị mô tả thêm giúp em với ạ.", nil
	}

	start := strings.Index(prompt, "Sản phẩm liên quan")
	end := strings.Index(prompt, "Yêu cầu phản hồi")
	if end < 0 {
		end = len(prompt)
	}

	products := strings.TrimSpace(prompt[start:end])
	lines := strings.Split(products, "\n")
	if len(lines) <= 1 || strings.TrimSpace(lines[1]) == noProductsMarker {
		// товаров нет: воспроизводим предписанную промптом фразу дословно,
		// ничего не предлагаем
		if mandated := mandatedReply(prompt); mandated != "" {
			return mandated, nil
		}

		return "Dạ hiện tại bên em chưa tìm thấy sản phẩm phù hợp ạ.", nil
	}

	return "Dạ bên em có những sản phẩm phù hợp với chị:\n" + strings.Join(lines[1:], "\n"), nil
}

// mandatedReply извлекает из промпта фразу, которую ответ обязан
// воспроизвести дословно при пустом списке товаров.
func mandatedReply(prompt string) string {
	const directive = `BẮT BUỘC trả lời chính xác câu này: "`

	i := strings.Index(prompt, directive)
	if i < 0 {
		return ""
	}

	rest := prompt[i+len(directive):]
	j := strings.Index(rest, `"`)
	if j < 0 {
		return ""
	}

	return rest[:j]
}

func (o *OfflineChat) DescribeImage(_ context.Context, _ []byte, _, _ string) (string, error) {
	return "Sản phẩm thời trang trong ảnh", nil
}
