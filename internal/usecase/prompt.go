package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
)

// Точная фраза-отказ: ассистент обязан воспроизводить её байт в байт,
// на неё завязаны conformance-проверки клиентов.
const fallbackSentence = "Dạ chị có thể cho em xin hình mẫu của chị có để em tìm kiếm chính xác cho chị được không ạ"

const emptyProductList = "Không tìm thấy sản phẩm phù hợp."

const descriptionLimit = 400

// buildAnswerPrompt собирает заземлённый промпт: сообщение клиента,
// найденные товары и три жёстких правила ответа. Модель не должна
// упоминать товары вне переданного списка.
func buildAnswerPrompt(userMessage string, products []*domain.Product) string {
	return fmt.Sprintf(`Khách hỏi: %s

Sản phẩm liên quan (chỉ dùng thông tin dưới đây, không bịa):
%s

Yêu cầu phản hồi:
- Nếu có sản phẩm phù hợp: Đề xuất 1–3 lựa chọn phù hợp, nêu lý do ngắn (phong cách/size/dịp). Ghi rõ giá (VND) và link (nếu có).
- Nếu thiếu thông tin (ngân sách/size/màu/dịp): Hỏi lại đúng 1 câu.
- Nếu không có sản phẩm phù hợp: BẮT BUỘC trả lời chính xác câu này: "%s"`,
		userMessage, formatProducts(products), fallbackSentence)
}

// buildQueryPrompt просит модель свернуть описание фото
// в короткий поисковый запрос.
func buildQueryPrompt(imageDescription string) string {
	return fmt.Sprintf(`Dựa trên mô tả sản phẩm sau: "%s"

Hãy tạo ra một câu hỏi tìm kiếm ngắn gọn (1-2 câu) để tìm sản phẩm tương tự trong cửa hàng thời trang. Chỉ trả về câu hỏi, không giải thích thêm.`,
		imageDescription)
}

// formatProducts отображает товары в нумерованный контекст промпта.
func formatProducts(products []*domain.Product) string {
	if len(products) == 0 {
		return emptyProductList
	}

	lines := make([]string, 0, len(products))
	for i, p := range products {
		var sb strings.Builder

		sb.WriteString(fmt.Sprintf("[%d] %s — %s", i+1, p.Title, formatPriceVND(p.Price)))
		if len(p.Sizes) > 0 {
			sb.WriteString(" — size: " + strings.Join(p.Sizes, ", "))
		}
		if len(p.Colors) > 0 {
			sb.WriteString(" — màu: " + strings.Join(p.Colors, ", "))
		}
		if p.URL != "" {
			sb.WriteString(" — " + p.URL)
		}
		sb.WriteString("\nMô tả: " + truncate(p.Description, descriptionLimit))

		lines = append(lines, sb.String())
	}

	return strings.Join(lines, "\n\n")
}

// formatPriceVND отображает цену с вьетнамским разделителем тысяч: 590000 → "590.000 VND".
func formatPriceVND(price int64) string {
	negative := price < 0
	if negative {
		price = -price
	}

	digits := strconv.FormatInt(price, 10)

	var sb strings.Builder
	if negative {
		sb.WriteByte('-')
	}

	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
		if len(digits) > lead {
			sb.WriteByte('.')
		}
	}

	for i := lead; i < len(digits); i += 3 {
		sb.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			sb.WriteByte('.')
		}
	}

	return sb.String() + " VND"
}

// truncate обрезает текст до limit рун, добавляя многоточие.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	return string(runes[:limit]) + "…"
}
