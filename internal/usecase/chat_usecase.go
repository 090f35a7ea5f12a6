package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
	"github.com/DRSN-tech/fashion-rag/pkg/logger"
	"github.com/google/uuid"
)

// Приветственный pre-filter: такие сообщения получают готовый ответ
// без обращения к поиску и модели.
var greetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(xin chào|chào|hello|hi|hey|chào bạn|chào anh|chào chị|chào em)$`),
	regexp.MustCompile(`^(good morning|good afternoon|good evening)$`),
	regexp.MustCompile(`^(chào buổi sáng|chào buổi chiều|chào buổi tối)$`),
	regexp.MustCompile(`^(hế lô|hê lô|alo)$`),
}

var greetingResponses = []string{
	"Xin chào! 👋 Chào mừng bạn đến với cửa hàng thời trang của chúng tôi! Tôi rất vui được hỗ trợ bạn tìm những sản phẩm phù hợp. Bạn đang tìm kiếm gì hôm nay?",
	"Chào bạn! 😊 Cảm ơn bạn đã ghé thăm cửa hàng! Tôi là nhân viên tư vấn và sẵn sàng giúp bạn tìm những bộ trang phục đẹp nhất. Bạn có nhu cầu gì đặc biệt không?",
	"Hello! 🌟 Chào mừng bạn! Tôi rất hân hạnh được phục vụ bạn tại cửa hàng thời trang. Hãy cho tôi biết bạn đang tìm kiếm loại trang phục nào nhé!",
	"Xin chào! 💕 Chào mừng bạn đến với không gian thời trang của chúng tôi! Tôi sẽ giúp bạn tìm được những sản phẩm phù hợp với phong cách và ngân sách. Bạn có gì cần tư vấn không?",
}

// ChatUseCase — диалоговый слой поверх поиска: приветствия, фото-запросы,
// заземлённые ответы модели.
type ChatUseCase struct {
	rag       RagUC
	chatModel ChatModel
	imageRepo ImageRepository
	logger    logger.Logger
}

func NewChatUC(rag RagUC, chatModel ChatModel, imageRepo ImageRepository, logger logger.Logger) *ChatUseCase {
	return &ChatUseCase{
		rag:       rag,
		chatModel: chatModel,
		imageRepo: imageRepo,
		logger:    logger,
	}
}

// HandleMessage обрабатывает сообщение чата. Фото превращается в текстовый
// запрос через vision-описание; ответ модели строится строго по найденным
// товарам и не упоминает ничего вне их.
func (c *ChatUseCase) HandleMessage(ctx context.Context, req *ChatReq) (*ChatRes, error) {
	const op = "ChatUseCase.HandleMessage"

	if strings.TrimSpace(req.Message) == "" && req.Image == nil {
		return nil, e.Wrap(op, e.ErrEmptyMessage)
	}

	if req.Image == nil && isGreeting(req.Message) {
		return NewChatRes(pickGreeting(), nil), nil
	}

	searchQuery := req.Message
	imageDescription := ""

	if req.Image != nil {
		var err error
		imageDescription, err = c.chatModel.DescribeImage(ctx, req.Image.Data, req.Image.MimeType, req.Message)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		// референс-фото сохраняется best-effort: его потеря не ломает диалог
		c.saveReferenceImage(ctx, req.Image)

		searchQuery, err = c.chatModel.Complete(ctx, buildQueryPrompt(imageDescription))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	hits, err := c.rag.Search(ctx, NewSearchReq(searchQuery, req.Filter, 0))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	products := make([]*domain.Product, 0, len(hits))
	for i := range hits {
		products = append(products, &hits[i].Product)
	}

	userMessage := req.Message
	if imageDescription != "" {
		userMessage = "Dựa trên ảnh bạn gửi, tôi đã phân tích và tìm được các sản phẩm tương tự. " + req.Message
	}

	reply, err := c.chatModel.Complete(ctx, buildAnswerPrompt(userMessage, products))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// описание фото добавляется к ответу как заметка для прозрачности
	if imageDescription != "" {
		reply += fmt.Sprintf("\n\n*Mô tả ảnh: %s*", imageDescription)
	}

	return NewChatRes(reply, products), nil
}

// saveReferenceImage загружает фото клиента в объектное хранилище.
// Ошибка логируется и не прерывает обработку сообщения.
func (c *ChatUseCase) saveReferenceImage(ctx context.Context, image *ChatImage) {
	objectKey := uuid.NewString() + extensionFor(image.MimeType)
	size := image.Size
	mimeType := image.MimeType

	ref := domain.NewImage(objectKey, "", objectKey, image.Data, &size, &mimeType)
	if _, err := c.imageRepo.Upload(ctx, ref); err != nil {
		c.logger.Warnf("Failed to store reference image %s: %v", image.Name, err)
	}
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

func isGreeting(message string) bool {
	clean := strings.ToLower(strings.TrimSpace(message))
	for _, pattern := range greetingPatterns {
		if pattern.MatchString(clean) {
			return true
		}
	}

	return false
}

func pickGreeting() string {
	return greetingResponses[rand.IntN(len(greetingResponses))]
}
