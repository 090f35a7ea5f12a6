package usecase

import "context"

// Embedder превращает текст в вектор фиксированной размерности.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChatModel — hosted-модель генерации ответов, включая vision-описание фото.
// userMessage передаётся vision-модели вместе с фото: текст клиента
// направляет описание («màu đỏ» в сообщении — красный в описании).
type ChatModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
	DescribeImage(ctx context.Context, data []byte, mimeType, userMessage string) (string, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
