package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/fashion-rag/internal/cfg"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
	"github.com/DRSN-tech/fashion-rag/pkg/jitter"
	"github.com/DRSN-tech/fashion-rag/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/sashabaranov/go-openai"
)

const retryBackoffBase = 500 * time.Millisecond

// Client — шлюз к hosted-моделям эмбеддингов и чата через OpenAI-совместимый API.
type Client struct {
	api    *openai.Client
	cfg    *cfg.LlmCfg
	logger logger.Logger
}

func NewClient(cfg *cfg.LlmCfg, logger logger.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.ApiKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:    openai.NewClientWithConfig(apiCfg),
		cfg:    cfg,
		logger: logger,
	}
}

// Embed превращает текст в вектор фиксированной размерности.
// Пустой текст — ошибка вызывающей стороны, сеть не трогаем.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrEmptyMessage)
	}

	var vector []float32

	err := c.withRetry(ctx, func(ctx context.Context) error {
		resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input:      []string{text},
			Model:      openai.EmbeddingModel(c.cfg.EmbeddingModel),
			Dimensions: c.cfg.VectorSize,
		})
		if err != nil {
			return err
		}

		if len(resp.Data) == 0 {
			return e.ErrVectorEmbeddingEmpty
		}

		vector = resp.Data[0].Embedding

		return nil
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(vector) != c.cfg.VectorSize {
		return nil, e.Wrap(whereami.WhereAmI(),
			fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vector), c.cfg.VectorSize))
	}

	return vector, nil
}

// Complete выполняет чат-запрос и возвращает текст ответа модели.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var answer string

	err := c.withRetry(ctx, func(ctx context.Context) error {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.cfg.ChatModel,
			Temperature: c.cfg.Temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return err
		}

		if len(resp.Choices) == 0 {
			return fmt.Errorf("chat completion returned no choices")
		}

		answer = resp.Choices[0].Message.Content

		return nil
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return answer, nil
}

// DescribeImage описывает изображение на вьетнамском языке через vision-модель.
// Сообщение клиента идёт первым в текстовой части: оно направляет описание.
// Изображение передаётся inline как data-URL.
func (c *Client) DescribeImage(ctx context.Context, data []byte, mimeType, userMessage string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
	text := userMessage + "\n\nHãy mô tả chi tiết về màu sắc, kiểu dáng, phong cách của sản phẩm trong ảnh để tôi có thể tìm kiếm sản phẩm tương tự."

	var description string

	err := c.withRetry(ctx, func(ctx context.Context) error {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.cfg.ChatModel,
			Temperature: c.cfg.Temperature,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{
							Type: openai.ChatMessagePartTypeText,
							Text: text,
						},
						{
							Type:     openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
						},
					},
				},
			},
		})
		if err != nil {
			return err
		}

		if len(resp.Choices) == 0 {
			return fmt.Errorf("vision completion returned no choices")
		}

		description = resp.Choices[0].Message.Content

		return nil
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return description, nil
}

// withRetry повторяет запрос при 429, 5xx и транспортных ошибках.
// Каждая попытка получает собственный таймаут.
func (c *Client) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := jitter.ExponentialBackoff(retryBackoffBase, 10*time.Second, attempt, jitter.DefaultJitter)
			c.logger.Warnf("повтор запроса к LLM, попытка %d через %s: %v", attempt, backoff, lastErr)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
		lastErr = fn(callCtx)
		cancel()

		if lastErr == nil {
			return nil
		}

		if !isRetryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

// isRetryable: повторяем только перегрузку и транспортные сбои,
// ошибки валидации (400, 401, 404) повторами не лечатся.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}

	// не-API ошибка — обрыв соединения, таймаут и т.п.
	return !errors.Is(err, context.Canceled)
}
