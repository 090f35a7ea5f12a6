package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки с векторами
	ErrEmptyVectors         = fmt.Errorf("empty vectors")
	ErrVectorEmbeddingEmpty = fmt.Errorf("vector embedding is empty")

	// 400 Bad Request
	ErrNoProducts           = fmt.Errorf("no products provided")
	ErrExternalIDRequired   = fmt.Errorf("product external id is required")
	ErrTitleRequired        = fmt.Errorf("product title is required")
	ErrDescriptionRequired  = fmt.Errorf("product description is required")
	ErrPriceNegative        = fmt.Errorf("price must not be negative")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must be a whole amount of VND")
	ErrEmptyMessage         = fmt.Errorf("message is required")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrFileTooLarge         = fmt.Errorf("file is too large")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrStatusBadRequest     = fmt.Errorf("bad request")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 409 Conflict
	ErrProductExists = fmt.Errorf("product with this external id already exists")

	// 5xx
	ErrUpstreamUnavailable = fmt.Errorf("upstream service unavailable")
	ErrInternalServerError = fmt.Errorf("internal server error")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
