// Package correlation связывает запрос со сквозным идентификатором для логов.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

type idKey struct{}

// NewID генерирует новый сквозной идентификатор запроса.
func NewID() string {
	return uuid.NewString()
}

// WithID кладёт идентификатор запроса в контекст.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// FromCtx возвращает идентификатор запроса из контекста.
// Если идентификатор не задан, генерируется новый.
func FromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(idKey{}).(string); ok && id != "" {
		return id
	}

	return NewID()
}
