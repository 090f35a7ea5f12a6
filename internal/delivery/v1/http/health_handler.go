package http

import (
	"net/http"

	"github.com/DRSN-tech/fashion-rag/internal/usecase"
	"github.com/DRSN-tech/fashion-rag/pkg/logger"
)

type HealthHandler struct {
	ragUsecase usecase.RagUC
	logger     logger.Logger
}

func NewHealthHandler(ragUsecase usecase.RagUC, logger logger.Logger) *HealthHandler {
	return &HealthHandler{ragUsecase: ragUsecase, logger: logger}
}

// health — liveness-проба. Никогда не возвращает ошибку: недоступность
// коллекции отражается в поле status деградированным значением.
func (h *HealthHandler) health(w http.ResponseWriter, r *http.Request) {
	info := h.ragUsecase.CollectionInfo(r.Context())

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"collection": info,
	})
}
