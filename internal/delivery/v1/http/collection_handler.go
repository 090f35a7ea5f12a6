package http

import (
	"net/http"

	"github.com/DRSN-tech/fashion-rag/internal/usecase"
	"github.com/DRSN-tech/fashion-rag/pkg/logger"
)

type CollectionHandler struct {
	ragUsecase usecase.RagUC
	logger     logger.Logger
}

func NewCollectionHandler(ragUsecase usecase.RagUC, logger logger.Logger) *CollectionHandler {
	return &CollectionHandler{ragUsecase: ragUsecase, logger: logger}
}

// info отдаёт размер и состояние векторной коллекции.
func (c *CollectionHandler) info(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, c.ragUsecase.CollectionInfo(r.Context()))
}

// reset полностью пересоздаёт коллекцию. Каталог не затрагивается.
func (c *CollectionHandler) reset(w http.ResponseWriter, r *http.Request) {
	if err := c.ragUsecase.ResetCollection(r.Context()); err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{"success": true})
}
