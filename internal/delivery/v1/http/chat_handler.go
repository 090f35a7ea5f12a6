package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DRSN-tech/fashion-rag/internal/usecase"
	"github.com/DRSN-tech/fashion-rag/pkg/correlation"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
	"github.com/DRSN-tech/fashion-rag/pkg/logger"
)

// Сбой бэкенда не должен ронять диалог: вместо сырой ошибки клиент
// получает извинение.
const apologeticReply = "Dạ em xin lỗi, hệ thống đang gặp chút trục trặc ạ. Chị vui lòng thử lại sau ít phút giúp em nhé!"

type ChatHandler struct {
	chatUsecase usecase.ChatUC
	logger      logger.Logger
}

func NewChatHandler(chatUsecase usecase.ChatUC, logger logger.Logger) *ChatHandler {
	return &ChatHandler{chatUsecase: chatUsecase, logger: logger}
}

type chatRequest struct {
	Message string     `json:"message"`
	Filters *filterDTO `json:"filters,omitempty"`
}

type chatResponse struct {
	Reply    string        `json:"reply"`
	Products []productView `json:"products"`
}

// handleMessage обрабатывает текстовое сообщение чата.
func (c *ChatHandler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warnf("%d failed to decode chat request: %s", http.StatusBadRequest, err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	res, err := c.chatUsecase.HandleMessage(r.Context(), usecase.NewChatReq(req.Message, req.Filters.toDomain(), nil))
	if err != nil {
		c.respondError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, chatResponse{
		Reply:    res.Reply,
		Products: toProductViews(res.Products),
	})
}

// handleImageMessage обрабатывает сообщение с референс-фото (multipart).
func (c *ChatHandler) handleImageMessage(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 16 << 20
		maxFileSize         = 15 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	message := r.FormValue("message")

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		c.logger.Warnf("%d image file is missing", http.StatusBadRequest)
		WriteError(w, e.ErrMissingFields)
		return
	}

	data, mimeType, err := readImageFile(files[0], maxFileSize)
	if err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	var filter *filterDTO
	if raw := r.FormValue("filters"); raw != "" {
		filter = &filterDTO{}
		if err := json.Unmarshal([]byte(raw), filter); err != nil {
			c.logger.Warnf("%d failed to decode filters: %s", http.StatusBadRequest, err.Error())
			WriteError(w, e.ErrStatusBadRequest)
			return
		}
	}

	image := usecase.NewChatImage(data, mimeType, int64(len(data)), files[0].Filename)

	res, err := c.chatUsecase.HandleMessage(r.Context(), usecase.NewChatReq(message, filter.toDomain(), image))
	if err != nil {
		c.respondError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, chatResponse{
		Reply:    res.Reply,
		Products: toProductViews(res.Products),
	})
}

// respondError: ошибки валидации возвращаются как 4xx, сбои бэкенда
// превращаются в извинение со статусом 200.
func (c *ChatHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, e.ErrEmptyMessage) ||
		errors.Is(err, e.ErrUnsupportedMediaType) ||
		errors.Is(err, e.ErrFileTooLarge) {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	c.logger.Errorf(err, "chat backend failure, correlation_id: %s", correlation.FromCtx(r.Context()))
	WriteSuccess(w, http.StatusOK, chatResponse{
		Reply:    apologeticReply,
		Products: []productView{},
	})
}
