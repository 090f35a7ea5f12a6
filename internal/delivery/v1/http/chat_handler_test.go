package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
	"github.com/DRSN-tech/fashion-rag/internal/usecase"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
)

type fakeChatUC struct {
	res    *usecase.ChatRes
	err    error
	gotReq *usecase.ChatReq
}

func (f *fakeChatUC) HandleMessage(_ context.Context, req *usecase.ChatReq) (*usecase.ChatRes, error) {
	f.gotReq = req
	return f.res, f.err
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

func postChat(t *testing.T, handler *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.handleMessage(rec, req)

	return rec
}

func TestHandleMessage_OK(t *testing.T) {
	uc := &fakeChatUC{res: usecase.NewChatRes("Dạ chị xem mẫu này ạ", []*domain.Product{
		{ExternalID: "d001", Title: "Đầm đen ôm", Price: 590000, Currency: "VND"},
	})}
	handler := NewChatHandler(uc, nopLogger{})

	rec := postChat(t, handler, `{"message":"tìm đầm đen","filters":{"color":"đen","price_max":700000}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if res.Reply != "Dạ chị xem mẫu này ạ" {
		t.Errorf("reply mismatch: %q", res.Reply)
	}
	if len(res.Products) != 1 || res.Products[0].ExternalID != "d001" {
		t.Errorf("products mismatch: %+v", res.Products)
	}

	if uc.gotReq.Filter == nil || uc.gotReq.Filter.Color != "đen" || *uc.gotReq.Filter.PriceMax != 700000 {
		t.Errorf("filters must reach the usecase: %+v", uc.gotReq.Filter)
	}
}

func TestHandleMessage_ValidationErrorIs400(t *testing.T) {
	handler := NewChatHandler(&fakeChatUC{err: e.Wrap("ChatUseCase.HandleMessage", e.ErrEmptyMessage)}, nopLogger{})

	rec := postChat(t, handler, `{"message":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("validation error must map to 400, got %d", rec.Code)
	}
}

func TestHandleMessage_BackendFailureIsApologetic200(t *testing.T) {
	handler := NewChatHandler(&fakeChatUC{err: errors.New("qdrant: connection refused")}, nopLogger{})

	rec := postChat(t, handler, `{"message":"tìm đầm đen"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("backend failure must not surface to the client, got %d", rec.Code)
	}

	var res chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if res.Reply != apologeticReply {
		t.Errorf("expected the apologetic reply, got %q", res.Reply)
	}
	if len(res.Products) != 0 {
		t.Errorf("apologetic reply must carry no products")
	}
}

func TestHandleMessage_MalformedJSON(t *testing.T) {
	handler := NewChatHandler(&fakeChatUC{}, nopLogger{})

	rec := postChat(t, handler, `{"message":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestHandleImageMessage_NotMultipart(t *testing.T) {
	handler := NewChatHandler(&fakeChatUC{}, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/image", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.handleImageMessage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-multipart request, got %d", rec.Code)
	}
}

func TestHandleImageMessage_MissingFile(t *testing.T) {
	handler := NewChatHandler(&fakeChatUC{}, nopLogger{})

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	form.WriteField("message", "tìm giúp em mẫu này")
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/image", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.handleImageMessage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when the image part is missing, got %d", rec.Code)
	}
}

func TestHandleImageMessage_NonImagePayload(t *testing.T) {
	handler := NewChatHandler(&fakeChatUC{}, nopLogger{})

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, _ := form.CreateFormFile("image", "notes.txt")
	part.Write([]byte("đây không phải là ảnh, chỉ là văn bản thường thôi nhé"))
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/image", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.handleImageMessage(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415 for non-image payload, got %d", rec.Code)
	}
}

func TestHandleImageMessage_OK(t *testing.T) {
	uc := &fakeChatUC{res: usecase.NewChatRes("Dạ đây là các mẫu tương tự ạ", nil)}
	handler := NewChatHandler(uc, nopLogger{})

	// минимальный валидный PNG-заголовок: DetectContentType видит image/png
	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	form.WriteField("message", "tìm giúp em mẫu này")
	part, _ := form.CreateFormFile("image", "mau.png")
	part.Write(pngHeader)
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/image", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.handleImageMessage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if uc.gotReq.Image == nil {
		t.Fatalf("image must reach the usecase")
	}
	if uc.gotReq.Image.MimeType != "image/png" {
		t.Errorf("detected mime mismatch: %q", uc.gotReq.Image.MimeType)
	}
	if uc.gotReq.Message != "tìm giúp em mẫu này" {
		t.Errorf("message mismatch: %q", uc.gotReq.Message)
	}
}
