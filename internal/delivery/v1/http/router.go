package http

import (
	"net/http"

	"github.com/DRSN-tech/fashion-rag/internal/usecase"
	"github.com/DRSN-tech/fashion-rag/pkg/correlation"
	"github.com/DRSN-tech/fashion-rag/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const correlationHeader = "X-Correlation-Id"

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(ragUC usecase.RagUC, chatUC usecase.ChatUC) {
	r.router.Use(correlationMiddleware)

	healthHandler := NewHealthHandler(ragUC, r.logger)
	r.router.Get("/health", healthHandler.health)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		chatHandler := NewChatHandler(chatUC, r.logger)
		registerChatRoutes(v1, chatHandler)

		productHandler := NewProductHandler(ragUC, r.logger)
		registerProductRoutes(v1, productHandler)

		collectionHandler := NewCollectionHandler(ragUC, r.logger)
		registerCollectionRoutes(v1, collectionHandler)
	})
}

func registerChatRoutes(router chi.Router, chatHandler *ChatHandler) {
	router.Route("/chat", func(ch chi.Router) {
		ch.Post("/", chatHandler.handleMessage)
		ch.Post("/image", chatHandler.handleImageMessage)
	})
}

func registerProductRoutes(router chi.Router, productHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", productHandler.ingestProducts)
		pr.Get("/", productHandler.getProducts)
		pr.Delete("/{externalID}", productHandler.deleteProduct)
	})
	router.Post("/search", productHandler.search)
}

func registerCollectionRoutes(router chi.Router, collectionHandler *CollectionHandler) {
	router.Route("/collection", func(col chi.Router) {
		col.Get("/", collectionHandler.info)
		col.Delete("/", collectionHandler.reset)
	})
}

// correlationMiddleware прокидывает сквозной идентификатор запроса
// из заголовка в контекст и обратно в ответ.
func correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(correlationHeader)
		if id == "" {
			id = correlation.NewID()
		}

		w.Header().Set(correlationHeader, id)
		next.ServeHTTP(w, r.WithContext(correlation.WithID(r.Context(), id)))
	})
}
