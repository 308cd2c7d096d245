// File: internal/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/iyunix/go-chatrelay/internal/middleware"
	"github.com/iyunix/go-chatrelay/internal/ratelimit"
	"github.com/iyunix/go-chatrelay/internal/services"
	"github.com/iyunix/go-chatrelay/internal/services/delivery"
)

// RouterDeps are the collaborators the HTTP surface is built from.
type RouterDeps struct {
	Validator      middleware.TokenValidator
	Limiter        *ratelimit.MemoryRateLimiter
	ClientIPs      *ratelimit.IPResolver
	ChatService    *services.ChatService
	MessageService *services.MessageService
	Hub            *delivery.Hub
	AllowedOrigins []string
	Logger         logrus.FieldLogger
}

// NewRouter wires every route behind the auth gate. The gate wraps the whole
// router so unmatched paths are authenticated as well; CORS sits outside it
// so preflight requests are answered without a token.
func NewRouter(deps RouterDeps) http.Handler {
	chatHandler := NewChatHandler(deps.ChatService, deps.Hub, deps.Logger)
	messageHandler := NewMessageHandler(deps.MessageService, deps.Logger)
	docsHandler := NewDocsHandler(deps.Logger)

	r := mux.NewRouter()

	r.HandleFunc("/openapi.json", docsHandler.Schema).Methods(http.MethodGet)
	r.HandleFunc("/docs", docsHandler.Docs).Methods(http.MethodGet)

	r.HandleFunc("/", Identity).Methods(http.MethodGet)
	r.HandleFunc("/chats/{chat_id}/send-message", messageHandler.SendMessage).Methods(http.MethodPost)
	r.HandleFunc("/chats/{chat_id}/subscribe", chatHandler.Subscribe).Methods(http.MethodGet)
	r.HandleFunc("/chats/{user1}/{user2}", chatHandler.ResolveChat).Methods(http.MethodGet)
	r.HandleFunc("/messages/{chat_id}", messageHandler.ListMessages).Methods(http.MethodGet)
	r.HandleFunc("/messages/{chat_id}/{message_id}", messageHandler.GetMessage).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	var h http.Handler = r
	h = middleware.NewAuthGate(deps.Validator, deps.Limiter, deps.ClientIPs, deps.Logger, middleware.DefaultExemptPaths)(h)
	h = middleware.NewRecoveryMiddleware(deps.Logger)(h)
	h = middleware.NewLoggingMiddleware(deps.Logger)(h)

	return cors.New(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(h)
}
