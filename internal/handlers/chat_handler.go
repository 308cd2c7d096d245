// File: internal/handlers/chat_handler.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iyunix/go-chatrelay/internal/dtos"
	"github.com/iyunix/go-chatrelay/internal/services"
	"github.com/iyunix/go-chatrelay/internal/services/delivery"
)

type ChatHandler struct {
	ChatService *services.ChatService
	Hub         *delivery.Hub
	logger      logrus.FieldLogger
}

func NewChatHandler(cs *services.ChatService, hub *delivery.Hub, logger logrus.FieldLogger) *ChatHandler {
	return &ChatHandler{
		ChatService: cs,
		Hub:         hub,
		logger:      logger.WithField("component", "ChatHandler"),
	}
}

// ResolveChat returns the chat shared by user1 and user2, creating it if needed.
func (h *ChatHandler) ResolveChat(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	chat, err := h.ChatService.ResolveOrCreate(r.Context(), vars["user1"], vars["user2"])
	if err != nil {
		h.logger.WithError(err).Warn("chat resolution failed")
		writeServiceError(w, err, "Error processing chat request")
		return
	}

	writeJSON(w, http.StatusOK, dtos.NewChatResponse(chat))
}
