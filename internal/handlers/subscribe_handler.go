package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-chatrelay/internal/middleware"
)

// Subscribe upgrades the request to a websocket that receives every message
// published to the chat.
func (h *ChatHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	if h.Hub == nil {
		writeError(w, http.StatusServiceUnavailable, "Live delivery is not enabled")
		return
	}

	chatID := mux.Vars(r)["chat_id"]
	// The upgrader has already answered the client when this fails.
	if err := h.Hub.ServeChat(w, r, chatID, user.UserID); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Debug("subscription ended")
	}
}
