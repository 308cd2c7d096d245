package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iyunix/go-chatrelay/internal/dtos"
	"github.com/iyunix/go-chatrelay/internal/middleware"
	"github.com/iyunix/go-chatrelay/internal/services"
)

const maxBodyBytes = 1 << 20

type MessageHandler struct {
	MessageService *services.MessageService
	logger         logrus.FieldLogger
}

func NewMessageHandler(ms *services.MessageService, logger logrus.FieldLogger) *MessageHandler {
	return &MessageHandler{
		MessageService: ms,
		logger:         logger.WithField("component", "MessageHandler"),
	}
}

// SendMessage stores a message from the caller and pushes it to subscribers.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req dtos.SendMessageRequestDTO
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}

	chatID := mux.Vars(r)["chat_id"]
	msg, err := h.MessageService.Send(r.Context(), user, chatID, req)
	if err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Warn("send message failed")
		writeServiceError(w, err, "Error sending message")
		return
	}

	writeJSON(w, http.StatusOK, dtos.Success(msg))
}

// ListMessages returns every message of a chat.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	chatID := mux.Vars(r)["chat_id"]

	messages, err := h.MessageService.List(r.Context(), user, chatID)
	if err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Warn("list messages failed")
		writeServiceError(w, err, "Error retrieving messages")
		return
	}

	writeJSON(w, http.StatusOK, dtos.Success(messages))
}

// GetMessage returns a single message by chat and message id.
func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	vars := mux.Vars(r)

	msg, err := h.MessageService.Get(r.Context(), user, vars["message_id"], vars["chat_id"])
	if err != nil {
		writeServiceError(w, err, "Error retrieving message")
		return
	}

	writeJSON(w, http.StatusOK, dtos.Success(msg))
}
