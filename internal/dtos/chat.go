// File: internal/dtos/chat.go
package dtos

import (
	"time"

	"github.com/iyunix/go-chatrelay/internal/domain"
)

// TimestampLayout is used for every timestamp leaving the API.
const TimestampLayout = time.RFC3339Nano

// ChatResponseDTO is the resolved chat as returned to callers.
type ChatResponseDTO struct {
	ID           string   `json:"id"`
	Participants []string `json:"participants"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func NewChatResponse(chat *domain.Chat) ChatResponseDTO {
	return ChatResponseDTO{
		ID:           chat.ID,
		Participants: chat.ParticipantList(),
		CreatedAt:    formatTime(chat.CreatedAt),
		UpdatedAt:    formatTime(chat.UpdatedAt),
	}
}

// IdentityResponseDTO echoes the authenticated caller.
type IdentityResponseDTO struct {
	Message     string                 `json:"message"`
	UserID      string                 `json:"user_id"`
	Email       string                 `json:"email"`
	FullPayload map[string]interface{} `json:"full_payload"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
