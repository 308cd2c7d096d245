// File: internal/dtos/message.go
package dtos

import (
	"github.com/iyunix/go-chatrelay/internal/domain"
)

// SendMessageRequestDTO is the body of a send-message call. The sender is
// never read from the body.
type SendMessageRequestDTO struct {
	Content     string              `json:"content" validate:"required"`
	Attachments []domain.Attachment `json:"attachments,omitempty" validate:"omitempty,dive,required"`
}

// MessageResponseDTO is a message rendered for one viewer. IsSender is
// computed per call and never stored.
type MessageResponseDTO struct {
	ID          string              `json:"id"`
	ChatID      string              `json:"chat_id"`
	SenderID    string              `json:"sender_id"`
	Content     string              `json:"content"`
	Attachments []domain.Attachment `json:"attachments"`
	IsRead      bool                `json:"is_read"`
	IsSender    bool                `json:"is_sender"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

// NewMessageResponse projects msg for the viewer identified by viewerID.
func NewMessageResponse(msg *domain.Message, viewerID string) (MessageResponseDTO, error) {
	attachments, err := msg.AttachmentList()
	if err != nil {
		return MessageResponseDTO{}, err
	}
	return MessageResponseDTO{
		ID:          msg.ID,
		ChatID:      msg.ChatID,
		SenderID:    msg.SenderID,
		Content:     msg.Content,
		Attachments: attachments,
		IsRead:      msg.IsRead,
		IsSender:    msg.SenderID == viewerID,
		CreatedAt:   formatTime(msg.CreatedAt),
		UpdatedAt:   formatTime(msg.UpdatedAt),
	}, nil
}

// EnvelopeDTO wraps successful message responses.
type EnvelopeDTO struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
}

func Success(data interface{}) EnvelopeDTO {
	return EnvelopeDTO{Message: "Success", Data: data, Success: true}
}

// ErrorResponseDTO is the body of every error response.
type ErrorResponseDTO struct {
	Detail string `json:"detail"`
}
