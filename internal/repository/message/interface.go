package message

import (
	"context"

	"github.com/iyunix/go-chatrelay/internal/domain"
)

// MessageRepository handles message data operations.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	// FindByChatID returns every message of a chat in storage order.
	FindByChatID(ctx context.Context, chatID string) ([]domain.Message, error)
	// FindByIDAndChatID looks a message up by its composite key.
	FindByIDAndChatID(ctx context.Context, messageID, chatID string) (*domain.Message, error)
}
