package chat

import (
	"context"

	"github.com/iyunix/go-chatrelay/internal/domain"
)

// ChatRepository handles chat data operations.
type ChatRepository interface {
	// FindByParticipants matches the canonical participant string exactly.
	FindByParticipants(ctx context.Context, participants string) (*domain.Chat, error)
	// CreateIfAbsent inserts chat unless a row with the same participants exists.
	// It reports whether this call wrote the row.
	CreateIfAbsent(ctx context.Context, chat *domain.Chat) (bool, error)
}
