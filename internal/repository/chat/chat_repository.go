package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iyunix/go-chatrelay/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")

type gormChatRepository struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

func NewChatRepository(db *gorm.DB, logger logrus.FieldLogger) ChatRepository {
	return &gormChatRepository{db: db, logger: logger.WithField("component", "ChatRepository")}
}

func (r *gormChatRepository) FindByParticipants(ctx context.Context, participants string) (*domain.Chat, error) {
	if participants == "" {
		return nil, errors.New("invalid participants")
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).Where("participants = ?", participants).First(&chat).Error
	return r.handleFindError(err, &chat, "FindByParticipants")
}

func (r *gormChatRepository) CreateIfAbsent(ctx context.Context, chat *domain.Chat) (bool, error) {
	if chat == nil || chat.ID == "" || chat.Participants == "" {
		return false, errors.New("chat ID and participants are required")
	}

	// The unique index on participants turns a losing concurrent insert into a no-op.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(chat)
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("chat_id", chat.ID).Error("database error during chat creation")
		return false, fmt.Errorf("create chat: %w", result.Error)
	}

	created := result.RowsAffected > 0
	if created {
		r.logger.WithField("chat_id", chat.ID).Debug("chat created")
	}
	return created, nil
}

// handleFindError maps gorm.ErrRecordNotFound to ErrChatNotFound and wraps the rest.
func (r *gormChatRepository) handleFindError(err error, chat *domain.Chat, operation string) (*domain.Chat, error) {
	if err == nil {
		return chat, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}

	r.logger.WithError(err).WithField("operation", operation).Error("database query failed")
	return nil, fmt.Errorf("%s: %w", operation, err)
}
