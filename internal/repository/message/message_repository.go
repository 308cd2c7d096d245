package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/iyunix/go-chatrelay/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

func NewMessageRepository(db *gorm.DB, logger logrus.FieldLogger) MessageRepository {
	return &gormMessageRepository{db: db, logger: logger.WithField("component", "MessageRepository")}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		// Content stays out of the log.
		r.logger.WithError(err).WithField("chat_id", message.ChatID).Error("database error during message creation")
		return nil, fmt.Errorf("create message: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"message_id": message.ID,
		"chat_id":    message.ChatID,
	}).Debug("message created")
	return message, nil
}

func (r *gormMessageRepository) FindByChatID(ctx context.Context, chatID string) ([]domain.Message, error) {
	if chatID == "" {
		return nil, errors.New("invalid chat ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).Find(&messages).Error
	if err != nil {
		r.logger.WithError(err).WithField("chat_id", chatID).Error("database error fetching messages")
		return nil, fmt.Errorf("find messages: %w", err)
	}

	return messages, nil
}

func (r *gormMessageRepository) FindByIDAndChatID(ctx context.Context, messageID, chatID string) (*domain.Message, error) {
	if messageID == "" || chatID == "" {
		return nil, errors.New("invalid message ID or chat ID")
	}

	var message domain.Message
	err := r.db.WithContext(ctx).
		Where("id = ? AND chat_id = ?", messageID, chatID).
		First(&message).Error
	return r.handleFindError(err, &message, "FindByIDAndChatID")
}

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ID == "" || message.ChatID == "" {
		return errors.New("message ID and chat ID are required")
	}
	if message.SenderID == "" {
		return errors.New("sender ID is required")
	}
	if message.Content == "" {
		return errors.New("message content cannot be empty")
	}
	return nil
}

func (r *gormMessageRepository) handleFindError(err error, message *domain.Message, operation string) (*domain.Message, error) {
	if err == nil {
		return message, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}

	r.logger.WithError(err).WithField("operation", operation).Error("database query failed")
	return nil, fmt.Errorf("%s: %w", operation, err)
}
