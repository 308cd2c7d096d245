package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iyunix/go-chatrelay/internal/auth"
	"github.com/iyunix/go-chatrelay/internal/domain"
	"github.com/iyunix/go-chatrelay/internal/dtos"
	"github.com/iyunix/go-chatrelay/internal/repository/message"
	"github.com/iyunix/go-chatrelay/internal/services/delivery"
)

// MessageService stores chat messages and announces new ones.
type MessageService struct {
	messageRepo message.MessageRepository
	publisher   delivery.Publisher
	validate    *validator.Validate
	logger      logrus.FieldLogger
}

func NewMessageService(
	messageRepo message.MessageRepository,
	publisher delivery.Publisher,
	logger logrus.FieldLogger,
) (*MessageService, error) {
	if messageRepo == nil {
		return nil, NewValidationError("constructor", "message repository is required")
	}
	if publisher == nil {
		publisher = delivery.Nop{}
	}
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &MessageService{
		messageRepo: messageRepo,
		publisher:   publisher,
		validate:    validate,
		logger:      logger.WithField("component", "MessageService"),
	}, nil
}

// Send persists a message from viewer into chatID and then publishes it.
// The request is validated before anything is written. A failed publish is
// logged; the stored message is still returned.
func (s *MessageService) Send(ctx context.Context, viewer *auth.User, chatID string, req dtos.SendMessageRequestDTO) (*dtos.MessageResponseDTO, error) {
	if viewer == nil || viewer.UserID == "" {
		return nil, NewValidationError("send_message", "sender is required")
	}
	if strings.TrimSpace(chatID) == "" {
		return nil, NewValidationError("send_message", "chat ID is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("send_message", describeValidation(err))
	}

	msg := &domain.Message{
		ID:       uuid.NewString(),
		ChatID:   chatID,
		SenderID: viewer.UserID,
		Content:  req.Content,
	}
	if err := msg.SetAttachments(req.Attachments); err != nil {
		return nil, NewValidationError("send_message", "attachments must be a list of objects")
	}

	stored, err := s.messageRepo.Create(ctx, msg)
	if err != nil {
		return nil, NewStorageError("send_message", "could not store message", err)
	}

	view, err := dtos.NewMessageResponse(stored, viewer.UserID)
	if err != nil {
		return nil, NewStorageError("send_message", "could not decode stored message", err)
	}

	if err := s.publisher.Publish(ctx, chatID, viewer.UserID, map[string]interface{}{"message": view}); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"chat_id":    chatID,
			"message_id": stored.ID,
		}).Warn("message stored but delivery failed")
	}

	return &view, nil
}

// List returns every message in chatID as seen by viewer, in storage order.
func (s *MessageService) List(ctx context.Context, viewer *auth.User, chatID string) ([]dtos.MessageResponseDTO, error) {
	if strings.TrimSpace(chatID) == "" {
		return nil, NewValidationError("list_messages", "chat ID is required")
	}

	messages, err := s.messageRepo.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, NewStorageError("list_messages", "could not load messages", err)
	}

	out := make([]dtos.MessageResponseDTO, 0, len(messages))
	for i := range messages {
		view, err := dtos.NewMessageResponse(&messages[i], viewerID(viewer))
		if err != nil {
			return nil, NewStorageError("list_messages", "could not decode stored message", err)
		}
		out = append(out, view)
	}
	return out, nil
}

// Get returns one message by its composite key.
func (s *MessageService) Get(ctx context.Context, viewer *auth.User, messageID, chatID string) (*dtos.MessageResponseDTO, error) {
	if strings.TrimSpace(messageID) == "" || strings.TrimSpace(chatID) == "" {
		return nil, NewValidationError("get_message", "message ID and chat ID are required")
	}

	msg, err := s.messageRepo.FindByIDAndChatID(ctx, messageID, chatID)
	if err != nil {
		if errors.Is(err, message.ErrMessageNotFound) {
			return nil, NewNotFoundError("get_message", fmt.Sprintf("Message with ID %s not found in chat %s", messageID, chatID))
		}
		return nil, NewStorageError("get_message", "could not load message", err)
	}

	view, err := dtos.NewMessageResponse(msg, viewerID(viewer))
	if err != nil {
		return nil, NewStorageError("get_message", "could not decode stored message", err)
	}
	return &view, nil
}

func viewerID(viewer *auth.User) string {
	if viewer == nil {
		return ""
	}
	return viewer.UserID
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
