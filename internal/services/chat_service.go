package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/iyunix/go-chatrelay/internal/domain"
	"github.com/iyunix/go-chatrelay/internal/repository/chat"
)

// ChatService resolves the single chat shared by a pair of users.
type ChatService struct {
	chatRepo chat.ChatRepository
	inflight singleflight.Group
	logger   logrus.FieldLogger
}

func NewChatService(chatRepo chat.ChatRepository, logger logrus.FieldLogger) (*ChatService, error) {
	if chatRepo == nil {
		return nil, NewValidationError("constructor", "chat repository is required")
	}
	return &ChatService{
		chatRepo: chatRepo,
		logger:   logger.WithField("component", "ChatService"),
	}, nil
}

// ResolveOrCreate returns the chat for {userA, userB}, creating it on first use.
// Argument order does not matter. Concurrent callers for the same pair share one
// lookup in this process, and the unique participants index settles races
// between processes.
func (s *ChatService) ResolveOrCreate(ctx context.Context, userA, userB string) (*domain.Chat, error) {
	participants, err := domain.CanonicalParticipants(userA, userB)
	if err != nil {
		return nil, NewValidationError("resolve_chat", err.Error())
	}

	// Callers sharing this flight must not fail because the first one hung up.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.inflight.Do(participants, func() (interface{}, error) {
		return s.resolve(flightCtx, participants)
	})
	if err != nil {
		return nil, err
	}

	if shared {
		s.logger.WithField("participants", participants).Debug("chat resolution shared with concurrent caller")
	}
	resolved := v.(domain.Chat)
	return &resolved, nil
}

func (s *ChatService) resolve(ctx context.Context, participants string) (domain.Chat, error) {
	existing, err := s.chatRepo.FindByParticipants(ctx, participants)
	if err == nil {
		return *existing, nil
	}
	if !errors.Is(err, chat.ErrChatNotFound) {
		return domain.Chat{}, NewStorageError("resolve_chat", "could not look up chat", err)
	}

	candidate := &domain.Chat{ID: uuid.NewString(), Participants: participants}
	created, err := s.chatRepo.CreateIfAbsent(ctx, candidate)
	if err != nil {
		return domain.Chat{}, NewStorageError("resolve_chat", "could not create chat", err)
	}
	if created {
		s.logger.WithFields(logrus.Fields{
			"chat_id":      candidate.ID,
			"participants": participants,
		}).Info("Chat created")
		return *candidate, nil
	}

	// Another writer won the insert; return its row.
	winner, err := s.chatRepo.FindByParticipants(ctx, participants)
	if err != nil {
		return domain.Chat{}, NewStorageError("resolve_chat", "could not load concurrently created chat", err)
	}
	return *winner, nil
}
