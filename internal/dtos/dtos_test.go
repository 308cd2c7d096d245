package dtos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatrelay/internal/domain"
)

func TestNewMessageResponseIsSenderPerViewer(t *testing.T) {
	msg := &domain.Message{ID: "m1", ChatID: "c1", SenderID: "u1", Content: "hi"}

	forSender, err := NewMessageResponse(msg, "u1")
	require.NoError(t, err)
	assert.True(t, forSender.IsSender)

	forOther, err := NewMessageResponse(msg, "u2")
	require.NoError(t, err)
	assert.False(t, forOther.IsSender)
	assert.Nil(t, forOther.Attachments)
}

func TestNewChatResponse(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 30, 0, 0, time.FixedZone("X", 3600))
	chat := &domain.Chat{ID: "c1", Participants: "u1,u2", CreatedAt: created, UpdatedAt: created}

	resp := NewChatResponse(chat)
	assert.Equal(t, []string{"u1", "u2"}, resp.Participants)
	assert.Equal(t, "2024-05-01T09:30:00Z", resp.CreatedAt)
}

func TestNewMessageResponseRejectsCorruptAttachments(t *testing.T) {
	msg := &domain.Message{ID: "m1", Attachments: []byte("{not json")}
	_, err := NewMessageResponse(msg, "u1")
	assert.Error(t, err)
}
