package message

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatrelay/internal/domain"
	"github.com/iyunix/go-chatrelay/internal/storage/storagetest"
)

func newTestRepo(t *testing.T) MessageRepository {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return NewMessageRepository(storagetest.Open(t), logger)
}

func newMessage(chatID, content string) *domain.Message {
	return &domain.Message{ID: uuid.NewString(), ChatID: chatID, SenderID: "u1", Content: content}
}

func TestCreateAndFindByCompositeKey(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	msg := newMessage("c1", "hi")
	require.NoError(t, msg.SetAttachments([]domain.Attachment{{"name": "a.txt"}}))
	_, err := repo.Create(ctx, msg)
	require.NoError(t, err)

	found, err := repo.FindByIDAndChatID(ctx, msg.ID, "c1")
	require.NoError(t, err)
	assert.Equal(t, "hi", found.Content)
	assert.Equal(t, "u1", found.SenderID)
	assert.False(t, found.IsRead)

	attachments, err := found.AttachmentList()
	require.NoError(t, err)
	assert.Equal(t, []domain.Attachment{{"name": "a.txt"}}, attachments)
}

func TestFindByCompositeKeyNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	msg := newMessage("c1", "hi")
	_, err := repo.Create(ctx, msg)
	require.NoError(t, err)

	_, err = repo.FindByIDAndChatID(ctx, msg.ID, "c2")
	assert.ErrorIs(t, err, ErrMessageNotFound)

	_, err = repo.FindByIDAndChatID(ctx, uuid.NewString(), "c1")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestFindByChatIDReturnsOnlyThatChat(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := map[string]bool{}
	for _, content := range []string{"one", "two", "three"} {
		msg := newMessage("c1", content)
		_, err := repo.Create(ctx, msg)
		require.NoError(t, err)
		want[msg.ID] = true
	}
	_, err := repo.Create(ctx, newMessage("c2", "elsewhere"))
	require.NoError(t, err)

	messages, err := repo.FindByChatID(ctx, "c1")
	require.NoError(t, err)

	got := map[string]bool{}
	for _, m := range messages {
		got[m.ID] = true
	}
	assert.Equal(t, want, got)

	empty, err := repo.FindByChatID(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreateValidatesInput(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, nil)
	assert.Error(t, err)

	_, err = repo.Create(ctx, newMessage("c1", ""))
	assert.Error(t, err)

	bad := newMessage("c1", "hi")
	bad.SenderID = ""
	_, err = repo.Create(ctx, bad)
	assert.Error(t, err)
}
