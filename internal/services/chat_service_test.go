package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatrelay/internal/domain"
	"github.com/iyunix/go-chatrelay/internal/repository/chat"
	"github.com/iyunix/go-chatrelay/internal/storage/storagetest"
)

func newTestChatService(t *testing.T) *ChatService {
	t.Helper()
	logger, _ := test.NewNullLogger()
	svc, err := NewChatService(chat.NewChatRepository(storagetest.Open(t), logger), logger)
	require.NoError(t, err)
	return svc
}

func TestResolveOrCreateIsOrderIndependent(t *testing.T) {
	svc := newTestChatService(t)
	ctx := context.Background()

	first, err := svc.ResolveOrCreate(ctx, "u1", "u2")
	require.NoError(t, err)
	second, err := svc.ResolveOrCreate(ctx, "u2", "u1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "u1,u2", first.Participants)
	assert.Equal(t, "u1,u2", second.Participants)
	assert.Equal(t, []string{"u1", "u2"}, second.ParticipantList())
}

func TestResolveOrCreateDoesNotMatchOverlappingIDs(t *testing.T) {
	svc := newTestChatService(t)
	ctx := context.Background()

	wide, err := svc.ResolveOrCreate(ctx, "u1", "u22")
	require.NoError(t, err)
	narrow, err := svc.ResolveOrCreate(ctx, "u1", "u2")
	require.NoError(t, err)

	assert.NotEqual(t, wide.ID, narrow.ID)
	assert.Equal(t, "u1,u2", narrow.Participants)
}

func TestResolveOrCreateConcurrentCallersShareOneChat(t *testing.T) {
	svc := newTestChatService(t)
	ctx := context.Background()

	const callers = 16
	ids := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := "alice", "bob"
			if i%2 == 1 {
				a, b = b, a
			}
			c, err := svc.ResolveOrCreate(ctx, a, b)
			errs[i] = err
			if err == nil {
				ids[i] = c.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}

func TestResolveOrCreateRejectsBadIdentifiers(t *testing.T) {
	svc := newTestChatService(t)

	for _, pair := range [][2]string{{"", "u2"}, {"u1", "  "}, {"u1", "a,b"}} {
		_, err := svc.ResolveOrCreate(context.Background(), pair[0], pair[1])
		require.Error(t, err, "pair %q", pair)
		assert.Equal(t, ErrTypeValidation, ErrorTypeOf(err))
	}
}

type failingChatRepo struct {
	err error
}

func (f failingChatRepo) FindByParticipants(context.Context, string) (*domain.Chat, error) {
	return nil, f.err
}

func (f failingChatRepo) CreateIfAbsent(context.Context, *domain.Chat) (bool, error) {
	return false, f.err
}

func TestResolveOrCreateReportsStorageErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	boom := errors.New("connection refused")
	svc, err := NewChatService(failingChatRepo{err: boom}, logger)
	require.NoError(t, err)

	_, err = svc.ResolveOrCreate(context.Background(), "u1", "u2")
	require.Error(t, err)
	assert.Equal(t, ErrTypeStorage, ErrorTypeOf(err))
	assert.ErrorIs(t, err, boom)
}

func TestNewChatServiceRequiresRepository(t *testing.T) {
	logger, _ := test.NewNullLogger()
	_, err := NewChatService(nil, logger)
	assert.Error(t, err)
}
