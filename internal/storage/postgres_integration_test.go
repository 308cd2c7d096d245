//go:build integration

package storage_test

import (
	"context"
	"log"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"github.com/iyunix/go-chatrelay/internal/domain"
	"github.com/iyunix/go-chatrelay/internal/repository/chat"
	"github.com/iyunix/go-chatrelay/internal/repository/message"
	"github.com/iyunix/go-chatrelay/internal/services"
	"github.com/iyunix/go-chatrelay/internal/storage"
)

var pgDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("chatrelay"),
		postgres.WithUsername("chatrelay"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		os.Exit(1)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable", "application_name=test")
	if err != nil {
		log.Fatalf("failed to get connection string: %v", err)
	}

	logger, _ := test.NewNullLogger()
	pgDB, err = storage.Open("postgres", connStr, logger)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	code := m.Run()

	if sqlDB, err := pgDB.DB(); err == nil {
		sqlDB.Close()
	}
	if err := pgContainer.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
	os.Exit(code)
}

func TestPostgresProvision(t *testing.T) {
	statuses, err := storage.Provision(pgDB)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	again, err := storage.Provision(pgDB)
	require.NoError(t, err)
	for _, s := range again {
		assert.False(t, s.Created, s.Table)
	}
	assert.True(t, pgDB.Migrator().HasIndex(&domain.Chat{}, "idx_chats_participants"))
}

func TestPostgresCreateIfAbsentConflict(t *testing.T) {
	require.NoError(t, storage.Migrate(pgDB))
	logger, _ := test.NewNullLogger()
	repo := chat.NewChatRepository(pgDB, logger)
	ctx := context.Background()
	key := "pg-" + uuid.NewString() + ",pg-z"

	created, err := repo.CreateIfAbsent(ctx, &domain.Chat{ID: uuid.NewString(), Participants: key})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, &domain.Chat{ID: uuid.NewString(), Participants: key})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestPostgresConcurrentResolution(t *testing.T) {
	require.NoError(t, storage.Migrate(pgDB))
	logger, _ := test.NewNullLogger()
	ctx := context.Background()
	a, b := "alice-"+uuid.NewString(), "bob-"+uuid.NewString()

	// Separate services do not share a singleflight group, so the
	// database constraint is what keeps them on one chat.
	const callers = 8
	ids := make([]string, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		svc, err := services.NewChatService(chat.NewChatRepository(pgDB, logger), logger)
		require.NoError(t, err)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := svc.ResolveOrCreate(ctx, a, b)
			errs[i] = err
			if err == nil {
				ids[i] = c.ID
			}
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	require.NoError(t, pgDB.Model(&domain.Chat{}).Where("participants IN ?", []string{a + "," + b, b + "," + a}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPostgresAcceptsLongChatIDs(t *testing.T) {
	require.NoError(t, storage.Migrate(pgDB))
	logger, _ := test.NewNullLogger()
	repo := message.NewMessageRepository(pgDB, logger)
	ctx := context.Background()
	chatID := "room-" + strings.Repeat("x", 120)

	created, err := repo.Create(ctx, &domain.Message{ID: uuid.NewString(), ChatID: chatID, SenderID: "u1", Content: "hi"})
	require.NoError(t, err)

	found, err := repo.FindByIDAndChatID(ctx, created.ID, chatID)
	require.NoError(t, err)
	assert.Equal(t, chatID, found.ChatID)
}
