package storage

import (
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLog = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func memoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "whatever", testLog)
	assert.Error(t, err)
}

func TestProvisionReportsCreatedThenExisting(t *testing.T) {
	db, err := Open("sqlite", memoryDSN(), testLog)
	require.NoError(t, err)

	first, err := Provision(db)
	require.NoError(t, err)
	assert.Equal(t, []TableStatus{{Table: "chats", Created: true}, {Table: "messages", Created: true}}, first)

	second, err := Provision(db)
	require.NoError(t, err)
	assert.Equal(t, []TableStatus{{Table: "chats", Created: false}, {Table: "messages", Created: false}}, second)
}

func TestMigrateCreatesCompositeMessageKey(t *testing.T) {
	db, err := Open("sqlite", memoryDSN(), testLog)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasIndex("chats", "idx_chats_participants"))

	insert := func(id, chatID string) error {
		return db.Exec("INSERT INTO messages (id, chat_id, sender_id, content) VALUES (?, ?, ?, ?)",
			id, chatID, "u1", "hi").Error
	}
	require.NoError(t, insert("m1", "c1"))
	require.NoError(t, insert("m1", "c2"), "same message id in another chat is a different key")
	assert.Error(t, insert("m1", "c1"))
}

func TestMemoryDatabasesAreIsolated(t *testing.T) {
	a, err := Open("sqlite", memoryDSN(), testLog)
	require.NoError(t, err)
	b, err := Open("sqlite", memoryDSN(), testLog)
	require.NoError(t, err)

	require.NoError(t, Migrate(a))
	assert.True(t, a.Migrator().HasTable("chats"))
	assert.False(t, b.Migrator().HasTable("chats"))
}
