package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatrelay/internal/auth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ENV", "production") // skip .env lookup
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("SECRET_KEY", "cli-secret")
	t.Setenv("ALGORITHM", "HS256")

	out, err := run(t, "token", "--user", "u1", "--email", "u1@example.com")
	require.NoError(t, err)

	validator, err := auth.NewValidator("cli-secret", "HS256")
	require.NoError(t, err)
	user, err := validator.Validate(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, "u1@example.com", user.Email)
}

func TestTokenCommandRequiresUserAndSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := run(t, "token", "--user", "u1")
	assert.ErrorContains(t, err, "SECRET_KEY")

	_, err = run(t, "token", "--secret", "s")
	assert.Error(t, err)
}

func TestProvisionCommand(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "chat.db")

	out, err := run(t, "provision", "--driver", "sqlite", "--dsn", dsn)
	require.NoError(t, err)
	assert.Equal(t, "chats: created\nmessages: created\n", out)

	out, err = run(t, "provision", "--driver", "sqlite", "--dsn", dsn)
	require.NoError(t, err)
	assert.Equal(t, "chats: already exists\nmessages: already exists\n", out)
}

func TestProvisionRejectsUnknownDriver(t *testing.T) {
	_, err := run(t, "provision", "--driver", "oracle", "--dsn", "x")
	assert.Error(t, err)
}
