package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlopez/lectorpdf/internal/entities"
	"github.com/mlopez/lectorpdf/internal/fsjson"
)

func setupService(t *testing.T) (*Service, string) {
	t.Helper()
	dataRoot := t.TempDir()
	service, err := NewService(dataRoot)
	require.NoError(t, err)
	return service, dataRoot
}

func TestCreateUser(t *testing.T) {
	t.Run("registers and verifies", func(t *testing.T) {
		service, _ := setupService(t)

		require.NoError(t, service.CreateUser("a@x.com", "pw", nil))

		assert.True(t, service.UserExists("a@x.com"))
		assert.True(t, service.VerifyCredentials("a@x.com", "pw"))
		assert.False(t, service.VerifyCredentials("a@x.com", "wrong"))
	})

	t.Run("email uniqueness is case-insensitive", func(t *testing.T) {
		service, _ := setupService(t)

		require.NoError(t, service.CreateUser("a@x.com", "pw", nil))

		assert.True(t, service.UserExists("A@X.COM"))
		assert.True(t, service.VerifyCredentials("A@X.COM", "pw"))
	})

	t.Run("duplicate registration fails and keeps the original", func(t *testing.T) {
		service, _ := setupService(t)
		require.NoError(t, service.CreateUser("a@x.com", "pw1", nil))

		err := service.CreateUser("a@x.com", "pw2", nil)

		assert.ErrorIs(t, err, ErrUserExists)
		assert.True(t, service.VerifyCredentials("a@x.com", "pw1"))
		assert.False(t, service.VerifyCredentials("a@x.com", "pw2"))
	})

	t.Run("duplicate under different casing fails", func(t *testing.T) {
		service, _ := setupService(t)
		require.NoError(t, service.CreateUser("a@x.com", "pw", nil))

		assert.ErrorIs(t, service.CreateUser("A@x.Com", "other", nil), ErrUserExists)
	})

	t.Run("empty fields are rejected", func(t *testing.T) {
		service, _ := setupService(t)

		assert.ErrorIs(t, service.CreateUser("", "pw", nil), ErrEmailRequired)
		assert.ErrorIs(t, service.CreateUser("a@x.com", "", nil), ErrPasswordRequired)
	})

	t.Run("identical passwords get distinct salts and hashes", func(t *testing.T) {
		service, dataRoot := setupService(t)

		require.NoError(t, service.CreateUser("a@x.com", "same", nil))
		require.NoError(t, service.CreateUser("b@x.com", "same", nil))

		var users []entities.UserRecord
		found, err := fsjson.Load(filepath.Join(dataRoot, "users.json"), &users)
		require.NoError(t, err)
		require.True(t, found)
		require.Len(t, users, 2)

		assert.NotEqual(t, users[0].Salt, users[1].Salt)
		assert.NotEqual(t, users[0].PasswordHash, users[1].PasswordHash)
	})

	t.Run("never stores the plaintext password", func(t *testing.T) {
		service, dataRoot := setupService(t)
		require.NoError(t, service.CreateUser("a@x.com", "hunter2secret", nil))

		raw, err := os.ReadFile(filepath.Join(dataRoot, "users.json"))
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "hunter2secret")
	})

	t.Run("optional age is persisted", func(t *testing.T) {
		service, dataRoot := setupService(t)
		age := 34
		require.NoError(t, service.CreateUser("a@x.com", "pw", &age))

		var users []entities.UserRecord
		_, err := fsjson.Load(filepath.Join(dataRoot, "users.json"), &users)
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.NotNil(t, users[0].Age)
		assert.Equal(t, 34, *users[0].Age)
	})
}

func TestVerifyCredentials(t *testing.T) {
	t.Run("unknown user is a plain false", func(t *testing.T) {
		service, _ := setupService(t)
		require.NoError(t, service.CreateUser("a@x.com", "pw", nil))

		assert.False(t, service.VerifyCredentials("nobody@x.com", "pw"))
	})

	t.Run("empty store verifies nothing", func(t *testing.T) {
		service, _ := setupService(t)

		assert.False(t, service.VerifyCredentials("a@x.com", "pw"))
	})
}

func TestNewService(t *testing.T) {
	t.Run("reload sees previously registered users", func(t *testing.T) {
		dataRoot := t.TempDir()
		service, err := NewService(dataRoot)
		require.NoError(t, err)
		require.NoError(t, service.CreateUser("a@x.com", "pw", nil))

		reloaded, err := NewService(dataRoot)
		require.NoError(t, err)

		assert.True(t, reloaded.UserExists("a@x.com"))
		assert.True(t, reloaded.VerifyCredentials("a@x.com", "pw"))
	})

	t.Run("corrupt users file fails loudly", func(t *testing.T) {
		dataRoot := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dataRoot, "users.json"), []byte("][ oops"), 0o644))

		_, err := NewService(dataRoot)

		assert.ErrorIs(t, err, fsjson.ErrCorrupt)
	})

	t.Run("missing users file means no users", func(t *testing.T) {
		service, _ := setupService(t)

		assert.False(t, service.HasUsers())
	})
}
