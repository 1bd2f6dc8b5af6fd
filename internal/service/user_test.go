package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateOrUpdate(t *testing.T) {
	setupTestDB(t)

	user, err := User.CreateOrUpdate("clerk-1", "alice@example.com", "Alice", "Wang", "")
	require.NoError(t, err)
	assert.Equal(t, "Alice Wang", user.Name)
	assert.Equal(t, defaultAvatarURL, user.ImageURL)

	// 重复同步刷新档案，不新增记录
	user, err = User.CreateOrUpdate("clerk-1", "alice@example.com", "Alice", "Wang", "https://img.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/a.png", user.ImageURL)

	users, err := User.List()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserNameFallsBackToEmailPrefix(t *testing.T) {
	setupTestDB(t)

	user, err := User.CreateOrUpdate("clerk-2", "bob.lee@example.com", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "bob.lee", user.Name)
}

func TestUserDelete(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "user-1")

	require.NoError(t, User.Delete("user-1"))
	assert.ErrorIs(t, User.Delete("user-1"), ErrUserNotFound)

	_, err := User.Get("user-1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserCreateOrUpdateValidation(t *testing.T) {
	setupTestDB(t)

	_, err := User.CreateOrUpdate("", "a@example.com", "", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = User.CreateOrUpdate("id-1", "", "", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
