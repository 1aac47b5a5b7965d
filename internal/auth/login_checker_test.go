package auth

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginChecker_UserID(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	checker := NewLoginChecker(db)

	mock.ExpectGet(sessionKeyPrefix + "valid-token").SetVal("42")
	userID, err := checker.UserID(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, 42, userID)

	mock.ExpectGet(sessionKeyPrefix + "unknown-token").RedisNil()
	_, err = checker.UserID(context.Background(), "unknown-token")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginChecker_IsLogged(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	checker := NewLoginChecker(db)

	mock.ExpectGet(sessionKeyPrefix + "valid-token").SetVal("42")
	isLogged, err := checker.IsLogged(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.True(t, isLogged)

	mock.ExpectGet(sessionKeyPrefix + "unknown-token").RedisNil()
	isLogged, err = checker.IsLogged(context.Background(), "unknown-token")
	require.NoError(t, err)
	assert.False(t, isLogged)

	mock.ExpectGet(sessionKeyPrefix + "broken-token").SetErr(redis.ErrClosed)
	_, err = checker.IsLogged(context.Background(), "broken-token")
	assert.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}
