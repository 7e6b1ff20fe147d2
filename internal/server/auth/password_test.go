package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/skywatch/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	ctx := context.Background()

	hash, err := HashPassword(ctx, "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)

	ok, err := ComparePassword(ctx, hash, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePassword(ctx, hash, "secret2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	ctx := context.Background()

	h1, err := HashPassword(ctx, "same")
	require.NoError(t, err)
	h2, err := HashPassword(ctx, "same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(context.Background(), strings.Repeat("a", 73))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorInvalidInput))
}

func TestComparePassword_MalformedHash(t *testing.T) {
	ok, err := ComparePassword(context.Background(), "not-a-hash", "x")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestPassword_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := HashPassword(ctx, "secret1")
	assert.ErrorIs(t, err, context.Canceled)

	ok, err := ComparePassword(ctx, "$2a$10$abcdefghijklmnopqrstuuD9V1z5w0t1m8xY7f1o3h2c7mKQ1m2Y6", "secret1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}
