package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlacklistAddAndContains(t *testing.T) {
	blacklist := NewMemoryBlacklist()
	ctx := context.Background()

	revoked, err := blacklist.Contains(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Add(ctx, "jti-1", time.Minute))

	revoked, err = blacklist.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.Contains(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryBlacklistEntriesExpire(t *testing.T) {
	blacklist := NewMemoryBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Add(ctx, "jti-1", 20*time.Millisecond))

	revoked, err := blacklist.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	time.Sleep(50 * time.Millisecond)

	revoked, err = blacklist.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
