package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo(t *testing.T, ttl time.Duration) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisRepositoryWithClient(client, ttl), mr
}

func TestLoadEmptySession(t *testing.T) {
	repo, _ := testRepo(t, time.Hour)

	history, err := repo.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, history.Messages)
}

func TestAddAndLoadMessages(t *testing.T) {
	repo, _ := testRepo(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.AddMessage(ctx, "s1", schema.UserMessage("몰빵해도 될까요")))
	require.NoError(t, repo.AddMessage(ctx, "s1", schema.AssistantMessage("안 된다", nil)))

	history, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, schema.User, history.Messages[0].Role)
	assert.Equal(t, "몰빵해도 될까요", history.Messages[0].Content)
	assert.Equal(t, schema.Assistant, history.Messages[1].Role)
}

func TestSessionsIsolated(t *testing.T) {
	repo, _ := testRepo(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.AddMessage(ctx, "s1", schema.UserMessage("hello")))

	history, err := repo.Load(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, history.Messages)
}

func TestSessionExpires(t *testing.T) {
	repo, mr := testRepo(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.AddMessage(ctx, "s1", schema.UserMessage("hello")))

	mr.FastForward(2 * time.Minute)

	history, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, history.Messages)
}

func TestRecentStrategyTrimsToMaxTurns(t *testing.T) {
	strategy := NewRecentStrategy(2)

	messages := []*schema.Message{
		schema.UserMessage("one"),
		schema.AssistantMessage("two", nil),
		schema.UserMessage("three"),
	}

	built := strategy.BuildContext(messages)
	assert.NotContains(t, built, "one")
	assert.Contains(t, built, "AssistantMessage(two)")
	assert.Contains(t, built, "UserMessage(three)")
}
