package sustained_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/repositories/sustained"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/testutils"
)

func TestRedisRepository_LocalServer(t *testing.T) {
	ctx := context.Background()
	repo := sustained.NewRedisRepository(&sustained.RedisRepoConfig{Client: testutils.RedisClientOrSkip(t)})

	require.NoError(t, repo.Save(ctx, testutils.CreateTestSustainedSpell("druid", "entangle", 10)))

	got, err := repo.Get(ctx, "druid")
	require.NoError(t, err)
	assert.Equal(t, "entangle", got.SpellKey)
	assert.True(t, got.ExpiresBy(11))
}
