package sustained_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/entities"
	apperrors "github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/repositories/sustained"
)

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	repo := sustained.NewInMemoryRepository()

	require.NoError(t, repo.Save(ctx, &entities.SustainedSpell{CasterID: "wizard", SpellKey: "web", TargetIDs: []string{"a"}}))
	require.NoError(t, repo.Save(ctx, &entities.SustainedSpell{CasterID: "cleric", SpellKey: "bless"}))

	// one spell per caster
	require.NoError(t, repo.Save(ctx, &entities.SustainedSpell{CasterID: "wizard", SpellKey: "hold-person"}))

	got, err := repo.Get(ctx, "wizard")
	require.NoError(t, err)
	assert.Equal(t, "hold-person", got.SpellKey)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "cleric", list[0].CasterID)

	require.NoError(t, repo.Delete(ctx, "wizard"))
	_, err = repo.Get(ctx, "wizard")
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(repo.Delete(ctx, "wizard")))
}

func TestSustainedSpell_ExpiresBy(t *testing.T) {
	spell := &entities.SustainedSpell{StartedRound: 3, DurationRounds: 10}
	assert.False(t, spell.ExpiresBy(12))
	assert.True(t, spell.ExpiresBy(13))

	unbounded := &entities.SustainedSpell{StartedRound: 3}
	assert.False(t, unbounded.ExpiresBy(1000))
}
