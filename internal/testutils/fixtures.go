package testutils

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/entities"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/scene"
)

// CreateTestScene creates a scene on the default grid holding tokens
func CreateTestScene(t *testing.T, tokens ...*scene.Token) *scene.Scene {
	t.Helper()

	log, _ := test.NewNullLogger()
	sc := scene.New(&scene.Config{Logger: log})
	for _, tok := range tokens {
		require.NoError(t, sc.AddToken(tok))
	}
	return sc
}

// CreateTestToken creates a 1x1 token at cell (col, row) of the default grid
func CreateTestToken(id string, col, row int) *scene.Token {
	size := float64(scene.DefaultGrid.Size)
	return &scene.Token{
		ID:     id,
		Name:   id,
		X:      float64(col) * size,
		Y:      float64(row) * size,
		Width:  1,
		Height: 1,
	}
}

// CreateTestInteraction creates a pending interaction for a fireball
func CreateTestInteraction(id, userID string) *entities.Interaction {
	return &entities.Interaction{
		ID:        id,
		UserID:    userID,
		CasterID:  "wizard",
		Status:    entities.InteractionStatusPending,
		SpellKey:  "fireball",
		SpellName: "Fireball",
		SaveDC:    15,
		SaveType:  "DEX",
	}
}

// CreateTestSustainedSpell creates a sustained spell started in round 1
func CreateTestSustainedSpell(casterID, spellKey string, rounds int) *entities.SustainedSpell {
	return &entities.SustainedSpell{
		CasterID:       casterID,
		CasterName:     casterID,
		UserID:         "user-1",
		SpellKey:       spellKey,
		SpellName:      spellKey,
		StartedRound:   1,
		DurationRounds: rounds,
	}
}
