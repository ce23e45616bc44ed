package conditions

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/events"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/uuid"
)

func newTestManager(entityID string) (*Manager, *events.EventBus) {
	bus := events.NewEventBus()
	log, _ := test.NewNullLogger()
	return NewManager(entityID, bus, uuid.NewSequenceGenerator("cond"), log), bus
}

func TestManager_AddCondition(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager("goblin-1")

	t.Run("add poisoned condition", func(t *testing.T) {
		condition, err := manager.AddCondition(ctx, &AddInput{
			Type:         Poisoned,
			Source:       "Giant Spider",
			DurationType: DurationRounds,
			Duration:     3,
		})
		require.NoError(t, err)
		assert.Equal(t, "cond-1", condition.ID)
		assert.Equal(t, "goblin-1", condition.EntityID)
		assert.Equal(t, Poisoned, condition.Type)
		assert.Equal(t, 3, condition.Remaining)
		assert.NotEmpty(t, condition.Description)
	})

	t.Run("conditions refresh instead of stacking", func(t *testing.T) {
		condition, err := manager.AddCondition(ctx, &AddInput{
			Type:         Poisoned,
			Source:       "Another Spider",
			DurationType: DurationRounds,
			Duration:     5,
		})
		require.NoError(t, err)
		assert.Equal(t, "cond-1", condition.ID)
		assert.Equal(t, 5, condition.Remaining)
		assert.Len(t, manager.GetConditions(), 1)
	})

	t.Run("shorter duration does not shorten", func(t *testing.T) {
		condition, err := manager.AddCondition(ctx, &AddInput{Type: Poisoned, DurationType: DurationRounds, Duration: 1})
		require.NoError(t, err)
		assert.Equal(t, 5, condition.Remaining)
	})

	t.Run("exhaustion stacks to the maximum", func(t *testing.T) {
		for level := 1; level <= MaxExhaustion; level++ {
			ex, err := manager.AddCondition(ctx, &AddInput{Type: Exhaustion, DurationType: DurationPermanent})
			require.NoError(t, err)
			assert.Equal(t, level, ex.Level)
		}

		_, err := manager.AddCondition(ctx, &AddInput{Type: Exhaustion, DurationType: DurationPermanent})
		assert.True(t, errors.IsFailedPrecondition(err))
	})

	t.Run("type is required", func(t *testing.T) {
		_, err := manager.AddCondition(ctx, &AddInput{})
		assert.True(t, errors.IsInvalidArgument(err))
	})
}

func TestManager_ReturnsCopies(t *testing.T) {
	manager, _ := newTestManager("goblin-1")
	condition, err := manager.AddCondition(context.Background(), &AddInput{Type: Prone, DurationType: DurationPermanent})
	require.NoError(t, err)

	condition.Type = Stunned
	assert.True(t, manager.HasCondition(Prone))
	assert.False(t, manager.HasCondition(Stunned))
}

func TestManager_RemoveCondition(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager("goblin-2")

	condition, err := manager.AddCondition(ctx, &AddInput{Type: Stunned, DurationType: DurationRounds, Duration: 1})
	require.NoError(t, err)

	require.NoError(t, manager.RemoveCondition(ctx, condition.ID))
	assert.False(t, manager.HasCondition(Stunned))
	assert.Empty(t, manager.GetConditions())

	err = manager.RemoveCondition(ctx, condition.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestManager_Durations(t *testing.T) {
	ctx := context.Background()

	t.Run("rounds expire at round end", func(t *testing.T) {
		manager, _ := newTestManager("goblin-3")
		_, err := manager.AddCondition(ctx, &AddInput{Type: Blinded, DurationType: DurationRounds, Duration: 2})
		require.NoError(t, err)

		manager.ProcessTurnStart(ctx)
		assert.Equal(t, 2, manager.GetConditionByType(Blinded).Remaining, "turn start leaves rounds alone")

		manager.ProcessRoundEnd(ctx)
		assert.Equal(t, 1, manager.GetConditionByType(Blinded).Remaining)

		manager.ProcessRoundEnd(ctx)
		assert.False(t, manager.HasCondition(Blinded))
	})

	t.Run("turns expire at turn start", func(t *testing.T) {
		manager, _ := newTestManager("goblin-4")
		_, err := manager.AddCondition(ctx, &AddInput{Type: Frightened, DurationType: DurationTurns, Duration: 1})
		require.NoError(t, err)

		manager.ProcessTurnStart(ctx)
		assert.False(t, manager.HasCondition(Frightened))
	})

	t.Run("saves end conditions at turn end", func(t *testing.T) {
		manager, _ := newTestManager("goblin-5")
		_, err := manager.AddCondition(ctx, &AddInput{
			Type:         Paralyzed,
			DurationType: DurationRounds,
			Duration:     10,
			SaveDC:       15,
			SaveType:     "WIS",
			SaveEnd:      true,
		})
		require.NoError(t, err)
		_, err = manager.AddCondition(ctx, &AddInput{Type: Prone, DurationType: DurationEndOfNextTurn})
		require.NoError(t, err)

		manager.ProcessTurnEnd(ctx, map[string]bool{"paralyzed": false})
		assert.True(t, manager.HasCondition(Paralyzed))
		assert.False(t, manager.HasCondition(Prone))

		manager.ProcessTurnEnd(ctx, map[string]bool{"paralyzed": true})
		assert.False(t, manager.HasCondition(Paralyzed))
	})

	t.Run("damage ends until-damaged conditions", func(t *testing.T) {
		manager, _ := newTestManager("goblin-6")
		_, err := manager.AddCondition(ctx, &AddInput{Type: Unconscious, DurationType: DurationUntilDamaged})
		require.NoError(t, err)

		manager.ProcessDamage(ctx, 0)
		assert.True(t, manager.HasCondition(Unconscious))

		manager.ProcessDamage(ctx, 4)
		assert.False(t, manager.HasCondition(Unconscious))
	})

	t.Run("rests", func(t *testing.T) {
		manager, _ := newTestManager("goblin-7")
		_, err := manager.AddCondition(ctx, &AddInput{Type: Poisoned, DurationType: DurationUntilRest})
		require.NoError(t, err)
		_, err = manager.AddCondition(ctx, &AddInput{Type: Deafened, DurationType: DurationUntilLongRest})
		require.NoError(t, err)
		for range 2 {
			_, err = manager.AddCondition(ctx, &AddInput{Type: Exhaustion, DurationType: DurationPermanent})
			require.NoError(t, err)
		}

		manager.ProcessRest(ctx, false)
		assert.False(t, manager.HasCondition(Poisoned))
		assert.True(t, manager.HasCondition(Deafened))
		assert.Equal(t, 2, manager.GetConditionByType(Exhaustion).Level)

		manager.ProcessRest(ctx, true)
		assert.False(t, manager.HasCondition(Deafened))
		assert.Equal(t, 1, manager.GetConditionByType(Exhaustion).Level)

		manager.ProcessRest(ctx, true)
		assert.False(t, manager.HasCondition(Exhaustion))
	})
}

func TestManager_RemoveBySource(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager("goblin-8")

	_, err := manager.AddCondition(ctx, &AddInput{Type: Restrained, SourceID: "wizard", DurationType: DurationConcentration})
	require.NoError(t, err)
	_, err = manager.AddCondition(ctx, &AddInput{Type: Prone, SourceID: "wizard", DurationType: DurationPermanent})
	require.NoError(t, err)

	assert.Equal(t, 1, manager.RemoveBySource(ctx, "wizard", DurationConcentration))
	assert.False(t, manager.HasCondition(Restrained))
	assert.True(t, manager.HasCondition(Prone))
}

func TestManager_SourcesTrackedSeparately(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager("orc-1")

	wizard, err := manager.AddCondition(ctx, &AddInput{Type: Paralyzed, SourceID: "wizard", DurationType: DurationConcentration})
	require.NoError(t, err)
	cleric, err := manager.AddCondition(ctx, &AddInput{Type: Paralyzed, SourceID: "cleric", DurationType: DurationConcentration})
	require.NoError(t, err)
	assert.NotEqual(t, wizard.ID, cleric.ID)

	again, err := manager.AddCondition(ctx, &AddInput{Type: Paralyzed, SourceID: "wizard", DurationType: DurationConcentration})
	require.NoError(t, err)
	assert.Equal(t, wizard.ID, again.ID)
	assert.Len(t, manager.GetConditions(), 2)

	assert.Equal(t, 1, manager.RemoveBySource(ctx, "wizard", DurationConcentration))
	assert.True(t, manager.HasCondition(Paralyzed))

	assert.Equal(t, 1, manager.RemoveBySource(ctx, "cleric", DurationConcentration))
	assert.False(t, manager.HasCondition(Paralyzed))
}

func TestManager_ConcentrationOutlastsRounds(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager("orc-2")

	_, err := manager.AddCondition(ctx, &AddInput{Type: Paralyzed, SourceID: "trap", DurationType: DurationRounds, Duration: 1})
	require.NoError(t, err)
	_, err = manager.AddCondition(ctx, &AddInput{Type: Paralyzed, SourceID: "wizard", DurationType: DurationConcentration})
	require.NoError(t, err)

	manager.ProcessRoundEnd(ctx)

	conds := manager.GetConditions()
	require.Len(t, conds, 1)
	assert.Equal(t, DurationConcentration, conds[0].DurationType)
	assert.True(t, manager.HasCondition(Paralyzed))
}

func TestManager_Events(t *testing.T) {
	ctx := context.Background()
	manager, bus := newTestManager("goblin-9")

	var seen []events.EventType
	var entity string
	record := &events.ListenerFunc{Fn: func(ctx context.Context, event *events.GameEvent) error {
		seen = append(seen, event.Type)
		entity, _ = event.GetStringContext(events.ContextEntityID)
		// listeners may read back without deadlocking
		manager.GetConditions()
		return nil
	}}
	bus.Subscribe(events.OnConditionApplied, record)
	bus.Subscribe(events.OnConditionModified, record)
	bus.Subscribe(events.OnConditionRemoved, record)

	_, err := manager.AddCondition(ctx, &AddInput{Type: Exhaustion, DurationType: DurationPermanent})
	require.NoError(t, err)
	_, err = manager.AddCondition(ctx, &AddInput{Type: Exhaustion, DurationType: DurationPermanent})
	require.NoError(t, err)
	assert.Equal(t, 1, manager.RemoveConditionByType(ctx, Exhaustion))

	assert.Equal(t, []events.EventType{
		events.OnConditionApplied,
		events.OnConditionModified,
		events.OnConditionRemoved,
	}, seen)
	assert.Equal(t, "goblin-9", entity)
}

func TestManager_GetActiveEffects(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager("goblin-10")

	_, err := manager.AddCondition(ctx, &AddInput{Type: Prone, DurationType: DurationPermanent})
	require.NoError(t, err)
	_, err = manager.AddCondition(ctx, &AddInput{Type: Restrained, DurationType: DurationPermanent})
	require.NoError(t, err)

	effects := manager.GetActiveEffects()
	assert.True(t, effects.AttackDisadvantage)
	assert.True(t, effects.CantMove)
	assert.True(t, effects.DefenseAdvantage)
	assert.InDelta(t, 0.5, effects.SpeedMultiplier, 1e-9)
	assert.True(t, effects.SaveDisadvantage["DEX"])
}

func TestParseConditionType(t *testing.T) {
	ct, ok := ParseConditionType("restrained")
	require.True(t, ok)
	assert.Equal(t, Restrained, ct)

	_, ok = ParseConditionType("sleepy")
	assert.False(t, ok)
}
