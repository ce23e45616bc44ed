package conditions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/events"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/uuid"
)

// AddInput describes a condition to apply
type AddInput struct {
	Type         ConditionType
	Source       string
	SourceID     string
	DurationType DurationType
	Duration     int
	SaveDC       int
	SaveType     string
	SaveEnd      bool
	AppliedBy    string
}

// Manager tracks the conditions on a single token. Events are emitted after
// the lock is released so listeners may call back into the manager.
type Manager struct {
	mu         sync.RWMutex
	conditions map[string]*Condition
	entityID   string
	bus        events.Bus
	ids        uuid.Generator
	now        func() time.Time
	log        logrus.FieldLogger
}

type pendingEvent struct {
	eventType events.EventType
	condition Condition
}

// NewManager creates a condition manager for entityID. bus may be nil.
func NewManager(entityID string, bus events.Bus, ids uuid.Generator, log logrus.FieldLogger) *Manager {
	if ids == nil {
		ids = uuid.NewGoogleUUIDGenerator()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		conditions: make(map[string]*Condition),
		entityID:   entityID,
		bus:        bus,
		ids:        ids,
		now:        time.Now,
		log:        log.WithField("entity_id", entityID),
	}
}

// AddCondition applies a condition. Exhaustion stacks a level up to the
// maximum. Other types keep one record per source and duration type: a
// repeat from the same source keeps its id and has its duration refreshed
// when the new one is longer, while a different source adds its own record
// so ending one source leaves the others in place.
func (m *Manager) AddCondition(ctx context.Context, input *AddInput) (*Condition, error) {
	if input == nil || input.Type == "" {
		return nil, errors.InvalidArgument("condition type is required")
	}

	m.mu.Lock()
	var pending []pendingEvent
	if existing := m.findExisting(input); existing != nil {
		switch {
		case input.Type == Exhaustion:
			if existing.Level >= MaxExhaustion {
				m.mu.Unlock()
				return existing.copy(), errors.FailedPreconditionf("%s already at exhaustion level %d", m.entityID, MaxExhaustion)
			}
			existing.Level++
			pending = append(pending, pendingEvent{events.OnConditionModified, *existing})
		case input.Duration > existing.Remaining:
			existing.Duration = input.Duration
			existing.Remaining = input.Duration
			pending = append(pending, pendingEvent{events.OnConditionModified, *existing})
		}
		result := existing.copy()
		m.mu.Unlock()

		m.emit(ctx, pending)
		return result, nil
	}

	condition := &Condition{
		ID:           m.ids.New(),
		EntityID:     m.entityID,
		Type:         input.Type,
		Description:  Describe(input.Type),
		Source:       input.Source,
		SourceID:     input.SourceID,
		DurationType: input.DurationType,
		Duration:     input.Duration,
		Remaining:    input.Duration,
		SaveDC:       input.SaveDC,
		SaveType:     input.SaveType,
		SaveEnd:      input.SaveEnd,
		AppliedAt:    m.now(),
		AppliedBy:    input.AppliedBy,
	}
	if input.Type == Exhaustion {
		condition.Level = 1
	}
	m.conditions[condition.ID] = condition
	pending = append(pending, pendingEvent{events.OnConditionApplied, *condition})
	result := condition.copy()
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{
		"condition": input.Type,
		"duration":  input.DurationType,
		"value":     input.Duration,
	}).Info("condition applied")

	m.emit(ctx, pending)
	return result, nil
}

// RemoveCondition removes a condition by id
func (m *Manager) RemoveCondition(ctx context.Context, conditionID string) error {
	m.mu.Lock()
	condition, exists := m.conditions[conditionID]
	if !exists {
		m.mu.Unlock()
		return errors.NotFoundf("condition %s not found on %s", conditionID, m.entityID)
	}
	delete(m.conditions, conditionID)
	m.mu.Unlock()

	m.log.WithField("condition", condition.Type).Info("condition removed")
	m.emit(ctx, []pendingEvent{{events.OnConditionRemoved, *condition}})
	return nil
}

// RemoveConditionByType removes every condition of a type and reports how
// many were removed
func (m *Manager) RemoveConditionByType(ctx context.Context, condType ConditionType) int {
	return m.removeWhere(ctx, "removed by type", func(c *Condition) bool {
		return c.Type == condType
	})
}

// RemoveBySource removes the conditions sourceID applied with the given
// duration type
func (m *Manager) RemoveBySource(ctx context.Context, sourceID string, duration DurationType) int {
	return m.removeWhere(ctx, "source ended", func(c *Condition) bool {
		return c.SourceID == sourceID && c.DurationType == duration
	})
}

// GetConditions returns copies of the active conditions ordered by
// application time
func (m *Manager) GetConditions() []*Condition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conditions := make([]*Condition, 0, len(m.conditions))
	for _, cond := range m.conditions {
		conditions = append(conditions, cond.copy())
	}
	sort.SliceStable(conditions, func(i, j int) bool {
		if conditions[i].AppliedAt.Equal(conditions[j].AppliedAt) {
			return conditions[i].ID < conditions[j].ID
		}
		return conditions[i].AppliedAt.Before(conditions[j].AppliedAt)
	})
	return conditions
}

// HasCondition checks whether a condition type is active
func (m *Manager) HasCondition(condType ConditionType) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.getConditionByType(condType) != nil
}

// GetConditionByType returns a copy of the active condition of a type, or nil
func (m *Manager) GetConditionByType(condType ConditionType) *Condition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.getConditionByType(condType).copy()
}

// ProcessTurnStart ticks turn-based durations down and expires those at zero
func (m *Manager) ProcessTurnStart(ctx context.Context) {
	m.tick(ctx, DurationTurns)
}

// ProcessRoundEnd ticks round-based durations down and expires those at zero
func (m *Manager) ProcessRoundEnd(ctx context.Context) {
	m.tick(ctx, DurationRounds)
}

// ProcessTurnEnd ends conditions the entity saved against, keyed by
// condition type, and those lasting until the end of its next turn
func (m *Manager) ProcessTurnEnd(ctx context.Context, saveResults map[string]bool) {
	m.removeWhere(ctx, "turn ended", func(c *Condition) bool {
		if c.DurationType == DurationEndOfNextTurn {
			return true
		}
		return c.SaveEnd && c.SaveDC > 0 && saveResults[string(c.Type)]
	})
}

// ProcessDamage ends conditions that break on damage
func (m *Manager) ProcessDamage(ctx context.Context, amount int) {
	if amount <= 0 {
		return
	}
	m.removeWhere(ctx, "damaged", func(c *Condition) bool {
		return c.DurationType == DurationUntilDamaged
	})
}

// ProcessRest ends rest-bound conditions. A long rest also lowers exhaustion
// by one level.
func (m *Manager) ProcessRest(ctx context.Context, long bool) {
	m.removeWhere(ctx, "rested", func(c *Condition) bool {
		return c.DurationType == DurationUntilRest || (long && c.DurationType == DurationUntilLongRest)
	})
	if !long {
		return
	}

	m.mu.Lock()
	exhaustion := m.getConditionByType(Exhaustion)
	var pending []pendingEvent
	switch {
	case exhaustion == nil:
	case exhaustion.Level <= 1:
		delete(m.conditions, exhaustion.ID)
		pending = append(pending, pendingEvent{events.OnConditionRemoved, *exhaustion})
	default:
		exhaustion.Level--
		pending = append(pending, pendingEvent{events.OnConditionModified, *exhaustion})
	}
	m.mu.Unlock()

	m.emit(ctx, pending)
}

// GetActiveEffects combines the effects of every active condition
func (m *Manager) GetActiveEffects() *Effect {
	m.mu.RLock()
	defer m.mu.RUnlock()

	combined := &Effect{
		SaveDisadvantage: make(map[string]bool),
		SaveAutoFail:     make(map[string]bool),
		Resistance:       make(map[string]bool),
		Immunity:         make(map[string]bool),
	}
	for _, cond := range m.conditions {
		mergeEffects(combined, StandardEffects(cond.Type))
	}
	return combined
}

func (m *Manager) tick(ctx context.Context, duration DurationType) {
	m.mu.Lock()
	var pending []pendingEvent
	for id, cond := range m.conditions {
		if cond.DurationType != duration {
			continue
		}
		cond.Remaining--
		if cond.Remaining <= 0 {
			delete(m.conditions, id)
			pending = append(pending, pendingEvent{events.OnConditionRemoved, *cond})
			m.log.WithField("condition", cond.Type).Info("condition expired")
		}
	}
	m.mu.Unlock()

	m.emit(ctx, pending)
}

func (m *Manager) removeWhere(ctx context.Context, reason string, match func(*Condition) bool) int {
	m.mu.Lock()
	var pending []pendingEvent
	for id, cond := range m.conditions {
		if match(cond) {
			delete(m.conditions, id)
			pending = append(pending, pendingEvent{events.OnConditionRemoved, *cond})
		}
	}
	m.mu.Unlock()

	for _, p := range pending {
		m.log.WithFields(logrus.Fields{
			"condition": p.condition.Type,
			"reason":    reason,
		}).Info("condition removed")
	}
	m.emit(ctx, pending)
	return len(pending)
}

func (m *Manager) getConditionByType(condType ConditionType) *Condition {
	for _, cond := range m.conditions {
		if cond.Type == condType {
			return cond
		}
	}
	return nil
}

func (m *Manager) findExisting(input *AddInput) *Condition {
	for _, cond := range m.conditions {
		if cond.Type != input.Type {
			continue
		}
		if input.Type == Exhaustion || (cond.SourceID == input.SourceID && cond.DurationType == input.DurationType) {
			return cond
		}
	}
	return nil
}

func (m *Manager) emit(ctx context.Context, pending []pendingEvent) {
	if m.bus == nil {
		return
	}
	for _, p := range pending {
		event := events.NewGameEvent(p.eventType).
			WithTarget(m.entityID).
			WithActor(p.condition.SourceID).
			WithContext(events.ContextEntityID, m.entityID).
			WithContext(events.ContextConditionID, p.condition.ID).
			WithContext(events.ContextConditionType, string(p.condition.Type))
		if err := m.bus.Emit(ctx, event); err != nil {
			m.log.WithError(err).WithField("event", p.eventType).Warn("failed to emit condition event")
		}
	}
}

func (c *Condition) copy() *Condition {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

func mergeEffects(target, source *Effect) {
	target.AttackAdvantage = target.AttackAdvantage || source.AttackAdvantage
	target.AttackDisadvantage = target.AttackDisadvantage || source.AttackDisadvantage
	target.DefenseAdvantage = target.DefenseAdvantage || source.DefenseAdvantage
	target.DefenseDisadvantage = target.DefenseDisadvantage || source.DefenseDisadvantage
	target.CantMove = target.CantMove || source.CantMove
	target.CantAct = target.CantAct || source.CantAct
	target.CantReact = target.CantReact || source.CantReact
	target.CantSpeak = target.CantSpeak || source.CantSpeak
	target.Incapacitated = target.Incapacitated || source.Incapacitated
	target.FallProne = target.FallProne || source.FallProne
	target.DropItems = target.DropItems || source.DropItems

	// slowest wins
	if source.SpeedMultiplier > 0 && (target.SpeedMultiplier == 0 || source.SpeedMultiplier < target.SpeedMultiplier) {
		target.SpeedMultiplier = source.SpeedMultiplier
	}

	mergeSet(target.SaveDisadvantage, source.SaveDisadvantage)
	mergeSet(target.SaveAutoFail, source.SaveAutoFail)
	mergeSet(target.Resistance, source.Resistance)
	mergeSet(target.Immunity, source.Immunity)
}

func mergeSet(target, source map[string]bool) {
	for k, v := range source {
		if v {
			target[k] = true
		}
	}
}
