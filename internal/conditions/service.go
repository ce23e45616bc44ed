package conditions

//go:generate mockgen -destination=mock/mock_service.go -package=mockconditions -source=service.go

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/events"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/uuid"
)

// Service manages conditions for every token in the scene
type Service interface {
	// AddCondition applies a condition to an entity
	AddCondition(ctx context.Context, entityID string, input *AddInput) (*Condition, error)

	// RemoveCondition removes a specific condition
	RemoveCondition(ctx context.Context, entityID, conditionID string) error

	// RemoveConditionByType removes all conditions of a type from an entity
	RemoveConditionByType(ctx context.Context, entityID string, condType ConditionType) int

	// RemoveBySource removes, across all entities, the conditions sourceID
	// applied with the given duration type
	RemoveBySource(ctx context.Context, sourceID string, duration DurationType) int

	// GetConditions returns all conditions for an entity
	GetConditions(entityID string) []*Condition

	// HasCondition checks if an entity has a specific condition type
	HasCondition(entityID string, condType ConditionType) bool

	// GetActiveEffects returns combined effects for an entity
	GetActiveEffects(entityID string) *Effect
}

var _ Service = (*Tracker)(nil)

// ServiceConfig holds the dependencies of the condition service
type ServiceConfig struct {
	Bus           events.Bus
	UUIDGenerator uuid.Generator
	Logger        logrus.FieldLogger
}

// Tracker is the in-process Service keyed by token id
type Tracker struct {
	mu       sync.RWMutex
	managers map[string]*Manager
	bus      events.Bus
	ids      uuid.Generator
	log      logrus.FieldLogger
}

// NewTracker creates a condition service. Call Register to drive durations
// from combat events.
func NewTracker(cfg *ServiceConfig) *Tracker {
	if cfg == nil {
		cfg = &ServiceConfig{}
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	ids := cfg.UUIDGenerator
	if ids == nil {
		ids = uuid.NewGoogleUUIDGenerator()
	}
	return &Tracker{
		managers: make(map[string]*Manager),
		bus:      cfg.Bus,
		ids:      ids,
		log:      log.WithField("component", "conditions"),
	}
}

// Priority for bus listeners
const listenerPriority = 50

// Register subscribes the service to turn, round, damage and rest events
func (s *Tracker) Register(bus events.Bus) {
	bus.Subscribe(events.OnTurnStart, &events.ListenerFunc{Order: listenerPriority, Fn: s.handleTurnStart})
	bus.Subscribe(events.OnTurnEnd, &events.ListenerFunc{Order: listenerPriority, Fn: s.handleTurnEnd})
	bus.Subscribe(events.OnRoundEnd, &events.ListenerFunc{Order: listenerPriority, Fn: s.handleRoundEnd})
	bus.Subscribe(events.OnDamageTaken, &events.ListenerFunc{Order: listenerPriority, Fn: s.handleDamage})
	bus.Subscribe(events.OnShortRest, &events.ListenerFunc{Order: listenerPriority, Fn: s.handleRest(false)})
	bus.Subscribe(events.OnLongRest, &events.ListenerFunc{Order: listenerPriority, Fn: s.handleRest(true)})
}

func (s *Tracker) getOrCreateManager(entityID string) *Manager {
	s.mu.Lock()
	defer s.mu.Unlock()

	if manager, exists := s.managers[entityID]; exists {
		return manager
	}

	manager := NewManager(entityID, s.bus, s.ids, s.log)
	s.managers[entityID] = manager
	return manager
}

func (s *Tracker) existingManager(entityID string) *Manager {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.managers[entityID]
}

func (s *Tracker) allManagers() []*Manager {
	s.mu.RLock()
	defer s.mu.RUnlock()

	managers := make([]*Manager, 0, len(s.managers))
	for _, m := range s.managers {
		managers = append(managers, m)
	}
	return managers
}

func (s *Tracker) AddCondition(ctx context.Context, entityID string, input *AddInput) (*Condition, error) {
	return s.getOrCreateManager(entityID).AddCondition(ctx, input)
}

func (s *Tracker) RemoveCondition(ctx context.Context, entityID, conditionID string) error {
	return s.getOrCreateManager(entityID).RemoveCondition(ctx, conditionID)
}

func (s *Tracker) RemoveConditionByType(ctx context.Context, entityID string, condType ConditionType) int {
	manager := s.existingManager(entityID)
	if manager == nil {
		return 0
	}
	return manager.RemoveConditionByType(ctx, condType)
}

func (s *Tracker) RemoveBySource(ctx context.Context, sourceID string, duration DurationType) int {
	removed := 0
	for _, manager := range s.allManagers() {
		removed += manager.RemoveBySource(ctx, sourceID, duration)
	}
	return removed
}

func (s *Tracker) GetConditions(entityID string) []*Condition {
	manager := s.existingManager(entityID)
	if manager == nil {
		return []*Condition{}
	}
	return manager.GetConditions()
}

func (s *Tracker) HasCondition(entityID string, condType ConditionType) bool {
	manager := s.existingManager(entityID)
	return manager != nil && manager.HasCondition(condType)
}

func (s *Tracker) GetActiveEffects(entityID string) *Effect {
	return s.getOrCreateManager(entityID).GetActiveEffects()
}

func entityOf(event *events.GameEvent) string {
	if id, ok := event.GetStringContext(events.ContextEntityID); ok && id != "" {
		return id
	}
	return event.TargetID
}

func (s *Tracker) handleTurnStart(ctx context.Context, event *events.GameEvent) error {
	if manager := s.existingManager(entityOf(event)); manager != nil {
		manager.ProcessTurnStart(ctx)
	}
	return nil
}

func (s *Tracker) handleTurnEnd(ctx context.Context, event *events.GameEvent) error {
	manager := s.existingManager(entityOf(event))
	if manager == nil {
		return nil
	}
	var saves map[string]bool
	if raw, ok := event.GetContext(events.ContextSaveResults); ok {
		saves, _ = raw.(map[string]bool)
	}
	manager.ProcessTurnEnd(ctx, saves)
	return nil
}

func (s *Tracker) handleRoundEnd(ctx context.Context, _ *events.GameEvent) error {
	for _, manager := range s.allManagers() {
		manager.ProcessRoundEnd(ctx)
	}
	return nil
}

func (s *Tracker) handleDamage(ctx context.Context, event *events.GameEvent) error {
	amount, _ := event.GetIntContext(events.ContextDamage)
	if manager := s.existingManager(entityOf(event)); manager != nil {
		manager.ProcessDamage(ctx, amount)
	}
	return nil
}

func (s *Tracker) handleRest(long bool) func(context.Context, *events.GameEvent) error {
	return func(ctx context.Context, event *events.GameEvent) error {
		if id := entityOf(event); id != "" {
			if manager := s.existingManager(id); manager != nil {
				manager.ProcessRest(ctx, long)
			}
			return nil
		}
		for _, manager := range s.allManagers() {
			manager.ProcessRest(ctx, long)
		}
		return nil
	}
}
