package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/events"
)

type EventBusSuite struct {
	suite.Suite
	ctx context.Context
	bus *events.EventBus
}

func TestEventBusSuite(t *testing.T) {
	suite.Run(t, new(EventBusSuite))
}

func (s *EventBusSuite) SetupTest() {
	s.ctx = context.Background()
	s.bus = events.NewEventBus()
}

type mockListener struct {
	priority int
	handler  func(event *events.GameEvent) error
	called   bool
	mu       sync.Mutex
}

func (m *mockListener) HandleEvent(_ context.Context, event *events.GameEvent) error {
	m.mu.Lock()
	m.called = true
	m.mu.Unlock()

	if m.handler != nil {
		return m.handler(event)
	}
	return nil
}

func (m *mockListener) Priority() int {
	return m.priority
}

func (m *mockListener) wasCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.called
}

func (s *EventBusSuite) TestSubscribeAndEmit() {
	listener := &mockListener{priority: 10}
	s.bus.Subscribe(events.OnTemplatePlaced, listener)

	err := s.bus.Emit(s.ctx, events.NewGameEvent(events.OnTemplatePlaced))

	s.NoError(err)
	s.True(listener.wasCalled())
}

func (s *EventBusSuite) TestEmitOtherTypeDoesNotCall() {
	listener := &mockListener{priority: 10}
	s.bus.Subscribe(events.OnTemplatePlaced, listener)

	s.NoError(s.bus.Emit(s.ctx, events.NewGameEvent(events.OnTurnStart)))
	s.False(listener.wasCalled())
}

func (s *EventBusSuite) TestUnsubscribe() {
	listener := &mockListener{priority: 10}
	s.bus.Subscribe(events.OnTurnStart, listener)
	s.bus.Unsubscribe(events.OnTurnStart, listener)

	err := s.bus.Emit(s.ctx, events.NewGameEvent(events.OnTurnStart))

	s.NoError(err)
	s.False(listener.wasCalled())
}

func (s *EventBusSuite) TestPriorityOrdering() {
	var order []int
	record := func(p int) *mockListener {
		return &mockListener{
			priority: p,
			handler: func(event *events.GameEvent) error {
				order = append(order, p)
				return nil
			},
		}
	}

	s.bus.Subscribe(events.OnTurnStart, record(30))
	s.bus.Subscribe(events.OnTurnStart, record(10))
	s.bus.Subscribe(events.OnTurnStart, record(20))

	s.NoError(s.bus.Emit(s.ctx, events.NewGameEvent(events.OnTurnStart)))
	s.Equal([]int{10, 20, 30}, order)
}

func (s *EventBusSuite) TestEventCancellation() {
	first := &mockListener{
		priority: 10,
		handler: func(event *events.GameEvent) error {
			event.Cancel()
			return nil
		},
	}
	second := &mockListener{priority: 20}

	s.bus.Subscribe(events.OnChatMessageCreated, first)
	s.bus.Subscribe(events.OnChatMessageCreated, second)

	event := events.NewGameEvent(events.OnChatMessageCreated)
	s.NoError(s.bus.Emit(s.ctx, event))

	s.True(event.IsCancelled())
	s.True(first.wasCalled())
	s.False(second.wasCalled())
}

func (s *EventBusSuite) TestListenerError() {
	expectedErr := errors.New("test error")
	s.bus.Subscribe(events.OnDamageTaken, &mockListener{
		priority: 10,
		handler: func(event *events.GameEvent) error {
			return expectedErr
		},
	})

	err := s.bus.Emit(s.ctx, events.NewGameEvent(events.OnDamageTaken))

	s.ErrorIs(err, expectedErr)
	s.Contains(err.Error(), "OnDamageTaken")
}

func (s *EventBusSuite) TestEmitNil() {
	s.Error(s.bus.Emit(s.ctx, nil))
}

func (s *EventBusSuite) TestListenerFunc() {
	var got string
	s.bus.Subscribe(events.OnNoValidTargets, &events.ListenerFunc{
		Order: 1,
		Fn: func(ctx context.Context, event *events.GameEvent) error {
			got, _ = event.GetStringContext(events.ContextUserID)
			return nil
		},
	})

	event := events.NewGameEvent(events.OnNoValidTargets).WithContext(events.ContextUserID, "user-1")
	s.NoError(s.bus.Emit(s.ctx, event))
	s.Equal("user-1", got)
}

func (s *EventBusSuite) TestConcurrentAccess() {
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(3)

		go func(id int) {
			defer wg.Done()
			s.bus.Subscribe(events.OnTurnStart, &mockListener{priority: id})
		}(i)

		go func() {
			defer wg.Done()
			_ = s.bus.Emit(s.ctx, events.NewGameEvent(events.OnTurnStart)) //nolint:errcheck // concurrent access only
		}()

		go func(id int) {
			defer wg.Done()
			if id%3 == 0 {
				s.bus.Clear()
			}
		}(i)
	}

	wg.Wait()
}

func (s *EventBusSuite) TestListenerCount() {
	s.Equal(0, s.bus.ListenerCount(events.OnTurnEnd))

	l1 := &mockListener{priority: 10}
	l2 := &mockListener{priority: 20}

	s.bus.Subscribe(events.OnTurnEnd, l1)
	s.bus.Subscribe(events.OnTurnEnd, l2)
	s.Equal(2, s.bus.ListenerCount(events.OnTurnEnd))

	s.bus.Unsubscribe(events.OnTurnEnd, l1)
	s.Equal(1, s.bus.ListenerCount(events.OnTurnEnd))

	s.bus.Clear()
	s.Equal(0, s.bus.ListenerCount(events.OnTurnEnd))
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "OnTemplateTargetsCaptured", events.OnTemplateTargetsCaptured.String())
	assert.Equal(t, "Unknown", events.EventType(999).String())
}

func TestGameEvent_Context(t *testing.T) {
	event := events.NewGameEvent(events.OnTemplateTargetsCaptured).
		WithActor("caster").
		WithTarget("goblin").
		WithContext(events.ContextRound, 3).
		WithContext(events.ContextTargetIDs, []string{"a", "b"}).
		WithContext(events.ContextDocument, []byte(`{}`))

	round, ok := event.GetIntContext(events.ContextRound)
	require.True(t, ok)
	assert.Equal(t, 3, round)

	ids, ok := event.GetStringsContext(events.ContextTargetIDs)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ids)

	_, ok = event.GetStringContext(events.ContextRound)
	assert.False(t, ok, "mistyped lookup fails")

	_, ok = event.GetBytesContext(events.ContextDocument)
	assert.True(t, ok)

	assert.Equal(t, "caster", event.ActorID)
	assert.Equal(t, "goblin", event.TargetID)
}
