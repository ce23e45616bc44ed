package events

// GameEvent is an event dispatched through the bus
type GameEvent struct {
	Type EventType
	// ActorID is the token or user that caused the event
	ActorID string
	// TargetID is the token the event affects, if any
	TargetID  string
	Context   map[string]any
	Cancelled bool
}

// NewGameEvent creates a new event
func NewGameEvent(eventType EventType) *GameEvent {
	return &GameEvent{
		Type:    eventType,
		Context: make(map[string]any),
	}
}

// WithActor sets the actor of the event
func (e *GameEvent) WithActor(actorID string) *GameEvent {
	e.ActorID = actorID
	return e
}

// WithTarget sets the target of the event
func (e *GameEvent) WithTarget(targetID string) *GameEvent {
	e.TargetID = targetID
	return e
}

// WithContext adds context data to the event
func (e *GameEvent) WithContext(key string, value any) *GameEvent {
	e.Context[key] = value
	return e
}

// Cancel stops propagation to lower priority listeners
func (e *GameEvent) Cancel() {
	e.Cancelled = true
}

// IsCancelled returns whether the event has been cancelled
func (e *GameEvent) IsCancelled() bool {
	return e.Cancelled
}

// GetContext retrieves a value from the context
func (e *GameEvent) GetContext(key string) (any, bool) {
	val, exists := e.Context[key]
	return val, exists
}

// GetIntContext retrieves an int value from the context
func (e *GameEvent) GetIntContext(key string) (int, bool) {
	val, exists := e.Context[key]
	if !exists {
		return 0, false
	}
	intVal, ok := val.(int)
	return intVal, ok
}

// GetStringContext retrieves a string value from the context
func (e *GameEvent) GetStringContext(key string) (string, bool) {
	val, exists := e.Context[key]
	if !exists {
		return "", false
	}
	strVal, ok := val.(string)
	return strVal, ok
}

// GetStringsContext retrieves a []string value from the context
func (e *GameEvent) GetStringsContext(key string) ([]string, bool) {
	val, exists := e.Context[key]
	if !exists {
		return nil, false
	}
	strs, ok := val.([]string)
	return strs, ok
}

// GetBytesContext retrieves a []byte value from the context
func (e *GameEvent) GetBytesContext(key string) ([]byte, bool) {
	val, exists := e.Context[key]
	if !exists {
		return nil, false
	}
	b, ok := val.([]byte)
	return b, ok
}
