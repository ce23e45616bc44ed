package events

// EventType represents the type of event
type EventType int

const (
	// Host events
	OnChatMessageCreated EventType = iota
	OnTemplatePlaced

	// Targeting events
	OnTemplateTargetsCaptured
	OnNoValidTargets

	// Combat events
	OnTurnStart
	OnTurnEnd
	OnRoundEnd
	OnDamageTaken

	// Rest events
	OnShortRest
	OnLongRest

	// Condition events
	OnConditionApplied
	OnConditionRemoved
	OnConditionModified

	// Concentration events
	OnConcentrationStarted
	OnConcentrationEnded
)

// String returns the string representation of the event type
func (e EventType) String() string {
	names := [...]string{
		"OnChatMessageCreated",
		"OnTemplatePlaced",
		"OnTemplateTargetsCaptured",
		"OnNoValidTargets",
		"OnTurnStart",
		"OnTurnEnd",
		"OnRoundEnd",
		"OnDamageTaken",
		"OnShortRest",
		"OnLongRest",
		"OnConditionApplied",
		"OnConditionRemoved",
		"OnConditionModified",
		"OnConcentrationStarted",
		"OnConcentrationEnded",
	}
	if e < OnChatMessageCreated || int(e) >= len(names) {
		return "Unknown"
	}
	return names[e]
}
