package events

// Context keys for event data
const (
	// Host context
	ContextUserID    = "user_id"    // string: user who triggered the event
	ContextMessageID = "message_id" // string: chat message id
	ContextDocument  = "document"   // []byte: raw JSON document from the host
	ContextTemplate  = "template"   // *scene.Template: placed template

	// Targeting context
	ContextInteractionID = "interaction_id" // string: placement interaction id
	ContextTemplateID    = "template_id"    // string: template id
	ContextTargetIDs     = "target_ids"     // []string: captured token ids

	// Combat context
	ContextEntityID    = "entity_id"    // string: token the event is about
	ContextRound       = "round"        // int: current combat round
	ContextDamage      = "damage"       // int: damage taken
	ContextSaveResults = "save_results" // map[string]bool: end-of-turn save results by condition type

	// Spell context
	ContextSpellKey  = "spell_key"  // string: spell key
	ContextSpellName = "spell_name" // string: spell display name

	// Condition context
	ContextConditionID   = "condition_id"   // string: condition id
	ContextConditionType = "condition_type" // string: condition type
	ContextReason        = "reason"         // string: why something ended
)
