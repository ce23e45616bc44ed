package entities

import (
	"time"
)

// InteractionStatus is where a template placement prompt stands
type InteractionStatus string

const (
	InteractionStatusPending   InteractionStatus = "pending"   // Waiting for the template
	InteractionStatusCaptured  InteractionStatus = "captured"  // Targets were captured
	InteractionStatusEmpty     InteractionStatus = "empty"     // Template covered no valid targets
	InteractionStatusCancelled InteractionStatus = "cancelled" // Player or GM abandoned it
)

// Interaction tracks one area spell from the chat card to the captured
// targets
type Interaction struct {
	ID       string            `json:"id"`
	UserID   string            `json:"user_id"`   // Player who cast it
	CasterID string            `json:"caster_id"` // Caster's token
	Status   InteractionStatus `json:"status"`

	SpellKey      string `json:"spell_key"`
	SpellName     string `json:"spell_name"`
	Concentration bool   `json:"concentration"`
	// DurationRounds is how long a sustained spell lasts, 0 if unbounded
	DurationRounds int `json:"duration_rounds"`

	// Condition applied to every captured target, if any
	Condition       string `json:"condition,omitempty"`
	ConditionRounds int    `json:"condition_rounds,omitempty"`
	SaveDC          int    `json:"save_dc,omitempty"`
	SaveType        string `json:"save_type,omitempty"`

	TemplateID string   `json:"template_id,omitempty"`
	TargetIDs  []string `json:"target_ids,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsPending reports whether the interaction still waits for a template
func (i *Interaction) IsPending() bool {
	return i != nil && i.Status == InteractionStatusPending
}

// Clone returns a copy that shares no slices with i
func (i *Interaction) Clone() *Interaction {
	if i == nil {
		return nil
	}
	out := *i
	if i.TargetIDs != nil {
		out.TargetIDs = append([]string(nil), i.TargetIDs...)
	}
	return &out
}
