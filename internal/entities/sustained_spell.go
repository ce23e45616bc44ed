package entities

// SustainedSpell is a concentration spell a caster is holding
type SustainedSpell struct {
	CasterID   string `json:"caster_id"`
	CasterName string `json:"caster_name"`
	UserID     string `json:"user_id"`
	SpellKey   string `json:"spell_key"`
	SpellName  string `json:"spell_name"`

	// StartedRound is the combat round the spell was cast in
	StartedRound int `json:"started_round"`
	// DurationRounds is 0 when the spell has no round limit
	DurationRounds int `json:"duration_rounds"`

	TargetIDs     []string `json:"target_ids,omitempty"`
	InteractionID string   `json:"interaction_id,omitempty"`
}

// ExpiresBy reports whether the spell has run out by the start of round
func (s *SustainedSpell) ExpiresBy(round int) bool {
	return s.DurationRounds > 0 && round >= s.StartedRound+s.DurationRounds
}

// Clone returns a copy that shares no slices with s
func (s *SustainedSpell) Clone() *SustainedSpell {
	if s == nil {
		return nil
	}
	out := *s
	if s.TargetIDs != nil {
		out.TargetIDs = append([]string(nil), s.TargetIDs...)
	}
	return &out
}
