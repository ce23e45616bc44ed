package conditions

import "time"

// ConditionType represents a type of condition
type ConditionType string

// Standard 5e conditions
const (
	Blinded       ConditionType = "blinded"
	Charmed       ConditionType = "charmed"
	Deafened      ConditionType = "deafened"
	Frightened    ConditionType = "frightened"
	Grappled      ConditionType = "grappled"
	Incapacitated ConditionType = "incapacitated"
	Invisible     ConditionType = "invisible"
	Paralyzed     ConditionType = "paralyzed"
	Petrified     ConditionType = "petrified"
	Poisoned      ConditionType = "poisoned"
	Prone         ConditionType = "prone"
	Restrained    ConditionType = "restrained"
	Stunned       ConditionType = "stunned"
	Unconscious   ConditionType = "unconscious"
	Exhaustion    ConditionType = "exhaustion" // levels 1-6

	// Concentration marks a caster sustaining a spell
	Concentration ConditionType = "concentration"
)

// MaxExhaustion is the highest exhaustion level
const MaxExhaustion = 6

// ParseConditionType validates a condition name coming from a host document
func ParseConditionType(s string) (ConditionType, bool) {
	ct := ConditionType(s)
	if _, ok := descriptions[ct]; !ok {
		return "", false
	}
	return ct, true
}

// DurationType defines how long a condition lasts
type DurationType string

const (
	DurationRounds        DurationType = "rounds"          // ticks down at round end
	DurationTurns         DurationType = "turns"           // ticks down at the entity's turn start
	DurationUntilRest     DurationType = "until_rest"      // short or long rest
	DurationUntilLongRest DurationType = "until_long_rest" // long rest only
	DurationConcentration DurationType = "concentration"   // until the source stops sustaining
	DurationPermanent     DurationType = "permanent"       // until removed
	DurationUntilDamaged  DurationType = "until_damaged"
	DurationEndOfNextTurn DurationType = "end_next_turn"
)

// Condition is an active condition on a token
type Condition struct {
	ID          string        `json:"id"`
	EntityID    string        `json:"entity_id"`
	Type        ConditionType `json:"type"`
	Description string        `json:"description"`
	// Source is what caused it, usually a spell name
	Source string `json:"source"`
	// SourceID is the token that applied it
	SourceID string `json:"source_id"`

	DurationType DurationType `json:"duration_type"`
	Duration     int          `json:"duration"`
	Remaining    int          `json:"remaining"`
	Level        int          `json:"level"`
	SaveDC       int          `json:"save_dc"`
	SaveType     string       `json:"save_type"`
	SaveEnd      bool         `json:"save_end"`

	AppliedAt time.Time `json:"applied_at"`
	AppliedBy string    `json:"applied_by"`
}

// Effect describes what a condition does
type Effect struct {
	AttackAdvantage     bool `json:"attack_advantage"`
	AttackDisadvantage  bool `json:"attack_disadvantage"`
	DefenseAdvantage    bool `json:"defense_advantage"`    // attackers have advantage
	DefenseDisadvantage bool `json:"defense_disadvantage"` // attackers have disadvantage

	// SpeedMultiplier of 0 means unchanged; CantMove stops movement entirely
	SpeedMultiplier float64 `json:"speed_multiplier"`
	CantMove        bool    `json:"cant_move"`

	CantAct   bool `json:"cant_act"`
	CantReact bool `json:"cant_react"`
	CantSpeak bool `json:"cant_speak"`

	SaveDisadvantage map[string]bool `json:"save_disadvantage"`
	SaveAutoFail     map[string]bool `json:"save_auto_fail"`

	Resistance map[string]bool `json:"resistance"`
	Immunity   map[string]bool `json:"immunity"`

	Incapacitated bool `json:"incapacitated"`
	FallProne     bool `json:"fall_prone"`
	DropItems     bool `json:"drop_items"`
}

var strDexFail = map[string]bool{"STR": true, "DEX": true}

var standardEffects = map[ConditionType]Effect{
	Blinded: {
		AttackDisadvantage: true,
		DefenseAdvantage:   true,
	},
	Frightened: {
		AttackDisadvantage: true,
	},
	Grappled: {
		CantMove: true,
	},
	Incapacitated: {
		Incapacitated: true,
		CantAct:       true,
		CantReact:     true,
	},
	Invisible: {
		AttackAdvantage:     true,
		DefenseDisadvantage: true,
	},
	Paralyzed: {
		Incapacitated:    true,
		CantAct:          true,
		CantReact:        true,
		CantMove:         true,
		CantSpeak:        true,
		DefenseAdvantage: true,
		SaveAutoFail:     strDexFail,
	},
	Petrified: {
		Incapacitated:    true,
		CantAct:          true,
		CantReact:        true,
		CantMove:         true,
		CantSpeak:        true,
		DefenseAdvantage: true,
		SaveAutoFail:     strDexFail,
		Resistance:       map[string]bool{"all": true},
		Immunity:         map[string]bool{"poison": true},
	},
	Poisoned: {
		AttackDisadvantage: true,
	},
	Prone: {
		AttackDisadvantage: true,
		SpeedMultiplier:    0.5,
		FallProne:          true,
	},
	Restrained: {
		CantMove:           true,
		AttackDisadvantage: true,
		DefenseAdvantage:   true,
		SaveDisadvantage:   map[string]bool{"DEX": true},
	},
	Stunned: {
		Incapacitated:    true,
		CantAct:          true,
		CantReact:        true,
		CantMove:         true,
		DefenseAdvantage: true,
		SaveAutoFail:     strDexFail,
	},
	Unconscious: {
		Incapacitated:    true,
		CantAct:          true,
		CantReact:        true,
		CantMove:         true,
		CantSpeak:        true,
		DropItems:        true,
		FallProne:        true,
		DefenseAdvantage: true,
		SaveAutoFail:     strDexFail,
	},
}

// StandardEffects returns the rules effect of a condition type. Unknown and
// purely narrative conditions return an empty effect.
func StandardEffects(ct ConditionType) *Effect {
	effect := standardEffects[ct]
	return &effect
}

var descriptions = map[ConditionType]string{
	Blinded:       "Can't see. Disadvantage on attacks. Attacks against have advantage.",
	Charmed:       "Can't attack the charmer. Charmer has advantage on social checks.",
	Deafened:      "Can't hear. Auto-fails hearing checks.",
	Frightened:    "Disadvantage on checks and attacks while the source is in sight.",
	Grappled:      "Speed is 0.",
	Incapacitated: "Can't take actions or reactions.",
	Invisible:     "Can't be seen. Advantage on attacks. Attacks against have disadvantage.",
	Paralyzed:     "Incapacitated, can't move or speak. Auto-fails STR and DEX saves. Hits within 5 ft are crits.",
	Petrified:     "Turned to stone. Resistance to all damage. Immune to poison.",
	Poisoned:      "Disadvantage on attack rolls and ability checks.",
	Prone:         "Crawls at half speed. Disadvantage on attacks.",
	Restrained:    "Speed is 0. Disadvantage on attacks and DEX saves. Attacks against have advantage.",
	Stunned:       "Incapacitated, can't move. Auto-fails STR and DEX saves.",
	Unconscious:   "Incapacitated and unaware. Drops held items and falls prone. Hits within 5 ft are crits.",
	Exhaustion:    "Level-based penalties up to death at level 6.",
	Concentration: "Sustaining a spell. Taking damage requires a CON save.",
}

// Describe returns the rules summary for a condition type
func Describe(ct ConditionType) string {
	if desc, ok := descriptions[ct]; ok {
		return desc
	}
	return "Unknown condition effect."
}
