package spellbook

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fadedpez/dnd5e-api/entities"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/scene"
)

// Seconds per combat round
const roundSeconds = 6

// ConeAngle is the aperture of a 5e cone, whose width equals its length
const ConeAngle = 53.13

// RayWidth is the width of a line spell in feet
const RayWidth = 5

// Spell is the part of a spell the automation cares about
type Spell struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	Level         int    `json:"level"`
	Range         string `json:"range"`
	Duration      string `json:"duration"`
	Concentration bool   `json:"concentration"`
	Ritual        bool   `json:"ritual"`
	School        string `json:"school,omitempty"`
	DamageType    string `json:"damage_type,omitempty"`
	SaveType      string `json:"save_type,omitempty"`
	SaveSuccess   string `json:"save_success,omitempty"`
	Area          *Area  `json:"area,omitempty"`
}

// Area is a spell's area of effect
type Area struct {
	// Type is sphere, cylinder, cone, line, cube or square
	Type string `json:"type"`
	// Size in feet
	Size int `json:"size"`
}

// HasArea reports whether casting the spell places a template
func (s *Spell) HasArea() bool {
	return s != nil && s.Area != nil && s.Area.Size > 0
}

// DurationRounds converts the spell's duration to combat rounds
func (s *Spell) DurationRounds() (int, bool) {
	return ParseDurationRounds(s.Duration)
}

// Template returns the unplaced shape for the spell's area. Origin,
// direction and ids are filled in by whoever places it.
func (s *Spell) Template() (*scene.Template, bool) {
	if !s.HasArea() {
		return nil, false
	}

	size := float64(s.Area.Size)
	switch strings.ToLower(s.Area.Type) {
	case "sphere", "cylinder":
		return &scene.Template{Kind: scene.ShapeCircle, Distance: size}, true
	case "cone":
		return &scene.Template{Kind: scene.ShapeCone, Distance: size, Angle: ConeAngle}, true
	case "line":
		return &scene.Template{Kind: scene.ShapeRay, Distance: size, Width: RayWidth}, true
	case "cube", "square":
		return &scene.Template{Kind: scene.ShapeRect, Distance: size}, true
	}
	return nil, false
}

var durationPattern = regexp.MustCompile(`(\d+)\s+(round|minute|hour|day)s?`)

// ParseDurationRounds reads durations like "1 round", "Concentration, up to
// 1 minute" or "8 hours" as a number of 6-second rounds. Instantaneous,
// permanent and special durations are not round based.
func ParseDurationRounds(duration string) (int, bool) {
	match := durationPattern.FindStringSubmatch(strings.ToLower(duration))
	if match == nil {
		return 0, false
	}

	n, err := strconv.Atoi(match[1])
	if err != nil || n <= 0 {
		return 0, false
	}

	var seconds int
	switch match[2] {
	case "round":
		return n, true
	case "minute":
		seconds = n * 60
	case "hour":
		seconds = n * 3600
	case "day":
		seconds = n * 86400
	}
	return seconds / roundSeconds, true
}

func fromEntity(apiSpell *entities.Spell) *Spell {
	spell := &Spell{
		Key:           apiSpell.Key,
		Name:          apiSpell.Name,
		Level:         apiSpell.SpellLevel,
		Range:         apiSpell.Range,
		Duration:      apiSpell.Duration,
		Concentration: apiSpell.Concentration,
		Ritual:        apiSpell.Ritual,
	}

	if apiSpell.SpellSchool != nil {
		spell.School = apiSpell.SpellSchool.Name
	}
	if apiSpell.SpellDamage != nil && apiSpell.SpellDamage.SpellDamageType != nil {
		spell.DamageType = apiSpell.SpellDamage.SpellDamageType.Name
	}
	if apiSpell.DC != nil {
		spell.SaveSuccess = apiSpell.DC.DCSuccess
		if apiSpell.DC.DCType != nil {
			spell.SaveType = strings.ToUpper(apiSpell.DC.DCType.Name)
		}
	}
	if apiSpell.AreaOfEffect != nil {
		spell.Area = &Area{
			Type: apiSpell.AreaOfEffect.Type,
			Size: apiSpell.AreaOfEffect.Size,
		}
	}

	return spell
}
