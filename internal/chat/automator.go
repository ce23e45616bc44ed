// Package chat starts spell automation from chat cards and finishes it when
// the matching template lands on the scene.
package chat

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/concentration"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/conditions"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/entities"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/events"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/flags"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/notify"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/scene"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/spellbook"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/targeting"
)

// SpellSource looks up spells by key
type SpellSource interface {
	Spell(ctx context.Context, key string) (*spellbook.Spell, error)
}

// TargetSource reads a user's current target selection
type TargetSource interface {
	Targets(userID string) []string
}

// TokenSource looks up tokens for display names
type TokenSource interface {
	Token(id string) (*scene.Token, bool)
}

// Config holds the dependencies of the automator
type Config struct {
	Spells        SpellSource
	Targeting     targeting.Service
	Concentration concentration.Service
	Conditions    conditions.Service
	Notifier      notify.Notifier
	Targets       TargetSource
	Tokens        TokenSource
	Logger        logrus.FieldLogger
}

// Automator reacts to chat cards and template placements
type Automator struct {
	spells        SpellSource
	targeting     targeting.Service
	concentration concentration.Service
	conditions    conditions.Service
	notifier      notify.Notifier
	targets       TargetSource
	tokens        TokenSource
	log           logrus.FieldLogger

	round atomic.Int64
}

// NewAutomator creates an automator
func NewAutomator(cfg *Config) (*Automator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if cfg.Spells == nil {
		return nil, errors.InvalidArgument("spell source is required")
	}
	if cfg.Targeting == nil {
		return nil, errors.InvalidArgument("targeting service is required")
	}
	if cfg.Concentration == nil {
		return nil, errors.InvalidArgument("concentration service is required")
	}
	if cfg.Conditions == nil {
		return nil, errors.InvalidArgument("condition service is required")
	}
	if cfg.Notifier == nil {
		return nil, errors.InvalidArgument("notifier is required")
	}
	if cfg.Targets == nil {
		return nil, errors.InvalidArgument("target source is required")
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Automator{
		spells:        cfg.Spells,
		targeting:     cfg.Targeting,
		concentration: cfg.Concentration,
		conditions:    cfg.Conditions,
		notifier:      cfg.Notifier,
		targets:       cfg.Targets,
		tokens:        cfg.Tokens,
		log:           log.WithField("component", "chat"),
	}, nil
}

// Listener priorities. Round tracking runs ahead of everything that reads it.
const (
	roundPriority      = 5
	automationPriority = 100
)

// Register subscribes the automator to the bus
func (a *Automator) Register(bus events.Bus) {
	bus.Subscribe(events.OnTurnStart, &events.ListenerFunc{
		Order: roundPriority,
		Fn: func(_ context.Context, event *events.GameEvent) error {
			if round, ok := event.GetIntContext(events.ContextRound); ok && round > 0 {
				a.round.Store(int64(round))
			}
			return nil
		},
	})
	bus.Subscribe(events.OnChatMessageCreated, &events.ListenerFunc{
		Order: automationPriority,
		Fn:    a.HandleChatMessage,
	})
	bus.Subscribe(events.OnTemplatePlaced, &events.ListenerFunc{
		Order: automationPriority,
		Fn:    a.HandleTemplatePlaced,
	})
}

// Round returns the last combat round seen
func (a *Automator) Round() int {
	return int(a.round.Load())
}

// card is what a chat message asks for
type card struct {
	userID    string
	casterID  string
	spellKey  string
	condition conditions.ConditionType
	rounds    int
	saveDC    int
}

func readCard(event *events.GameEvent) (*card, bool) {
	doc, ok := event.GetBytesContext(events.ContextDocument)
	if !ok {
		return nil, false
	}

	c := &card{}
	c.userID, _ = event.GetStringContext(events.ContextUserID)
	c.casterID, _ = flags.ModuleString(doc, "", flags.KeyCasterID)
	if c.casterID == "" {
		c.casterID = event.ActorID
	}

	// The spell flag is either the key itself or an object carrying it
	if key, ok := flags.ModuleString(doc, "", flags.KeySpell); ok {
		c.spellKey = key
	} else if raw, ok := flags.ModuleRaw(doc, "", flags.KeySpell); ok {
		c.spellKey, _ = flags.String(raw, "key")
	}

	if name, ok := flags.ModuleString(doc, "", flags.KeyCondition); ok {
		if condType, valid := conditions.ParseConditionType(name); valid {
			c.condition = condType
		}
	}
	c.rounds, _ = flags.ModuleInt(doc, "", flags.KeyRounds)
	c.saveDC, _ = flags.ModuleInt(doc, "", flags.KeySaveDC)

	return c, c.spellKey != "" || c.condition != ""
}

// HandleChatMessage starts automation for a chat card. Area spells open a
// placement interaction; other spells act on the user's current targets.
func (a *Automator) HandleChatMessage(ctx context.Context, event *events.GameEvent) error {
	c, ok := readCard(event)
	if !ok {
		return nil
	}

	log := a.log.WithFields(logrus.Fields{
		"user_id":   c.userID,
		"caster_id": c.casterID,
		"spell":     c.spellKey,
	})

	if c.spellKey == "" {
		a.applyCondition(ctx, &application{
			condition: c.condition,
			rounds:    c.rounds,
			saveDC:    c.saveDC,
			source:    "chat",
			sourceID:  c.casterID,
			userID:    c.userID,
			targetIDs: a.targets.Targets(c.userID),
		})
		return nil
	}

	spell, err := a.spells.Spell(ctx, c.spellKey)
	if err != nil {
		log.WithError(err).Warn("failed to look up spell")
		a.notify(ctx, &notify.Notice{
			Kind:   notify.KindWarning,
			Title:  "Unknown spell",
			Body:   fmt.Sprintf("Could not automate %q.", c.spellKey),
			UserID: c.userID,
		})
		return nil
	}

	duration, _ := spell.DurationRounds()

	if spell.HasArea() {
		if c.userID == "" {
			log.Warn("area spell without a user, nobody to place the template")
			return nil
		}
		interaction, err := a.targeting.Begin(ctx, &targeting.BeginInput{
			UserID:          c.userID,
			CasterID:        c.casterID,
			SpellKey:        spell.Key,
			SpellName:       spell.Name,
			Concentration:   spell.Concentration,
			DurationRounds:  duration,
			Condition:       string(c.condition),
			ConditionRounds: c.rounds,
			SaveDC:          c.saveDC,
			SaveType:        spell.SaveType,
		})
		if err != nil {
			log.WithError(err).Warn("failed to begin targeting")
			return nil
		}

		a.notify(ctx, &notify.Notice{
			Kind:   notify.KindPrompt,
			Title:  spell.Name,
			Body:   fmt.Sprintf("Place the %s template. Interaction %s.", describeArea(spell), interaction.ID),
			UserID: c.userID,
		})
		return nil
	}

	targetIDs := a.targets.Targets(c.userID)

	if spell.Concentration {
		a.startConcentration(ctx, &entities.Interaction{
			UserID:         c.userID,
			CasterID:       c.casterID,
			SpellKey:       spell.Key,
			SpellName:      spell.Name,
			DurationRounds: duration,
			TargetIDs:      targetIDs,
		})
	}

	if c.condition != "" {
		a.applyCondition(ctx, &application{
			condition:     c.condition,
			rounds:        c.rounds,
			saveDC:        c.saveDC,
			saveType:      spell.SaveType,
			source:        spell.Name,
			sourceID:      c.casterID,
			userID:        c.userID,
			concentration: spell.Concentration,
			targetIDs:     targetIDs,
		})
	}

	return nil
}

// HandleTemplatePlaced captures targets for the interaction the template
// belongs to. A template without an interaction flag is matched to its
// user's most recent pending interaction.
func (a *Automator) HandleTemplatePlaced(ctx context.Context, event *events.GameEvent) error {
	value, ok := event.GetContext(events.ContextTemplate)
	if !ok {
		return nil
	}
	tmpl, ok := value.(*scene.Template)
	if !ok || tmpl == nil {
		return nil
	}

	log := a.log.WithField("template_id", tmpl.ID)

	interactionID, _ := flags.ScopedString(tmpl.Flags, flags.KeyInteractionID)
	if interactionID == "" {
		if tmpl.UserID == "" {
			return nil
		}
		pending, err := a.targeting.LatestPending(ctx, tmpl.UserID)
		if err != nil {
			if !errors.IsNotFound(err) {
				log.WithError(err).Warn("failed to find pending interaction")
			}
			return nil
		}
		interactionID = pending.ID
	}
	log = log.WithField("interaction_id", interactionID)

	interaction, err := a.targeting.Capture(ctx, interactionID, tmpl)
	if err != nil {
		if errors.IsFailedPrecondition(err) || errors.IsNotFound(err) {
			log.WithError(err).Debug("template does not complete an interaction")
			return nil
		}
		log.WithError(err).Warn("failed to capture targets")
		return nil
	}

	if len(interaction.TargetIDs) == 0 {
		a.notify(ctx, &notify.Notice{
			Kind:   notify.KindWarning,
			Title:  "No valid targets",
			Body:   fmt.Sprintf("The %s template did not cover any targets.", interaction.SpellName),
			UserID: interaction.UserID,
		})
		return nil
	}

	if interaction.Concentration {
		a.startConcentration(ctx, interaction)
	}

	if interaction.Condition != "" {
		condType, valid := conditions.ParseConditionType(interaction.Condition)
		if !valid {
			log.WithField("condition", interaction.Condition).Warn("unknown condition on interaction")
			return nil
		}
		a.applyCondition(ctx, &application{
			condition:     condType,
			rounds:        interaction.ConditionRounds,
			saveDC:        interaction.SaveDC,
			saveType:      interaction.SaveType,
			source:        interaction.SpellName,
			sourceID:      interaction.CasterID,
			userID:        interaction.UserID,
			concentration: interaction.Concentration,
			targetIDs:     interaction.TargetIDs,
		})
	}

	return nil
}

// startConcentration must run before conditions are applied so that
// replacing an older spell does not strip the new conditions
func (a *Automator) startConcentration(ctx context.Context, interaction *entities.Interaction) {
	if interaction.CasterID == "" {
		a.log.WithField("spell", interaction.SpellKey).Warn("concentration spell without a caster")
		return
	}

	_, err := a.concentration.Start(ctx, &concentration.StartInput{
		CasterID:       interaction.CasterID,
		CasterName:     a.tokenName(interaction.CasterID),
		UserID:         interaction.UserID,
		SpellKey:       interaction.SpellKey,
		SpellName:      interaction.SpellName,
		Round:          a.Round(),
		DurationRounds: interaction.DurationRounds,
		TargetIDs:      interaction.TargetIDs,
		InteractionID:  interaction.ID,
	})
	if err != nil {
		a.log.WithError(err).WithField("caster_id", interaction.CasterID).Warn("failed to start concentration")
	}
}

type application struct {
	condition     conditions.ConditionType
	rounds        int
	saveDC        int
	saveType      string
	source        string
	sourceID      string
	userID        string
	concentration bool
	targetIDs     []string
}

// applyCondition puts the condition on every target and returns how many
// took it. Conditions held up by concentration end with the spell; otherwise
// a round count bounds them, and without one they last until removed.
func (a *Automator) applyCondition(ctx context.Context, app *application) int {
	if app.condition == "" || len(app.targetIDs) == 0 {
		return 0
	}

	input := &conditions.AddInput{
		Type:      app.condition,
		Source:    app.source,
		SourceID:  app.sourceID,
		SaveDC:    app.saveDC,
		SaveType:  app.saveType,
		SaveEnd:   app.saveDC > 0,
		AppliedBy: app.userID,
	}
	switch {
	case app.concentration && app.sourceID != "":
		input.DurationType = conditions.DurationConcentration
	case app.rounds > 0:
		input.DurationType = conditions.DurationRounds
		input.Duration = app.rounds
	default:
		input.DurationType = conditions.DurationPermanent
	}

	applied := 0
	for _, targetID := range app.targetIDs {
		if _, err := a.conditions.AddCondition(ctx, targetID, input); err != nil {
			a.log.WithError(err).WithFields(logrus.Fields{
				"target_id": targetID,
				"condition": app.condition,
			}).Warn("failed to apply condition")
			continue
		}
		applied++
	}

	a.log.WithFields(logrus.Fields{
		"condition": app.condition,
		"targets":   applied,
	}).Info("condition applied to targets")

	return applied
}

func (a *Automator) tokenName(id string) string {
	if a.tokens == nil {
		return ""
	}
	if token, ok := a.tokens.Token(id); ok {
		return token.Name
	}
	return ""
}

func (a *Automator) notify(ctx context.Context, notice *notify.Notice) {
	if err := a.notifier.Notify(ctx, notice); err != nil {
		a.log.WithError(err).WithField("title", notice.Title).Warn("failed to send notice")
	}
}

// describeArea names the template the user has to place
func describeArea(spell *spellbook.Spell) string {
	tmpl, ok := spell.Template()
	if !ok {
		if spell.Area == nil {
			return "area"
		}
		return fmt.Sprintf("%d ft %s", spell.Area.Size, spell.Area.Type)
	}

	switch tmpl.Kind {
	case scene.ShapeCircle:
		return fmt.Sprintf("%g ft radius circle", tmpl.Distance)
	case scene.ShapeCone:
		return fmt.Sprintf("%g ft cone", tmpl.Distance)
	case scene.ShapeRay:
		return fmt.Sprintf("%g ft line (%g ft wide)", tmpl.Distance, tmpl.Width)
	default:
		return fmt.Sprintf("%g ft square", tmpl.Distance)
	}
}
