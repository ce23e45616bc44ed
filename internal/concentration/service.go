// Package concentration tracks the spell each caster is sustaining and
// reminds the table about it.
package concentration

//go:generate mockgen -destination=mock/mock_service.go -package=mockconcentration -source=service.go

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/conditions"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/entities"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/events"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/notify"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/repositories/sustained"
)

// Reasons a sustained spell ends
const (
	ReasonReplaced = "replaced"
	ReasonExpired  = "expired"
	ReasonBroken   = "broken"
	ReasonDropped  = "dropped"
)

// MinSaveDC is the floor of a concentration save
const MinSaveDC = 10

// SaveDC returns the Constitution save DC to keep concentrating after damage
func SaveDC(damage int) int {
	return max(MinSaveDC, damage/2)
}

// StartInput describes a spell to sustain
type StartInput struct {
	CasterID       string
	CasterName     string
	UserID         string
	SpellKey       string
	SpellName      string
	Round          int
	DurationRounds int
	TargetIDs      []string
	InteractionID  string
}

// Config holds the dependencies of the service
type Config struct {
	Repository sustained.Repository
	Conditions conditions.Service
	Notifier   notify.Notifier
	Bus        events.Bus
	Logger     logrus.FieldLogger
}

// Service starts, ends and reminds about sustained spells
type Service interface {
	Start(ctx context.Context, input *StartInput) (*entities.SustainedSpell, error)
	End(ctx context.Context, casterID, reason string) error
	Current(ctx context.Context, casterID string) (*entities.SustainedSpell, error)
	HandleTurnStart(ctx context.Context, combatantID string, round int) error
	HandleDamage(ctx context.Context, casterID string, amount int) error
	Register(bus events.Bus)
}

type service struct {
	repo       sustained.Repository
	conditions conditions.Service
	notifier   notify.Notifier
	bus        events.Bus
	log        logrus.FieldLogger
}

// NewService creates a concentration service
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if cfg.Repository == nil {
		return nil, errors.InvalidArgument("repository is required")
	}
	if cfg.Conditions == nil {
		return nil, errors.InvalidArgument("condition service is required")
	}
	if cfg.Notifier == nil {
		return nil, errors.InvalidArgument("notifier is required")
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &service{
		repo:       cfg.Repository,
		conditions: cfg.Conditions,
		notifier:   cfg.Notifier,
		bus:        cfg.Bus,
		log:        log.WithField("component", "concentration"),
	}, nil
}

// Start begins sustaining a spell. A caster sustains one spell at a time, so
// any spell already held ends with ReasonReplaced.
func (s *service) Start(ctx context.Context, input *StartInput) (*entities.SustainedSpell, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CasterID == "" {
		return nil, errors.InvalidArgument("caster ID is required")
	}
	if input.SpellKey == "" {
		return nil, errors.InvalidArgument("spell key is required")
	}

	if err := s.End(ctx, input.CasterID, ReasonReplaced); err != nil && !errors.IsNotFound(err) {
		return nil, errors.Wrapf(err, "failed to end previous spell of %s", input.CasterID)
	}

	spell := &entities.SustainedSpell{
		CasterID:       input.CasterID,
		CasterName:     input.CasterName,
		UserID:         input.UserID,
		SpellKey:       input.SpellKey,
		SpellName:      input.SpellName,
		StartedRound:   input.Round,
		DurationRounds: input.DurationRounds,
		TargetIDs:      append([]string(nil), input.TargetIDs...),
		InteractionID:  input.InteractionID,
	}
	if spell.SpellName == "" {
		spell.SpellName = spell.SpellKey
	}

	if err := s.repo.Save(ctx, spell); err != nil {
		return nil, errors.Wrap(err, "failed to save sustained spell")
	}

	if _, err := s.conditions.AddCondition(ctx, spell.CasterID, &conditions.AddInput{
		Type:         conditions.Concentration,
		Source:       spell.SpellName,
		SourceID:     spell.CasterID,
		DurationType: conditions.DurationConcentration,
		AppliedBy:    spell.UserID,
	}); err != nil {
		s.log.WithError(err).WithField("caster_id", spell.CasterID).Warn("failed to apply concentration condition")
	}

	s.log.WithFields(logrus.Fields{
		"caster_id": spell.CasterID,
		"spell":     spell.SpellKey,
		"round":     spell.StartedRound,
		"duration":  spell.DurationRounds,
	}).Info("concentration started")

	s.emit(ctx, events.NewGameEvent(events.OnConcentrationStarted).
		WithActor(spell.CasterID).
		WithContext(events.ContextEntityID, spell.CasterID).
		WithContext(events.ContextSpellKey, spell.SpellKey).
		WithContext(events.ContextSpellName, spell.SpellName).
		WithContext(events.ContextTargetIDs, spell.TargetIDs))

	return spell.Clone(), nil
}

// End stops the caster's sustained spell and removes the conditions it was
// holding up. It returns a not found error when nothing is sustained.
func (s *service) End(ctx context.Context, casterID, reason string) error {
	spell, err := s.repo.Get(ctx, casterID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, casterID); err != nil && !errors.IsNotFound(err) {
		return errors.Wrap(err, "failed to delete sustained spell")
	}

	removed := s.conditions.RemoveBySource(ctx, casterID, conditions.DurationConcentration)

	s.log.WithFields(logrus.Fields{
		"caster_id":          casterID,
		"spell":              spell.SpellKey,
		"reason":             reason,
		"conditions_removed": removed,
	}).Info("concentration ended")

	s.emit(ctx, events.NewGameEvent(events.OnConcentrationEnded).
		WithActor(casterID).
		WithContext(events.ContextEntityID, casterID).
		WithContext(events.ContextSpellKey, spell.SpellKey).
		WithContext(events.ContextSpellName, spell.SpellName).
		WithContext(events.ContextReason, reason))

	if reason != ReasonReplaced {
		s.notify(ctx, &notify.Notice{
			Kind:   notify.KindInfo,
			Title:  "Concentration ended",
			Body:   fmt.Sprintf("%s is no longer sustaining %s (%s).", displayName(spell), spell.SpellName, reason),
			UserID: spell.UserID,
		})
	}

	return nil
}

// Current returns the spell a caster is sustaining
func (s *service) Current(ctx context.Context, casterID string) (*entities.SustainedSpell, error) {
	return s.repo.Get(ctx, casterID)
}

// HandleTurnStart reminds the combatant about their sustained spell, or ends
// it once its duration has run out
func (s *service) HandleTurnStart(ctx context.Context, combatantID string, round int) error {
	spell, err := s.repo.Get(ctx, combatantID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}

	if spell.ExpiresBy(round) {
		return s.End(ctx, combatantID, ReasonExpired)
	}

	s.notify(ctx, &notify.Notice{
		Kind:   notify.KindReminder,
		Title:  "Concentration",
		Body:   fmt.Sprintf("%s is sustaining %s.", displayName(spell), spell.SpellName),
		UserID: spell.UserID,
	})
	return nil
}

// HandleDamage prompts a concentration save when a sustaining caster takes
// damage
func (s *service) HandleDamage(ctx context.Context, casterID string, amount int) error {
	if amount <= 0 {
		return nil
	}

	spell, err := s.repo.Get(ctx, casterID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}

	s.notify(ctx, &notify.Notice{
		Kind:  notify.KindReminder,
		Title: "Concentration check",
		Body: fmt.Sprintf("%s took %d damage. DC %d Constitution save to keep %s.",
			displayName(spell), amount, SaveDC(amount), spell.SpellName),
		UserID: spell.UserID,
	})
	return nil
}

// Priority for bus listeners; runs before condition bookkeeping
const listenerPriority = 40

// Register subscribes the service to turn start and damage events
func (s *service) Register(bus events.Bus) {
	bus.Subscribe(events.OnTurnStart, &events.ListenerFunc{
		Order: listenerPriority,
		Fn: func(ctx context.Context, event *events.GameEvent) error {
			round, _ := event.GetIntContext(events.ContextRound)
			return s.HandleTurnStart(ctx, entityOf(event), round)
		},
	})
	bus.Subscribe(events.OnDamageTaken, &events.ListenerFunc{
		Order: listenerPriority,
		Fn: func(ctx context.Context, event *events.GameEvent) error {
			amount, _ := event.GetIntContext(events.ContextDamage)
			return s.HandleDamage(ctx, entityOf(event), amount)
		},
	})
}

func (s *service) notify(ctx context.Context, notice *notify.Notice) {
	if err := s.notifier.Notify(ctx, notice); err != nil {
		s.log.WithError(err).WithField("title", notice.Title).Warn("failed to send notice")
	}
}

func (s *service) emit(ctx context.Context, event *events.GameEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, event); err != nil {
		s.log.WithError(err).WithField("event", event.Type).Warn("failed to emit event")
	}
}

func entityOf(event *events.GameEvent) string {
	if id, ok := event.GetStringContext(events.ContextEntityID); ok && id != "" {
		return id
	}
	return event.TargetID
}

func displayName(spell *entities.SustainedSpell) string {
	if spell.CasterName != "" {
		return spell.CasterName
	}
	return spell.CasterID
}
