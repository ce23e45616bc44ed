// Package targeting ties a chat card to the template placed for it and turns
// the template into the caster's targets.
package targeting

//go:generate mockgen -destination=mock/mock_service.go -package=mocktargeting -source=service.go

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/entities"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/events"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/repositories/interactions"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/scene"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/uuid"
)

// TokenResolver finds the tokens a placed template covers
type TokenResolver interface {
	TemplateTokens(ctx context.Context, tmpl *scene.Template) ([]*scene.Token, error)
}

// TargetSetter replaces a user's target selection
type TargetSetter interface {
	SetTargets(ctx context.Context, userID string, tokenIDs []string) error
}

// TemplateRemover deletes a placed template
type TemplateRemover interface {
	DeleteTemplate(ctx context.Context, id string) error
}

// BeginInput describes the spell waiting for a template
type BeginInput struct {
	UserID         string
	CasterID       string
	SpellKey       string
	SpellName      string
	Concentration  bool
	DurationRounds int

	Condition       string
	ConditionRounds int
	SaveDC          int
	SaveType        string
}

// Service manages placement interactions
type Service interface {
	// Begin opens a pending interaction for a spell awaiting its template
	Begin(ctx context.Context, input *BeginInput) (*entities.Interaction, error)

	// Capture resolves the template's tokens into the user's targets and
	// closes the interaction
	Capture(ctx context.Context, interactionID string, tmpl *scene.Template) (*entities.Interaction, error)

	// Cancel abandons a pending interaction
	Cancel(ctx context.Context, interactionID string) error

	// Get returns an interaction by ID
	Get(ctx context.Context, interactionID string) (*entities.Interaction, error)

	// LatestPending returns the user's most recent pending interaction
	LatestPending(ctx context.Context, userID string) (*entities.Interaction, error)
}

// Config holds the dependencies of the service
type Config struct {
	Repository    interactions.Repository
	Resolver      TokenResolver
	Targets       TargetSetter
	Templates     TemplateRemover
	UUIDGenerator uuid.Generator
	Bus           events.Bus
	Logger        logrus.FieldLogger

	// ExcludeCaster drops the caster's own token from captured targets
	ExcludeCaster bool
	// RemoveTemplate deletes the template once targets are captured
	RemoveTemplate bool
}

type service struct {
	repo           interactions.Repository
	resolver       TokenResolver
	targets        TargetSetter
	templates      TemplateRemover
	ids            uuid.Generator
	bus            events.Bus
	log            logrus.FieldLogger
	excludeCaster  bool
	removeTemplate bool
}

// NewService creates a targeting service
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if cfg.Repository == nil {
		return nil, errors.InvalidArgument("repository is required")
	}
	if cfg.Resolver == nil {
		return nil, errors.InvalidArgument("resolver is required")
	}
	if cfg.Targets == nil {
		return nil, errors.InvalidArgument("target setter is required")
	}
	if cfg.RemoveTemplate && cfg.Templates == nil {
		return nil, errors.InvalidArgument("template remover is required to remove templates")
	}

	ids := cfg.UUIDGenerator
	if ids == nil {
		ids = uuid.NewGoogleUUIDGenerator()
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &service{
		repo:           cfg.Repository,
		resolver:       cfg.Resolver,
		targets:        cfg.Targets,
		templates:      cfg.Templates,
		ids:            ids,
		bus:            cfg.Bus,
		log:            log.WithField("component", "targeting"),
		excludeCaster:  cfg.ExcludeCaster,
		removeTemplate: cfg.RemoveTemplate,
	}, nil
}

func (s *service) Begin(ctx context.Context, input *BeginInput) (*entities.Interaction, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}
	if input.SpellKey == "" {
		return nil, errors.InvalidArgument("spell key is required")
	}

	interaction := &entities.Interaction{
		ID:              s.ids.New(),
		UserID:          input.UserID,
		CasterID:        input.CasterID,
		Status:          entities.InteractionStatusPending,
		SpellKey:        input.SpellKey,
		SpellName:       input.SpellName,
		Concentration:   input.Concentration,
		DurationRounds:  input.DurationRounds,
		Condition:       input.Condition,
		ConditionRounds: input.ConditionRounds,
		SaveDC:          input.SaveDC,
		SaveType:        input.SaveType,
	}

	if err := s.repo.Create(ctx, interaction); err != nil {
		return nil, errors.Wrap(err, "failed to create interaction")
	}

	s.log.WithFields(logrus.Fields{
		"interaction_id": interaction.ID,
		"user_id":        interaction.UserID,
		"spell":          interaction.SpellKey,
	}).Info("awaiting template placement")

	return interaction.Clone(), nil
}

func (s *service) Capture(ctx context.Context, interactionID string, tmpl *scene.Template) (*entities.Interaction, error) {
	if interactionID == "" {
		return nil, errors.InvalidArgument("interaction ID is required")
	}
	if tmpl == nil {
		return nil, errors.InvalidArgument("template is required")
	}

	interaction, err := s.repo.Get(ctx, interactionID)
	if err != nil {
		return nil, err
	}
	if !interaction.IsPending() {
		return nil, errors.FailedPreconditionf("interaction %s is %s", interactionID, interaction.Status)
	}

	log := s.log.WithFields(logrus.Fields{
		"interaction_id": interaction.ID,
		"template_id":    tmpl.ID,
	})

	tokens, err := s.resolver.TemplateTokens(ctx, tmpl)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.WithError(err).Warn("failed to resolve template tokens, treating as no targets")
		tokens = nil
	}

	targetIDs := s.filter(interaction, tokens)

	if err := s.targets.SetTargets(ctx, interaction.UserID, targetIDs); err != nil {
		return nil, errors.Wrapf(err, "failed to set targets for %s", interaction.UserID)
	}

	interaction.TemplateID = tmpl.ID
	interaction.TargetIDs = targetIDs
	interaction.Status = entities.InteractionStatusCaptured
	if len(targetIDs) == 0 {
		interaction.Status = entities.InteractionStatusEmpty
	}

	if err := s.repo.Update(ctx, interaction); err != nil {
		return nil, errors.Wrap(err, "failed to update interaction")
	}

	if s.removeTemplate {
		if err := s.templates.DeleteTemplate(ctx, tmpl.ID); err != nil && !errors.IsNotFound(err) {
			log.WithError(err).Warn("failed to delete template")
		}
	}

	log.WithFields(logrus.Fields{
		"status":  interaction.Status,
		"targets": len(targetIDs),
	}).Info("template targets captured")

	eventType := events.OnTemplateTargetsCaptured
	if len(targetIDs) == 0 {
		eventType = events.OnNoValidTargets
	}
	s.emit(ctx, events.NewGameEvent(eventType).
		WithActor(interaction.CasterID).
		WithContext(events.ContextUserID, interaction.UserID).
		WithContext(events.ContextInteractionID, interaction.ID).
		WithContext(events.ContextTemplateID, tmpl.ID).
		WithContext(events.ContextSpellKey, interaction.SpellKey).
		WithContext(events.ContextTargetIDs, append([]string(nil), targetIDs...)))

	return interaction.Clone(), nil
}

// filter drops hidden tokens and, when configured, the caster
func (s *service) filter(interaction *entities.Interaction, tokens []*scene.Token) []string {
	ids := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token.Hidden {
			continue
		}
		if s.excludeCaster && interaction.CasterID != "" && token.ID == interaction.CasterID {
			continue
		}
		ids = append(ids, token.ID)
	}
	return ids
}

func (s *service) Cancel(ctx context.Context, interactionID string) error {
	interaction, err := s.repo.Get(ctx, interactionID)
	if err != nil {
		return err
	}
	if !interaction.IsPending() {
		return errors.FailedPreconditionf("interaction %s is %s", interactionID, interaction.Status)
	}

	interaction.Status = entities.InteractionStatusCancelled
	if err := s.repo.Update(ctx, interaction); err != nil {
		return errors.Wrap(err, "failed to cancel interaction")
	}

	s.log.WithField("interaction_id", interactionID).Info("interaction cancelled")
	return nil
}

func (s *service) Get(ctx context.Context, interactionID string) (*entities.Interaction, error) {
	if interactionID == "" {
		return nil, errors.InvalidArgument("interaction ID is required")
	}
	return s.repo.Get(ctx, interactionID)
}

func (s *service) LatestPending(ctx context.Context, userID string) (*entities.Interaction, error) {
	if userID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := len(list) - 1; i >= 0; i-- {
		if list[i].IsPending() {
			return list[i], nil
		}
	}
	return nil, errors.NotFoundf("no pending interaction for user %s", userID)
}

func (s *service) emit(ctx context.Context, event *events.GameEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, event); err != nil {
		s.log.WithError(err).WithField("event", event.Type).Warn("failed to emit event")
	}
}
