package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/chat"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/concentration"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/conditions"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/config"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/events"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/hooks"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/notify"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/repositories/interactions"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/repositories/sustained"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/scene"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/targeting"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/templates"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/uuid"
)

// appConfig holds what main has already built
type appConfig struct {
	Config   *config.Config
	Logger   logrus.FieldLogger
	Scene    *scene.Scene
	Spells   chat.SpellSource
	Notifier notify.Notifier
	// Redis selects the Redis repositories; nil means in-memory
	Redis redis.UniversalClient
	// UUIDGenerator defaults to random UUIDs
	UUIDGenerator uuid.Generator
}

// app is the wired automation pipeline
type app struct {
	bus           *events.EventBus
	dispatcher    *hooks.Dispatcher
	scene         *scene.Scene
	targeting     targeting.Service
	conditions    *conditions.Tracker
	concentration concentration.Service
	automator     *chat.Automator
}

func newApp(cfg *appConfig) (*app, error) {
	if cfg == nil || cfg.Config == nil || cfg.Scene == nil || cfg.Spells == nil || cfg.Notifier == nil {
		return nil, errors.InvalidArgument("config, scene, spells and notifier are required")
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	ids := cfg.UUIDGenerator
	if ids == nil {
		ids = uuid.NewGoogleUUIDGenerator()
	}

	var (
		interactionRepo interactions.Repository
		sustainedRepo   sustained.Repository
	)
	if cfg.Redis != nil {
		interactionRepo = interactions.NewRedisRepository(&interactions.RedisRepoConfig{
			Client: cfg.Redis,
			TTL:    cfg.Config.Redis.InteractionTTL,
		})
		sustainedRepo = sustained.NewRedisRepository(&sustained.RedisRepoConfig{
			Client: cfg.Redis,
		})
	} else {
		interactionRepo = interactions.NewInMemoryRepository(&interactions.InMemoryRepoConfig{
			TTL: cfg.Config.Redis.InteractionTTL,
		})
		sustainedRepo = sustained.NewInMemoryRepository()
	}

	bus := events.NewEventBus()

	resolver, err := templates.NewResolver(&templates.Config{
		Host:         cfg.Scene,
		PollInterval: cfg.Config.Targeting.PollInterval,
		Timeout:      cfg.Config.Targeting.PollTimeout,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	targetingService, err := targeting.NewService(&targeting.Config{
		Repository:     interactionRepo,
		Resolver:       resolver,
		Targets:        cfg.Scene,
		Templates:      cfg.Scene,
		UUIDGenerator:  ids,
		Bus:            bus,
		Logger:         log,
		ExcludeCaster:  cfg.Config.Targeting.ExcludeCaster,
		RemoveTemplate: cfg.Config.Targeting.RemoveTemplate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create targeting service: %w", err)
	}

	tracker := conditions.NewTracker(&conditions.ServiceConfig{
		Bus:           bus,
		UUIDGenerator: ids,
		Logger:        log,
	})
	tracker.Register(bus)

	concentrationService, err := concentration.NewService(&concentration.Config{
		Repository: sustainedRepo,
		Conditions: tracker,
		Notifier:   cfg.Notifier,
		Bus:        bus,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create concentration service: %w", err)
	}
	concentrationService.Register(bus)

	automator, err := chat.NewAutomator(&chat.Config{
		Spells:        cfg.Spells,
		Targeting:     targetingService,
		Concentration: concentrationService,
		Conditions:    tracker,
		Notifier:      cfg.Notifier,
		Targets:       cfg.Scene,
		Tokens:        cfg.Scene,
		Logger:        log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat automator: %w", err)
	}
	automator.Register(bus)

	syncTemplates(bus, cfg.Scene)

	dispatcher, err := hooks.NewDispatcher(&hooks.Config{Bus: bus, Logger: log})
	if err != nil {
		return nil, fmt.Errorf("failed to create hook dispatcher: %w", err)
	}

	return &app{
		bus:           bus,
		dispatcher:    dispatcher,
		scene:         cfg.Scene,
		targeting:     targetingService,
		conditions:    tracker,
		concentration: concentrationService,
		automator:     automator,
	}, nil
}

// syncTemplates places replayed templates on the scene before anything
// tries to capture them, and hands listeners the placed copy
func syncTemplates(bus events.Bus, sc *scene.Scene) {
	bus.Subscribe(events.OnTemplatePlaced, &events.ListenerFunc{
		Order: 0,
		Fn: func(_ context.Context, event *events.GameEvent) error {
			value, ok := event.GetContext(events.ContextTemplate)
			if !ok {
				return nil
			}
			tmpl, ok := value.(*scene.Template)
			if !ok || tmpl == nil {
				return nil
			}

			if err := sc.PlaceTemplate(tmpl); err != nil && !errors.IsAlreadyExists(err) {
				return err
			}
			if placed, ok := sc.Template(tmpl.ID); ok {
				event.WithContext(events.ContextTemplate, placed)
			}
			return nil
		},
	})
}
