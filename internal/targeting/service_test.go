package targeting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/entities"
	dnderr "github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/events"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/geometry"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/repositories/interactions"
	mockinteractions "github.com/KirkDiggler/dnd-vtt-automation/internal/repositories/interactions/mock"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/scene"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/targeting"
	mocktargeting "github.com/KirkDiggler/dnd-vtt-automation/internal/targeting/mock"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/templates"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/uuid"
)

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	resolver  *mocktargeting.MockTokenResolver
	targets   *mocktargeting.MockTargetSetter
	templates *mocktargeting.MockTemplateRemover
	bus       *events.EventBus
	repo      interactions.Repository
	service   targeting.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.resolver = mocktargeting.NewMockTokenResolver(s.ctrl)
	s.targets = mocktargeting.NewMockTargetSetter(s.ctrl)
	s.templates = mocktargeting.NewMockTemplateRemover(s.ctrl)
	s.bus = events.NewEventBus()
	s.repo = interactions.NewInMemoryRepository(nil)

	log, _ := test.NewNullLogger()
	var err error
	s.service, err = targeting.NewService(&targeting.Config{
		Repository:     s.repo,
		Resolver:       s.resolver,
		Targets:        s.targets,
		Templates:      s.templates,
		UUIDGenerator:  uuid.NewSequenceGenerator("interaction"),
		Bus:            s.bus,
		Logger:         log,
		ExcludeCaster:  true,
		RemoveTemplate: true,
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) begin() *entities.Interaction {
	interaction, err := s.service.Begin(s.ctx, &targeting.BeginInput{
		UserID:    "user-1",
		CasterID:  "wizard",
		SpellKey:  "fireball",
		SpellName: "Fireball",
	})
	s.Require().NoError(err)
	return interaction
}

func (s *ServiceSuite) TestBegin() {
	interaction := s.begin()

	s.Equal("interaction-1", interaction.ID)
	s.Equal(entities.InteractionStatusPending, interaction.Status)
	s.False(interaction.CreatedAt.IsZero())

	stored, err := s.service.Get(s.ctx, interaction.ID)
	s.Require().NoError(err)
	s.Equal("fireball", stored.SpellKey)
}

func (s *ServiceSuite) TestBeginValidation() {
	_, err := s.service.Begin(s.ctx, nil)
	s.True(dnderr.IsInvalidArgument(err))

	_, err = s.service.Begin(s.ctx, &targeting.BeginInput{SpellKey: "fireball"})
	s.True(dnderr.IsInvalidArgument(err))

	_, err = s.service.Begin(s.ctx, &targeting.BeginInput{UserID: "user-1"})
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *ServiceSuite) TestCapture() {
	interaction := s.begin()
	tmpl := &scene.Template{ID: "tmpl-1", Kind: scene.ShapeCircle, Distance: 20}

	var captured *events.GameEvent
	s.bus.Subscribe(events.OnTemplateTargetsCaptured, &events.ListenerFunc{Fn: func(_ context.Context, event *events.GameEvent) error {
		captured = event
		return nil
	}})

	s.resolver.EXPECT().TemplateTokens(s.ctx, tmpl).Return([]*scene.Token{
		{ID: "wizard"},
		{ID: "goblin-1"},
		{ID: "lurker", Hidden: true},
		{ID: "goblin-2"},
	}, nil)
	s.targets.EXPECT().SetTargets(s.ctx, "user-1", []string{"goblin-1", "goblin-2"}).Return(nil)
	s.templates.EXPECT().DeleteTemplate(s.ctx, "tmpl-1").Return(nil)

	result, err := s.service.Capture(s.ctx, interaction.ID, tmpl)
	s.Require().NoError(err)

	s.Equal(entities.InteractionStatusCaptured, result.Status)
	s.Equal("tmpl-1", result.TemplateID)
	s.Equal([]string{"goblin-1", "goblin-2"}, result.TargetIDs)

	stored, err := s.service.Get(s.ctx, interaction.ID)
	s.Require().NoError(err)
	s.Equal(entities.InteractionStatusCaptured, stored.Status)

	s.Require().NotNil(captured)
	ids, _ := captured.GetStringsContext(events.ContextTargetIDs)
	s.Equal([]string{"goblin-1", "goblin-2"}, ids)
	id, _ := captured.GetStringContext(events.ContextInteractionID)
	s.Equal(interaction.ID, id)
}

func (s *ServiceSuite) TestCaptureNoTargets() {
	interaction := s.begin()
	tmpl := &scene.Template{ID: "tmpl-1"}

	var empty bool
	s.bus.Subscribe(events.OnNoValidTargets, &events.ListenerFunc{Fn: func(_ context.Context, _ *events.GameEvent) error {
		empty = true
		return nil
	}})

	s.resolver.EXPECT().TemplateTokens(s.ctx, tmpl).Return(nil, nil)
	s.targets.EXPECT().SetTargets(s.ctx, "user-1", []string{}).Return(nil)
	s.templates.EXPECT().DeleteTemplate(s.ctx, "tmpl-1").Return(dnderr.NotFoundf("gone"))

	result, err := s.service.Capture(s.ctx, interaction.ID, tmpl)
	s.Require().NoError(err)

	s.Equal(entities.InteractionStatusEmpty, result.Status)
	s.Empty(result.TargetIDs)
	s.True(empty)
}

func (s *ServiceSuite) TestCaptureResolverFailureMeansNoTargets() {
	interaction := s.begin()
	tmpl := &scene.Template{ID: "tmpl-1"}

	s.resolver.EXPECT().TemplateTokens(s.ctx, tmpl).Return(nil, errors.New("host unavailable"))
	s.targets.EXPECT().SetTargets(s.ctx, "user-1", []string{}).Return(nil)
	s.templates.EXPECT().DeleteTemplate(s.ctx, "tmpl-1").Return(nil)

	result, err := s.service.Capture(s.ctx, interaction.ID, tmpl)
	s.Require().NoError(err)
	s.Equal(entities.InteractionStatusEmpty, result.Status)
}

func (s *ServiceSuite) TestCaptureCancelledContext() {
	interaction := s.begin()
	tmpl := &scene.Template{ID: "tmpl-1"}
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	s.resolver.EXPECT().TemplateTokens(ctx, tmpl).Return(nil, context.Canceled)

	_, err := s.service.Capture(ctx, interaction.ID, tmpl)
	s.ErrorIs(err, context.Canceled)

	stored, err := s.service.Get(s.ctx, interaction.ID)
	s.Require().NoError(err)
	s.True(stored.IsPending())
}

func (s *ServiceSuite) TestCaptureTwice() {
	interaction := s.begin()
	tmpl := &scene.Template{ID: "tmpl-1"}

	s.resolver.EXPECT().TemplateTokens(s.ctx, tmpl).Return([]*scene.Token{{ID: "goblin-1"}}, nil)
	s.targets.EXPECT().SetTargets(s.ctx, "user-1", []string{"goblin-1"}).Return(nil)
	s.templates.EXPECT().DeleteTemplate(s.ctx, "tmpl-1").Return(nil)

	_, err := s.service.Capture(s.ctx, interaction.ID, tmpl)
	s.Require().NoError(err)

	_, err = s.service.Capture(s.ctx, interaction.ID, tmpl)
	s.True(dnderr.IsFailedPrecondition(err))
}

func (s *ServiceSuite) TestCaptureUnknownInteraction() {
	_, err := s.service.Capture(s.ctx, "missing", &scene.Template{ID: "tmpl-1"})
	s.True(dnderr.IsNotFound(err))

	_, err = s.service.Capture(s.ctx, "missing", nil)
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *ServiceSuite) TestCaptureSetTargetsError() {
	interaction := s.begin()
	tmpl := &scene.Template{ID: "tmpl-1"}

	s.resolver.EXPECT().TemplateTokens(s.ctx, tmpl).Return([]*scene.Token{{ID: "goblin-1"}}, nil)
	s.targets.EXPECT().SetTargets(s.ctx, "user-1", []string{"goblin-1"}).Return(errors.New("token vanished"))

	_, err := s.service.Capture(s.ctx, interaction.ID, tmpl)
	s.Error(err)

	stored, err := s.service.Get(s.ctx, interaction.ID)
	s.Require().NoError(err)
	s.True(stored.IsPending())
}

func (s *ServiceSuite) TestCancel() {
	interaction := s.begin()

	s.Require().NoError(s.service.Cancel(s.ctx, interaction.ID))

	stored, err := s.service.Get(s.ctx, interaction.ID)
	s.Require().NoError(err)
	s.Equal(entities.InteractionStatusCancelled, stored.Status)

	s.True(dnderr.IsFailedPrecondition(s.service.Cancel(s.ctx, interaction.ID)))
}

func (s *ServiceSuite) TestLatestPending() {
	_, err := s.service.LatestPending(s.ctx, "user-1")
	s.True(dnderr.IsNotFound(err))

	first := s.begin()
	second := s.begin()
	s.Require().NoError(s.service.Cancel(s.ctx, second.ID))

	latest, err := s.service.LatestPending(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(first.ID, latest.ID)
}

func TestNewServiceValidation(t *testing.T) {
	_, err := targeting.NewService(nil)
	assert.True(t, dnderr.IsInvalidArgument(err))

	sc := scene.New(nil)
	_, err = targeting.NewService(&targeting.Config{
		Repository:     interactions.NewInMemoryRepository(nil),
		Resolver:       &templates.Resolver{},
		Targets:        sc,
		RemoveTemplate: true,
	})
	assert.True(t, dnderr.IsInvalidArgument(err))
}

func TestCapture_WithScene(t *testing.T) {
	ctx := context.Background()
	log, _ := test.NewNullLogger()
	sc := scene.New(&scene.Config{Logger: log})

	for _, tok := range []*scene.Token{
		{ID: "wizard", X: 500, Y: 500},
		{ID: "goblin", X: 400, Y: 400},
		{ID: "lurker", X: 500, Y: 400, Hidden: true},
		{ID: "ogre", X: 2000, Y: 2000, Width: 2, Height: 2},
	} {
		require.NoError(t, sc.AddToken(tok))
	}

	resolver, err := templates.NewResolver(&templates.Config{Host: sc, Logger: log})
	require.NoError(t, err)

	service, err := targeting.NewService(&targeting.Config{
		Repository:     interactions.NewInMemoryRepository(nil),
		Resolver:       resolver,
		Targets:        sc,
		Templates:      sc,
		Logger:         log,
		ExcludeCaster:  true,
		RemoveTemplate: true,
	})
	require.NoError(t, err)

	interaction, err := service.Begin(ctx, &targeting.BeginInput{
		UserID:   "user-1",
		CasterID: "wizard",
		SpellKey: "fireball",
	})
	require.NoError(t, err)

	require.NoError(t, sc.PlaceTemplate(&scene.Template{
		ID:       "fireball",
		Kind:     scene.ShapeCircle,
		Origin:   geometry.Point{X: 500, Y: 500},
		Distance: 10,
	}))
	placed, ok := sc.Template("fireball")
	require.True(t, ok)

	result, err := service.Capture(ctx, interaction.ID, placed)
	require.NoError(t, err)

	assert.Equal(t, []string{"goblin"}, result.TargetIDs)
	assert.Equal(t, []string{"goblin"}, sc.Targets("user-1"))

	_, ok = sc.Template("fireball")
	assert.False(t, ok, "template removed after capture")
}

func TestBegin_RepositoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mockinteractions.NewMockRepository(ctrl)
	log, _ := test.NewNullLogger()

	service, err := targeting.NewService(&targeting.Config{
		Repository:    repo,
		Resolver:      mocktargeting.NewMockTokenResolver(ctrl),
		Targets:       mocktargeting.NewMockTargetSetter(ctrl),
		UUIDGenerator: uuid.NewSequenceGenerator("int"),
		Logger:        log,
	})
	require.NoError(t, err)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dnderr.AlreadyExistsf("interaction %s already exists", "int-1"))

	interaction, err := service.Begin(context.Background(), &targeting.BeginInput{
		UserID:   "user-1",
		SpellKey: "fireball",
	})

	assert.Nil(t, interaction)
	assert.True(t, dnderr.IsAlreadyExists(err))
}
