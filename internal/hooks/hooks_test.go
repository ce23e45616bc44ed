package hooks_test

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dnderr "github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/events"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/geometry"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/hooks"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/scene"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/spellbook"
)

func decodeEvents(t *testing.T, data string) []*events.GameEvent {
	t.Helper()
	env, err := hooks.Decode([]byte(data))
	require.NoError(t, err)
	list, err := hooks.Events(env)
	require.NoError(t, err)
	return list
}

func TestDecode(t *testing.T) {
	env, err := hooks.Decode([]byte(`{"hook":"createChatMessage","document":{"_id":"msg-1"}}`))
	require.NoError(t, err)
	assert.Equal(t, hooks.HookCreateChatMessage, env.Hook)
	assert.JSONEq(t, `{"_id":"msg-1"}`, string(env.Document))

	tests := []struct {
		name string
		data string
	}{
		{name: "malformed", data: `{"hook":`},
		{name: "no hook", data: `{"document":{}}`},
		{name: "no document", data: `{"hook":"combatTurn"}`},
		{name: "document not an object", data: `{"hook":"combatTurn","document":[1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hooks.Decode([]byte(tt.data))
			assert.True(t, dnderr.IsInvalidArgument(err))
		})
	}
}

func TestEvents_UnsupportedHook(t *testing.T) {
	_, err := hooks.Events(&hooks.Envelope{Hook: "updateActor", Document: []byte(`{}`)})
	assert.True(t, dnderr.IsInvalidArgument(err))
}

func TestEvents_ChatMessage(t *testing.T) {
	list := decodeEvents(t, `{"hook":"createChatMessage","document":{
		"_id":"msg-1","user":"user-1","speaker":{"token":"wizard"},
		"flags":{"dnd-vtt-automation":{"spell":"fireball"}}}}`)

	require.Len(t, list, 1)
	event := list[0]
	assert.Equal(t, events.OnChatMessageCreated, event.Type)
	assert.Equal(t, "wizard", event.ActorID)

	userID, _ := event.GetStringContext(events.ContextUserID)
	assert.Equal(t, "user-1", userID)
	messageID, _ := event.GetStringContext(events.ContextMessageID)
	assert.Equal(t, "msg-1", messageID)
	doc, ok := event.GetBytesContext(events.ContextDocument)
	require.True(t, ok)
	assert.Contains(t, string(doc), "fireball")
}

func TestEvents_MeasuredTemplate(t *testing.T) {
	list := decodeEvents(t, `{"hook":"createMeasuredTemplate","document":{
		"_id":"tmpl-1","t":"cone","x":500,"y":250.5,"distance":15,"angle":53.13,"direction":90,
		"user":"user-1","flags":{"dnd-vtt-automation":{"interactionId":"interaction-1"}}}}`)

	require.Len(t, list, 1)
	value, ok := list[0].GetContext(events.ContextTemplate)
	require.True(t, ok)
	tmpl, ok := value.(*scene.Template)
	require.True(t, ok)

	assert.Equal(t, "tmpl-1", tmpl.ID)
	assert.Equal(t, scene.ShapeCone, tmpl.Kind)
	assert.Equal(t, geometry.Point{X: 500, Y: 250.5}, tmpl.Origin)
	assert.Equal(t, 15.0, tmpl.Distance)
	assert.Equal(t, 53.13, tmpl.Angle)
	assert.Equal(t, 90.0, tmpl.Direction)
	assert.Equal(t, "user-1", tmpl.UserID)
	assert.JSONEq(t, `{"dnd-vtt-automation":{"interactionId":"interaction-1"}}`, string(tmpl.Flags))
}

func TestTemplate_DefaultsMissingShapeSize(t *testing.T) {
	ray, err := hooks.Template([]byte(`{"_id":"t1","t":"ray","x":0,"y":0,"distance":100,"direction":0}`))
	require.NoError(t, err)
	assert.Equal(t, float64(spellbook.RayWidth), ray.Width)

	cone, err := hooks.Template([]byte(`{"_id":"t2","t":"cone","x":0,"y":0,"distance":15,"angle":0}`))
	require.NoError(t, err)
	assert.Equal(t, spellbook.ConeAngle, cone.Angle)

	wide, err := hooks.Template([]byte(`{"_id":"t3","t":"ray","x":0,"y":0,"distance":60,"width":10}`))
	require.NoError(t, err)
	assert.Equal(t, 10.0, wide.Width)
}

func TestTemplate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing id", doc: `{"t":"circle","x":0,"y":0,"distance":5}`},
		{name: "unknown kind", doc: `{"_id":"t","t":"hex","x":0,"y":0,"distance":5}`},
		{name: "missing origin", doc: `{"_id":"t","t":"circle","distance":5}`},
		{name: "zero distance", doc: `{"_id":"t","t":"circle","x":0,"y":0,"distance":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hooks.Template([]byte(tt.doc))
			assert.True(t, dnderr.IsInvalidArgument(err))
		})
	}
}

func TestEvents_CombatTurn(t *testing.T) {
	list := decodeEvents(t, `{"hook":"combatTurn","document":{
		"round":2,"previous":"goblin-1","current":"wizard","saves":{"paralyzed":true,"stunned":false,"bogus":"x"}}}`)

	require.Len(t, list, 2)

	assert.Equal(t, events.OnTurnEnd, list[0].Type)
	assert.Equal(t, "goblin-1", list[0].TargetID)
	saves, ok := list[0].GetContext(events.ContextSaveResults)
	require.True(t, ok)
	assert.Equal(t, map[string]bool{"paralyzed": true, "stunned": false}, saves)

	assert.Equal(t, events.OnTurnStart, list[1].Type)
	entity, _ := list[1].GetStringContext(events.ContextEntityID)
	assert.Equal(t, "wizard", entity)
	round, _ := list[1].GetIntContext(events.ContextRound)
	assert.Equal(t, 2, round)
}

func TestEvents_CombatTurnFirstTurn(t *testing.T) {
	list := decodeEvents(t, `{"hook":"combatTurn","document":{"round":1,"current":"wizard"}}`)

	require.Len(t, list, 1)
	assert.Equal(t, events.OnTurnStart, list[0].Type)
}

func TestEvents_CombatRound(t *testing.T) {
	list := decodeEvents(t, `{"hook":"combatRound","document":{"round":3,"current":"fighter"}}`)

	require.Len(t, list, 2)
	assert.Equal(t, events.OnRoundEnd, list[0].Type)
	round, _ := list[0].GetIntContext(events.ContextRound)
	assert.Equal(t, 2, round)

	assert.Equal(t, events.OnTurnStart, list[1].Type)
	round, _ = list[1].GetIntContext(events.ContextRound)
	assert.Equal(t, 3, round)
}

func TestEvents_DamageTaken(t *testing.T) {
	list := decodeEvents(t, `{"hook":"damageTaken","document":{"tokenId":"wizard","amount":14}}`)

	require.Len(t, list, 1)
	assert.Equal(t, events.OnDamageTaken, list[0].Type)
	assert.Equal(t, "wizard", list[0].TargetID)
	amount, _ := list[0].GetIntContext(events.ContextDamage)
	assert.Equal(t, 14, amount)

	env, err := hooks.Decode([]byte(`{"hook":"damageTaken","document":{"tokenId":"wizard","amount":"lots"}}`))
	require.NoError(t, err)
	_, err = hooks.Events(env)
	assert.True(t, dnderr.IsInvalidArgument(err))
}

func TestEvents_Rest(t *testing.T) {
	list := decodeEvents(t, `{"hook":"rest","document":{"tokenId":"wizard","long":true}}`)
	require.Len(t, list, 1)
	assert.Equal(t, events.OnLongRest, list[0].Type)

	list = decodeEvents(t, `{"hook":"rest","document":{}}`)
	require.Len(t, list, 1)
	assert.Equal(t, events.OnShortRest, list[0].Type)
	assert.Empty(t, list[0].TargetID)
}

func TestDispatcher_Replay(t *testing.T) {
	bus := events.NewEventBus()
	log, hook := test.NewNullLogger()

	var seen []events.EventType
	record := &events.ListenerFunc{Fn: func(_ context.Context, event *events.GameEvent) error {
		seen = append(seen, event.Type)
		return nil
	}}
	for _, eventType := range []events.EventType{events.OnChatMessageCreated, events.OnTurnStart, events.OnTurnEnd, events.OnDamageTaken} {
		bus.Subscribe(eventType, record)
	}

	d, err := hooks.NewDispatcher(&hooks.Config{Bus: bus, Logger: log})
	require.NoError(t, err)

	stream := strings.Join([]string{
		`{"hook":"createChatMessage","document":{"_id":"msg-1"}}`,
		``,
		`not json`,
		`{"hook":"combatTurn","document":{"round":1,"previous":"a","current":"b"}}`,
		`{"hook":"damageTaken","document":{"tokenId":"b","amount":3}}`,
	}, "\n")

	n, err := d.Replay(context.Background(), strings.NewReader(stream))
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, []events.EventType{
		events.OnChatMessageCreated,
		events.OnTurnEnd,
		events.OnTurnStart,
		events.OnDamageTaken,
	}, seen)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "skipping hook", hook.LastEntry().Message)
}

func TestDispatcher_ReplayCancelled(t *testing.T) {
	d, err := hooks.NewDispatcher(&hooks.Config{Bus: events.NewEventBus()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := d.Replay(ctx, strings.NewReader(`{"hook":"rest","document":{}}`))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestNewDispatcher_RequiresBus(t *testing.T) {
	_, err := hooks.NewDispatcher(&hooks.Config{})
	assert.True(t, dnderr.IsInvalidArgument(err))
}
