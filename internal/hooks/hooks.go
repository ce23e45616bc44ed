// Package hooks turns host hook envelopes into bus events.
//
// An envelope is a JSON object {"hook": "<name>", "document": {...}}. The
// document shape depends on the hook; fields are read fail-closed so a
// partially filled document still yields whatever it does carry.
package hooks

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/events"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/flags"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/geometry"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/scene"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/spellbook"
)

// Hook names
const (
	HookCreateChatMessage      = "createChatMessage"
	HookCreateMeasuredTemplate = "createMeasuredTemplate"
	HookCombatTurn             = "combatTurn"
	HookCombatRound            = "combatRound"
	HookDamageTaken            = "damageTaken"
	HookRest                   = "rest"
)

// maxLine bounds a single envelope in a replayed stream
const maxLine = 1 << 20

// Envelope is one hook invocation
type Envelope struct {
	Hook     string
	Document []byte
}

// Decode parses an envelope
func Decode(data []byte) (*Envelope, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.InvalidArgument("hook envelope is not valid JSON")
	}

	hook, ok := flags.String(data, "hook")
	if !ok || hook == "" {
		return nil, errors.InvalidArgument("hook name is required")
	}

	doc, ok := flags.Raw(data, "document")
	if !ok || !gjson.ParseBytes(doc).IsObject() {
		return nil, errors.InvalidArgumentf("hook %s has no document", hook)
	}

	return &Envelope{Hook: hook, Document: doc}, nil
}

// Events translates an envelope into the bus events it stands for
func Events(env *Envelope) ([]*events.GameEvent, error) {
	if env == nil {
		return nil, errors.InvalidArgument("envelope is required")
	}

	doc := env.Document
	switch env.Hook {
	case HookCreateChatMessage:
		return []*events.GameEvent{chatMessage(doc)}, nil
	case HookCreateMeasuredTemplate:
		event, err := templatePlaced(doc)
		if err != nil {
			return nil, err
		}
		return []*events.GameEvent{event}, nil
	case HookCombatTurn:
		return combatTurn(doc), nil
	case HookCombatRound:
		return combatRound(doc), nil
	case HookDamageTaken:
		event, err := damageTaken(doc)
		if err != nil {
			return nil, err
		}
		return []*events.GameEvent{event}, nil
	case HookRest:
		event, err := rest(doc)
		if err != nil {
			return nil, err
		}
		return []*events.GameEvent{event}, nil
	default:
		return nil, errors.InvalidArgumentf("unsupported hook %q", env.Hook)
	}
}

func chatMessage(doc []byte) *events.GameEvent {
	messageID, _ := flags.String(doc, "_id")
	userID, _ := flags.String(doc, "user")
	speaker, _ := flags.String(doc, "speaker.token")

	return events.NewGameEvent(events.OnChatMessageCreated).
		WithActor(speaker).
		WithContext(events.ContextMessageID, messageID).
		WithContext(events.ContextUserID, userID).
		WithContext(events.ContextDocument, doc)
}

// Template decodes a measured template document
func Template(doc []byte) (*scene.Template, error) {
	id, ok := flags.String(doc, "_id")
	if !ok || id == "" {
		return nil, errors.InvalidArgument("template id is required")
	}
	kind, _ := flags.String(doc, "t")
	if !scene.ShapeKind(kind).Valid() {
		return nil, errors.InvalidArgumentf("unknown template kind %q", kind)
	}
	x, okX := flags.Float(doc, "x")
	y, okY := flags.Float(doc, "y")
	if !okX || !okY {
		return nil, errors.InvalidArgument("template origin is required")
	}
	distance, ok := flags.Float(doc, "distance")
	if !ok || distance <= 0 {
		return nil, errors.InvalidArgument("template distance must be positive")
	}

	tmpl := &scene.Template{
		ID:       id,
		Kind:     scene.ShapeKind(kind),
		Origin:   geometry.Point{X: x, Y: y},
		Distance: distance,
	}
	tmpl.Width, _ = flags.Float(doc, "width")
	tmpl.Angle, _ = flags.Float(doc, "angle")
	tmpl.Direction, _ = flags.Float(doc, "direction")
	switch {
	case tmpl.Kind == scene.ShapeRay && tmpl.Width <= 0:
		tmpl.Width = spellbook.RayWidth
	case tmpl.Kind == scene.ShapeCone && tmpl.Angle <= 0:
		tmpl.Angle = spellbook.ConeAngle
	}
	tmpl.UserID, _ = flags.String(doc, "user")
	tmpl.RenderHandle, _ = flags.String(doc, "renderHandle")
	if raw, ok := flags.Raw(doc, "flags"); ok {
		tmpl.Flags = raw
	}

	return tmpl, nil
}

func templatePlaced(doc []byte) (*events.GameEvent, error) {
	tmpl, err := Template(doc)
	if err != nil {
		return nil, err
	}

	return events.NewGameEvent(events.OnTemplatePlaced).
		WithContext(events.ContextTemplate, tmpl).
		WithContext(events.ContextTemplateID, tmpl.ID).
		WithContext(events.ContextUserID, tmpl.UserID).
		WithContext(events.ContextDocument, doc), nil
}

// combatTurn ends the previous combatant's turn and starts the current one's
func combatTurn(doc []byte) []*events.GameEvent {
	round, _ := flags.Int(doc, "round")

	var out []*events.GameEvent
	if previous, ok := flags.String(doc, "previous"); ok && previous != "" {
		out = append(out, events.NewGameEvent(events.OnTurnEnd).
			WithTarget(previous).
			WithContext(events.ContextEntityID, previous).
			WithContext(events.ContextRound, round).
			WithContext(events.ContextSaveResults, saveResults(doc)))
	}
	if current, ok := flags.String(doc, "current"); ok && current != "" {
		out = append(out, events.NewGameEvent(events.OnTurnStart).
			WithTarget(current).
			WithContext(events.ContextEntityID, current).
			WithContext(events.ContextRound, round))
	}
	return out
}

func saveResults(doc []byte) map[string]bool {
	results := make(map[string]bool)
	saves, ok := flags.Raw(doc, "saves")
	if !ok {
		return results
	}
	gjson.ParseBytes(saves).ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.True || value.Type == gjson.False {
			results[key.String()] = value.Bool()
		}
		return true
	})
	return results
}

// combatRound closes the finished round and, when given, starts the first
// turn of the new one
func combatRound(doc []byte) []*events.GameEvent {
	round, _ := flags.Int(doc, "round")

	out := []*events.GameEvent{
		events.NewGameEvent(events.OnRoundEnd).
			WithContext(events.ContextRound, round-1),
	}
	if current, ok := flags.String(doc, "current"); ok && current != "" {
		out = append(out, events.NewGameEvent(events.OnTurnStart).
			WithTarget(current).
			WithContext(events.ContextEntityID, current).
			WithContext(events.ContextRound, round))
	}
	return out
}

func damageTaken(doc []byte) (*events.GameEvent, error) {
	tokenID, ok := flags.String(doc, "tokenId")
	if !ok || tokenID == "" {
		return nil, errors.InvalidArgument("damage token is required")
	}
	amount, ok := flags.Int(doc, "amount")
	if !ok || amount < 0 {
		return nil, errors.InvalidArgument("damage amount must be a non-negative integer")
	}

	return events.NewGameEvent(events.OnDamageTaken).
		WithTarget(tokenID).
		WithContext(events.ContextEntityID, tokenID).
		WithContext(events.ContextDamage, amount), nil
}

func rest(doc []byte) (*events.GameEvent, error) {
	eventType := events.OnShortRest
	if long, _ := flags.Bool(doc, "long"); long {
		eventType = events.OnLongRest
	}

	tokenID, _ := flags.String(doc, "tokenId")
	return events.NewGameEvent(eventType).
		WithTarget(tokenID).
		WithContext(events.ContextEntityID, tokenID), nil
}

// Config holds the dependencies of a Dispatcher
type Config struct {
	Bus    events.Bus
	Logger logrus.FieldLogger
}

// Dispatcher feeds hook envelopes into the event bus
type Dispatcher struct {
	bus events.Bus
	log logrus.FieldLogger
}

// NewDispatcher creates a dispatcher
func NewDispatcher(cfg *Config) (*Dispatcher, error) {
	if cfg == nil || cfg.Bus == nil {
		return nil, errors.InvalidArgument("event bus is required")
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{
		bus: cfg.Bus,
		log: log.WithField("component", "hooks"),
	}, nil
}

// Dispatch decodes one envelope and emits its events in order
func (d *Dispatcher) Dispatch(ctx context.Context, data []byte) error {
	env, err := Decode(data)
	if err != nil {
		return err
	}

	list, err := Events(env)
	if err != nil {
		return err
	}

	for _, event := range list {
		if err := d.bus.Emit(ctx, event); err != nil {
			return errors.Wrapf(err, "failed to handle %s", env.Hook)
		}
	}

	d.log.WithFields(logrus.Fields{
		"hook":   env.Hook,
		"events": len(list),
	}).Debug("hook dispatched")

	return nil
}

// Replay dispatches a stream of newline separated envelopes. Blank lines are
// skipped; invalid or failing envelopes are logged and skipped. It returns
// the number of envelopes dispatched.
func (d *Dispatcher) Replay(ctx context.Context, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	dispatched := 0
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return dispatched, err
		}

		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		if err := d.Dispatch(ctx, data); err != nil {
			d.log.WithError(err).WithField("line", line).Warn("skipping hook")
			continue
		}
		dispatched++
	}

	if err := scanner.Err(); err != nil {
		return dispatched, errors.Wrap(err, "failed to read hook stream")
	}
	return dispatched, nil
}
