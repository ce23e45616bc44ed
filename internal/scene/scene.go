// Package scene is an in-memory virtual tabletop scene: tokens, walls, placed
// templates with their rendered highlights, and per-user target selections.
package scene

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/geometry"
)

// bucketCells is the width of a spatial index bucket in grid cells
const bucketCells = 5

// Config configures a Scene
type Config struct {
	Grid Grid
	// RenderDelay is how long after placement a template highlight becomes
	// available. Zero renders synchronously.
	RenderDelay time.Duration
	Logger      logrus.FieldLogger
}

type tokenEntry struct {
	token *Token
	seq   int
}

// Scene holds the state of one map
type Scene struct {
	mu sync.RWMutex

	grid        Grid
	renderDelay time.Duration
	log         logrus.FieldLogger

	tokens  map[string]*tokenEntry
	nextSeq int
	index   *tokenIndex

	walls []Wall

	templates map[string]*Template
	masks     map[string]*HighlightMask
	timers    map[string]*time.Timer

	targets map[string][]string
}

// New creates an empty scene
func New(cfg *Config) *Scene {
	if cfg == nil {
		cfg = &Config{}
	}

	grid := cfg.Grid
	if grid.Size <= 0 || grid.Distance <= 0 {
		grid = DefaultGrid
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Scene{
		grid:        grid,
		renderDelay: cfg.RenderDelay,
		log:         log.WithField("component", "scene"),
		tokens:      make(map[string]*tokenEntry),
		index:       newTokenIndex(grid.Size * bucketCells),
		templates:   make(map[string]*Template),
		masks:       make(map[string]*HighlightMask),
		timers:      make(map[string]*time.Timer),
		targets:     make(map[string][]string),
	}
}

// Grid returns the scene grid
func (s *Scene) Grid() Grid {
	return s.grid
}

// GridSize returns the pixel size of one grid cell
func (s *Scene) GridSize() int {
	return s.grid.Size
}

// AddToken places a token on the scene
func (s *Scene) AddToken(t *Token) error {
	if t == nil {
		return errors.InvalidArgument("token is required")
	}
	if t.ID == "" {
		return errors.InvalidArgument("token id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[t.ID]; exists {
		return errors.AlreadyExistsf("token %s already exists", t.ID)
	}

	tokenCopy := *t
	s.nextSeq++
	s.tokens[t.ID] = &tokenEntry{token: &tokenCopy, seq: s.nextSeq}
	s.index.insert(t.ID, tokenCopy.Bounds(s.grid.Size))

	return nil
}

// MoveToken moves a token to a new top-left position
func (s *Scene) MoveToken(id string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.tokens[id]
	if !exists {
		return errors.NotFoundf("token %s not found", id)
	}

	s.index.remove(id, entry.token.Bounds(s.grid.Size))
	entry.token.X = x
	entry.token.Y = y
	s.index.insert(id, entry.token.Bounds(s.grid.Size))

	return nil
}

// RemoveToken removes a token from the scene
func (s *Scene) RemoveToken(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.tokens[id]
	if !exists {
		return errors.NotFoundf("token %s not found", id)
	}

	s.index.remove(id, entry.token.Bounds(s.grid.Size))
	delete(s.tokens, id)

	return nil
}

// Token returns a copy of the token with the given id
func (s *Scene) Token(id string) (*Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.tokens[id]
	if !exists {
		return nil, false
	}
	tokenCopy := *entry.token
	return &tokenCopy, true
}

// Tokens returns copies of all tokens in placement order
func (s *Scene) Tokens() []*Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*tokenEntry, 0, len(s.tokens))
	for _, entry := range s.tokens {
		entries = append(entries, entry)
	}
	return sortedCopies(entries)
}

// TokensIntersecting returns the tokens whose bounds overlap r, in placement order
func (s *Scene) TokensIntersecting(ctx context.Context, r geometry.Rect) ([]*Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []*tokenEntry
	for id := range s.index.candidates(r) {
		entry := s.tokens[id]
		if entry == nil {
			continue
		}
		if entry.token.Bounds(s.grid.Size).Intersects(r) {
			entries = append(entries, entry)
		}
	}

	return sortedCopies(entries), nil
}

func sortedCopies(entries []*tokenEntry) []*Token {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	tokens := make([]*Token, len(entries))
	for i, entry := range entries {
		tokenCopy := *entry.token
		tokens[i] = &tokenCopy
	}
	return tokens
}

// AddWall adds a wall to the scene
func (s *Scene) AddWall(w Wall) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.walls = append(s.walls, w)
}

// MovementCollides reports whether the straight path from origin to dest
// crosses a wall that blocks movement
func (s *Scene) MovementCollides(ctx context.Context, origin, dest geometry.Point) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := geometry.Segment{A: origin, B: dest}
	for _, w := range s.walls {
		if w.Passable {
			continue
		}
		if path.Intersects(w.Segment) {
			return true, nil
		}
	}
	return false, nil
}

// PlaceTemplate stores a template and schedules its highlight rendering
func (s *Scene) PlaceTemplate(t *Template) error {
	if t == nil {
		return errors.InvalidArgument("template is required")
	}
	if t.ID == "" {
		return errors.InvalidArgument("template id is required")
	}
	if !t.Kind.Valid() {
		return errors.InvalidArgumentf("unknown template kind %q", t.Kind)
	}
	if t.Distance <= 0 {
		return errors.InvalidArgument("template distance must be positive")
	}

	tmpl := *t
	if tmpl.RenderHandle == "" {
		tmpl.RenderHandle = "highlight:" + tmpl.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.templates[tmpl.ID]; exists {
		return errors.AlreadyExistsf("template %s already exists", tmpl.ID)
	}
	s.templates[tmpl.ID] = &tmpl

	if s.renderDelay <= 0 {
		s.masks[tmpl.RenderHandle] = RenderHighlight(&tmpl, s.grid)
		return nil
	}

	s.timers[tmpl.ID] = time.AfterFunc(s.renderDelay, func() {
		s.render(tmpl.ID)
	})

	return nil
}

func (s *Scene) render(templateID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.timers, templateID)

	tmpl, exists := s.templates[templateID]
	if !exists {
		return
	}

	mask := RenderHighlight(tmpl, s.grid)
	s.masks[tmpl.RenderHandle] = mask

	s.log.WithFields(logrus.Fields{
		"template_id": templateID,
		"cells":       mask.Len(),
	}).Debug("highlight rendered")
}

// Template returns a copy of a placed template
func (s *Scene) Template(id string) (*Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tmpl, exists := s.templates[id]
	if !exists {
		return nil, false
	}
	tmplCopy := *tmpl
	return &tmplCopy, true
}

// DeleteTemplate removes a template and its highlight
func (s *Scene) DeleteTemplate(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmpl, exists := s.templates[id]
	if !exists {
		return errors.NotFoundf("template %s not found", id)
	}

	if timer, pending := s.timers[id]; pending {
		timer.Stop()
		delete(s.timers, id)
	}
	delete(s.masks, tmpl.RenderHandle)
	delete(s.templates, id)

	return nil
}

// HighlightMask returns the rendered highlight for a render handle, or nil
// when it has not been rendered yet
func (s *Scene) HighlightMask(ctx context.Context, handle string) (*HighlightMask, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.masks[handle], nil
}

// SetTargets replaces a user's target selection
func (s *Scene) SetTargets(ctx context.Context, userID string, tokenIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if userID == "" {
		return errors.InvalidArgument("user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(tokenIDs))
	for _, id := range tokenIDs {
		if _, exists := s.tokens[id]; !exists {
			return errors.NotFoundf("token %s not found", id)
		}
		ids = append(ids, id)
	}
	s.targets[userID] = ids

	return nil
}

// Targets returns a user's current target selection
func (s *Scene) Targets(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.targets[userID]))
	copy(ids, s.targets[userID])
	return ids
}
