package scene

import (
	"encoding/json"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/geometry"
)

// Grid describes the square grid of a scene
type Grid struct {
	// Size is the pixel width of one cell
	Size int `json:"size"`
	// Distance is the number of feet one cell represents
	Distance float64 `json:"distance"`
}

// DefaultGrid is 100px cells of 5 feet
var DefaultGrid = Grid{Size: 100, Distance: 5}

// PixelsPerFoot converts feet to scene pixels
func (g Grid) PixelsPerFoot() float64 {
	if g.Distance <= 0 {
		return 0
	}
	return float64(g.Size) / g.Distance
}

// Token is a creature or object placed on the scene
type Token struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ActorID string `json:"actor_id,omitempty"`

	// X, Y is the top-left corner in pixels
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Width and Height are measured in grid cells
	Width  int `json:"width"`
	Height int `json:"height"`

	Hidden bool `json:"hidden,omitempty"`
}

// Footprint returns the token size in cells, never smaller than 1x1
func (t *Token) Footprint() (width, height int) {
	width, height = t.Width, t.Height
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// Bounds returns the pixel rectangle the token covers
func (t *Token) Bounds(gridSize int) geometry.Rect {
	w, h := t.Footprint()
	return geometry.Rect{
		X:      t.X,
		Y:      t.Y,
		Width:  float64(w * gridSize),
		Height: float64(h * gridSize),
	}
}

// Center returns the pixel center of the token
func (t *Token) Center(gridSize int) geometry.Point {
	b := t.Bounds(gridSize)
	return geometry.Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Wall is a segment on the scene that can block movement
type Wall struct {
	ID      string           `json:"id"`
	Segment geometry.Segment `json:"segment"`
	// Passable walls never block movement (doors left open, ethereal walls)
	Passable bool `json:"passable,omitempty"`
}

// ShapeKind is the geometric kind of a template
type ShapeKind string

const (
	ShapeCircle ShapeKind = "circle"
	ShapeCone   ShapeKind = "cone"
	ShapeRay    ShapeKind = "ray"
	ShapeRect   ShapeKind = "rect"
)

// Valid reports whether k is a known shape kind
func (k ShapeKind) Valid() bool {
	switch k {
	case ShapeCircle, ShapeCone, ShapeRay, ShapeRect:
		return true
	}
	return false
}

// Template is a placed area-of-effect shape.
//
// Distances are in feet. Direction is in degrees with 0 pointing east and
// angles increasing clockwise, matching screen coordinates.
type Template struct {
	ID     string         `json:"id"`
	Kind   ShapeKind      `json:"kind"`
	Origin geometry.Point `json:"origin"`

	// Distance is the radius for circles and cones, the length for rays,
	// and the side length for rects
	Distance float64 `json:"distance"`
	// Width of a ray
	Width float64 `json:"width,omitempty"`
	// Angle is the aperture of a cone
	Angle     float64 `json:"angle,omitempty"`
	Direction float64 `json:"direction,omitempty"`

	// RenderHandle identifies the highlight rendered for this template
	RenderHandle string `json:"render_handle,omitempty"`
	UserID       string `json:"user_id,omitempty"`

	// Flags carries module data attached by whoever placed the template
	Flags json.RawMessage `json:"flags,omitempty"`
}

// HighlightMask is the set of grid cells a template highlights
type HighlightMask struct {
	Bounds    geometry.Rect
	Positions map[string]struct{}
}

// NewHighlightMask creates an empty mask
func NewHighlightMask() *HighlightMask {
	return &HighlightMask{
		Positions: make(map[string]struct{}),
	}
}

// AddCell adds the cell whose top-left corner is x, y
func (m *HighlightMask) AddCell(x, y, gridSize int) {
	m.Positions[geometry.CellKey(x, y)] = struct{}{}
	m.Bounds = m.Bounds.Union(geometry.Rect{
		X:      float64(x),
		Y:      float64(y),
		Width:  float64(gridSize),
		Height: float64(gridSize),
	})
}

// Has reports whether the cell key is highlighted
func (m *HighlightMask) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.Positions[key]
	return ok
}

// Len returns the number of highlighted cells
func (m *HighlightMask) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Positions)
}
