package scene

import (
	"math"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/geometry"
)

const epsilon = 1e-6

// RenderHighlight computes the cells a template highlights: every cell whose
// center lies inside the shape. Walls are not considered.
func RenderHighlight(t *Template, grid Grid) *HighlightMask {
	mask := NewHighlightMask()
	if t == nil || grid.Size <= 0 {
		return mask
	}

	reach := t.Distance * grid.PixelsPerFoot()
	if reach <= 0 {
		return mask
	}

	size := grid.Size
	minX := geometry.SnapToGrid(t.Origin.X-reach, size)
	minY := geometry.SnapToGrid(t.Origin.Y-reach, size)
	maxX := t.Origin.X + reach
	maxY := t.Origin.Y + reach

	for y := minY; float64(y) <= maxY; y += size {
		for x := minX; float64(x) <= maxX; x += size {
			center := geometry.Point{
				X: float64(x) + float64(size)/2,
				Y: float64(y) + float64(size)/2,
			}
			if shapeContains(t, grid, reach, center) {
				mask.AddCell(x, y, size)
			}
		}
	}

	return mask
}

// shapeContains reports whether p lies in the template shape. reach is the
// template distance in pixels.
func shapeContains(t *Template, grid Grid, reach float64, p geometry.Point) bool {
	dx := p.X - t.Origin.X
	dy := p.Y - t.Origin.Y

	switch t.Kind {
	case ShapeCircle:
		return math.Hypot(dx, dy) <= reach+epsilon

	case ShapeCone:
		dist := math.Hypot(dx, dy)
		if dist > reach+epsilon {
			return false
		}
		if dist < epsilon {
			return true
		}
		heading := geometry.NormalizeDegrees(math.Atan2(dy, dx) * 180 / math.Pi)
		diff := math.Abs(heading - geometry.NormalizeDegrees(t.Direction))
		if diff > 180 {
			diff = 360 - diff
		}
		return diff <= t.Angle/2+epsilon

	case ShapeRay:
		rad := geometry.Radians(t.Direction)
		ux, uy := math.Cos(rad), math.Sin(rad)
		along := dx*ux + dy*uy
		if along < -epsilon || along > reach+epsilon {
			return false
		}
		half := t.Width * grid.PixelsPerFoot() / 2
		across := math.Abs(dx*uy - dy*ux)
		return across <= half+epsilon

	case ShapeRect:
		// Square of side Distance with its top-left corner at the origin
		return dx >= -epsilon && dx <= reach+epsilon && dy >= -epsilon && dy <= reach+epsilon
	}

	return false
}
