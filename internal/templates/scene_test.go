package templates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/geometry"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/scene"
)

func TestTemplateTokens_WithScene(t *testing.T) {
	sc := scene.New(&scene.Config{Grid: scene.DefaultGrid, RenderDelay: 50 * time.Millisecond})

	for _, tok := range []*scene.Token{
		{ID: "inside", X: 500, Y: 500, Width: 1, Height: 1},
		{ID: "far", X: 2000, Y: 2000, Width: 1, Height: 1},
		{ID: "walled-off", X: 300, Y: 500, Width: 1, Height: 1},
		{ID: "large", X: 600, Y: 600, Width: 2, Height: 2},
	} {
		require.NoError(t, sc.AddToken(tok))
	}

	// Wall between the origin and the west cell
	sc.AddWall(scene.Wall{ID: "w1", Segment: geometry.Segment{
		A: geometry.Point{X: 420, Y: 0},
		B: geometry.Point{X: 420, Y: 1000},
	}})

	tmpl := &scene.Template{
		ID:       "fireball",
		Kind:     scene.ShapeCircle,
		Origin:   geometry.Point{X: 500, Y: 500},
		Distance: 10,
	}
	require.NoError(t, sc.PlaceTemplate(tmpl))
	placed, ok := sc.Template("fireball")
	require.True(t, ok)

	r, err := NewResolver(&Config{Host: sc})
	require.NoError(t, err)

	got, err := r.TemplateTokens(context.Background(), placed)
	require.NoError(t, err)

	// large overlaps the highlight bounds but its nearest cell center is 212px
	// from the origin, outside the 200px radius
	assert.Equal(t, []string{"inside"}, ids(got))

	require.NoError(t, sc.MoveToken("large", 500, 600))
	got, err = r.TemplateTokens(context.Background(), placed)
	require.NoError(t, err)
	assert.Equal(t, []string{"inside", "large"}, ids(got))
}
