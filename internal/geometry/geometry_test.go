package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect_Intersects(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 200, Height: 200}

	assert.True(t, r.Intersects(Rect{X: 150, Y: 150, Width: 10, Height: 10}))
	assert.True(t, r.Intersects(Rect{X: 0, Y: 0, Width: 150, Height: 150}))
	assert.False(t, r.Intersects(Rect{X: 300, Y: 100, Width: 100, Height: 100}), "touching edge")
	assert.False(t, r.Intersects(Rect{X: 2000, Y: 2000, Width: 100, Height: 100}))
}

func TestRect_IsZero(t *testing.T) {
	assert.True(t, Rect{}.IsZero())
	assert.False(t, Rect{Width: 100, Height: 100}.IsZero())
	assert.False(t, Rect{X: 100}.IsZero())
}

func TestRect_Union(t *testing.T) {
	a := Rect{X: 100, Y: 100, Width: 100, Height: 100}
	b := Rect{X: 300, Y: 0, Width: 100, Height: 100}

	assert.Equal(t, Rect{X: 100, Y: 0, Width: 300, Height: 200}, a.Union(b))
	assert.Equal(t, a, Rect{}.Union(a))
	assert.Equal(t, a, a.Union(Rect{}))
}

func TestSegment_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Segment
		want bool
	}{
		{
			name: "crossing",
			a:    Segment{A: Point{0, 0}, B: Point{10, 10}},
			b:    Segment{A: Point{0, 10}, B: Point{10, 0}},
			want: true,
		},
		{
			name: "parallel",
			a:    Segment{A: Point{0, 0}, B: Point{10, 0}},
			b:    Segment{A: Point{0, 5}, B: Point{10, 5}},
			want: false,
		},
		{
			name: "endpoint touching",
			a:    Segment{A: Point{0, 0}, B: Point{5, 5}},
			b:    Segment{A: Point{5, 5}, B: Point{10, 0}},
			want: true,
		},
		{
			name: "collinear overlapping",
			a:    Segment{A: Point{0, 0}, B: Point{10, 0}},
			b:    Segment{A: Point{5, 0}, B: Point{15, 0}},
			want: true,
		},
		{
			name: "collinear disjoint",
			a:    Segment{A: Point{0, 0}, B: Point{4, 0}},
			b:    Segment{A: Point{5, 0}, B: Point{15, 0}},
			want: false,
		},
		{
			name: "short of wall",
			a:    Segment{A: Point{0, 0}, B: Point{4, 4}},
			b:    Segment{A: Point{5, 0}, B: Point{5, 10}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Intersects(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersects(tt.a))
		})
	}
}

func TestCellKey(t *testing.T) {
	assert.Equal(t, "500,500", CellKey(500, 500))
	assert.Equal(t, "-100,0", CellKey(-100, 0))

	x, y, ok := ParseCellKey("300,-200")
	assert.True(t, ok)
	assert.Equal(t, 300, x)
	assert.Equal(t, -200, y)

	_, _, ok = ParseCellKey("garbage")
	assert.False(t, ok)
	_, _, ok = ParseCellKey("1,x")
	assert.False(t, ok)
}

func TestSnapToGrid(t *testing.T) {
	assert.Equal(t, 500, SnapToGrid(550, 100))
	assert.Equal(t, 500, SnapToGrid(500, 100))
	assert.Equal(t, -100, SnapToGrid(-1, 100))
	assert.Equal(t, 42, SnapToGrid(42.7, 0))
}

func TestNormalizeDegrees(t *testing.T) {
	assert.InDelta(t, 270.0, NormalizeDegrees(-90), 1e-9)
	assert.InDelta(t, 10.0, NormalizeDegrees(370), 1e-9)
	assert.InDelta(t, 0.0, NormalizeDegrees(360), 1e-9)
}
