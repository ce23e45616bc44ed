package scene

import (
	"math"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/geometry"
)

type bucketKey struct {
	bx, by int
}

// tokenIndex buckets token ids by the coarse cells their bounds overlap.
// Callers do the fine-grained intersection test.
type tokenIndex struct {
	bucketSize float64
	buckets    map[bucketKey]map[string]struct{}
}

func newTokenIndex(bucketSize int) *tokenIndex {
	if bucketSize <= 0 {
		bucketSize = DefaultGrid.Size
	}
	return &tokenIndex{
		bucketSize: float64(bucketSize),
		buckets:    make(map[bucketKey]map[string]struct{}),
	}
}

func (ix *tokenIndex) span(r geometry.Rect) (minX, minY, maxX, maxY int) {
	minX = int(math.Floor(r.X / ix.bucketSize))
	minY = int(math.Floor(r.Y / ix.bucketSize))
	maxX = int(math.Floor(r.Right() / ix.bucketSize))
	maxY = int(math.Floor(r.Bottom() / ix.bucketSize))
	return minX, minY, maxX, maxY
}

func (ix *tokenIndex) insert(id string, bounds geometry.Rect) {
	minX, minY, maxX, maxY := ix.span(bounds)
	for bx := minX; bx <= maxX; bx++ {
		for by := minY; by <= maxY; by++ {
			k := bucketKey{bx: bx, by: by}
			bucket := ix.buckets[k]
			if bucket == nil {
				bucket = make(map[string]struct{})
				ix.buckets[k] = bucket
			}
			bucket[id] = struct{}{}
		}
	}
}

func (ix *tokenIndex) remove(id string, bounds geometry.Rect) {
	minX, minY, maxX, maxY := ix.span(bounds)
	for bx := minX; bx <= maxX; bx++ {
		for by := minY; by <= maxY; by++ {
			k := bucketKey{bx: bx, by: by}
			bucket := ix.buckets[k]
			if bucket == nil {
				continue
			}
			delete(bucket, id)
			if len(bucket) == 0 {
				delete(ix.buckets, k)
			}
		}
	}
}

// candidates returns every id sharing a bucket with r
func (ix *tokenIndex) candidates(r geometry.Rect) map[string]struct{} {
	found := make(map[string]struct{})
	minX, minY, maxX, maxY := ix.span(r)
	for bx := minX; bx <= maxX; bx++ {
		for by := minY; by <= maxY; by++ {
			for id := range ix.buckets[bucketKey{bx: bx, by: by}] {
				found[id] = struct{}{}
			}
		}
	}
	return found
}
