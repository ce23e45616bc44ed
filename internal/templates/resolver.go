// Package templates resolves which tokens a placed area template captures.
package templates

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/geometry"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/scene"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/wait"
)

const (
	// DefaultPollInterval is how often the highlight is checked while waiting for it to render
	DefaultPollInterval = 20 * time.Millisecond
	// DefaultTimeout is how long to wait for the highlight before giving up with no tokens
	DefaultTimeout = 1000 * time.Millisecond
)

// HighlightSource returns the rendered highlight of a template, nil while it is not rendered
type HighlightSource interface {
	HighlightMask(ctx context.Context, handle string) (*scene.HighlightMask, error)
}

// TokenIndex finds tokens by area
type TokenIndex interface {
	TokensIntersecting(ctx context.Context, bounds geometry.Rect) ([]*scene.Token, error)
}

// CollisionTester checks straight-line movement against walls
type CollisionTester interface {
	MovementCollides(ctx context.Context, origin, dest geometry.Point) (bool, error)
}

// Host is everything the resolver reads from the tabletop
type Host interface {
	HighlightSource
	TokenIndex
	CollisionTester
	GridSize() int
}

// Config configures a Resolver
type Config struct {
	Host         Host
	PollInterval time.Duration
	Timeout      time.Duration
	Logger       logrus.FieldLogger
}

// Resolver finds the tokens inside placed templates. It only reads host state
// and is safe for concurrent use.
type Resolver struct {
	host         Host
	pollInterval time.Duration
	timeout      time.Duration
	log          logrus.FieldLogger
}

// NewResolver creates a resolver. Zero durations fall back to the defaults.
func NewResolver(cfg *Config) (*Resolver, error) {
	if cfg == nil || cfg.Host == nil {
		return nil, errors.InvalidArgument("resolver host is required")
	}

	r := &Resolver{
		host:         cfg.Host,
		pollInterval: cfg.PollInterval,
		timeout:      cfg.Timeout,
		log:          cfg.Logger,
	}
	if r.pollInterval <= 0 {
		r.pollInterval = DefaultPollInterval
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if r.log == nil {
		r.log = logrus.StandardLogger()
	}
	r.log = r.log.WithField("component", "template_resolver")

	return r, nil
}

// TemplateTokens returns the tokens captured by a placed template, in the
// order the token index returns them.
//
// A token is captured when at least one cell of its footprint is highlighted
// and the straight path from the template origin to that cell's center does
// not collide with a wall. When the highlight does not render within the
// timeout the result is empty and the error nil. A non-nil error means the
// context was cancelled or the host failed.
func (r *Resolver) TemplateTokens(ctx context.Context, tmpl *scene.Template) ([]*scene.Token, error) {
	if tmpl == nil {
		return nil, errors.InvalidArgument("template is required")
	}

	log := r.log.WithField("template_id", tmpl.ID)

	mask, err := r.awaitHighlight(ctx, tmpl.RenderHandle)
	if err != nil {
		if stderrors.Is(err, wait.ErrTimeout) {
			log.WithField("timeout", r.timeout).Warn("highlight not rendered in time, no tokens captured")
			return []*scene.Token{}, nil
		}
		return nil, err
	}

	candidates, err := r.host.TokensIntersecting(ctx, mask.Bounds)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to query tokens")
	}

	gridSize := r.host.GridSize()
	captured := make([]*scene.Token, 0, len(candidates))
	for _, token := range candidates {
		inside, err := r.containsToken(ctx, tmpl, mask, token, gridSize)
		if err != nil {
			return nil, err
		}
		if inside {
			captured = append(captured, token)
		}
	}

	log.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"captured":   len(captured),
	}).Debug("template tokens resolved")

	return captured, nil
}

// awaitHighlight polls until the template highlight has rendered
func (r *Resolver) awaitHighlight(ctx context.Context, handle string) (*scene.HighlightMask, error) {
	opts := wait.Options{Interval: r.pollInterval, Timeout: r.timeout}

	return wait.For(ctx, opts, func(ctx context.Context) (*scene.HighlightMask, bool, error) {
		mask, err := r.host.HighlightMask(ctx, handle)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, false, ctxErr
			}
			// The renderer may still be working; keep polling
			r.log.WithError(err).WithField("handle", handle).Debug("highlight lookup failed")
			return nil, false, nil
		}
		return mask, highlightReady(mask), nil
	})
}

// highlightReady treats a missing mask, or one whose bounds are still the
// zero rect at the origin, as not yet rendered
func highlightReady(mask *scene.HighlightMask) bool {
	return mask != nil && !mask.Bounds.IsZero()
}

// containsToken checks the token footprint cell by cell, stopping at the first captured cell
func (r *Resolver) containsToken(ctx context.Context, tmpl *scene.Template, mask *scene.HighlightMask, token *scene.Token, gridSize int) (bool, error) {
	width, height := token.Footprint()
	left := geometry.SnapToGrid(token.X, gridSize)
	top := geometry.SnapToGrid(token.Y, gridSize)
	half := float64(gridSize) / 2

	for i := 0; i < width; i++ {
		for j := 0; j < height; j++ {
			x := left + i*gridSize
			y := top + j*gridSize
			if x < 0 || y < 0 {
				continue
			}
			if !mask.Has(geometry.CellKey(x, y)) {
				continue
			}

			dest := geometry.Point{X: float64(x) + half, Y: float64(y) + half}
			blocked, err := r.host.MovementCollides(ctx, tmpl.Origin, dest)
			if err != nil {
				return false, errors.WrapWithCode(err, errors.CodeInternal, "failed to test collision")
			}
			if !blocked {
				return true, nil
			}
		}
	}

	return false, nil
}
