package sustained

//go:generate mockgen -destination=mock/mock_repository.go -package=mocksustained -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/entities"
)

// Repository stores the spell each caster is sustaining, at most one per
// caster
type Repository interface {
	// Save stores or replaces the caster's sustained spell
	Save(ctx context.Context, spell *entities.SustainedSpell) error

	// Get retrieves the spell a caster is sustaining
	Get(ctx context.Context, casterID string) (*entities.SustainedSpell, error)

	// Delete removes a caster's sustained spell
	Delete(ctx context.Context, casterID string) error

	// List returns every sustained spell ordered by caster ID
	List(ctx context.Context) ([]*entities.SustainedSpell, error)
}
