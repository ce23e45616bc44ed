package interactions

//go:generate mockgen -destination=mock/mock_repository.go -package=mockinteractions -source=repository.go

import (
	"context"
	"time"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/entities"
)

// DefaultTTL is how long a placement prompt is kept
const DefaultTTL = 10 * time.Minute

// Repository defines the interface for interaction storage operations.
// Interactions expire TTL after creation; expired ones read as not found.
type Repository interface {
	// Create stores a new interaction, stamping its timestamps
	Create(ctx context.Context, interaction *entities.Interaction) error

	// Get retrieves an interaction by ID
	Get(ctx context.Context, id string) (*entities.Interaction, error)

	// Update replaces a live interaction without extending its lifetime
	Update(ctx context.Context, interaction *entities.Interaction) error

	// Delete removes an interaction
	Delete(ctx context.Context, id string) error

	// ListByUser returns a user's live interactions, oldest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Interaction, error)
}
