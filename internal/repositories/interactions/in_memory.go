package interactions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/entities"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
)

// InMemoryRepoConfig holds configuration for the in-memory repository
type InMemoryRepoConfig struct {
	TTL          time.Duration
	TimeProvider TimeProvider
}

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu           sync.RWMutex
	interactions map[string]*entities.Interaction
	ttl          time.Duration
	timeProvider TimeProvider
}

// NewInMemoryRepository creates a new in-memory interaction repository
func NewInMemoryRepository(cfg *InMemoryRepoConfig) Repository {
	if cfg == nil {
		cfg = &InMemoryRepoConfig{}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	var tp TimeProvider = realTimeProvider{}
	if cfg.TimeProvider != nil {
		tp = cfg.TimeProvider
	}

	return &inMemoryRepository{
		interactions: make(map[string]*entities.Interaction),
		ttl:          ttl,
		timeProvider: tp,
	}
}

func (r *inMemoryRepository) Create(_ context.Context, interaction *entities.Interaction) error {
	if err := validate(interaction); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.timeProvider.Now()
	if existing, exists := r.interactions[interaction.ID]; exists && now.Before(existing.ExpiresAt) {
		return errors.AlreadyExistsf("interaction %s already exists", interaction.ID)
	}

	interaction.CreatedAt = now
	interaction.UpdatedAt = now
	interaction.ExpiresAt = now.Add(r.ttl)
	r.interactions[interaction.ID] = interaction.Clone()

	return nil
}

func (r *inMemoryRepository) Get(_ context.Context, id string) (*entities.Interaction, error) {
	if id == "" {
		return nil, errors.InvalidArgument("interaction ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	interaction, ok := r.live(id)
	if !ok {
		return nil, errors.NotFoundf("interaction not found: %s", id)
	}
	return interaction.Clone(), nil
}

func (r *inMemoryRepository) Update(_ context.Context, interaction *entities.Interaction) error {
	if err := validate(interaction); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.live(interaction.ID)
	if !ok {
		return errors.NotFoundf("interaction not found: %s", interaction.ID)
	}

	interaction.CreatedAt = existing.CreatedAt
	interaction.ExpiresAt = existing.ExpiresAt
	interaction.UpdatedAt = r.timeProvider.Now()
	r.interactions[interaction.ID] = interaction.Clone()

	return nil
}

func (r *inMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live(id); !ok {
		return errors.NotFoundf("interaction not found: %s", id)
	}
	delete(r.interactions, id)
	return nil
}

func (r *inMemoryRepository) ListByUser(_ context.Context, userID string) ([]*entities.Interaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entities.Interaction
	for id, interaction := range r.interactions {
		if interaction.UserID != userID {
			continue
		}
		if live, ok := r.live(id); ok {
			result = append(result, live.Clone())
		}
	}

	sortByCreated(result)
	return result, nil
}

// live returns the interaction if it has not expired, evicting it otherwise.
// Callers hold the write lock.
func (r *inMemoryRepository) live(id string) (*entities.Interaction, bool) {
	interaction, exists := r.interactions[id]
	if !exists {
		return nil, false
	}
	if !r.timeProvider.Now().Before(interaction.ExpiresAt) {
		delete(r.interactions, id)
		return nil, false
	}
	return interaction, true
}

func validate(interaction *entities.Interaction) error {
	if interaction == nil {
		return errors.InvalidArgument("interaction cannot be nil")
	}
	if interaction.ID == "" {
		return errors.InvalidArgument("interaction ID cannot be empty")
	}
	if interaction.UserID == "" {
		return errors.InvalidArgument("interaction user ID cannot be empty")
	}
	return nil
}

func sortByCreated(list []*entities.Interaction) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}
