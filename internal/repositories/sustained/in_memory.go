package sustained

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/entities"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
)

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu     sync.RWMutex
	spells map[string]*entities.SustainedSpell
}

// NewInMemoryRepository creates a new in-memory sustained spell repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		spells: make(map[string]*entities.SustainedSpell),
	}
}

func (r *inMemoryRepository) Save(_ context.Context, spell *entities.SustainedSpell) error {
	if err := validate(spell); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.spells[spell.CasterID] = spell.Clone()
	return nil
}

func (r *inMemoryRepository) Get(_ context.Context, casterID string) (*entities.SustainedSpell, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spell, exists := r.spells[casterID]
	if !exists {
		return nil, errors.NotFoundf("no sustained spell for caster %s", casterID)
	}
	return spell.Clone(), nil
}

func (r *inMemoryRepository) Delete(_ context.Context, casterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.spells[casterID]; !exists {
		return errors.NotFoundf("no sustained spell for caster %s", casterID)
	}
	delete(r.spells, casterID)
	return nil
}

func (r *inMemoryRepository) List(_ context.Context) ([]*entities.SustainedSpell, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.SustainedSpell, 0, len(r.spells))
	for _, spell := range r.spells {
		result = append(result, spell.Clone())
	}
	sortByCaster(result)
	return result, nil
}

func validate(spell *entities.SustainedSpell) error {
	if spell == nil {
		return errors.InvalidArgument("sustained spell cannot be nil")
	}
	if spell.CasterID == "" {
		return errors.InvalidArgument("caster ID cannot be empty")
	}
	if spell.SpellKey == "" {
		return errors.InvalidArgument("spell key cannot be empty")
	}
	return nil
}

func sortByCaster(list []*entities.SustainedSpell) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CasterID < list[j].CasterID
	})
}
