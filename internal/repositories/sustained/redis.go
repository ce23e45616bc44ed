package sustained

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/entities"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
)

const (
	// Key patterns
	sustainedKeyPrefix = "sustained:"
	castersKey         = "sustained:casters"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// redisRepository implements Repository using Redis. Sustained spells end by
// game events rather than wall-clock time, so keys carry no TTL.
type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed sustained spell repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{client: cfg.Client}
}

func (r *redisRepository) Save(ctx context.Context, spell *entities.SustainedSpell) error {
	if err := validate(spell); err != nil {
		return err
	}

	data, err := json.Marshal(spell)
	if err != nil {
		return fmt.Errorf("failed to serialize sustained spell: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sustainedKeyPrefix+spell.CasterID, data, 0)
	pipe.SAdd(ctx, castersKey, spell.CasterID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save sustained spell: %w", err)
	}

	return nil
}

func (r *redisRepository) Get(ctx context.Context, casterID string) (*entities.SustainedSpell, error) {
	data, err := r.client.Get(ctx, sustainedKeyPrefix+casterID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no sustained spell for caster %s", casterID)
		}
		return nil, fmt.Errorf("failed to get sustained spell: %w", err)
	}

	var spell entities.SustainedSpell
	if err := json.Unmarshal(data, &spell); err != nil {
		return nil, fmt.Errorf("failed to deserialize sustained spell: %w", err)
	}

	return &spell, nil
}

func (r *redisRepository) Delete(ctx context.Context, casterID string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, sustainedKeyPrefix+casterID)
	pipe.SRem(ctx, castersKey, casterID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete sustained spell: %w", err)
	}

	if del.Val() == 0 {
		return errors.NotFoundf("no sustained spell for caster %s", casterID)
	}
	return nil
}

func (r *redisRepository) List(ctx context.Context) ([]*entities.SustainedSpell, error) {
	casterIDs, err := r.client.SMembers(ctx, castersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list casters: %w", err)
	}

	found := make([]*entities.SustainedSpell, len(casterIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, casterID := range casterIDs {
		g.Go(func() error {
			spell, err := r.Get(gctx, casterID)
			if err != nil {
				if errors.IsNotFound(err) {
					return nil
				}
				return fmt.Errorf("failed to get sustained spell %s: %w", casterID, err)
			}
			found[i] = spell
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*entities.SustainedSpell, 0, len(found))
	for _, spell := range found {
		if spell != nil {
			result = append(result, spell)
		}
	}
	sortByCaster(result)
	return result, nil
}
