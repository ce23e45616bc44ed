package interactions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/entities"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/errors"
)

const (
	// Key patterns
	interactionKeyPrefix = "interaction:"
	userInteractionsKey  = "user:%s:interactions"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TTL          time.Duration
	TimeProvider TimeProvider
}

// redisRepository implements Repository using Redis. Each interaction key
// carries the TTL; the per-user index is refreshed to the same TTL and
// pruned lazily when it points at expired keys.
type redisRepository struct {
	client       redis.UniversalClient
	ttl          time.Duration
	timeProvider TimeProvider
}

// NewRedisRepository creates a new Redis-backed interaction repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	var tp TimeProvider = realTimeProvider{}
	if cfg.TimeProvider != nil {
		tp = cfg.TimeProvider
	}

	return &redisRepository{
		client:       cfg.Client,
		ttl:          ttl,
		timeProvider: tp,
	}
}

// NewRedis creates a Redis-backed repository with the default TTL
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func (r *redisRepository) Create(ctx context.Context, interaction *entities.Interaction) error {
	if err := validate(interaction); err != nil {
		return err
	}

	now := r.timeProvider.Now()
	interaction.CreatedAt = now
	interaction.UpdatedAt = now
	interaction.ExpiresAt = now.Add(r.ttl)

	data, err := json.Marshal(interaction)
	if err != nil {
		return fmt.Errorf("failed to serialize interaction: %w", err)
	}

	created, err := r.client.SetNX(ctx, interactionKeyPrefix+interaction.ID, data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}
	if !created {
		return errors.AlreadyExistsf("interaction %s already exists", interaction.ID)
	}

	userKey := fmt.Sprintf(userInteractionsKey, interaction.UserID)
	pipe := r.client.Pipeline()
	pipe.SAdd(ctx, userKey, interaction.ID)
	pipe.Expire(ctx, userKey, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index interaction: %w", err)
	}

	return nil
}

func (r *redisRepository) Get(ctx context.Context, id string) (*entities.Interaction, error) {
	if id == "" {
		return nil, errors.InvalidArgument("interaction ID cannot be empty")
	}

	data, err := r.client.Get(ctx, interactionKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("interaction not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get interaction: %w", err)
	}

	var interaction entities.Interaction
	if err := json.Unmarshal(data, &interaction); err != nil {
		return nil, fmt.Errorf("failed to deserialize interaction: %w", err)
	}

	return &interaction, nil
}

func (r *redisRepository) Update(ctx context.Context, interaction *entities.Interaction) error {
	if err := validate(interaction); err != nil {
		return err
	}

	interaction.UpdatedAt = r.timeProvider.Now()

	data, err := json.Marshal(interaction)
	if err != nil {
		return fmt.Errorf("failed to serialize interaction: %w", err)
	}

	// XX only writes an existing key; KEEPTTL leaves its expiry alone
	err = r.client.SetArgs(ctx, interactionKeyPrefix+interaction.ID, data, redis.SetArgs{
		Mode:    "XX",
		KeepTTL: true,
	}).Err()
	if err != nil {
		if err == redis.Nil {
			return errors.NotFoundf("interaction not found: %s", interaction.ID)
		}
		return fmt.Errorf("failed to update interaction: %w", err)
	}

	return nil
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	interaction, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, interactionKeyPrefix+id)
	pipe.SRem(ctx, fmt.Sprintf(userInteractionsKey, interaction.UserID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete interaction: %w", err)
	}

	return nil
}

func (r *redisRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Interaction, error) {
	userKey := fmt.Sprintf(userInteractionsKey, userID)
	ids, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user interactions: %w", err)
	}

	found := make([]*entities.Interaction, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			interaction, err := r.Get(gctx, id)
			if err != nil {
				if errors.IsNotFound(err) {
					return nil
				}
				return fmt.Errorf("failed to get interaction %s: %w", id, err)
			}
			found[i] = interaction
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*entities.Interaction, 0, len(found))
	var stale []any
	for i, interaction := range found {
		if interaction == nil {
			stale = append(stale, ids[i])
			continue
		}
		result = append(result, interaction)
	}

	if len(stale) > 0 {
		if err := r.client.SRem(ctx, userKey, stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune user interactions: %w", err)
		}
	}

	sortByCreated(result)
	return result, nil
}
