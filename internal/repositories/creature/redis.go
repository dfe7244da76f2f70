package creature

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/creature-import/internal/redis"
)

const (
	creatureKeyPrefix = "creature:"
	// creatureIndexKey is a set of every stored creature ID
	creatureIndexKey = "creature:ids"

	errCreatureNil     = "creature cannot be nil"
	errCreatureIDEmpty = "creature ID cannot be empty"
)

// RedisConfig contains configuration for the Redis creature repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

var _ Repository = (*redisRepository)(nil)

// NewRedis creates a new Redis-backed creature repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Creature == nil {
		return nil, errors.InvalidArgument(errCreatureNil)
	}
	if input.Creature.ID == "" {
		return nil, errors.InvalidArgument(errCreatureIDEmpty)
	}

	key := creatureKeyPrefix + input.Creature.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("creature with ID %s already exists", input.Creature.ID)
	}

	now := r.clock.Now()
	creature := *input.Creature
	creature.CreatedAt = now
	creature.UpdatedAt = now

	data, err := json.Marshal(&creature)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal creature")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, creatureIndexKey, creature.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create creature")
	}

	return &CreateOutput{Creature: &creature}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCreatureIDEmpty)
	}

	creature, err := r.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Creature: creature}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Creature == nil {
		return nil, errors.InvalidArgument(errCreatureNil)
	}
	if input.Creature.ID == "" {
		return nil, errors.InvalidArgument(errCreatureIDEmpty)
	}

	existing, err := r.load(ctx, input.Creature.ID)
	if err != nil {
		return nil, err
	}

	creature := *input.Creature
	creature.CreatedAt = existing.CreatedAt
	creature.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(&creature)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal creature")
	}

	if err := r.client.Set(ctx, creatureKeyPrefix+creature.ID, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update creature")
	}

	return &UpdateOutput{Creature: &creature}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCreatureIDEmpty)
	}

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, creatureKeyPrefix+input.ID)
	pipe.SRem(ctx, creatureIndexKey, input.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete creature")
	}
	if del.Val() == 0 {
		return nil, errors.NotFoundf("creature with ID %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) load(ctx context.Context, id string) (*entities.CreatureRecord, error) {
	result, err := r.client.Get(ctx, creatureKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("creature with ID %s not found", id)
		}
		return nil, errors.Wrapf(err, "failed to get creature")
	}

	var creature entities.CreatureRecord
	if err := json.Unmarshal([]byte(result), &creature); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal creature")
	}

	return &creature, nil
}
