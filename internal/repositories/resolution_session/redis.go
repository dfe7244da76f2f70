package resolutionsession

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/creature-import/internal/redis"
)

const (
	// Key pattern: resolution_session:{id}
	sessionKeyPrefix = "resolution_session:"
	// Key pattern: resolution_session:creature:{creature_id} -> open session ID
	creatureKeyPrefix = "resolution_session:creature:"
	// DefaultTTL applies when CreateInput.TTL is zero
	DefaultTTL = 24 * time.Hour

	errSessionNil       = "session cannot be nil"
	errSessionIDEmpty   = "session ID cannot be empty"
	errCreatureIDEmpty  = "creature ID cannot be empty"
	errSessionExpired   = "session has already expired"
	errSessionNotExists = "resolution session not found"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for resolution sessions
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create stores a new session with the specified TTL
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Session == nil {
		return nil, errors.InvalidArgument(errSessionNil)
	}
	if input.Session.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.Session.CreatureID == "" {
		return nil, errors.InvalidArgument(errCreatureIDEmpty)
	}

	now := r.clock.Now()
	ttl := input.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	session := *input.Session
	session.CreatedAt = now
	session.UpdatedAt = now
	session.ExpiresAt = now.Add(ttl)

	sessionJSON, err := json.Marshal(&session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	sessionKey := r.buildKey(session.ID)
	creatureKey := r.buildCreatureKey(session.CreatureID)

	// The creature key is watched so two processes cannot both claim it
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, sessionKey).Result()
		if err != nil {
			return errors.Wrapf(err, "failed to check session in Redis")
		}
		if exists > 0 {
			return errors.AlreadyExistsf("resolution session %s already exists", session.ID)
		}

		if err := r.checkNoOpenSession(ctx, tx, session.CreatureID); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, sessionKey, sessionJSON, ttl)
			if !session.State.Terminal() {
				pipe.Set(ctx, creatureKey, session.ID, ttl)
			}
			return nil
		})
		return err
	}, creatureKey, sessionKey)
	if err != nil {
		if err == redis.TxFailedErr {
			return nil, errors.FailedPreconditionf("creature %s is starting another resolution session", session.CreatureID)
		}
		return nil, errors.Wrapf(err, "failed to store session in Redis")
	}

	return &CreateOutput{Session: &session}, nil
}

// checkNoOpenSession fails when the creature's claimed session is still
// running. Claims left by finished or expired sessions are ignored.
func (r *redisRepository) checkNoOpenSession(ctx context.Context, tx *redis.Tx, creatureID string) error {
	activeID, err := tx.Get(ctx, r.buildCreatureKey(creatureID)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read open session for creature %s", creatureID)
	}

	activeJSON, err := tx.Get(ctx, r.buildKey(activeID)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read session %s", activeID)
	}

	var active entities.ResolutionSession
	if err := json.Unmarshal([]byte(activeJSON), &active); err != nil {
		return errors.Wrapf(err, "failed to unmarshal session")
	}
	if active.State.Terminal() || r.clock.Now().After(active.ExpiresAt) {
		return nil
	}

	return errors.FailedPreconditionf("creature %s already has open resolution session %s", creatureID, activeID)
}

// Get retrieves a session by ID
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	key := r.buildKey(input.ID)

	sessionJSON, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFound(errSessionNotExists)
		}
		return nil, errors.Wrapf(err, "failed to get session from Redis")
	}

	var session entities.ResolutionSession
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session")
	}

	if r.clock.Now().After(session.ExpiresAt) {
		_ = r.client.Del(ctx, key)
		return nil, errors.NotFound("resolution session has expired")
	}

	return &GetOutput{Session: &session}, nil
}

// Update replaces an existing session, keeping its remaining TTL
func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Session == nil {
		return nil, errors.InvalidArgument(errSessionNil)
	}
	if input.Session.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	now := r.clock.Now()
	if now.After(input.Session.ExpiresAt) {
		return nil, errors.FailedPrecondition(errSessionExpired)
	}
	remainingTTL := input.Session.ExpiresAt.Sub(now)

	session := *input.Session
	session.UpdatedAt = now

	sessionJSON, err := json.Marshal(&session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	ok, err := r.client.SetXX(ctx, r.buildKey(session.ID), sessionJSON, remainingTTL).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update session in Redis")
	}
	if !ok {
		return nil, errors.NotFound(errSessionNotExists)
	}

	if session.State.Terminal() {
		if err := r.releaseCreature(ctx, session.CreatureID, session.ID); err != nil {
			return nil, err
		}
	}

	return &UpdateOutput{Session: &session}, nil
}

// Delete removes a session
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	// Get the session first to count logged items
	var logged int
	got, err := r.Get(ctx, GetInput(input))
	if err == nil {
		logged = len(got.Session.Log)
	}

	if err := r.client.Del(ctx, r.buildKey(input.ID)).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete session from Redis")
	}
	if got != nil {
		if err := r.releaseCreature(ctx, got.Session.CreatureID, input.ID); err != nil {
			return nil, err
		}
	}

	return &DeleteOutput{ItemsLogged: logged}, nil
}

// releaseCreature drops the creature's claim when it still names sessionID
func (r *redisRepository) releaseCreature(ctx context.Context, creatureID, sessionID string) error {
	if creatureID == "" {
		return nil
	}
	key := r.buildCreatureKey(creatureID)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		activeID, err := tx.Get(ctx, key).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if activeID != sessionID {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
	if err != nil && err != redis.TxFailedErr {
		return errors.Wrapf(err, "failed to release creature %s", creatureID)
	}
	return nil
}

func (r *redisRepository) buildKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *redisRepository) buildCreatureKey(creatureID string) string {
	return creatureKeyPrefix + creatureID
}
