package guildstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/inkgame/inkbot/internal/common/clock"
	"github.com/inkgame/inkbot/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	guildKeyPrefix = "guildstate:"
	guildIDsKey    = "guildstate:ids"
	metaKey        = "guildstate:meta"
)

// RedisConfig holds configuration for the Redis-backed repository
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client

	// Clock stamps the save metadata; defaults to the system clock
	Clock clock.Clock
}

type saveMeta struct {
	SavedAt string `json:"saved_at"`
	Version string `json:"version"`
}

// redisRepository implements the Repository interface using Redis. Each guild
// is stored as one JSON value under its own key, with a set of known guild IDs
// alongside.
type redisRepository struct {
	client *redis.Client
	clock  clock.Clock
}

// NewRedis creates a new Redis-backed guild state repository
func NewRedis(cfg *RedisConfig) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}

	return &redisRepository{
		client: cfg.RedisClient,
		clock:  c,
	}, nil
}

// Save persists every guild's configuration in a single pipeline.
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	pipe := r.client.Pipeline()

	for guildID, cfg := range input.Guilds {
		data, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal guild %s: %w", guildID, err)
		}

		pipe.Set(ctx, guildKeyPrefix+guildID, data, 0)
		pipe.SAdd(ctx, guildIDsKey, guildID)
	}

	meta, err := json.Marshal(&saveMeta{
		SavedAt: r.clock.Now().UTC().Format(time.RFC3339),
		Version: models.SaveFileVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal save metadata: %w", err)
	}
	pipe.Set(ctx, metaKey, meta, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save guild state: %w", err)
	}

	return nil
}

// Load reads every known guild's configuration. An empty backend yields an
// empty store.
func (r *redisRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	guildIDs, err := r.client.SMembers(ctx, guildIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get guild IDs: %w", err)
	}

	guilds := make(map[string]*models.GuildConfig, len(guildIDs))

	if len(guildIDs) > 0 {
		pipe := r.client.Pipeline()
		commands := make(map[string]*redis.StringCmd, len(guildIDs))
		for _, guildID := range guildIDs {
			commands[guildID] = pipe.Get(ctx, guildKeyPrefix+guildID)
		}

		if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
			return nil, fmt.Errorf("failed to load guild state: %w", err)
		}

		for guildID, cmd := range commands {
			data, err := cmd.Result()
			if err != nil {
				if err == redis.Nil {
					// ID set and guild key drifted apart; skip the orphan
					continue
				}
				return nil, fmt.Errorf("failed to load guild %s: %w", guildID, err)
			}

			var cfg models.GuildConfig
			if err := json.Unmarshal([]byte(data), &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal guild %s: %w", guildID, err)
			}
			cfg.Normalize()
			guilds[guildID] = &cfg
		}
	}

	out := &LoadOutput{Guilds: guilds}

	metaData, err := r.client.Get(ctx, metaKey).Result()
	if err == nil {
		var meta saveMeta
		if err := json.Unmarshal([]byte(metaData), &meta); err == nil {
			out.SavedAt = meta.SavedAt
			out.Version = meta.Version
		}
	} else if err != redis.Nil {
		return nil, fmt.Errorf("failed to load save metadata: %w", err)
	}

	return out, nil
}
