package config

import (
	"fmt"
	"os"
)

// Storage backend selectors.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	Token         string // Discord bot token
	ApplicationID string // Discord application ID for command registration
	GuildID       string // Optional guild scope for development
	EconomyToken  string // UnbelievaBoat API token

	StorageBackend string // "file" or "redis"
	DataFile       string // Canonical save file path for the file backend
	RedisAddr      string // Redis address for the redis backend
	RedisPassword  string
}

func Load() (*Config, error) {
	cfg := &Config{
		Token:          os.Getenv("DISCORD_TOKEN"),
		ApplicationID:  os.Getenv("APPLICATION_ID"),
		GuildID:        os.Getenv("GUILD_ID"),
		EconomyToken:   os.Getenv("UNBELIEVABOAT_TOKEN"),
		StorageBackend: os.Getenv("STORAGE_BACKEND"),
		DataFile:       os.Getenv("DATA_FILE"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.EconomyToken == "" {
		return nil, fmt.Errorf("UNBELIEVABOAT_TOKEN is required")
	}

	if cfg.StorageBackend == "" {
		cfg.StorageBackend = BackendFile
	}
	switch cfg.StorageBackend {
	case BackendFile:
		if cfg.DataFile == "" {
			cfg.DataFile = "game_data.json"
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			cfg.RedisAddr = "localhost:6379"
		}
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendFile, BackendRedis, cfg.StorageBackend)
	}

	return cfg, nil
}
