// Package store owns the in-memory map of guild configurations. Every
// mutating operation runs inside an explicit critical section and persists
// the whole store through the repository before the lock is released, so a
// successful mutation is always on disk.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/inkgame/inkbot/internal/models"
	"github.com/inkgame/inkbot/internal/repositories/guildstate"
)

// Config holds configuration for the store
type Config struct {
	// Repo is the persistence backend
	Repo guildstate.Repository
}

// Store is the in-memory guild configuration store. Records are created
// lazily with deep-copied defaults and never deleted.
type Store struct {
	mu     sync.Mutex
	guilds map[string]*models.GuildConfig
	repo   guildstate.Repository
}

// New creates a new guild configuration store
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Repo == nil {
		return nil, errors.New("repository cannot be nil")
	}

	return &Store{
		guilds: make(map[string]*models.GuildConfig),
		repo:   cfg.Repo,
	}, nil
}

// Load replaces the in-memory map with the persisted state. A missing or
// empty backend yields an empty store, not an error.
func (s *Store) Load(ctx context.Context) error {
	out, err := s.repo.Load(ctx, &guildstate.LoadInput{})
	if err != nil {
		return fmt.Errorf("failed to load guild state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.guilds = out.Guilds
	return nil
}

// getOrCreate must be called with the lock held.
func (s *Store) getOrCreate(guildID, guildName string) *models.GuildConfig {
	cfg, ok := s.guilds[guildID]
	if !ok {
		cfg = models.NewGuildConfig(guildName)
		s.guilds[guildID] = cfg
		return cfg
	}

	if guildName != "" && cfg.GuildName != guildName {
		cfg.GuildName = guildName
	}
	return cfg
}

// persist must be called with the lock held.
func (s *Store) persist(ctx context.Context) error {
	return s.repo.Save(ctx, &guildstate.SaveInput{Guilds: s.guilds})
}

// Update runs fn on the guild's configuration inside the store's critical
// section and persists the whole store afterward. If fn returns an error the
// mutation is considered rejected and nothing is persisted.
func (s *Store) Update(ctx context.Context, guildID, guildName string, fn func(cfg *models.GuildConfig) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.getOrCreate(guildID, guildName)
	if err := fn(cfg); err != nil {
		return err
	}

	if err := s.persist(ctx); err != nil {
		return fmt.Errorf("failed to persist guild state: %w", err)
	}
	return nil
}

// View runs fn on a deep copy of the guild's configuration. The copy keeps
// readers from observing or introducing mutations outside Update.
func (s *Store) View(guildID, guildName string, fn func(cfg *models.GuildConfig)) {
	s.mu.Lock()
	cfg := s.getOrCreate(guildID, guildName).Clone()
	s.mu.Unlock()

	fn(cfg)
}

// GuildSnapshot returns a deep copy of the guild's configuration.
func (s *Store) GuildSnapshot(guildID, guildName string) *models.GuildConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreate(guildID, guildName).Clone()
}

// ReplaceGuild wholesale-replaces a guild's record and persists. Used by the
// restore path after validation and confirmation.
func (s *Store) ReplaceGuild(ctx context.Context, guildID string, cfg *models.GuildConfig) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}
	cfg.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.guilds[guildID] = cfg
	if err := s.persist(ctx); err != nil {
		return fmt.Errorf("failed to persist guild state: %w", err)
	}
	return nil
}

// SaveAll persists the current in-memory state.
func (s *Store) SaveAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx)
}

// GuildCount returns the number of known guilds.
func (s *Store) GuildCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.guilds)
}
