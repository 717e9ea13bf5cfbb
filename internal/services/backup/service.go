package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inkgame/inkbot/internal/common/clock"
	"github.com/inkgame/inkbot/internal/common/uuid"
	"github.com/inkgame/inkbot/internal/models"
	"github.com/inkgame/inkbot/internal/store"
)

// requiredKeys must all be present in a snapshot's config object before a
// restore is allowed to touch anything.
var requiredKeys = []string{
	"used_numbers",
	"registered_players",
	"player_numbers",
	"player_titles",
}

// service implements the Service interface
type service struct {
	store *store.Store
	clock clock.Clock
	uuids uuid.UUID
}

// New creates a new backup service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Store == nil {
		return nil, ErrNilStore
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUIDs == nil {
		return nil, ErrNilUUID
	}

	return &service{
		store: cfg.Store,
		clock: cfg.Clock,
		uuids: cfg.UUIDs,
	}, nil
}

// BuildSnapshot serializes one guild's configuration. The snapshot is built
// even when no backup channel is configured; Configured tells the caller
// whether there is anywhere to post it.
func (s *service) BuildSnapshot(ctx context.Context, input *BuildSnapshotInput) (*BuildSnapshotOutput, error) {
	cfg := s.store.GuildSnapshot(input.GuildID, input.GuildName)

	snapshot := &models.Snapshot{
		GuildID:         input.GuildID,
		GuildName:       cfg.GuildName,
		BackupTimestamp: s.clock.Now().UTC().Format(time.RFC3339),
		Config:          cfg,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	return &BuildSnapshotOutput{
		Snapshot:        snapshot,
		Data:            data,
		Filename:        fmt.Sprintf("backup_%s_%s.json", input.GuildID, s.uuids.NewUUID()),
		ChannelID:       cfg.BackupChannelID,
		Configured:      cfg.BackupChannelID != "",
		RegisteredCount: len(cfg.RegisteredPlayers),
		TitleHolders:    len(cfg.PlayerTitles),
	}, nil
}

// configDocument extracts the config object from a snapshot document. Both
// the channel-backup shape, with the config nested under "config", and a
// bare config object pasted at the root are accepted.
func configDocument(data []byte) (json.RawMessage, map[string]json.RawMessage, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, nil, ErrMalformedSnapshot
	}

	if raw, ok := root["config"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err != nil {
			return nil, nil, ErrMalformedSnapshot
		}
		return raw, nested, nil
	}

	return data, root, nil
}

// ValidateSnapshot checks a user-supplied snapshot without mutating anything.
func (s *service) ValidateSnapshot(ctx context.Context, input *ValidateSnapshotInput) (*ValidateSnapshotOutput, error) {
	configRaw, keys, err := configDocument(input.Data)
	if err != nil {
		return nil, err
	}

	for _, key := range requiredKeys {
		if _, ok := keys[key]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
	}

	var cfg models.GuildConfig
	if err := json.Unmarshal(configRaw, &cfg); err != nil {
		return nil, ErrMalformedSnapshot
	}

	out := &ValidateSnapshotOutput{
		Snapshot:        &models.Snapshot{Config: &cfg},
		RegisteredCount: len(cfg.RegisteredPlayers),
	}

	// Metadata is only present in the channel-backup shape
	var meta models.Snapshot
	if err := json.Unmarshal(input.Data, &meta); err == nil && meta.GuildID != "" {
		out.Snapshot.GuildID = meta.GuildID
		out.Snapshot.GuildName = meta.GuildName
		out.Snapshot.BackupTimestamp = meta.BackupTimestamp
	}

	return out, nil
}

// Restore replaces a guild's record from a snapshot. The current state is
// snapshotted first, then the incoming document is applied over a copy of
// the current record, so fields absent from the snapshot keep their current
// values. A snapshot that fails validation mutates nothing.
func (s *service) Restore(ctx context.Context, input *RestoreInput) (*RestoreOutput, error) {
	configRaw, keys, err := configDocument(input.Data)
	if err != nil {
		return nil, err
	}
	for _, key := range requiredKeys {
		if _, ok := keys[key]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
	}

	preBackup, err := s.BuildSnapshot(ctx, &BuildSnapshotInput{
		GuildID:   input.GuildID,
		GuildName: input.GuildName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to back up current state: %w", err)
	}

	restored := s.store.GuildSnapshot(input.GuildID, input.GuildName)

	// Unmarshal merges into maps rather than replacing them. The snapshot is
	// guaranteed to carry these collections, so drop the current ones first.
	restored.PlayerNumbers = nil
	restored.PlayerTitles = nil

	if err := json.Unmarshal(configRaw, restored); err != nil {
		return nil, ErrMalformedSnapshot
	}

	if err := s.store.ReplaceGuild(ctx, input.GuildID, restored); err != nil {
		return nil, err
	}

	return &RestoreOutput{
		PreRestoreBackup: preBackup,
		RegisteredCount:  len(restored.RegisteredPlayers),
		UsedNumbers:      len(restored.UsedNumbers),
	}, nil
}

// SaveAll persists the whole store on demand.
func (s *service) SaveAll(ctx context.Context, input *SaveAllInput) (*SaveAllOutput, error) {
	if err := s.store.SaveAll(ctx); err != nil {
		return nil, err
	}
	return &SaveAllOutput{GuildCount: s.store.GuildCount()}, nil
}

// LoadAll reloads the whole store from the persistence backend.
func (s *service) LoadAll(ctx context.Context, input *LoadAllInput) (*LoadAllOutput, error) {
	if err := s.store.Load(ctx); err != nil {
		return nil, err
	}
	return &LoadAllOutput{GuildCount: s.store.GuildCount()}, nil
}
