package guildstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/inkgame/inkbot/internal/common/clock"
	"github.com/inkgame/inkbot/internal/models"
)

// FileConfig holds configuration for the file-backed repository
type FileConfig struct {
	// Path is the canonical save file location
	Path string

	// Clock stamps the save file; defaults to the system clock
	Clock clock.Clock
}

// fileRepository persists the store as a single JSON document, written to a
// temp file and atomically renamed over the canonical path.
type fileRepository struct {
	path  string
	clock clock.Clock
}

// NewFile creates a new file-backed guild state repository
func NewFile(cfg *FileConfig) (*fileRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Path == "" {
		return nil, errors.New("path cannot be empty")
	}

	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}

	return &fileRepository{
		path:  cfg.Path,
		clock: c,
	}, nil
}

// Save writes the whole store to a temp file in the same directory and swaps
// it over the canonical file. The canonical path is never partially written;
// a failed write removes the dangling temp file.
func (r *fileRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	doc := models.SaveFile{
		Guilds:  input.Guilds,
		SavedAt: r.clock.Now().UTC().Format(time.RFC3339),
		Version: models.SaveFileVersion,
	}
	if doc.Guilds == nil {
		doc.Guilds = map[string]*models.GuildConfig{}
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal save file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace save file: %w", err)
	}

	return nil
}

// Load reads the canonical file. A missing file means a fresh start, not an
// error.
func (r *fileRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LoadOutput{
				Guilds: map[string]*models.GuildConfig{},
			}, nil
		}
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}

	var doc models.SaveFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal save file: %w", err)
	}

	if doc.Guilds == nil {
		doc.Guilds = map[string]*models.GuildConfig{}
	}
	for _, cfg := range doc.Guilds {
		cfg.Normalize()
	}

	return &LoadOutput{
		Guilds:  doc.Guilds,
		SavedAt: doc.SavedAt,
		Version: doc.Version,
	}, nil
}
