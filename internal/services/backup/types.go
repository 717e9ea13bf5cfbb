package backup

import (
	"github.com/inkgame/inkbot/internal/common/clock"
	"github.com/inkgame/inkbot/internal/common/uuid"
	"github.com/inkgame/inkbot/internal/models"
	"github.com/inkgame/inkbot/internal/store"
)

// Config holds configuration for the backup service
type Config struct {
	// Store is the guild configuration store
	Store *store.Store

	// Clock provides snapshot timestamps
	Clock clock.Clock

	// UUIDs names snapshot attachment files uniquely
	UUIDs uuid.UUID
}

// BuildSnapshotInput contains parameters for building a guild snapshot
type BuildSnapshotInput struct {
	GuildID   string
	GuildName string
}

// BuildSnapshotOutput contains a serialized single-guild snapshot
type BuildSnapshotOutput struct {
	// Snapshot is the structured form of the snapshot
	Snapshot *models.Snapshot

	// Data is the snapshot serialized as indented JSON
	Data []byte

	// Filename is a unique name for the snapshot attachment
	Filename string

	// ChannelID is the configured backup destination, empty if none
	ChannelID string

	// Configured is false when the guild has no backup channel set
	Configured bool

	// RegisteredCount and TitleHolders summarize the snapshot contents
	RegisteredCount int
	TitleHolders    int
}

// ValidateSnapshotInput contains a user-supplied snapshot document
type ValidateSnapshotInput struct {
	Data []byte
}

// ValidateSnapshotOutput contains the parsed snapshot
type ValidateSnapshotOutput struct {
	// Snapshot carries the metadata fields when the document has them
	Snapshot *models.Snapshot

	// RegisteredCount summarizes the snapshot's player set
	RegisteredCount int
}

// RestoreInput contains parameters for restoring a guild from a snapshot
type RestoreInput struct {
	GuildID   string
	GuildName string

	// Data is the user-supplied snapshot document
	Data []byte
}

// RestoreOutput contains the result of a completed restore
type RestoreOutput struct {
	// PreRestoreBackup is a snapshot of the state that was replaced, built
	// before anything was mutated
	PreRestoreBackup *BuildSnapshotOutput

	// RegisteredCount and UsedNumbers summarize the restored state
	RegisteredCount int
	UsedNumbers     int
}

// SaveAllInput contains parameters for a manual full save
type SaveAllInput struct{}

// SaveAllOutput contains the result of a manual full save
type SaveAllOutput struct {
	GuildCount int
}

// LoadAllInput contains parameters for a manual full reload
type LoadAllInput struct{}

// LoadAllOutput contains the result of a manual full reload
type LoadAllOutput struct {
	GuildCount int
}
