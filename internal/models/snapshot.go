package models

// SaveFileVersion tags the persisted-file schema.
const SaveFileVersion = "2.0"

// SaveFile is the shape of the canonical persistence document. It contains
// every guild's configuration, not just one.
type SaveFile struct {
	// Guilds maps guild ID to its configuration
	Guilds map[string]*GuildConfig `json:"guilds"`

	// SavedAt is an RFC3339 timestamp of when the file was written
	SavedAt string `json:"saved_at"`

	// Version is the save-file schema version
	Version string `json:"version"`
}

// Snapshot is a serialized copy of a single guild's configuration, used for
// channel backups and for restore input.
type Snapshot struct {
	// GuildID identifies the guild the snapshot belongs to
	GuildID string `json:"guild_id"`

	// GuildName is the guild display name at backup time
	GuildName string `json:"guild_name"`

	// BackupTimestamp is an RFC3339 timestamp of when the snapshot was built
	BackupTimestamp string `json:"backup_timestamp"`

	// Config is the guild configuration being snapshotted
	Config *GuildConfig `json:"config"`
}
