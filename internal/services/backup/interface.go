package backup

import "context"

// Service defines the interface for persistence and backup operations
type Service interface {
	// BuildSnapshot serializes one guild's configuration for a channel backup
	BuildSnapshot(ctx context.Context, input *BuildSnapshotInput) (*BuildSnapshotOutput, error)

	// ValidateSnapshot checks a user-supplied snapshot document without
	// mutating anything
	ValidateSnapshot(ctx context.Context, input *ValidateSnapshotInput) (*ValidateSnapshotOutput, error)

	// Restore replaces a guild's record from a validated snapshot, backing up
	// the current state first
	Restore(ctx context.Context, input *RestoreInput) (*RestoreOutput, error)

	// SaveAll persists the whole store on demand
	SaveAll(ctx context.Context, input *SaveAllInput) (*SaveAllOutput, error)

	// LoadAll reloads the whole store from the persistence backend
	LoadAll(ctx context.Context, input *LoadAllInput) (*LoadAllOutput, error)
}
