package guildstate

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/inkgame/inkbot/internal/repositories/guildstate Repository

import (
	"context"
)

// Repository defines the interface for guild state persistence. The whole
// store is written on every save; there is no per-guild partial write.
type Repository interface {
	// Save persists every guild's configuration
	Save(ctx context.Context, input *SaveInput) error

	// Load reads every guild's configuration. An empty backend is not an
	// error; the output simply contains no guilds.
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)
}
