package guildstate

import "github.com/inkgame/inkbot/internal/models"

type SaveInput struct {
	Guilds map[string]*models.GuildConfig
}

type LoadInput struct {
}

type LoadOutput struct {
	Guilds  map[string]*models.GuildConfig
	SavedAt string
	Version string
}
