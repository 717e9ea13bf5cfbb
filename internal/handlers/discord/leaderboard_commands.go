package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/inkgame/inkbot/internal/services/registration"
)

func (b *Bot) leaderboardCommands() []CommandHandler {
	return []CommandHandler{
		&Command{
			Name:        "leaderboard",
			Description: "Show the player leaderboard",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "page",
					Description: "Page number",
				},
			},
			Handler: b.handleLeaderboard,
		},
		&Command{
			Name:        "set_leaderboard",
			Description: "Publish a live leaderboard message in this channel",
			AdminOnly:   true,
			Handler:     b.handleSetLeaderboard,
		},
		&Command{
			Name:        "update_leaderboard",
			Description: "Refresh the live leaderboard message now",
			AdminOnly:   true,
			Handler:     b.handleUpdateLeaderboard,
		},
	}
}

func (b *Bot) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	page := 1
	if opt, ok := optionMap(i)["page"]; ok {
		page = int(opt.IntValue())
	}

	out, err := b.registration.GetLeaderboardPage(ctx, &registration.GetLeaderboardPageInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
		Page:      page,
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{buildLeaderboardEmbed(out)},
		},
	})
}

func (b *Bot) handleSetLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	page, err := b.registration.GetLeaderboardPage(ctx, &registration.GetLeaderboardPageInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
		Page:      1,
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	msg, err := s.ChannelMessageSendEmbed(i.ChannelID, buildLeaderboardEmbed(page))
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Could not post the leaderboard message: %v", err))
	}

	_, err = b.registration.SetLeaderboardMessage(ctx, &registration.SetLeaderboardMessageInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
		ChannelID: i.ChannelID,
		MessageID: msg.ID,
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	b.scheduleBackup(s, i.GuildID)

	return RespondWithEphemeralMessage(s, i, "Live leaderboard published. It will refresh automatically.")
}

func (b *Bot) handleUpdateLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	status, err := b.registration.GetStatus(ctx, &registration.GetStatusInput{GuildID: i.GuildID})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}
	if status.LeaderboardMessageID == "" {
		return RespondWithError(s, i, "No live leaderboard exists. Publish one with `/set_leaderboard`.")
	}

	if err := b.refreshLeaderboard(ctx, s, i.GuildID); err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Refresh failed: %v", err))
	}

	return RespondWithEphemeralMessage(s, i, "Leaderboard refreshed.")
}
