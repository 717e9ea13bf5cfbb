package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/inkgame/inkbot/internal/services/registration"
)

func (b *Bot) miscCommands() []CommandHandler {
	return []CommandHandler{
		&Command{
			Name:        "server_info",
			Description: "Show this server's event configuration",
			AdminOnly:   true,
			Handler:     b.handleServerInfo,
		},
		&Command{
			Name:        "ping",
			Description: "Check that the bot is alive",
			Handler:     b.handlePing,
		},
		&Command{
			Name:        "help",
			Description: "Show what the bot can do",
			Handler:     b.handleHelp,
		},
	}
}

func (b *Bot) handleServerInfo(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.registration.GetStatus(ctx, &registration.GetStatusInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	channel := func(id string) string {
		if id == "" {
			return "not set"
		}
		return fmt.Sprintf("<#%s>", id)
	}

	return RespondWithEmbed(s, i, "⚙️ Server Configuration", "",
		[]*discordgo.MessageEmbedField{
			{Name: "Max Players", Value: fmt.Sprintf("%d", out.MaxPlayers), Inline: true},
			{Name: "Number Range", Value: fmt.Sprintf("%d–%d", out.MinNumber, out.MaxNumber), Inline: true},
			{Name: "Role", Value: out.RoleName, Inline: true},
			{Name: "Reward", Value: formatMoney(out.RewardAmount), Inline: true},
			{Name: "Language", Value: out.Language, Inline: true},
			{Name: "Registered", Value: fmt.Sprintf("%d", out.RegisteredCount), Inline: true},
			{Name: "Backup Channel", Value: channel(out.BackupChannelID), Inline: true},
			{Name: "Leaderboard Channel", Value: channel(out.LeaderboardChannelID), Inline: true},
		})
}

func (b *Bot) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	latency := s.HeartbeatLatency().Milliseconds()
	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("🏓 Pong! %dms", latency))
}

func (b *Bot) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return RespondWithEmbed(s, i, "📖 Help", "",
		[]*discordgo.MessageEmbedField{
			{
				Name: "Playing",
				Value: "`/register` — join the game and get your number\n" +
					"`/status` — see the current game state\n" +
					"`/list` — see who is registered\n" +
					"`/freenumbers` — see which numbers are free\n" +
					"`/leaderboard` — see the rankings and prizes",
			},
			{
				Name: "Titles",
				Value: "`/titles` — browse the shop\n" +
					"`/buy` `/equip` `/unequip` — manage your look\n" +
					"`/inv` `/mytitle` — see what you own",
			},
			{
				Name: "Admin",
				Value: "`/start` `/end` — run a game cycle\n" +
					"`/reset` `/changenumber` `/players` `/reward` — manage players\n" +
					"`/save` `/load` `/backup` `/restore` `/set_backup_channel` — data\n" +
					"`/set_leaderboard` `/update_leaderboard` — live leaderboard\n" +
					"`/broadcast` `/cc` `/language` `/server_info` — misc",
			},
		})
}
