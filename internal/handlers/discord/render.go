package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/inkgame/inkbot/internal/services/backup"
	"github.com/inkgame/inkbot/internal/services/registration"
)

var rankMarkers = []string{"🥇", "🥈", "🥉"}

// buildLeaderboardEmbed renders one page of the leaderboard.
func buildLeaderboardEmbed(page *registration.GetLeaderboardPageOutput) *discordgo.MessageEmbed {
	var sb strings.Builder

	if len(page.Entries) == 0 {
		sb.WriteString("No players registered yet.")
	}

	for _, entry := range page.Entries {
		if entry.Position <= len(rankMarkers) {
			sb.WriteString(rankMarkers[entry.Position-1])
		} else {
			sb.WriteString(fmt.Sprintf("**%d.**", entry.Position))
		}
		sb.WriteString(fmt.Sprintf(" <@%s> (%s)", entry.UserID, entry.Number))
		if entry.EquippedTitle != "" {
			sb.WriteString(fmt.Sprintf(" — *%s*", entry.EquippedTitle))
		}
		sb.WriteString("\n")
	}

	embed := newEmbed("🏆 Leaderboard", sb.String(), colorInfo, nil)

	if page.ShowPrizes {
		var prizes strings.Builder
		for _, tier := range page.Prizes {
			marker := fmt.Sprintf("%d.", tier.Place)
			if tier.Place <= len(rankMarkers) {
				marker = rankMarkers[tier.Place-1]
			}
			prizes.WriteString(fmt.Sprintf("%s %s\n", marker, formatMoney(tier.Amount)))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Prizes",
			Value:  prizes.String(),
			Inline: false,
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Page %d/%d • %d/%d players • %s",
			page.Page, page.TotalPages, page.TotalPlayers, page.MaxPlayers, embedFooter),
	}

	return embed
}

// formatMoney renders an amount with thousands separators.
func formatMoney(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	if len(s) <= 3 {
		return "$" + s
	}

	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(s[i : i+3])
	}
	return "$" + sb.String()
}

// isMissingTarget reports whether a Discord API error means the message or
// channel the bot tried to touch no longer exists.
func isMissingTarget(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return false
	}
	switch restErr.Message.Code {
	case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeMissingAccess:
		return true
	}
	return false
}

// refreshLeaderboard re-renders the guild's live leaderboard message in
// place. A vanished message clears the stored pointers and persists the
// clearing, so the bot stops editing into the void.
func (b *Bot) refreshLeaderboard(ctx context.Context, s *discordgo.Session, guildID string) error {
	status, err := b.registration.GetStatus(ctx, &registration.GetStatusInput{GuildID: guildID})
	if err != nil {
		return err
	}
	if status.LeaderboardMessageID == "" || status.LeaderboardChannelID == "" {
		return nil
	}

	page, err := b.registration.GetLeaderboardPage(ctx, &registration.GetLeaderboardPageInput{
		GuildID: guildID,
		Page:    1,
	})
	if err != nil {
		return err
	}

	embed := buildLeaderboardEmbed(page)
	_, err = s.ChannelMessageEditEmbed(status.LeaderboardChannelID, status.LeaderboardMessageID, embed)
	if err == nil {
		return nil
	}

	if isMissingTarget(err) {
		if _, clearErr := b.registration.ClearLeaderboardMessage(ctx, &registration.ClearLeaderboardMessageInput{
			GuildID: guildID,
		}); clearErr != nil {
			return fmt.Errorf("clearing stale leaderboard pointer: %w", clearErr)
		}
		return nil
	}

	return fmt.Errorf("failed to edit leaderboard message: %w", err)
}

// postBackup posts a snapshot of the guild's state to its backup channel.
// An unconfigured channel is a quiet no-op.
func (b *Bot) postBackup(ctx context.Context, s *discordgo.Session, guildID string) error {
	snapshot, err := b.backups.BuildSnapshot(ctx, &backup.BuildSnapshotInput{GuildID: guildID})
	if err != nil {
		return err
	}
	return b.postSnapshot(s, snapshot, "📦 Backup")
}

// postSnapshot uploads an already-built snapshot as a file attachment to the
// backup channel it was built against. An unconfigured channel is a quiet
// no-op.
func (b *Bot) postSnapshot(s *discordgo.Session, snapshot *backup.BuildSnapshotOutput, label string) error {
	if !snapshot.Configured {
		return nil
	}

	content := fmt.Sprintf("%s of **%s** • %d players • %d title holders",
		label, snapshot.Snapshot.GuildName, snapshot.RegisteredCount, snapshot.TitleHolders)

	_, err := s.ChannelMessageSendComplex(snapshot.ChannelID, &discordgo.MessageSend{
		Content: content,
		Files: []*discordgo.File{
			{
				Name:        snapshot.Filename,
				ContentType: "application/json",
				Reader:      bytes.NewReader(snapshot.Data),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to post backup: %w", err)
	}
	return nil
}
