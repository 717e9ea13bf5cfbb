package discord

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/inkgame/inkbot/internal/services/backup"
	"github.com/inkgame/inkbot/internal/services/registration"
)

// maxSnapshotSize caps how large an uploaded restore document may be.
const maxSnapshotSize = 2 << 20

func (b *Bot) persistenceCommands() []CommandHandler {
	return []CommandHandler{
		&Command{
			Name:        "save",
			Description: "Save all guild data to disk now",
			AdminOnly:   true,
			Handler:     b.handleSave,
		},
		&Command{
			Name:        "load",
			Description: "Reload guild data from disk",
			AdminOnly:   true,
			Handler:     b.handleLoad,
		},
		&Command{
			Name:        "backup",
			Description: "Post a backup of this server's data to the backup channel",
			AdminOnly:   true,
			Handler:     b.handleBackup,
		},
		&Command{
			Name:        "restore",
			Description: "Restore this server's data from an uploaded backup file",
			AdminOnly:   true,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        "file",
					Description: "A backup JSON file",
					Required:    true,
				},
			},
			Handler: b.handleRestore,
		},
		&Command{
			Name:        "set_backup_channel",
			Description: "Use this channel for automatic backups",
			AdminOnly:   true,
			Handler:     b.handleSetBackupChannel,
		},
	}
}

func (b *Bot) handleSave(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.backups.SaveAll(ctx, &backup.SaveAllInput{})
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Save failed: %v", err))
	}

	return RespondWithEmbed(s, i, "💾 Saved",
		fmt.Sprintf("Data for **%d** servers written to storage.", out.GuildCount), nil)
}

func (b *Bot) handleLoad(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.backups.LoadAll(ctx, &backup.LoadAllInput{})
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Load failed: %v", err))
	}

	b.scheduleLeaderboardRefresh(s, i.GuildID)

	return RespondWithEmbed(s, i, "📂 Loaded",
		fmt.Sprintf("Data for **%d** servers reloaded from storage.", out.GuildCount), nil)
}

func (b *Bot) handleBackup(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.backups.BuildSnapshot(ctx, &backup.BuildSnapshotInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
	})
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Backup failed: %v", err))
	}
	if !out.Configured {
		return RespondWithError(s, i, "No backup channel is configured. Run `/set_backup_channel` in the channel you want backups in.")
	}

	if err := b.postBackup(ctx, s, i.GuildID); err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Backup failed: %v", err))
	}

	return RespondWithEmbed(s, i, "📦 Backup Posted",
		fmt.Sprintf("Snapshot with **%d** players posted to <#%s>.", out.RegisteredCount, out.ChannelID), nil)
}

func (b *Bot) handleSetBackupChannel(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	_, err := b.registration.SetBackupChannel(ctx, &registration.SetBackupChannelInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
		ChannelID: i.ChannelID,
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	b.scheduleBackup(s, i.GuildID)

	return RespondWithEmbed(s, i, "📦 Backup Channel Set",
		fmt.Sprintf("Automatic backups will be posted to <#%s>.", i.ChannelID), nil)
}

// fetchAttachment downloads an uploaded snapshot document.
func fetchAttachment(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attachment download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	return data, nil
}

func (b *Bot) handleRestore(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	attachmentID, ok := optionMap(i)["file"].Value.(string)
	if !ok {
		return RespondWithError(s, i, "No file attached.")
	}
	attachment, ok := i.ApplicationCommandData().Resolved.Attachments[attachmentID]
	if !ok {
		return RespondWithError(s, i, "No file attached.")
	}

	data, err := fetchAttachment(attachment.URL)
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Could not read the file: %v", err))
	}

	validated, err := b.backups.ValidateSnapshot(ctx, &backup.ValidateSnapshotInput{Data: data})
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("That file is not a valid backup: %v", err))
	}

	// Park the validated snapshot until a human confirms. The prompt
	// self-cancels after a fixed timeout.
	key := i.ID
	pending := &pendingRestore{
		guildID:   i.GuildID,
		guildName: b.guildName(s, i),
		userID:    i.Member.User.ID,
		data:      data,
	}
	pending.timer = time.AfterFunc(restoreConfirmTimeout, func() {
		b.restoreMu.Lock()
		delete(b.pendingRestores, key)
		b.restoreMu.Unlock()
	})

	b.restoreMu.Lock()
	b.pendingRestores[key] = pending
	b.restoreMu.Unlock()

	description := fmt.Sprintf(
		"This will **replace** the current data for this server with the uploaded snapshot (**%d** players).\n\nThe current state is backed up first. This prompt expires in %d seconds.",
		validated.RegisteredCount, int(restoreConfirmTimeout.Seconds()))
	if validated.Snapshot.BackupTimestamp != "" {
		description += fmt.Sprintf("\nSnapshot taken: `%s`", validated.Snapshot.BackupTimestamp)
	}

	return RespondWithEmbedAndButtons(s, i,
		newEmbed("⚠️ Confirm Restore", description, colorWorking, nil),
		[]discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Restore",
				Style:    discordgo.DangerButton,
				CustomID: componentRestoreConfirm + key,
			},
			discordgo.Button{
				Label:    "Cancel",
				Style:    discordgo.SecondaryButton,
				CustomID: componentRestoreCancel + key,
			},
		})
}

// takePendingRestore removes and returns a parked restore, if still valid.
func (b *Bot) takePendingRestore(key string) *pendingRestore {
	b.restoreMu.Lock()
	defer b.restoreMu.Unlock()

	pending, ok := b.pendingRestores[key]
	if !ok {
		return nil
	}
	delete(b.pendingRestores, key)
	pending.timer.Stop()
	return pending
}

func (b *Bot) handleRestoreConfirm(s *discordgo.Session, i *discordgo.InteractionCreate, key string) error {
	pending := b.takePendingRestore(key)
	if pending == nil {
		return RespondWithEphemeralMessage(s, i, "This restore prompt has expired. Run `/restore` again.")
	}
	if i.Member.User.ID != pending.userID {
		// Put it back; someone else clicked the button
		b.restoreMu.Lock()
		b.pendingRestores[key] = pending
		b.restoreMu.Unlock()
		return RespondWithEphemeralMessage(s, i, "Only the person who started the restore can confirm it.")
	}

	ctx := context.Background()
	out, err := b.backups.Restore(ctx, &backup.RestoreInput{
		GuildID:   pending.guildID,
		GuildName: pending.guildName,
		Data:      pending.data,
	})
	if err != nil {
		return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Embeds:     []*discordgo.MessageEmbed{newEmbed("🚫 Restore Failed", err.Error(), colorError, nil)},
				Components: []discordgo.MessageComponent{},
			},
		})
	}

	// The replaced state only survives as this post; a failure here must
	// not be silent, but the restore itself already succeeded.
	if err := b.postSnapshot(s, out.PreRestoreBackup, "♻️ Pre-restore backup"); err != nil {
		log.Printf("Failed to post pre-restore backup for guild %s: %v", pending.guildID, err)
	}

	b.scheduleLeaderboardRefresh(s, pending.guildID)
	b.scheduleBackup(s, pending.guildID)

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				newEmbed("✅ Restore Complete",
					fmt.Sprintf("Server data replaced: **%d** players, **%d** numbers in use.",
						out.RegisteredCount, out.UsedNumbers),
					colorSuccess, nil),
			},
			Components: []discordgo.MessageComponent{},
		},
	})
}

func (b *Bot) handleRestoreCancel(s *discordgo.Session, i *discordgo.InteractionCreate, key string) error {
	if pending := b.takePendingRestore(key); pending == nil {
		return RespondWithEphemeralMessage(s, i, "This restore prompt has already expired.")
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{newEmbed("❌ Restore Cancelled", "Nothing was changed.", colorInfo, nil)},
			Components: []discordgo.MessageComponent{},
		},
	})
}
