package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/inkgame/inkbot/internal/numbers"
	"github.com/inkgame/inkbot/internal/services/registration"
	"github.com/inkgame/inkbot/internal/tasks"
)

// serviceErrorMessage maps registration sentinel errors to user-facing text.
func serviceErrorMessage(err error) string {
	switch {
	case errors.Is(err, registration.ErrRegistrationOpen):
		return "Registration is already open."
	case errors.Is(err, registration.ErrRegistrationClosed):
		return "Registration is not open right now."
	case errors.Is(err, registration.ErrGameInProgress):
		return "A game is still in progress. Use `/end` to finish it first."
	case errors.Is(err, registration.ErrGameNotActive):
		return "There is no active game. Use `/start` to open registration."
	case errors.Is(err, registration.ErrAlreadyRegistered):
		return "You are already registered."
	case errors.Is(err, registration.ErrNotRegistered):
		return "That player is not registered."
	case errors.Is(err, registration.ErrCapacityReached):
		return "All spots are taken."
	case errors.Is(err, registration.ErrNumbersExhausted):
		return "Every number in the range is already taken."
	case errors.Is(err, registration.ErrNumberOutOfRange):
		return "That number is outside the allowed range."
	case errors.Is(err, registration.ErrNumberTaken):
		return "That number already belongs to another player."
	case errors.Is(err, registration.ErrInvalidCapacity):
		return "Capacity must be a positive number."
	case errors.Is(err, registration.ErrCapacityBelowCount):
		return "Capacity cannot be set below the current player count."
	case errors.Is(err, registration.ErrInvalidAmount):
		return "The amount cannot be negative."
	case errors.Is(err, registration.ErrUnsupportedLang):
		return "That language is not supported. Available: `en`, `ru`."
	default:
		return err.Error()
	}
}

func (b *Bot) eventCommands() []CommandHandler {
	return []CommandHandler{
		&Command{
			Name:        "start",
			Description: "Open registration for a new game",
			AdminOnly:   true,
			Handler:     b.handleStart,
		},
		&Command{
			Name:        "end",
			Description: "Close registration, or settle the game if already closed",
			AdminOnly:   true,
			Handler:     b.handleEnd,
		},
		&Command{
			Name:        "register",
			Description: "Register for the game and receive your number",
			Handler:     b.handleRegister,
		},
		&Command{
			Name:        "status",
			Description: "Show the current game status",
			Handler:     b.handleStatus,
		},
		&Command{
			Name:        "reset",
			Description: "Remove a player's registration",
			AdminOnly:   true,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The player to reset",
					Required:    true,
				},
			},
			Handler: b.handleReset,
		},
		&Command{
			Name:        "list",
			Description: "List registered players in order",
			Handler:     b.handleList,
		},
		&Command{
			Name:        "changenumber",
			Description: "Assign a specific number to a registered player",
			AdminOnly:   true,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The player whose number to change",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "number",
					Description: "The new number",
					Required:    true,
				},
			},
			Handler: b.handleChangeNumber,
		},
		&Command{
			Name:        "freenumbers",
			Description: "Show how many numbers remain free",
			Handler:     b.handleFreeNumbers,
		},
		&Command{
			Name:        "players",
			Description: "Set the maximum number of players",
			AdminOnly:   true,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "max",
					Description: "The new capacity ceiling",
					Required:    true,
				},
			},
			Handler: b.handleSetMaxPlayers,
		},
		&Command{
			Name:        "reward",
			Description: "Set the participation reward paid at settlement",
			AdminOnly:   true,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "The reward amount",
					Required:    true,
				},
			},
			Handler: b.handleSetReward,
		},
		&Command{
			Name:        "language",
			Description: "Set the bot language for this server",
			AdminOnly:   true,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "code",
					Description: "Language code",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "English", Value: "en"},
						{Name: "Русский", Value: "ru"},
					},
				},
			},
			Handler: b.handleSetLanguage,
		},
		&Command{
			Name:        "broadcast",
			Description: "Send a direct message to every registered player",
			AdminOnly:   true,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "The message to send",
					Required:    true,
				},
			},
			Handler: b.handleBroadcast,
		},
	}
}

func (b *Bot) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.registration.StartRegistration(ctx, &registration.StartRegistrationInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	b.scheduleBackup(s, i.GuildID)

	return RespondWithEmbed(s, i, "🎮 Registration Open",
		"A new game has begun! Use `/register` to claim your number.",
		[]*discordgo.MessageEmbedField{
			{Name: "Spots", Value: fmt.Sprintf("%d", out.AvailableSpots), Inline: true},
			{Name: "Number Range", Value: fmt.Sprintf("%d–%d", out.MinNumber, out.MaxNumber), Inline: true},
		})
}

func (b *Bot) handleEnd(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	guildID := i.GuildID

	// Peek at the state to know which phase this call will perform. The
	// settlement path pays every player and must acknowledge the interaction
	// before doing slow work.
	status, err := b.registration.GetStatus(ctx, &registration.GetStatusInput{GuildID: guildID})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}
	if !status.GameActive {
		return RespondWithError(s, i, serviceErrorMessage(registration.ErrGameNotActive))
	}

	if status.RegistrationOpen {
		out, err := b.registration.EndPhase(ctx, &registration.EndPhaseInput{
			GuildID:   guildID,
			GuildName: b.guildName(s, i),
		})
		if err != nil {
			return RespondWithError(s, i, serviceErrorMessage(err))
		}

		b.scheduleBackup(s, guildID)
		return RespondWithEmbed(s, i, "🔒 Registration Closed",
			"No more players can register. Use `/end` again to finish the game and pay rewards.",
			[]*discordgo.MessageEmbedField{
				{Name: "Players", Value: fmt.Sprintf("%d/%d", out.RegisteredCount, out.MaxPlayers), Inline: true},
			})
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				newEmbed("⏳ Settling Game", "Paying rewards and clearing registrations, this can take a moment...", colorWorking, nil),
			},
		},
	}); err != nil {
		return err
	}

	out, err := b.registration.EndPhase(ctx, &registration.EndPhaseInput{
		GuildID:   guildID,
		GuildName: b.guildName(s, i),
	})
	if err != nil {
		return EditResponseEmbed(s, i, newEmbed("🚫 Error", serviceErrorMessage(err), colorError, nil))
	}

	settlement := out.Settlement
	problems := append([]string{}, settlement.PayoutErrors...)

	// Strip roles and number suffixes. Cosmetic failures are reported but
	// never abort the settlement.
	for _, player := range settlement.Players {
		if err := removeRole(s, guildID, player.UserID, settlement.RoleName); err != nil {
			problems = append(problems, fmt.Sprintf("role for %s: %v", player.UserID, err))
		}
		if member, err := s.GuildMember(guildID, player.UserID); err == nil {
			restored := numbers.RestoredNick(memberDisplayName(member), member.User.Username)
			if err := setNickname(s, guildID, player.UserID, restored); err != nil {
				problems = append(problems, fmt.Sprintf("nickname for %s: %v", player.UserID, err))
			}
		}
		time.Sleep(cosmeticsDelay)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Participants", Value: fmt.Sprintf("%d", len(settlement.Players)), Inline: true},
		{Name: "Rewards Paid", Value: fmt.Sprintf("%d × %s", settlement.RewardsPaid, formatMoney(settlement.RewardAmount)), Inline: true},
	}

	if len(settlement.PrizeAwards) > 0 {
		var sb strings.Builder
		for _, award := range settlement.PrizeAwards {
			sb.WriteString(fmt.Sprintf("%s <@%s> — %s\n", rankMarkers[award.Place-1], award.UserID, formatMoney(award.Amount)))
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Prizes", Value: sb.String(), Inline: false})
	}

	if len(problems) > 0 {
		shown := problems
		if len(shown) > 3 {
			shown = shown[:3]
		}
		value := strings.Join(shown, "\n")
		if extra := len(problems) - len(shown); extra > 0 {
			value += fmt.Sprintf("\n...and %d more", extra)
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "⚠️ Issues", Value: value, Inline: false})
	}

	b.scheduleLeaderboardRefresh(s, guildID)
	b.scheduleBackup(s, guildID)

	return EditResponseEmbed(s, i, newEmbed("🏁 Game Settled",
		"The game has ended. Titles are kept; numbers and registrations have been cleared.",
		colorSuccess, fields))
}

func (b *Bot) handleRegister(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.registration.RegisterPlayer(ctx, &registration.RegisterPlayerInput{
		GuildID:     i.GuildID,
		GuildName:   b.guildName(s, i),
		UserID:      i.Member.User.ID,
		DisplayName: memberDisplayName(i.Member),
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	var notes []string
	if err := grantRole(s, i.GuildID, i.Member.User.ID, out.RoleName); err != nil {
		log.Printf("Failed to grant role in guild %s: %v", i.GuildID, err)
		notes = append(notes, "could not assign the role")
	}
	if err := setNickname(s, i.GuildID, i.Member.User.ID, out.Nickname); err != nil {
		log.Printf("Failed to set nickname in guild %s: %v", i.GuildID, err)
		notes = append(notes, "could not change your nickname")
	}

	description := fmt.Sprintf("Welcome, <@%s>! Your number is **%s**.", i.Member.User.ID, out.Number)
	if len(notes) > 0 {
		description += "\n\n⚠️ " + strings.Join(notes, "; ") + "."
	}

	b.scheduleLeaderboardRefresh(s, i.GuildID)
	b.scheduleBackup(s, i.GuildID)

	return RespondWithEmbed(s, i, "✅ Registered", description,
		[]*discordgo.MessageEmbedField{
			{Name: "Position", Value: fmt.Sprintf("%d/%d", out.Position, out.MaxPlayers), Inline: true},
		})
}

func (b *Bot) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.registration.GetStatus(ctx, &registration.GetStatusInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	phase := "Idle"
	if out.RegistrationOpen {
		phase = "Registration open"
	} else if out.GameActive {
		phase = "Game in progress, registration closed"
	}

	return RespondWithEmbed(s, i, "📋 Game Status", phase,
		[]*discordgo.MessageEmbedField{
			{Name: "Players", Value: fmt.Sprintf("%d/%d", out.RegisteredCount, out.MaxPlayers), Inline: true},
			{Name: "Numbers Used", Value: fmt.Sprintf("%d/%d", out.UsedNumbers, out.TotalNumbers), Inline: true},
			{Name: "Reward", Value: formatMoney(out.RewardAmount), Inline: true},
		})
}

func (b *Bot) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	user := optionMap(i)["user"].UserValue(s)
	displayName := user.Username
	username := user.Username
	if member, err := s.GuildMember(i.GuildID, user.ID); err == nil {
		displayName = memberDisplayName(member)
	}

	out, err := b.registration.ResetPlayer(ctx, &registration.ResetPlayerInput{
		GuildID:     i.GuildID,
		GuildName:   b.guildName(s, i),
		UserID:      user.ID,
		DisplayName: displayName,
		Username:    username,
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	if err := removeRole(s, i.GuildID, user.ID, out.RoleName); err != nil {
		log.Printf("Failed to remove role in guild %s: %v", i.GuildID, err)
	}
	if err := setNickname(s, i.GuildID, user.ID, out.RestoredNick); err != nil {
		log.Printf("Failed to restore nickname in guild %s: %v", i.GuildID, err)
	}

	b.scheduleLeaderboardRefresh(s, i.GuildID)
	b.scheduleBackup(s, i.GuildID)

	return RespondWithEmbed(s, i, "♻️ Player Reset",
		fmt.Sprintf("<@%s> has been removed. Number **%s** is free again.", user.ID, out.FreedNumber),
		[]*discordgo.MessageEmbedField{
			{Name: "Players", Value: fmt.Sprintf("%d/%d", out.RegisteredCount, out.MaxPlayers), Inline: true},
		})
}

func (b *Bot) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.registration.ListPlayers(ctx, &registration.ListPlayersInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	if len(out.Players) == 0 {
		return RespondWithEmbed(s, i, "👥 Players", "No players registered yet.", nil)
	}

	const maxShown = 30
	var sb strings.Builder
	for _, player := range out.Players {
		if player.Position > maxShown {
			sb.WriteString(fmt.Sprintf("...and %d more\n", len(out.Players)-maxShown))
			break
		}
		sb.WriteString(fmt.Sprintf("**%d.** <@%s> (%s)", player.Position, player.UserID, player.Number))
		if player.EquippedTitle != "" {
			sb.WriteString(fmt.Sprintf(" — *%s*", player.EquippedTitle))
		}
		sb.WriteString("\n")
	}

	return RespondWithEmbed(s, i, "👥 Players", sb.String(),
		[]*discordgo.MessageEmbedField{
			{Name: "Total", Value: fmt.Sprintf("%d/%d", len(out.Players), out.MaxPlayers), Inline: true},
		})
}

func (b *Bot) handleChangeNumber(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := optionMap(i)

	user := opts["user"].UserValue(s)
	number := int(opts["number"].IntValue())

	displayName := user.Username
	if member, err := s.GuildMember(i.GuildID, user.ID); err == nil {
		displayName = memberDisplayName(member)
	}

	out, err := b.registration.ChangeNumber(ctx, &registration.ChangeNumberInput{
		GuildID:     i.GuildID,
		GuildName:   b.guildName(s, i),
		UserID:      user.ID,
		DisplayName: displayName,
		Number:      number,
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	if err := setNickname(s, i.GuildID, user.ID, out.Nickname); err != nil {
		log.Printf("Failed to update nickname in guild %s: %v", i.GuildID, err)
	}

	b.scheduleLeaderboardRefresh(s, i.GuildID)
	b.scheduleBackup(s, i.GuildID)

	return RespondWithEmbed(s, i, "🔢 Number Changed",
		fmt.Sprintf("<@%s>: **%s** → **%s**", user.ID, out.OldNumber, out.NewNumber), nil)
}

func (b *Bot) handleFreeNumbers(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.registration.FreeNumbers(ctx, &registration.FreeNumbersInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	var sb strings.Builder
	for idx, n := range out.Sample {
		if idx > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(numbers.Format(n))
	}
	if len(out.Sample) < out.FreeCount {
		sb.WriteString(", ...")
	}

	return RespondWithEmbed(s, i, "🔢 Free Numbers",
		fmt.Sprintf("**%d** of **%d** numbers are free.", out.FreeCount, out.TotalCount),
		[]*discordgo.MessageEmbedField{
			{Name: "Lowest Available", Value: sb.String(), Inline: false},
		})
}

func (b *Bot) handleSetMaxPlayers(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	max := int(optionMap(i)["max"].IntValue())

	out, err := b.registration.SetMaxPlayers(ctx, &registration.SetMaxPlayersInput{
		GuildID:    i.GuildID,
		GuildName:  b.guildName(s, i),
		MaxPlayers: max,
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	b.scheduleBackup(s, i.GuildID)

	return RespondWithEmbed(s, i, "👥 Capacity Updated",
		fmt.Sprintf("Maximum players set to **%d** (%d registered).", out.MaxPlayers, out.RegisteredCount), nil)
}

func (b *Bot) handleSetReward(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	amount := optionMap(i)["amount"].IntValue()

	out, err := b.registration.SetRewardAmount(ctx, &registration.SetRewardAmountInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
		Amount:    amount,
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	b.scheduleBackup(s, i.GuildID)

	return RespondWithEmbed(s, i, "💰 Reward Updated",
		fmt.Sprintf("Participation reward set to **%s**.", formatMoney(out.Amount)), nil)
}

func (b *Bot) handleSetLanguage(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	code := optionMap(i)["code"].StringValue()

	out, err := b.registration.SetLanguage(ctx, &registration.SetLanguageInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
		Code:      code,
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	b.scheduleBackup(s, i.GuildID)

	return RespondWithEmbed(s, i, "🌐 Language Updated",
		fmt.Sprintf("Server language set to **%s**.", out.Code), nil)
}

func (b *Bot) handleBroadcast(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	message := optionMap(i)["message"].StringValue()

	out, err := b.registration.ListPlayers(ctx, &registration.ListPlayersInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
	})
	if err != nil {
		return RespondWithError(s, i, serviceErrorMessage(err))
	}

	if len(out.Players) == 0 {
		return RespondWithError(s, i, "There are no registered players to message.")
	}

	recipients := make([]string, 0, len(out.Players))
	for _, player := range out.Players {
		recipients = append(recipients, player.UserID)
	}

	b.tasks.Submit(tasks.Task{
		Name: "broadcast",
		Run: func(ctx context.Context) error {
			var failed int
			for _, userID := range recipients {
				channel, err := s.UserChannelCreate(userID)
				if err != nil {
					failed++
					continue
				}
				if _, err := s.ChannelMessageSend(channel.ID, message); err != nil {
					failed++
				}
				time.Sleep(cosmeticsDelay)
			}
			if failed > 0 {
				return fmt.Errorf("broadcast failed for %d of %d players", failed, len(recipients))
			}
			return nil
		},
	})

	return RespondWithEmbed(s, i, "📣 Broadcast Queued",
		fmt.Sprintf("Sending your message to **%d** players.", len(recipients)), nil)
}
