package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/inkgame/inkbot/internal/services/titles"
)

// contentCreatorTitle is the grant-only title behind the /cc command.
const contentCreatorTitle = "Content Creator"

// titleErrorMessage maps titles sentinel errors to user-facing text.
func titleErrorMessage(err error) string {
	switch {
	case errors.Is(err, titles.ErrUnknownTitle):
		return "That title does not exist. Use `/titles` to see the shop."
	case errors.Is(err, titles.ErrAlreadyOwned):
		return "You already own that title."
	case errors.Is(err, titles.ErrNotOwned):
		return "You do not own that title. Use `/buy` first."
	case errors.Is(err, titles.ErrNotPurchasable):
		return "That title cannot be bought."
	case errors.Is(err, titles.ErrInsufficientFunds):
		return "You cannot afford that title."
	case errors.Is(err, titles.ErrNothingEquipped):
		return "You have no title equipped."
	default:
		return err.Error()
	}
}

func titleNameOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "title",
		Description: "The title name",
		Required:    true,
	}
}

func (b *Bot) titleCommands() []CommandHandler {
	return []CommandHandler{
		&Command{
			Name:        "titles",
			Description: "Show the title shop",
			Handler:     b.handleTitles,
		},
		&Command{
			Name:        "buy",
			Description: "Buy a title from the shop",
			Options:     []*discordgo.ApplicationCommandOption{titleNameOption()},
			Handler:     b.handleBuy,
		},
		&Command{
			Name:        "equip",
			Description: "Equip a title you own",
			Options:     []*discordgo.ApplicationCommandOption{titleNameOption()},
			Handler:     b.handleEquip,
		},
		&Command{
			Name:        "unequip",
			Description: "Remove your equipped title",
			Handler:     b.handleUnequip,
		},
		&Command{
			Name:        "inv",
			Description: "Show the titles you own",
			Handler:     b.handleInventory,
		},
		&Command{
			Name:        "mytitle",
			Description: "Show your equipped title",
			Handler:     b.handleMyTitle,
		},
		&Command{
			Name:        "cc",
			Description: "Grant the Content Creator title to a user",
			AdminOnly:   true,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The user to grant the title to",
					Required:    true,
				},
			},
			Handler: b.handleContentCreator,
		},
	}
}

func (b *Bot) handleTitles(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.titles.ListTitles(ctx, &titles.ListTitlesInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
		UserID:    i.Member.User.ID,
	})
	if err != nil {
		return RespondWithError(s, i, titleErrorMessage(err))
	}

	var sb strings.Builder
	for _, entry := range out.Titles {
		price := formatMoney(entry.Price)
		if entry.GrantOnly {
			price = "granted only"
		}
		sb.WriteString(fmt.Sprintf("**%s** — %s", entry.Name, price))
		if entry.Equipped {
			sb.WriteString(" ✅ equipped")
		} else if entry.Owned {
			sb.WriteString(" ✔️ owned")
		}
		sb.WriteString("\n")
	}

	return RespondWithEmbed(s, i, "🛒 Title Shop",
		sb.String()+"\nBuy with `/buy`, show one off with `/equip`.", nil)
}

func (b *Bot) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.titles.Buy(ctx, &titles.BuyInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
		UserID:    i.Member.User.ID,
		Title:     optionMap(i)["title"].StringValue(),
	})
	if err != nil {
		return RespondWithError(s, i, titleErrorMessage(err))
	}

	description := fmt.Sprintf("You bought **%s** for %s.", out.Title.Name, formatMoney(out.Title.Price))
	if out.AutoEquipped {
		description += " It has been equipped."
	}

	b.scheduleLeaderboardRefresh(s, i.GuildID)
	b.scheduleBackup(s, i.GuildID)

	return RespondWithEmbed(s, i, "🛒 Purchase Complete", description, nil)
}

func (b *Bot) handleEquip(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.titles.Equip(ctx, &titles.EquipInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
		UserID:    i.Member.User.ID,
		Title:     optionMap(i)["title"].StringValue(),
	})
	if err != nil {
		return RespondWithError(s, i, titleErrorMessage(err))
	}

	b.scheduleLeaderboardRefresh(s, i.GuildID)
	b.scheduleBackup(s, i.GuildID)

	return RespondWithEmbed(s, i, "🎖️ Title Equipped",
		fmt.Sprintf("You are now displaying **%s**.", out.Equipped), nil)
}

func (b *Bot) handleUnequip(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.titles.Unequip(ctx, &titles.UnequipInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
		UserID:    i.Member.User.ID,
	})
	if err != nil {
		return RespondWithError(s, i, titleErrorMessage(err))
	}

	b.scheduleLeaderboardRefresh(s, i.GuildID)
	b.scheduleBackup(s, i.GuildID)

	return RespondWithEmbed(s, i, "🎖️ Title Removed",
		fmt.Sprintf("**%s** is no longer displayed.", out.Removed), nil)
}

func (b *Bot) handleInventory(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.titles.GetInventory(ctx, &titles.GetInventoryInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
		UserID:    i.Member.User.ID,
	})
	if err != nil {
		return RespondWithError(s, i, titleErrorMessage(err))
	}

	if len(out.Owned) == 0 {
		return RespondWithEmbed(s, i, "🎒 Inventory", "You own no titles yet. Browse the shop with `/titles`.", nil)
	}

	var sb strings.Builder
	for _, title := range out.Owned {
		sb.WriteString("• " + title)
		if title == out.Equipped {
			sb.WriteString(" ✅")
		}
		sb.WriteString("\n")
	}

	return RespondWithEmbed(s, i, "🎒 Inventory", sb.String(), nil)
}

func (b *Bot) handleMyTitle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := b.titles.GetInventory(ctx, &titles.GetInventoryInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
		UserID:    i.Member.User.ID,
	})
	if err != nil {
		return RespondWithError(s, i, titleErrorMessage(err))
	}

	if out.Equipped == "" {
		return RespondWithEmbed(s, i, "🎖️ Your Title", "You have no title equipped.", nil)
	}

	return RespondWithEmbed(s, i, "🎖️ Your Title",
		fmt.Sprintf("You are displaying **%s**.", out.Equipped), nil)
}

func (b *Bot) handleContentCreator(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	user := optionMap(i)["user"].UserValue(s)

	out, err := b.titles.Grant(ctx, &titles.GrantInput{
		GuildID:   i.GuildID,
		GuildName: b.guildName(s, i),
		UserID:    user.ID,
		Title:     contentCreatorTitle,
	})
	if err != nil {
		return RespondWithError(s, i, titleErrorMessage(err))
	}

	if out.AlreadyOwned {
		return RespondWithEmbed(s, i, "🎬 Content Creator",
			fmt.Sprintf("<@%s> already has the **%s** title.", user.ID, contentCreatorTitle), nil)
	}

	b.scheduleLeaderboardRefresh(s, i.GuildID)
	b.scheduleBackup(s, i.GuildID)

	return RespondWithEmbed(s, i, "🎬 Content Creator",
		fmt.Sprintf("<@%s> has been granted the **%s** title.", user.ID, contentCreatorTitle), nil)
}
