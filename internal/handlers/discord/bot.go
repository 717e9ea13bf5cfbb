package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/inkgame/inkbot/internal/services/backup"
	"github.com/inkgame/inkbot/internal/services/registration"
	"github.com/inkgame/inkbot/internal/services/titles"
	"github.com/inkgame/inkbot/internal/tasks"
)

// restoreConfirmTimeout bounds how long a restore confirmation prompt stays
// valid before it self-cancels.
const restoreConfirmTimeout = 60 * time.Second

// cosmeticsDelay paces per-member role and nickname calls during settlement
// and broadcast loops.
const cosmeticsDelay = 500 * time.Millisecond

// Component custom ID prefixes for the restore confirmation prompt.
const (
	componentRestoreConfirm = "restore_confirm:"
	componentRestoreCancel  = "restore_cancel:"
)

// pendingRestore is a validated snapshot waiting on human confirmation.
type pendingRestore struct {
	guildID   string
	guildName string
	userID    string
	data      []byte
	timer     *time.Timer
}

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID

	registration registration.Service
	titles       titles.Service
	backups      backup.Service
	tasks        *tasks.Runner

	restoreMu       sync.Mutex
	pendingRestores map[string]*pendingRestore

	config *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Domain services
	Registration registration.Service
	Titles       titles.Service
	Backups      backup.Service

	// Tasks runs fire-and-forget background work
	Tasks *tasks.Runner
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}
	if cfg.Registration == nil {
		return nil, errors.New("registration service cannot be nil")
	}
	if cfg.Titles == nil {
		return nil, errors.New("titles service cannot be nil")
	}
	if cfg.Backups == nil {
		return nil, errors.New("backup service cannot be nil")
	}
	if cfg.Tasks == nil {
		return nil, errors.New("task runner cannot be nil")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:         session,
		commands:        make(map[string]CommandHandler),
		commandIDs:      make(map[string]string),
		registration:    cfg.Registration,
		titles:          cfg.Titles,
		backups:         cfg.Backups,
		tasks:           cfg.Tasks,
		pendingRestores: make(map[string]*pendingRestore),
		config:          cfg,
	}

	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	for _, cmd := range b.allCommands() {
		if err := b.RegisterCommand(cmd); err != nil {
			return fmt.Errorf("failed to register %s command: %w", cmd.GetName(), err)
		}
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
		log.Printf("Registering command %s for guild %s", cmd.GetName(), guildID)
	} else {
		log.Printf("Registering command %s globally", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID

	return nil
}

// allCommands assembles the full command surface.
func (b *Bot) allCommands() []CommandHandler {
	var all []CommandHandler
	all = append(all, b.eventCommands()...)
	all = append(all, b.persistenceCommands()...)
	all = append(all, b.titleCommands()...)
	all = append(all, b.leaderboardCommands()...)
	all = append(all, b.miscCommands()...)
	return all
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in interaction handler: %v", r)
			_ = RespondWithError(s, i, "Something went wrong. Please try again.")
		}
	}()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				log.Printf("Error handling command %s: %v", i.ApplicationCommandData().Name, err)
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(s, i); err != nil {
			log.Printf("Error handling component interaction: %v", err)
		}
	}
}

// handleComponentInteraction handles button clicks
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID

	switch {
	case strings.HasPrefix(customID, componentRestoreConfirm):
		return b.handleRestoreConfirm(s, i, strings.TrimPrefix(customID, componentRestoreConfirm))
	case strings.HasPrefix(customID, componentRestoreCancel):
		return b.handleRestoreCancel(s, i, strings.TrimPrefix(customID, componentRestoreCancel))
	default:
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Unknown button: %s", customID))
	}
}

// guildName resolves the display name of the interaction's guild, best effort.
func (b *Bot) guildName(s *discordgo.Session, i *discordgo.InteractionCreate) string {
	if guild, err := s.State.Guild(i.GuildID); err == nil {
		return guild.Name
	}
	if guild, err := s.Guild(i.GuildID); err == nil {
		return guild.Name
	}
	return ""
}

// scheduleLeaderboardRefresh queues a background re-render of the guild's
// live leaderboard message. The triggering handler never waits on it.
func (b *Bot) scheduleLeaderboardRefresh(s *discordgo.Session, guildID string) {
	b.tasks.Submit(tasks.Task{
		Name: "leaderboard-refresh",
		Run: func(ctx context.Context) error {
			return b.refreshLeaderboard(ctx, s, guildID)
		},
	})
}

// scheduleBackup queues a background snapshot post to the guild's backup
// channel, if one is configured.
func (b *Bot) scheduleBackup(s *discordgo.Session, guildID string) {
	b.tasks.Submit(tasks.Task{
		Name: "channel-backup",
		Run: func(ctx context.Context) error {
			return b.postBackup(ctx, s, guildID)
		},
	})
}
