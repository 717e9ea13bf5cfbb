package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkgame/inkbot/internal/common/clock"
	"github.com/inkgame/inkbot/internal/common/uuid"
	"github.com/inkgame/inkbot/internal/config"
	"github.com/inkgame/inkbot/internal/economy"
	"github.com/inkgame/inkbot/internal/handlers/discord"
	"github.com/inkgame/inkbot/internal/numbers"
	"github.com/inkgame/inkbot/internal/repositories/guildstate"
	"github.com/inkgame/inkbot/internal/services/backup"
	"github.com/inkgame/inkbot/internal/services/registration"
	"github.com/inkgame/inkbot/internal/services/titles"
	"github.com/inkgame/inkbot/internal/store"
	"github.com/inkgame/inkbot/internal/tasks"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Local development convenience; a missing .env is fine
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	repo, err := newRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to create storage backend: %v", err)
	}

	guildStore, err := store.New(&store.Config{Repo: repo})
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := guildStore.Load(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to load guild state: %v", err)
	}
	cancel()
	log.Printf("Loaded state for %d guilds (%s backend)", guildStore.GuildCount(), cfg.StorageBackend)

	economyClient, err := economy.NewHTTP(&economy.Config{Token: cfg.EconomyToken})
	if err != nil {
		log.Fatalf("Failed to create economy client: %v", err)
	}

	registrationSvc, err := registration.New(&registration.Config{
		Store:   guildStore,
		Economy: economyClient,
		Numbers: numbers.NewSource(&numbers.Config{}),
	})
	if err != nil {
		log.Fatalf("Failed to create registration service: %v", err)
	}

	titlesSvc, err := titles.New(&titles.Config{
		Store:   guildStore,
		Economy: economyClient,
	})
	if err != nil {
		log.Fatalf("Failed to create titles service: %v", err)
	}

	backupSvc, err := backup.New(&backup.Config{
		Store: guildStore,
		Clock: &clock.DefaultClock{},
		UUIDs: uuid.New(),
	})
	if err != nil {
		log.Fatalf("Failed to create backup service: %v", err)
	}

	runner := tasks.NewRunner(&tasks.Config{})
	runner.Start()

	bot, err := discord.New(&discord.Config{
		Token:         cfg.Token,
		ApplicationID: cfg.ApplicationID,
		GuildID:       cfg.GuildID,
		Registration:  registrationSvc,
		Titles:        titlesSvc,
		Backups:       backupSvc,
		Tasks:         runner,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	// Drain pending background work, then write a final save
	runner.Stop()

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := guildStore.SaveAll(ctx); err != nil {
		log.Printf("Final save failed: %v", err)
	}

	log.Println("Bot has been shut down")
}

// newRepository selects the persistence backend from configuration.
func newRepository(cfg *config.Config) (guildstate.Repository, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		return guildstate.NewRedis(&guildstate.RedisConfig{RedisClient: client})
	default:
		return guildstate.NewFile(&guildstate.FileConfig{Path: cfg.DataFile})
	}
}
