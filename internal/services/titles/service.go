package titles

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkgame/inkbot/internal/economy"
	"github.com/inkgame/inkbot/internal/models"
	"github.com/inkgame/inkbot/internal/store"
)

// catalog is the fixed title table, in display order. Only per-user
// ownership and equip state is persisted, never the catalog itself.
var catalog = []Title{
	{Name: "VIP", Price: 50000},
	{Name: "Survivor", Price: 75000},
	{Name: "Legend", Price: 100000},
	{Name: "Champion", Price: 150000},
	{Name: "High Roller", Price: 250000},
	{Name: "Content Creator", Price: 0, GrantOnly: true},
}

func lookup(name string) (Title, bool) {
	for _, t := range catalog {
		if t.Name == name {
			return t, true
		}
	}
	return Title{}, false
}

// service implements the Service interface
type service struct {
	store   *store.Store
	economy economy.Client
}

// New creates a new titles service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Store == nil {
		return nil, ErrNilStore
	}
	if cfg.Economy == nil {
		return nil, ErrNilEconomy
	}

	return &service{
		store:   cfg.Store,
		economy: cfg.Economy,
	}, nil
}

// ListTitles returns the catalog decorated with the user's ownership state.
func (s *service) ListTitles(ctx context.Context, input *ListTitlesInput) (*ListTitlesOutput, error) {
	out := &ListTitlesOutput{
		Titles: make([]CatalogEntry, 0, len(catalog)),
	}

	s.store.View(input.GuildID, input.GuildName, func(cfg *models.GuildConfig) {
		inv := cfg.PlayerTitles[input.UserID]
		for _, t := range catalog {
			entry := CatalogEntry{Title: t}
			if inv != nil {
				entry.Owned = inv.Owned.Contains(t.Name)
				entry.Equipped = inv.Equipped == t.Name
			}
			out.Titles = append(out.Titles, entry)
		}
	})

	return out, nil
}

// Buy purchases a title. The balance check and debit talk to the external
// economy API; the inventory mutation happens only after the debit succeeds,
// so a failed debit leaves the user's record untouched.
func (s *service) Buy(ctx context.Context, input *BuyInput) (*BuyOutput, error) {
	title, ok := lookup(input.Title)
	if !ok {
		return nil, ErrUnknownTitle
	}
	if title.GrantOnly {
		return nil, ErrNotPurchasable
	}

	var alreadyOwned bool
	s.store.View(input.GuildID, input.GuildName, func(cfg *models.GuildConfig) {
		if inv := cfg.PlayerTitles[input.UserID]; inv != nil {
			alreadyOwned = inv.Owned.Contains(title.Name)
		}
	})
	if alreadyOwned {
		return nil, ErrAlreadyOwned
	}

	out := &BuyOutput{Title: title}

	if title.Price > 0 {
		balance, err := s.economy.GetBalance(ctx, input.GuildID, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBalanceCheck, err)
		}
		out.Balance = balance.Total()

		if out.Balance < title.Price {
			return nil, ErrInsufficientFunds
		}

		if err := s.economy.AdjustBalance(ctx, input.GuildID, input.UserID, -title.Price); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDebitFailed, err)
		}
	}

	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		inv := cfg.PlayerTitles[input.UserID]
		if inv == nil {
			inv = &models.TitleInventory{Owned: make(models.StringSet)}
			cfg.PlayerTitles[input.UserID] = inv
		}

		// A parallel purchase can land between the ownership precheck and
		// this point; the debit has already happened, so the loser of the
		// race gets a refund instead of a second copy
		if inv.Owned.Contains(title.Name) {
			return ErrAlreadyOwned
		}

		inv.Owned.Add(title.Name)
		if inv.Equipped == "" {
			inv.Equipped = title.Name
			out.AutoEquipped = true
		}
		return nil
	})
	if errors.Is(err, ErrAlreadyOwned) {
		if title.Price > 0 {
			if refundErr := s.economy.AdjustBalance(ctx, input.GuildID, input.UserID, title.Price); refundErr != nil {
				return nil, fmt.Errorf("%w: refund failed: %v", ErrAlreadyOwned, refundErr)
			}
		}
		return nil, ErrAlreadyOwned
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Equip sets an owned title as the displayed one.
func (s *service) Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error) {
	if _, ok := lookup(input.Title); !ok {
		return nil, ErrUnknownTitle
	}

	out := &EquipOutput{}

	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		inv := cfg.PlayerTitles[input.UserID]
		if inv == nil || !inv.Owned.Contains(input.Title) {
			return ErrNotOwned
		}

		out.Previous = inv.Equipped
		inv.Equipped = input.Title
		out.Equipped = input.Title
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Unequip clears the displayed title.
func (s *service) Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error) {
	out := &UnequipOutput{}

	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		inv := cfg.PlayerTitles[input.UserID]
		if inv == nil || inv.Equipped == "" {
			return ErrNothingEquipped
		}

		out.Removed = inv.Equipped
		inv.Equipped = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Grant gives a user a title without payment. Granting an owned title is
// reported, not an error, so admins can use it idempotently.
func (s *service) Grant(ctx context.Context, input *GrantInput) (*GrantOutput, error) {
	title, ok := lookup(input.Title)
	if !ok {
		return nil, ErrUnknownTitle
	}

	out := &GrantOutput{Title: title}

	err := s.store.Update(ctx, input.GuildID, input.GuildName, func(cfg *models.GuildConfig) error {
		inv := cfg.PlayerTitles[input.UserID]
		if inv == nil {
			inv = &models.TitleInventory{Owned: make(models.StringSet)}
			cfg.PlayerTitles[input.UserID] = inv
		}

		if inv.Owned.Contains(title.Name) {
			out.AlreadyOwned = true
			return nil
		}

		inv.Owned.Add(title.Name)
		if inv.Equipped == "" {
			inv.Equipped = title.Name
			out.AutoEquipped = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// GetInventory returns a user's owned and equipped titles in catalog order.
func (s *service) GetInventory(ctx context.Context, input *GetInventoryInput) (*GetInventoryOutput, error) {
	out := &GetInventoryOutput{}

	s.store.View(input.GuildID, input.GuildName, func(cfg *models.GuildConfig) {
		inv := cfg.PlayerTitles[input.UserID]
		if inv == nil {
			return
		}

		out.Equipped = inv.Equipped
		for _, t := range catalog {
			if inv.Owned.Contains(t.Name) {
				out.Owned = append(out.Owned, t.Name)
			}
		}
	})

	return out, nil
}
