package titles

import (
	"github.com/inkgame/inkbot/internal/economy"
	"github.com/inkgame/inkbot/internal/store"
)

// Title is one catalog entry. The catalog is a fixed table; only per-user
// ownership and equip state is persisted.
type Title struct {
	// Name is the display name and catalog key
	Name string

	// Price is the cost in economy currency; zero means grant-only
	Price int64

	// GrantOnly titles cannot be bought, only granted by an admin
	GrantOnly bool
}

// Config holds configuration for the titles service
type Config struct {
	// Store is the guild configuration store
	Store *store.Store

	// Economy is the external balance API client
	Economy economy.Client
}

// ListTitlesInput contains parameters for listing the catalog
type ListTitlesInput struct {
	GuildID   string
	GuildName string

	// UserID scopes the ownership flags in the listing
	UserID string
}

// CatalogEntry is one title in the listing, decorated with the user's state
type CatalogEntry struct {
	Title

	// Owned is true when the requesting user owns the title
	Owned bool

	// Equipped is true when the requesting user has the title equipped
	Equipped bool
}

// ListTitlesOutput contains the decorated catalog
type ListTitlesOutput struct {
	Titles []CatalogEntry
}

// BuyInput contains parameters for purchasing a title
type BuyInput struct {
	GuildID   string
	GuildName string

	UserID string
	Title  string
}

// BuyOutput contains the result of a purchase
type BuyOutput struct {
	// Title is the catalog entry that was bought
	Title Title

	// AutoEquipped is true when the purchase equipped the title because
	// nothing was equipped before
	AutoEquipped bool

	// Balance is the user's total balance before the debit
	Balance int64
}

// EquipInput contains parameters for equipping an owned title
type EquipInput struct {
	GuildID   string
	GuildName string

	UserID string
	Title  string
}

// EquipOutput contains the result of equipping
type EquipOutput struct {
	// Previous is the title that was equipped before, empty if none
	Previous string

	// Equipped is the title now equipped
	Equipped string
}

// UnequipInput contains parameters for clearing the equipped title
type UnequipInput struct {
	GuildID   string
	GuildName string

	UserID string
}

// UnequipOutput contains the result of unequipping
type UnequipOutput struct {
	// Removed is the title that was unequipped
	Removed string
}

// GrantInput contains parameters for the admin grant operation
type GrantInput struct {
	GuildID   string
	GuildName string

	// UserID is the recipient
	UserID string

	// Title is the catalog entry to grant
	Title string
}

// GrantOutput contains the result of a grant
type GrantOutput struct {
	Title Title

	// AutoEquipped is true when the grant equipped the title
	AutoEquipped bool

	// AlreadyOwned is true when the recipient already had the title
	AlreadyOwned bool
}

// GetInventoryInput contains parameters for an inventory query
type GetInventoryInput struct {
	GuildID   string
	GuildName string

	UserID string
}

// GetInventoryOutput contains the user's owned and equipped titles
type GetInventoryOutput struct {
	// Owned lists owned titles in catalog order
	Owned []string

	// Equipped is the displayed title, empty if none
	Equipped string
}
