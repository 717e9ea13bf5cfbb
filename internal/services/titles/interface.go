package titles

import "context"

// Service defines the interface for title shop operations
type Service interface {
	// ListTitles returns the catalog decorated with the user's state
	ListTitles(ctx context.Context, input *ListTitlesInput) (*ListTitlesOutput, error)

	// Buy purchases a title, debiting the external balance by its price
	Buy(ctx context.Context, input *BuyInput) (*BuyOutput, error)

	// Equip sets an owned title as the displayed one
	Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error)

	// Unequip clears the displayed title
	Unequip(ctx context.Context, input *UnequipInput) (*UnequipOutput, error)

	// Grant gives a user a title without payment; admin escape hatch
	Grant(ctx context.Context, input *GrantInput) (*GrantOutput, error)

	// GetInventory returns a user's owned and equipped titles
	GetInventory(ctx context.Context, input *GetInventoryInput) (*GetInventoryOutput, error)
}
