package titles

import "errors"

var (
	// ErrUnknownTitle is returned when a title is not in the catalog
	ErrUnknownTitle = errors.New("title is not in the catalog")

	// ErrAlreadyOwned is returned when buying a title the user already owns
	ErrAlreadyOwned = errors.New("title is already owned")

	// ErrNotOwned is returned when equipping a title the user does not own
	ErrNotOwned = errors.New("title is not owned")

	// ErrNotPurchasable is returned when buying a grant-only title
	ErrNotPurchasable = errors.New("title cannot be purchased")

	// ErrInsufficientFunds is returned when the user's balance is below the price
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNothingEquipped is returned when unequipping with no title equipped
	ErrNothingEquipped = errors.New("no title is equipped")

	// ErrBalanceCheck is returned when the economy API balance lookup fails
	ErrBalanceCheck = errors.New("failed to check balance")

	// ErrDebitFailed is returned when the economy API debit call fails
	ErrDebitFailed = errors.New("failed to debit balance")

	// ErrNilConfig is returned when the service config is nil
	ErrNilConfig = errors.New("config cannot be nil")

	// ErrNilStore is returned when the store is nil
	ErrNilStore = errors.New("store cannot be nil")

	// ErrNilEconomy is returned when the economy client is nil
	ErrNilEconomy = errors.New("economy client cannot be nil")
)
