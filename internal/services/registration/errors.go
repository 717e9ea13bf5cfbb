package registration

import "errors"

// Define errors
var (
	ErrRegistrationOpen   = errors.New("registration is already open")
	ErrRegistrationClosed = errors.New("registration is closed")
	ErrGameInProgress     = errors.New("a game is still in progress")
	ErrGameNotActive      = errors.New("game is not active")
	ErrAlreadyRegistered  = errors.New("player is already registered")
	ErrNotRegistered      = errors.New("player is not registered")
	ErrCapacityReached    = errors.New("all spots are taken")
	ErrNumbersExhausted   = errors.New("all numbers have been allocated")
	ErrNumberOutOfRange   = errors.New("number is outside the guild's range")
	ErrNumberTaken        = errors.New("number is already taken")
	ErrInvalidCapacity    = errors.New("capacity must be a positive number")
	ErrCapacityBelowCount = errors.New("capacity cannot be below the current player count")
	ErrInvalidAmount      = errors.New("amount cannot be negative")
	ErrUnsupportedLang    = errors.New("unsupported language code")
	ErrNilConfig          = errors.New("config cannot be nil")
	ErrNilStore           = errors.New("store cannot be nil")
	ErrNilEconomy         = errors.New("economy client cannot be nil")
	ErrNilNumberSource    = errors.New("number source cannot be nil")
)
