package registration

import (
	"time"

	"github.com/inkgame/inkbot/internal/economy"
	"github.com/inkgame/inkbot/internal/numbers"
	"github.com/inkgame/inkbot/internal/store"
)

// LeaderboardPageSize is the number of entries shown per leaderboard page.
const LeaderboardPageSize = 10

// DefaultPrizeTable holds the fixed top-3 payouts, first place first.
var DefaultPrizeTable = []int64{1000000, 500000, 250000}

// Config holds configuration for the registration service
type Config struct {
	// Store is the guild configuration store
	Store *store.Store

	// Economy is the external balance API client
	Economy economy.Client

	// Numbers provides randomness for number allocation
	Numbers numbers.Source

	// PayoutDelay paces per-user external API calls during settlement to
	// stay under platform rate limits. Zero means the 500ms default; a
	// negative value disables pacing.
	PayoutDelay time.Duration

	// PrizeTable overrides the top-3 prize amounts
	PrizeTable []int64
}

// StartRegistrationInput contains parameters for opening registration
type StartRegistrationInput struct {
	GuildID   string
	GuildName string
}

// StartRegistrationOutput contains the result of opening registration
type StartRegistrationOutput struct {
	// AvailableSpots is the remaining capacity
	AvailableSpots int

	// MaxPlayers is the capacity ceiling
	MaxPlayers int

	// MinNumber and MaxNumber are the number-space bounds
	MinNumber int
	MaxNumber int
}

// EndPhaseResult identifies which phase an end call performed
type EndPhaseResult string

const (
	// EndPhaseClosed indicates registration was closed, game still active
	EndPhaseClosed EndPhaseResult = "closed"

	// EndPhaseSettled indicates the game was settled and per-cycle state reset
	EndPhaseSettled EndPhaseResult = "settled"
)

// EndPhaseInput contains parameters for advancing the end state machine
type EndPhaseInput struct {
	GuildID   string
	GuildName string
}

// SettledPlayer is one participant processed during settlement
type SettledPlayer struct {
	// UserID is the player's Discord user ID
	UserID string

	// Number is the player's formatted game number
	Number string
}

// PrizeAward records one top-3 prize payment
type PrizeAward struct {
	// Place is the 1-based finishing place
	Place int

	// UserID is the winner's Discord user ID
	UserID string

	// Amount is the prize paid
	Amount int64
}

// SettlementResult contains the outcome of the settlement run
type SettlementResult struct {
	// Players is the registration order at settlement time
	Players []SettledPlayer

	// RewardAmount is the flat payout attempted per participant
	RewardAmount int64

	// RewardsPaid counts successful reward credits
	RewardsPaid int

	// PrizeAwards lists the top-3 prizes that were paid
	PrizeAwards []PrizeAward

	// PrizesSkipped is true when prizes were not attempted this call, either
	// because fewer than 3 players registered or they were already paid
	PrizesSkipped bool

	// PayoutErrors collects per-user economy API failures
	PayoutErrors []string

	// RoleName is the registration role to strip from participants
	RoleName string
}

// EndPhaseOutput contains the result of an end call
type EndPhaseOutput struct {
	// Phase is which transition this call performed
	Phase EndPhaseResult

	// RegisteredCount is the number of registrants at the time of the call
	RegisteredCount int

	// MaxPlayers is the capacity ceiling
	MaxPlayers int

	// Settlement is set when Phase is EndPhaseSettled
	Settlement *SettlementResult
}

// RegisterPlayerInput contains parameters for enrolling a player
type RegisterPlayerInput struct {
	GuildID   string
	GuildName string

	// UserID is the Discord user ID of the registrant
	UserID string

	// DisplayName is the registrant's current display name
	DisplayName string
}

// RegisterPlayerOutput contains the result of a successful registration
type RegisterPlayerOutput struct {
	// Number is the formatted 3-digit game number
	Number string

	// Position is the player's 1-based place in the registration order
	Position int

	// MaxPlayers is the capacity ceiling
	MaxPlayers int

	// RoleName is the role the handler should grant
	RoleName string

	// Nickname is the suffixed display name the handler should apply
	Nickname string
}

// ResetPlayerInput contains parameters for removing a single registration
type ResetPlayerInput struct {
	GuildID   string
	GuildName string

	// UserID is the Discord user ID of the player to reset
	UserID string

	// DisplayName is the player's current display name
	DisplayName string

	// Username is the player's base handle, the suffix-strip fallback
	Username string
}

// ResetPlayerOutput contains the result of resetting a player
type ResetPlayerOutput struct {
	// FreedNumber is the formatted number returned to the pool
	FreedNumber string

	// RestoredNick is the display name with the number suffix removed
	RestoredNick string

	// RoleName is the role the handler should remove
	RoleName string

	// RegisteredCount is the remaining number of registrants
	RegisteredCount int

	// MaxPlayers is the capacity ceiling
	MaxPlayers int
}

// ChangeNumberInput contains parameters for reassigning a player's number
type ChangeNumberInput struct {
	GuildID   string
	GuildName string

	// UserID is the Discord user ID of the player
	UserID string

	// DisplayName is the player's current display name
	DisplayName string

	// Number is the requested new number
	Number int
}

// ChangeNumberOutput contains the result of a number change
type ChangeNumberOutput struct {
	// OldNumber is the formatted number that was freed
	OldNumber string

	// NewNumber is the formatted number now assigned
	NewNumber string

	// Nickname is the re-suffixed display name the handler should apply
	Nickname string
}

// GetStatusInput contains parameters for a status query
type GetStatusInput struct {
	GuildID   string
	GuildName string
}

// GetStatusOutput reports the guild's registration and game state
type GetStatusOutput struct {
	RegistrationOpen bool
	GameActive       bool

	RegisteredCount int
	MaxPlayers      int
	AvailableSpots  int

	UsedNumbers  int
	TotalNumbers int
	MinNumber    int
	MaxNumber    int

	RewardAmount int64
	RoleName     string
	Language     string

	BackupChannelID      string
	LeaderboardChannelID string
	LeaderboardMessageID string
}

// ListPlayersInput contains parameters for listing registrants
type ListPlayersInput struct {
	GuildID   string
	GuildName string
}

// PlayerEntry is one registered player in registration order
type PlayerEntry struct {
	// UserID is the player's Discord user ID
	UserID string

	// Number is the player's formatted game number
	Number string

	// Position is the player's 1-based place in the registration order
	Position int

	// EquippedTitle is the player's displayed title, empty if none
	EquippedTitle string
}

// ListPlayersOutput contains the registered players in order
type ListPlayersOutput struct {
	Players []PlayerEntry

	RegistrationOpen bool
	GameActive       bool
	MaxPlayers       int
}

// FreeNumbersInput contains parameters for a free-number query
type FreeNumbersInput struct {
	GuildID   string
	GuildName string

	// SampleSize bounds how many free numbers are listed; default 30
	SampleSize int
}

// FreeNumbersOutput reports the remaining number space
type FreeNumbersOutput struct {
	// FreeCount is how many numbers remain unallocated
	FreeCount int

	// TotalCount is the size of the number space
	TotalCount int

	// Sample lists the lowest free numbers, at most SampleSize of them
	Sample []int
}

// SetMaxPlayersInput contains parameters for changing capacity
type SetMaxPlayersInput struct {
	GuildID   string
	GuildName string

	MaxPlayers int
}

// SetMaxPlayersOutput contains the result of a capacity change
type SetMaxPlayersOutput struct {
	MaxPlayers      int
	RegisteredCount int
}

// SetRewardAmountInput contains parameters for changing the settlement payout
type SetRewardAmountInput struct {
	GuildID   string
	GuildName string

	Amount int64
}

// SetRewardAmountOutput contains the result of a payout change
type SetRewardAmountOutput struct {
	Amount int64
}

// SetLanguageInput contains parameters for changing the guild language
type SetLanguageInput struct {
	GuildID   string
	GuildName string

	Code string
}

// SetLanguageOutput contains the result of a language change
type SetLanguageOutput struct {
	Code string
}

// SetBackupChannelInput contains parameters for designating the backup channel
type SetBackupChannelInput struct {
	GuildID   string
	GuildName string

	ChannelID string
}

// SetBackupChannelOutput contains the result of the designation
type SetBackupChannelOutput struct {
	ChannelID string
}

// SetLeaderboardMessageInput records where the live leaderboard lives
type SetLeaderboardMessageInput struct {
	GuildID   string
	GuildName string

	ChannelID string
	MessageID string
}

// SetLeaderboardMessageOutput contains the result of recording the pointer
type SetLeaderboardMessageOutput struct {
	ChannelID string
	MessageID string
}

// ClearLeaderboardMessageInput drops a stale leaderboard pointer
type ClearLeaderboardMessageInput struct {
	GuildID   string
	GuildName string
}

// ClearLeaderboardMessageOutput contains the result of the clearing
type ClearLeaderboardMessageOutput struct {
	Cleared bool
}

// GetLeaderboardPageInput contains parameters for building a leaderboard page
type GetLeaderboardPageInput struct {
	GuildID   string
	GuildName string

	// Page is 1-based; out-of-range values are clamped
	Page int
}

// LeaderboardEntry is one row of the leaderboard view
type LeaderboardEntry struct {
	// Position is the player's 1-based place in the registration order
	Position int

	// UserID is the player's Discord user ID
	UserID string

	// Number is the player's formatted game number
	Number string

	// EquippedTitle is the player's displayed title, empty if none
	EquippedTitle string
}

// PrizeTier is one row of the fixed top-3 prize table
type PrizeTier struct {
	Place  int
	Amount int64
}

// GetLeaderboardPageOutput contains one rendered page of the leaderboard
type GetLeaderboardPageOutput struct {
	Page       int
	TotalPages int

	TotalPlayers int
	MaxPlayers   int

	Entries []LeaderboardEntry

	// ShowPrizes is true when at least 3 players are registered
	ShowPrizes bool
	Prizes     []PrizeTier
}
